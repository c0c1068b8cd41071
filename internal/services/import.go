package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"pontos/internal/core"
	applog "pontos/internal/log"
	"pontos/internal/ports"
)

var ErrInvalidBackup = errors.New("invalid backup")

// ImportTarget is where a backup is written to.
type ImportTarget interface {
	ports.ChildWriter
	ports.ActivityWriter
	ports.ExpenseWriter
}

// Backup is the exported JSON document. Activities and expenses reference
// children by the ids they had when exported; records may also be nested
// inside their child.
type Backup struct {
	Version    string           `json:"version"`
	ExportDate *time.Time       `json:"exportDate,omitempty"`
	Children   []BackupChild    `json:"children"`
	Activities []BackupActivity `json:"activities,omitempty"`
	Expenses   []BackupExpense  `json:"expenses,omitempty"`
}

type BackupChild struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	InitialBalance int64            `json:"initialBalance"`
	StartDate      *time.Time       `json:"startDate,omitempty"`
	Activities     []BackupActivity `json:"activities,omitempty"`
	Expenses       []BackupExpense  `json:"expenses,omitempty"`
}

type BackupActivity struct {
	ChildID    int64      `json:"childId"`
	Name       string     `json:"name"`
	Points     int64      `json:"points"`
	Multiplier int64      `json:"multiplier"`
	Category   string     `json:"category"`
	Date       *time.Time `json:"date"`
}

type BackupExpense struct {
	ChildID     int64      `json:"childId"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	Date        *time.Time `json:"date"`
}

// ImportResult reports what one import wrote.
type ImportResult struct {
	BatchID    string
	Children   int
	Activities int
	Expenses   int
	Skipped    int
	ChildIDs   map[int64]int64 // exported id -> stored id
}

// ParseBackup decodes a backup document and checks its shape.
func ParseBackup(r io.Reader) (Backup, error) {
	var b Backup
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if b.Children == nil {
		return Backup{}, fmt.Errorf("%w: missing children", ErrInvalidBackup)
	}
	if err := checkChildIDs(b); err != nil {
		return Backup{}, err
	}
	return b, nil
}

// checkChildIDs rejects backups where two children share an exported id, since
// their records could not be told apart.
func checkChildIDs(b Backup) error {
	seen := make(map[int64]struct{}, len(b.Children))
	for _, bc := range b.Children {
		if _, dup := seen[bc.ID]; dup {
			return fmt.Errorf("%w: duplicate child id %d", ErrInvalidBackup, bc.ID)
		}
		seen[bc.ID] = struct{}{}
	}
	return nil
}

// Importer writes backups into a store.
type Importer struct {
	target ImportTarget
	now    func() time.Time
}

// NewImporter returns an importer that dates undated records with now.
func NewImporter(target ImportTarget, now func() time.Time) *Importer {
	if now == nil {
		now = time.Now
	}
	return &Importer{target: target, now: now}
}

// Import creates every child in b and then their history. Records that fail
// validation are skipped and counted; store errors abort the import. A backup
// with duplicate child ids is rejected before anything is written.
func (imp *Importer) Import(ctx context.Context, b Backup) (ImportResult, error) {
	res := ImportResult{
		BatchID:  uuid.NewString(),
		ChildIDs: make(map[int64]int64, len(b.Children)),
	}
	if err := checkChildIDs(b); err != nil {
		return res, err
	}
	now := imp.now()

	for i, bc := range b.Children {
		name := strings.TrimSpace(bc.Name)
		if name == "" {
			name = fmt.Sprintf("Criança %d", i+1)
		}
		child := core.Child{Name: name, InitialBalance: bc.InitialBalance}
		if bc.StartDate != nil {
			child.StartDate = *bc.StartDate
		}
		id, err := imp.target.CreateChild(ctx, child)
		if err != nil {
			return res, fmt.Errorf("import child %q: %w", name, err)
		}
		res.ChildIDs[bc.ID] = id
		res.Children++

		for _, ba := range bc.Activities {
			ba.ChildID = bc.ID
			if err := imp.activity(ctx, &res, ba, now); err != nil {
				return res, err
			}
		}
		for _, be := range bc.Expenses {
			be.ChildID = bc.ID
			if err := imp.expense(ctx, &res, be, now); err != nil {
				return res, err
			}
		}
	}

	for _, ba := range b.Activities {
		if err := imp.activity(ctx, &res, ba, now); err != nil {
			return res, err
		}
	}
	for _, be := range b.Expenses {
		if err := imp.expense(ctx, &res, be, now); err != nil {
			return res, err
		}
	}

	importLogger(ctx, res.BatchID).InfoContext(ctx, "Backup imported",
		"children", res.Children,
		"activities", res.Activities,
		"expenses", res.Expenses,
		"skipped", res.Skipped)
	return res, nil
}

func (imp *Importer) activity(ctx context.Context, res *ImportResult, ba BackupActivity, now time.Time) error {
	childID, ok := res.ChildIDs[ba.ChildID]
	if !ok {
		res.Skipped++
		return nil
	}
	a := core.Activity{
		ChildID:    childID,
		Name:       ba.Name,
		Points:     ba.Points,
		Multiplier: ba.Multiplier,
		Category:   core.Category(ba.Category),
		Date:       now,
	}
	if a.Category == "" {
		a.Category = core.Positivos
	}
	if a.Multiplier == 0 {
		a.Multiplier = 1
	}
	if ba.Date != nil {
		a.Date = *ba.Date
	}
	if err := a.Validate(); err != nil {
		importLogger(ctx, res.BatchID).WarnContext(ctx, "Skipping invalid activity", "name", ba.Name, "error", err)
		res.Skipped++
		return nil
	}
	if _, err := imp.target.AddActivity(ctx, a); err != nil {
		return fmt.Errorf("import activity %q: %w", a.Name, err)
	}
	res.Activities++
	return nil
}

func (imp *Importer) expense(ctx context.Context, res *ImportResult, be BackupExpense, now time.Time) error {
	childID, ok := res.ChildIDs[be.ChildID]
	if !ok {
		res.Skipped++
		return nil
	}
	e := core.Expense{
		ChildID:     childID,
		Description: be.Description,
		Amount:      be.Amount,
		Date:        now,
	}
	if be.Date != nil {
		e.Date = *be.Date
	}
	if err := e.Validate(); err != nil {
		importLogger(ctx, res.BatchID).WarnContext(ctx, "Skipping invalid expense", "description", be.Description, "error", err)
		res.Skipped++
		return nil
	}
	if _, err := imp.target.AddExpense(ctx, e); err != nil {
		return fmt.Errorf("import expense %q: %w", e.Description, err)
	}
	res.Expenses++
	return nil
}

func importLogger(ctx context.Context, batchID string) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentImport).With(applog.FieldBatchID, batchID, applog.FieldOperation, applog.OpImport)
}
