package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pontos/internal/amqp"
	"pontos/internal/balance"
	"pontos/internal/core"
	applog "pontos/internal/log"
	"pontos/internal/ports"
)

// ErrRangeTooLarge is returned when a child's history would produce more daily
// entries than the service allows.
var ErrRangeTooLarge = errors.New("ledger range too large")

// HistorySource is what a ledger is loaded from.
type HistorySource interface {
	ports.ChildReader
	ports.ActivityLister
	ports.ExpenseLister
}

// SnapshotPublisher receives recomputed balances. *amqp.Client implements it.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap *amqp.BalanceSnapshot) error
}

// ChildSummary is the headline view of a child's ledger.
type ChildSummary struct {
	ChildID        int64
	Name           string
	CurrentBalance int64
	Today          balance.DailyEntry
	Days           int
	AsOf           time.Time
}

// LedgerService loads a child's history and reconstructs its ledger
type LedgerService struct {
	source    HistorySource
	calc      *balance.Calculator
	maxDays   int
	publisher SnapshotPublisher
}

// NewLedgerService wires the service. maxDays <= 0 disables the range cap and a
// nil publisher makes Refresh compute without publishing.
func NewLedgerService(source HistorySource, calc *balance.Calculator, maxDays int, publisher SnapshotPublisher) *LedgerService {
	if calc == nil {
		calc = balance.NewCalculator()
	}
	return &LedgerService{
		source:    source,
		calc:      calc,
		maxDays:   maxDays,
		publisher: publisher,
	}
}

// ChildLedger reconstructs the full daily ledger of one child.
func (s *LedgerService) ChildLedger(ctx context.Context, childID int64) (balance.Ledger, error) {
	_, ledger, err := s.load(ctx, childID)
	return ledger, err
}

// Summary returns the current balance and today's entry of one child.
func (s *LedgerService) Summary(ctx context.Context, childID int64) (ChildSummary, error) {
	child, ledger, err := s.load(ctx, childID)
	if err != nil {
		return ChildSummary{}, err
	}
	today, _ := ledger.Today()
	return ChildSummary{
		ChildID:        child.ID,
		Name:           child.Name,
		CurrentBalance: ledger.CurrentBalance(),
		Today:          today,
		Days:           len(ledger.Entries),
		AsOf:           ledger.AsOf,
	}, nil
}

// Refresh recomputes a child's summary and publishes it when a publisher is set.
// A publish failure is logged, not returned: the summary itself is still valid.
func (s *LedgerService) Refresh(ctx context.Context, childID int64) (ChildSummary, error) {
	sum, err := s.Summary(ctx, childID)
	if err != nil {
		return ChildSummary{}, err
	}
	if s.publisher == nil {
		return sum, nil
	}

	snap := &amqp.BalanceSnapshot{
		ChildID:        sum.ChildID,
		Name:           sum.Name,
		CurrentBalance: sum.CurrentBalance,
		TodayPositive:  sum.Today.PositivePoints,
		TodayNegative:  sum.Today.NegativePoints,
		TodayExpenses:  sum.Today.Expenses,
		Days:           sum.Days,
		AsOf:           sum.AsOf,
	}
	if err := s.publisher.PublishSnapshot(ctx, snap); err != nil {
		fields := applog.NewFields().WithOperation(applog.OpPublish).WithChild(childID, sum.Name).WithError(err)
		logger(ctx).ErrorContext(ctx, "Failed to publish balance snapshot", fields.ToSlice()...)
	}
	return sum, nil
}

func (s *LedgerService) load(ctx context.Context, childID int64) (core.Child, balance.Ledger, error) {
	child, err := s.source.GetChild(ctx, childID)
	if err != nil {
		return core.Child{}, balance.Ledger{}, fmt.Errorf("load child: %w", err)
	}

	var (
		activities []core.Activity
		expenses   []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activities, err = s.source.ListActivities(gctx, childID)
		if err != nil {
			return fmt.Errorf("list activities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.source.ListExpenses(gctx, childID)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Child{}, balance.Ledger{}, err
	}

	in := balance.Input{
		Activities:     activities,
		Expenses:       expenses,
		InitialBalance: child.InitialBalance,
		StartDate:      child.StartDate,
		ChildID:        balance.ForChild(childID),
	}

	now := s.calc.Now()
	if s.maxDays > 0 {
		if days := s.calc.SpanAt(in, now); days > s.maxDays {
			return core.Child{}, balance.Ledger{}, fmt.Errorf("child %d spans %d days, limit %d: %w", childID, days, s.maxDays, ErrRangeTooLarge)
		}
	}

	start := time.Now()
	ledger := s.calc.DailyLedgerAt(in, now)
	fields := applog.NewFields().
		WithOperation(applog.OpCompute).
		WithChild(childID, child.Name).
		WithLedger(len(ledger.Entries), ledger.CurrentBalance())
	fields[applog.FieldDuration] = time.Since(start).Milliseconds()
	logger(ctx).DebugContext(ctx, "Ledger computed", fields.ToSlice()...)

	return child, ledger, nil
}

func logger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
}
