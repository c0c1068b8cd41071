package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pontos/internal/core"
	"pontos/internal/ports"

	_ "modernc.org/sqlite"
)

var _ ports.Store = (*SQLiteRepository)(nil)

// timeLayout stores instants as sortable UTC text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateChild implements ports.ChildWriter
func (r *SQLiteRepository) CreateChild(ctx context.Context, c core.Child) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	var start sql.NullString
	if !c.StartDate.IsZero() {
		start = sql.NullString{String: formatTime(c.StartDate), Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO children (name, initial_balance, start_date) VALUES (?, ?, ?)`,
		c.Name, c.InitialBalance, start)
	if err != nil {
		return 0, fmt.Errorf("create child: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create child: last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Child saved to SQLite", "id", id, "name", c.Name, "initial_balance", c.InitialBalance)
	return id, nil
}

// GetChild implements ports.ChildReader
func (r *SQLiteRepository) GetChild(ctx context.Context, id int64) (core.Child, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, initial_balance, start_date FROM children WHERE id = ?`, id)

	c, err := scanChild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Child{}, fmt.Errorf("child %d: %w", id, ports.ErrChildNotFound)
	}
	if err != nil {
		return core.Child{}, fmt.Errorf("get child %d: %w", id, err)
	}
	return c, nil
}

// ListChildren implements ports.ChildLister
func (r *SQLiteRepository) ListChildren(ctx context.Context) ([]core.Child, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, initial_balance, start_date FROM children ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []core.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddActivity implements ports.ActivityWriter
func (r *SQLiteRepository) AddActivity(ctx context.Context, a core.Activity) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if _, err := r.GetChild(ctx, a.ChildID); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (child_id, name, points, multiplier, category, date) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ChildID, a.Name, a.Points, a.Multiplier, string(a.Category), formatTime(a.Date))
	if err != nil {
		return 0, fmt.Errorf("create activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create activity: last insert id: %w", err)
	}

	slog.DebugContext(ctx, "Activity saved to SQLite",
		"id", id,
		"child_id", a.ChildID,
		"category", a.Category,
		"points", a.Points,
		"multiplier", a.Multiplier)
	return id, nil
}

// AddExpense implements ports.ExpenseWriter
func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if _, err := r.GetChild(ctx, e.ChildID); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (child_id, description, amount, date) VALUES (?, ?, ?, ?)`,
		e.ChildID, e.Description, e.Amount, formatTime(e.Date))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create expense: last insert id: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite", "id", id, "child_id", e.ChildID, "amount", e.Amount)
	return id, nil
}

// ListActivities implements ports.ActivityLister
func (r *SQLiteRepository) ListActivities(ctx context.Context, childID int64) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, child_id, name, points, multiplier, category, date
		 FROM activities WHERE child_id = ? ORDER BY date, id`, childID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []core.Activity
	for rows.Next() {
		var (
			a        core.Activity
			category string
			date     string
		)
		if err := rows.Scan(&a.ID, &a.ChildID, &a.Name, &a.Points, &a.Multiplier, &category, &date); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Category = core.Category(category)
		if a.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("activity %d: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListExpenses implements ports.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context, childID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, child_id, description, amount, date
		 FROM expenses WHERE child_id = ? ORDER BY date, id`, childID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e    core.Expense
			date string
		)
		if err := rows.Scan(&e.ID, &e.ChildID, &e.Description, &e.Amount, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChild(row rowScanner) (core.Child, error) {
	var (
		c     core.Child
		start sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.InitialBalance, &start); err != nil {
		return core.Child{}, err
	}
	if start.Valid && start.String != "" {
		t, err := parseTime(start.String)
		if err != nil {
			return core.Child{}, fmt.Errorf("child %d start date: %w", c.ID, err)
		}
		c.StartDate = t
	}
	return c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
