package ports

import (
	"context"
	"errors"

	"pontos/internal/core"
)

var ErrChildNotFound = errors.New("child not found")

// Ports for outbound adapters.
type (
	ChildReader interface {
		// GetChild returns ErrChildNotFound when no child has the given id.
		GetChild(ctx context.Context, id int64) (core.Child, error)
	}

	ChildLister interface {
		ListChildren(ctx context.Context) ([]core.Child, error)
	}

	// ActivityLister returns the full activity history of a child, in no particular order.
	ActivityLister interface {
		ListActivities(ctx context.Context, childID int64) ([]core.Activity, error)
	}

	// ExpenseLister returns the full expense history of a child, in no particular order.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, childID int64) ([]core.Expense, error)
	}

	ChildWriter interface {
		CreateChild(ctx context.Context, c core.Child) (int64, error)
	}

	ActivityWriter interface {
		AddActivity(ctx context.Context, a core.Activity) (int64, error)
	}

	ExpenseWriter interface {
		AddExpense(ctx context.Context, e core.Expense) (int64, error)
	}

	// Store is implemented by every data backend.
	Store interface {
		ChildReader
		ChildLister
		ActivityLister
		ExpenseLister
		ChildWriter
		ActivityWriter
		ExpenseWriter
		Close() error
	}
)
