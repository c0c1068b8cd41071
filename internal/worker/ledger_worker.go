package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pontos/internal/amqp"
	applog "pontos/internal/log"
	"pontos/internal/ports"
	"pontos/internal/services"
)

// Refresher recomputes and publishes one child's balance.
type Refresher interface {
	Refresh(ctx context.Context, childID int64) (services.ChildSummary, error)
}

// LedgerWorker turns recompute requests into published balance snapshots
type LedgerWorker struct {
	ledger Refresher
}

// NewLedgerWorker returns a worker that refreshes balances through ledger.
func NewLedgerWorker(ledger Refresher) *LedgerWorker {
	return &LedgerWorker{ledger: ledger}
}

// HandleRecompute processes one recompute request. Requests that can never
// succeed (bad id, unknown child, oversized range) return nil so the delivery is
// acknowledged instead of requeued.
func (w *LedgerWorker) HandleRecompute(ctx context.Context, msg *amqp.RecomputeRequest) error {
	logger := applog.FromContext(ctx).
		WithComponent(applog.ComponentWorker).
		With(applog.FieldRequestID, uuid.NewString(), applog.FieldOperation, applog.OpRefresh)
	ctx = applog.WithContext(ctx, logger)

	if msg.ChildID <= 0 {
		logger.WarnContext(ctx, "Dropping recompute request with invalid child id", "child_id", msg.ChildID)
		return nil
	}

	logger.InfoContext(ctx, "Processing recompute request",
		"child_id", msg.ChildID,
		"reason", msg.Reason)

	sum, err := w.ledger.Refresh(ctx, msg.ChildID)
	switch {
	case errors.Is(err, ports.ErrChildNotFound):
		logger.WarnContext(ctx, "Dropping recompute request for unknown child", "child_id", msg.ChildID)
		return nil
	case errors.Is(err, services.ErrRangeTooLarge):
		logger.ErrorContext(ctx, "Dropping recompute request", "child_id", msg.ChildID, "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("refresh child %d: %w", msg.ChildID, err)
	}

	logger.InfoContext(ctx, "Balance recomputed",
		"child_id", sum.ChildID,
		"current_balance", sum.CurrentBalance,
		"days", sum.Days)
	return nil
}
