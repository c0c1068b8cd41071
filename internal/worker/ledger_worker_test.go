package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pontos/internal/amqp"
	"pontos/internal/balance"
	"pontos/internal/core"
	applog "pontos/internal/log"
	"pontos/internal/ports"
	"pontos/internal/services"
	"pontos/internal/store/memory"
)

type stubRefresher struct {
	calls []int64
	err   error
}

func (s *stubRefresher) Refresh(_ context.Context, childID int64) (services.ChildSummary, error) {
	s.calls = append(s.calls, childID)
	return services.ChildSummary{ChildID: childID}, s.err
}

func TestHandleRecompute(t *testing.T) {
	tests := []struct {
		name      string
		childID   int64
		err       error
		wantErr   bool
		wantCalls int
	}{
		{name: "success", childID: 1, wantCalls: 1},
		{name: "invalid child id is dropped", childID: 0},
		{name: "unknown child is acknowledged", childID: 2, err: fmt.Errorf("load child: %w", ports.ErrChildNotFound), wantCalls: 1},
		{name: "oversized range is acknowledged", childID: 3, err: services.ErrRangeTooLarge, wantCalls: 1},
		{name: "transient failure is retried", childID: 4, err: errors.New("database is locked"), wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := &stubRefresher{err: tt.err}
			err := NewLedgerWorker(ref).HandleRecompute(context.Background(), &amqp.RecomputeRequest{ChildID: tt.childID})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, ref.calls, tt.wantCalls)
		})
	}
}

type capturePublisher struct {
	snaps []*amqp.BalanceSnapshot
}

func (p *capturePublisher) PublishSnapshot(_ context.Context, snap *amqp.BalanceSnapshot) error {
	p.snaps = append(p.snaps, snap)
	return nil
}

func TestHandleRecomputePublishesSnapshot(t *testing.T) {
	ctx := context.Background()
	zone := time.FixedZone("-03", -3*60*60)
	now := time.Date(2024, 5, 5, 10, 0, 0, 0, zone)

	store := memory.New()
	id, err := store.CreateChild(ctx, core.Child{Name: "Ana", InitialBalance: 10})
	require.NoError(t, err)
	_, err = store.AddActivity(ctx, core.Activity{ChildID: id, Name: "Ajudar", Date: now.Add(-time.Hour), Points: 2, Multiplier: 50, Category: core.Especiais})
	require.NoError(t, err)

	pub := &capturePublisher{}
	calc := balance.NewCalculator(balance.WithLocation(zone), balance.WithClock(func() time.Time { return now }))
	w := NewLedgerWorker(services.NewLedgerService(store, calc, 0, pub))

	require.NoError(t, w.HandleRecompute(ctx, amqp.NewRecomputeRequest(id, "activity added")))
	require.Len(t, pub.snaps, 1)
	assert.Equal(t, int64(110), pub.snaps[0].CurrentBalance)
	assert.Equal(t, int64(100), pub.snaps[0].TodayPositive)

	require.NoError(t, w.HandleRecompute(ctx, amqp.NewRecomputeRequest(id+100, "stale")))
	assert.Len(t, pub.snaps, 1)
}

func TestHandleRecomputeLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Output: &buf})
	ctx := applog.WithContext(context.Background(), logger)

	require.NoError(t, NewLedgerWorker(&stubRefresher{}).HandleRecompute(ctx, amqp.NewRecomputeRequest(7, "manual")))

	out := buf.String()
	assert.Contains(t, out, "component="+applog.ComponentWorker)
	assert.Contains(t, out, applog.FieldOperation+"="+applog.OpRefresh)
	assert.Contains(t, out, applog.FieldRequestID+"=")
	assert.Contains(t, out, "child_id=7")
}
