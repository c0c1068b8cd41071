package balance

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pontos/internal/core"
	applog "pontos/internal/log"
)

func TestCalculatorReadsClockOnce(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return at(2024, 1, 1, 23, 59).Add(time.Duration(calls) * time.Hour)
	}
	calc := NewCalculator(WithLocation(utcMinus3), WithClock(clock))

	l := calc.DailyLedger(Input{StartDate: at(2024, 1, 1, 0, 0)})
	assert.Equal(t, 1, calls)
	require.Len(t, l.Entries, 2)
	assert.Equal(t, "02/01/2024", l.Entries[1].DateString)

	today, ok := l.Today()
	require.True(t, ok)
	assert.Equal(t, "02/01/2024", today.DateString)
	assert.Equal(t, 1, calls, "Today must use the captured instant")
}

func TestCalculatorLogsExcludedRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	calc := NewCalculator(
		WithLocation(utcMinus3),
		WithClock(func() time.Time { return at(2024, 1, 1, 12, 0) }),
		WithLogger(logger),
	)

	calc.DailyLedger(Input{
		Activities: []core.Activity{{ChildID: 9, Date: at(2024, 1, 1, 9, 0), Points: 1, Multiplier: 1, Category: core.Positivos}},
		ChildID:    ForChild(1),
	})
	out := buf.String()
	assert.Contains(t, out, "Filtered out records from other children")
	assert.Contains(t, out, applog.FieldChildID+"=1")
	assert.Contains(t, out, applog.FieldExcludedActivities+"=1")
	assert.Contains(t, out, applog.FieldExcludedExpenses+"=0")
}

func TestCalculatorDefaults(t *testing.T) {
	calc := NewCalculator(WithLocation(nil), WithClock(nil), WithClassifier(nil), WithLogger(nil))
	require.NotNil(t, calc.Location())
	assert.WithinDuration(t, time.Now(), calc.Now(), time.Minute)

	l := calc.DailyLedger(Input{})
	require.Len(t, l.Entries, 1)
}
