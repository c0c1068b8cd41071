package balance

import (
	"io"
	"log/slog"
	"time"

	applog "pontos/internal/log"
)

// Calculator binds a reference zone, a clock and a classifier so callers only
// supply the history.
type Calculator struct {
	loc        *time.Location
	now        func() time.Time
	classifier Classifier
	logger     *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLocation sets the reference zone for day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock sets the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithClassifier replaces the category classification.
func WithClassifier(cls Classifier) Option {
	return func(c *Calculator) {
		if cls != nil {
			c.classifier = cls
		}
	}
}

// WithLogger sets where exclusion warnings go. Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator returns a calculator for America/Fortaleza with the wall clock,
// the default classifier and a discarding logger, then applies opts.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		loc:        DefaultLocation(),
		now:        time.Now,
		classifier: DefaultClassifier(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the reference zone.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Now reads the clock once.
func (c *Calculator) Now() time.Time {
	return c.now()
}

// DailyLedger reconstructs the ledger for in. The clock is read exactly once.
func (c *Calculator) DailyLedger(in Input) Ledger {
	return c.DailyLedgerAt(in, c.now())
}

// SpanAt returns the number of days the ledger for in would cover at now.
func (c *Calculator) SpanAt(in Input, now time.Time) int {
	return Span(in, now, c.loc)
}

// DailyLedgerAt reconstructs the ledger as seen at now.
func (c *Calculator) DailyLedgerAt(in Input, now time.Time) Ledger {
	l := Compute(in, now, c.loc, c.classifier)

	d := l.Diagnostics
	if d.ExcludedActivities > 0 || d.ExcludedExpenses > 0 {
		c.logger.Warn("Filtered out records from other children",
			applog.FieldChildID, *in.ChildID,
			applog.FieldExcludedActivities, d.ExcludedActivities,
			applog.FieldExcludedExpenses, d.ExcludedExpenses)
	}
	if d.OutOfRangeActivities > 0 || d.OutOfRangeExpenses > 0 {
		c.logger.Debug("Records outside ledger range",
			"start", l.Entries[0].DateString,
			"out_of_range_activities", d.OutOfRangeActivities,
			"out_of_range_expenses", d.OutOfRangeExpenses)
	}
	return l
}
