// Package balance reconstructs a child's day-by-day points ledger from the full
// activity and expense history.
//
// Reconstruction is pure: it performs no I/O, never mutates its inputs and, given
// the same inputs, "now" and reference zone, always yields the same ledger.
package balance

import (
	"time"

	"pontos/internal/core"
)

// DailyEntry is one calendar day of a reconstructed ledger.
type DailyEntry struct {
	Date           time.Time // first instant of the day in the reference zone
	DateString     string    // DD/MM/YYYY
	InitialBalance int64
	// PositivePoints and NegativePoints sum magnitudes: the category sets the
	// direction, so a negative-pointed record in a positive category still adds.
	PositivePoints int64
	NegativePoints int64
	Expenses       int64
	FinalBalance   int64
	Activities     []core.Activity
	ExpensesList   []core.Expense
}

// Input is everything a ledger is reconstructed from.
type Input struct {
	Activities     []core.Activity
	Expenses       []core.Expense
	InitialBalance int64
	// StartDate is the first day to report. Zero means unspecified.
	StartDate time.Time
	// ChildID, when set, drops every record owned by another child.
	ChildID *int64
}

// Diagnostics counts records that were silently left out of a ledger.
type Diagnostics struct {
	ExcludedActivities   int // owned by another child
	ExcludedExpenses     int
	OutOfRangeActivities int // dated before the start day or after today
	OutOfRangeExpenses   int
}

// Excluded reports whether any record was dropped.
func (d Diagnostics) Excluded() bool {
	return d.ExcludedActivities+d.ExcludedExpenses+d.OutOfRangeActivities+d.OutOfRangeExpenses > 0
}

// Ledger is the ordered, oldest first, sequence of daily entries together with
// the instant and zone it was computed for.
type Ledger struct {
	Entries     []DailyEntry
	AsOf        time.Time
	Location    *time.Location
	Diagnostics Diagnostics
}

// CurrentBalance is the closing balance of the last entry.
func (l Ledger) CurrentBalance() int64 {
	return CurrentBalance(l.Entries)
}

// Today returns the entry for the day the ledger was computed on.
func (l Ledger) Today() (DailyEntry, bool) {
	return TodayBalance(l.Entries, l.AsOf, l.Location)
}

// ForChild is a convenience for Input.ChildID.
func ForChild(id int64) *int64 {
	return &id
}

// Compute builds the ledger from the resolved start day through the day containing
// now, inclusive, in loc. A nil loc selects DefaultLocation and a nil cls selects
// DefaultClassifier. The result always holds at least one entry.
func Compute(in Input, now time.Time, loc *time.Location, cls Classifier) Ledger {
	if loc == nil {
		loc = DefaultLocation()
	}
	if cls == nil {
		cls = DefaultClassifier()
	}

	var diag Diagnostics
	activities, expenses := in.Activities, in.Expenses
	if in.ChildID != nil {
		activities, diag.ExcludedActivities = activitiesOf(activities, *in.ChildID)
		expenses, diag.ExcludedExpenses = expensesOf(expenses, *in.ChildID)
	}

	today := dayOf(now, loc)
	start := resolveStart(in.StartDate, activities, today, loc)

	actsByDay := make(map[civilDay][]core.Activity)
	for _, a := range activities {
		d := dayOf(a.Date, loc)
		if d.before(start) || d.after(today) {
			diag.OutOfRangeActivities++
			continue
		}
		actsByDay[d] = append(actsByDay[d], a)
	}
	expsByDay := make(map[civilDay][]core.Expense)
	for _, e := range expenses {
		d := dayOf(e.Date, loc)
		if d.before(start) || d.after(today) {
			diag.OutOfRangeExpenses++
			continue
		}
		expsByDay[d] = append(expsByDay[d], e)
	}

	entries := make([]DailyEntry, 0, today.ordinal()-start.ordinal()+1)
	running := in.InitialBalance
	for d := start; !d.after(today); d = d.next() {
		entry := DailyEntry{
			Date:           d.midnight(loc),
			DateString:     d.String(),
			InitialBalance: running,
			Activities:     actsByDay[d],
			ExpensesList:   expsByDay[d],
		}
		for _, a := range entry.Activities {
			switch cls.Polarity(a.Category) {
			case core.Positive:
				entry.PositivePoints += abs(a.Amount())
			case core.Negative:
				entry.NegativePoints += abs(a.Amount())
			}
		}
		for _, e := range entry.ExpensesList {
			entry.Expenses += abs(e.Amount)
		}
		entry.FinalBalance = entry.InitialBalance + entry.PositivePoints - entry.NegativePoints - entry.Expenses
		running = entry.FinalBalance
		entries = append(entries, entry)
	}

	return Ledger{
		Entries:     entries,
		AsOf:        now,
		Location:    loc,
		Diagnostics: diag,
	}
}

// Span returns how many daily entries Compute would produce for in, without
// building them.
func Span(in Input, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = DefaultLocation()
	}
	activities := in.Activities
	if in.ChildID != nil {
		activities, _ = activitiesOf(activities, *in.ChildID)
	}
	today := dayOf(now, loc)
	start := resolveStart(in.StartDate, activities, today, loc)
	return int(today.ordinal() - start.ordinal() + 1)
}

// resolveStart picks the first reported day: the explicit start, else the day of
// the earliest activity, else today. A start after today is clamped to today.
func resolveStart(explicit time.Time, activities []core.Activity, today civilDay, loc *time.Location) civilDay {
	start := today
	switch {
	case !explicit.IsZero():
		start = dayOf(explicit, loc)
	case len(activities) > 0:
		start = dayOf(earliest(activities), loc)
	}
	if start.after(today) {
		start = today
	}
	return start
}

// CurrentBalance returns the final balance of the last entry, or 0 for an empty ledger.
func CurrentBalance(entries []DailyEntry) int64 {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].FinalBalance
}

// TodayBalance returns the entry whose date is the day containing now in loc.
// It is only absent for an empty ledger.
func TodayBalance(entries []DailyEntry, now time.Time, loc *time.Location) (DailyEntry, bool) {
	if loc == nil {
		loc = DefaultLocation()
	}
	today := FormatDate(now, loc)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].DateString == today {
			return entries[i], true
		}
	}
	return DailyEntry{}, false
}

func activitiesOf(in []core.Activity, childID int64) ([]core.Activity, int) {
	out := make([]core.Activity, 0, len(in))
	for _, a := range in {
		if a.ChildID == childID {
			out = append(out, a)
		}
	}
	return out, len(in) - len(out)
}

func expensesOf(in []core.Expense, childID int64) ([]core.Expense, int) {
	out := make([]core.Expense, 0, len(in))
	for _, e := range in {
		if e.ChildID == childID {
			out = append(out, e)
		}
	}
	return out, len(in) - len(out)
}

func earliest(activities []core.Activity) time.Time {
	first := activities[0].Date
	for _, a := range activities[1:] {
		if a.Date.Before(first) {
			first = a.Date
		}
	}
	return first
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
