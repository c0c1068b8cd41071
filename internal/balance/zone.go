package balance

import (
	"fmt"
	"time"
)

// DefaultTimezone is the civil zone that decides what "a day" means for a ledger.
const DefaultTimezone = "America/Fortaleza"

// DateLayout renders a calendar day as DD/MM/YYYY.
const DateLayout = "02/01/2006"

// fortalezaFixed stands in for America/Fortaleza (no DST since 2000) when tzdata is missing.
var fortalezaFixed = time.FixedZone("-03", -3*60*60)

// LoadLocation resolves a zone name. An empty name selects DefaultTimezone.
// The host local zone is never used implicitly.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	if name == "Local" {
		return nil, fmt.Errorf("timezone %q is ambiguous, name a zone explicitly", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultTimezone {
			return fortalezaFixed, nil
		}
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// DefaultLocation returns the reference zone used when none is configured.
func DefaultLocation() *time.Location {
	loc, _ := LoadLocation(DefaultTimezone)
	return loc
}

// civilDay is a calendar date in the reference zone, independent of any instant.
type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) civilDay {
	y, m, d := t.In(loc).Date()
	return civilDay{year: y, month: m, day: d}
}

func (d civilDay) before(o civilDay) bool {
	if d.year != o.year {
		return d.year < o.year
	}
	if d.month != o.month {
		return d.month < o.month
	}
	return d.day < o.day
}

func (d civilDay) after(o civilDay) bool {
	return o.before(d)
}

// next normalizes through time.Date so month and year rollovers are handled.
func (d civilDay) next() civilDay {
	t := time.Date(d.year, d.month, d.day+1, 12, 0, 0, 0, time.UTC)
	y, m, dd := t.Date()
	return civilDay{year: y, month: m, day: dd}
}

// midnight is the first instant of the day in loc. When a DST transition skips
// midnight, time.Date lands on the previous day and the day starts at the
// transition instead.
func (d civilDay) midnight(loc *time.Location) time.Time {
	t := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
	if dayOf(t, loc).before(d) {
		if _, end := t.ZoneBounds(); !end.IsZero() {
			t = end.In(loc)
		}
	}
	return t
}

func (d civilDay) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.day, int(d.month), d.year)
}

// StartOfDay returns midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return dayOf(t, loc).midnight(loc)
}

// FormatDate renders the calendar day containing t in loc as DD/MM/YYYY.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// DaySpan is the number of ledger entries a ledger starting at start would have
// when computed at now. A start after today counts as today.
func DaySpan(start, now time.Time, loc *time.Location) int {
	from, to := dayOf(start, loc), dayOf(now, loc)
	if from.after(to) {
		return 1
	}
	return int(to.ordinal()-from.ordinal()) + 1
}

// ordinal counts days since the Unix epoch. Unix seconds avoid the ~292 year
// limit of time.Duration.
func (d civilDay) ordinal() int64 {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
