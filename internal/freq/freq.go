// Package freq implements CalendarFreq, a pandas-style calendar frequency
// string (e.g. "D", "3H", "W-MON", "Q-JAN"): parsing, the calendar period
// containing a timestamp, the super/sub-period relation used by Frame and
// Marker, and period arithmetic.
package freq

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"shiftboard/internal/core"
)

// Base is the elementary unit a CalendarFreq counts in.
type Base int

const (
	Minute Base = iota
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

func (b Base) String() string {
	switch b {
	case Minute:
		return "min"
	case Hour:
		return "H"
	case Day:
		return "D"
	case Week:
		return "W"
	case Month:
		return "M"
	case Quarter:
		return "Q"
	case Year:
		return "A"
	default:
		return fmt.Sprintf("Base(%d)", int(b))
	}
}

// CalendarFreq is a parsed calendar frequency: a base unit, a multiplier,
// and (for Week/Quarter/Year) an anchor.
type CalendarFreq struct {
	base       Base
	multiplier int
	// anchor is a time.Weekday for Week, or a 1-12 month number (first
	// month of the period) for Quarter/Year. Unused for Minute/Hour/Day/Month.
	anchor int
}

// Period is a half-open calendar interval [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

var weekdayAnchors = map[string]time.Weekday{
	"MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday,
	"THU": time.Thursday, "FRI": time.Friday, "SAT": time.Saturday, "SUN": time.Sunday,
}

var weekdayNames = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

var monthAnchors = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var monthNames = []string{"", "JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var freqPattern = regexp.MustCompile(`^(\d*)(min|T|H|D|W|M|Q|A|Y)(?:-([A-Z]{3}))?$`)

var knownFreqTokens = []string{
	"T", "min", "H", "D", "W", "W-MON", "W-SUN", "M", "Q", "Q-JAN", "A", "Y", "A-JAN",
}

// Parse parses a calendar frequency string such as "D", "3H", "W-MON", or
// "Q-JAN". Returns InvalidFrequencyError for anything that doesn't match
// the grammar or names an unknown anchor.
func Parse(s string) (CalendarFreq, error) {
	trimmed := strings.TrimSpace(s)
	m := freqPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return CalendarFreq{}, core.NewInvalidFrequencyError(s, knownFreqTokens)
	}

	multiplier := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return CalendarFreq{}, core.NewInvalidFrequencyError(s, knownFreqTokens)
		}
		multiplier = n
	}

	var base Base
	switch m[2] {
	case "T", "min":
		base = Minute
	case "H":
		base = Hour
	case "D":
		base = Day
	case "W":
		base = Week
	case "M":
		base = Month
	case "Q":
		base = Quarter
	case "A", "Y":
		base = Year
	default:
		return CalendarFreq{}, core.NewInvalidFrequencyError(s, knownFreqTokens)
	}

	anchor := 0
	anchorToken := m[3]
	switch base {
	case Week:
		anchor = int(time.Sunday)
		if anchorToken != "" {
			wd, ok := weekdayAnchors[anchorToken]
			if !ok {
				return CalendarFreq{}, core.NewInvalidFrequencyError(s, knownFreqTokens)
			}
			anchor = int(wd)
		}
	case Quarter, Year:
		anchor = 1
		if anchorToken != "" {
			mo, ok := monthAnchors[anchorToken]
			if !ok {
				return CalendarFreq{}, core.NewInvalidFrequencyError(s, knownFreqTokens)
			}
			anchor = mo
		}
	default:
		if anchorToken != "" {
			return CalendarFreq{}, core.NewInvalidFrequencyError(s, knownFreqTokens)
		}
	}

	return CalendarFreq{base: base, multiplier: multiplier, anchor: anchor}, nil
}

// MustParse parses s and panics on error; for use with compile-time constant
// frequency literals only.
func MustParse(s string) CalendarFreq {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Base returns the frequency's elementary unit.
func (f CalendarFreq) Base() Base { return f.base }

// Multiplier returns the frequency's multiplier (>= 1).
func (f CalendarFreq) Multiplier() int { return f.multiplier }

// IsNative reports whether the frequency has multiplier 1, the requirement
// for CountPeriods' period argument.
func (f CalendarFreq) IsNative() bool { return f.multiplier == 1 }

// FixedDuration returns the wall-clock length of one period and true for
// bases of constant duration (Minute, Hour, Day, Week). Month, Quarter, and
// Year periods vary in length and report ok=false.
func (f CalendarFreq) FixedDuration() (time.Duration, bool) {
	switch f.base {
	case Minute, Hour, Day:
		return unitDuration(f.base) * time.Duration(f.multiplier), true
	case Week:
		return 7 * 24 * time.Hour * time.Duration(f.multiplier), true
	default:
		return 0, false
	}
}

// Equal reports whether f and other denote the same frequency.
func (f CalendarFreq) Equal(other CalendarFreq) bool {
	return f.base == other.base && f.multiplier == other.multiplier && f.anchor == other.anchor
}

// String renders the frequency back to pandas-style notation.
func (f CalendarFreq) String() string {
	var base string
	switch f.base {
	case Minute:
		base = "T"
	default:
		base = f.base.String()
	}

	prefix := ""
	if f.multiplier != 1 {
		prefix = strconv.Itoa(f.multiplier)
	}

	suffix := ""
	switch f.base {
	case Week:
		suffix = "-" + weekdayNames[f.anchor]
	case Quarter, Year:
		suffix = "-" + monthNames[f.anchor]
	}

	return prefix + base + suffix
}

func unitDuration(b Base) time.Duration {
	switch b {
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	case Day:
		return 24 * time.Hour
	default:
		return 0
	}
}

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// PeriodContaining returns the half-open calendar period of f that contains
// ts.
func (f CalendarFreq) PeriodContaining(ts time.Time) Period {
	loc := ts.Location()
	switch f.base {
	case Minute, Hour, Day:
		unit := unitDuration(f.base) * time.Duration(f.multiplier)
		elapsed := ts.Sub(epoch.In(loc))
		n := floorDivDuration(elapsed, unit)
		start := epoch.In(loc).Add(unit * time.Duration(n))
		return Period{Start: start, End: start.Add(unit)}

	case Week:
		anchorWeekday := time.Weekday(f.anchor)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		daysToAnchor := (int(anchorWeekday) - int(day.Weekday()) + 7) % 7
		periodEndDay := day.AddDate(0, 0, daysToAnchor)
		end := periodEndDay.AddDate(0, 0, 1)
		start := end.AddDate(0, 0, -7*f.multiplier)
		return Period{Start: start, End: end}

	case Month:
		totalMonths := (ts.Year()-1)*12 + int(ts.Month()) - 1
		n := floorDiv(totalMonths, f.multiplier)
		startMonths := n * f.multiplier
		startYear := 1 + startMonths/12
		startMonth := startMonths%12 + 1
		start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, loc)
		return Period{Start: start, End: start.AddDate(0, f.multiplier, 0)}

	case Quarter:
		return f.periodContainingCycle(ts, 3)

	case Year:
		return f.periodContainingCycle(ts, 12)
	}
	return Period{Start: ts, End: ts}
}

// periodContainingCycle handles Quarter (cycleMonths=3) and Year
// (cycleMonths=12), both anchored on f.anchor (the period's first month).
func (f CalendarFreq) periodContainingCycle(ts time.Time, cycleMonths int) Period {
	loc := ts.Location()
	totalMonths := (ts.Year()-1)*12 + int(ts.Month()) - 1
	anchorOffset := f.anchor - 1
	unitMonths := cycleMonths * f.multiplier

	adjusted := totalMonths - anchorOffset
	n := floorDiv(adjusted, unitMonths)
	startMonths := n*unitMonths + anchorOffset

	startYear := 1 + floorDiv(startMonths, 12)
	startMonth := startMonths - floorDiv(startMonths, 12)*12 + 1
	start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, unitMonths, 0)}
}

// Add returns the period n periods of f away from p (n may be negative);
// p is assumed to already be aligned (e.g. produced by PeriodContaining).
func (f CalendarFreq) Add(p Period, n int) Period {
	switch f.base {
	case Minute, Hour, Day:
		unit := unitDuration(f.base) * time.Duration(f.multiplier)
		start := p.Start.Add(unit * time.Duration(n))
		return Period{Start: start, End: start.Add(unit)}
	case Week:
		start := p.Start.AddDate(0, 0, 7*f.multiplier*n)
		return Period{Start: start, End: start.AddDate(0, 0, 7*f.multiplier)}
	case Month:
		start := p.Start.AddDate(0, f.multiplier*n, 0)
		return Period{Start: start, End: start.AddDate(0, f.multiplier, 0)}
	case Quarter:
		start := p.Start.AddDate(0, 3*f.multiplier*n, 0)
		return Period{Start: start, End: start.AddDate(0, 3*f.multiplier, 0)}
	case Year:
		start := p.Start.AddDate(f.multiplier*n, 0, 0)
		return Period{Start: start, End: start.AddDate(f.multiplier, 0, 0)}
	}
	return p
}

// IsSuperperiodOf reports whether every period of f is a disjoint union of
// whole periods of other — accounting for anchors and multipliers. Per
// spec, a multiplier greater than 1 on either side requires exact equality.
func (f CalendarFreq) IsSuperperiodOf(other CalendarFreq) bool {
	if f.multiplier > 1 || other.multiplier > 1 {
		return f.Equal(other)
	}
	if f.base == other.base {
		return f.anchor == other.anchor
	}
	switch f.base {
	case Minute:
		return false
	case Hour:
		return other.base == Minute
	case Day:
		return other.base == Hour || other.base == Minute
	case Week:
		return other.base == Day || other.base == Hour || other.base == Minute
	case Month:
		return other.base == Day || other.base == Hour || other.base == Minute
	case Quarter:
		return other.base == Month || other.base == Day || other.base == Hour || other.base == Minute
	case Year:
		if other.base == Quarter {
			return (f.anchor-other.anchor)%3 == 0
		}
		return other.base == Month || other.base == Day || other.base == Hour || other.base == Minute
	}
	return false
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorDivDuration(a, b time.Duration) int64 {
	q := int64(a / b)
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
