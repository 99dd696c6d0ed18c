package marker

import (
	"time"

	"shiftboard/internal/easter"
	"shiftboard/internal/freq"
)

// How selects the anchor policy a periodic Marker uses to turn each
// calendar period it sees into a candidate timestamp.
type How int

const (
	FromStartOfEach How = iota
	NthWeekdayOfMonth
	FromEasterWestern
	FromEasterOrthodox
)

// OffsetSpec is a bag of named numeric offsets; the fields that matter
// depend on the Marker's How.
type OffsetSpec struct {
	// FromStartOfEach
	Weeks, Days, Hours, Minutes, Seconds int

	// NthWeekdayOfMonth
	Month   int // 1-12, the month-th month of the period
	Week    int // +-1..+-5, occurrence index (negative counts from month end)
	Weekday int // 1 (Monday) .. 7 (Sunday), ISO numbering
	Shift   int // days added after locating the occurrence

	// FromEasterWestern / FromEasterOrthodox
	EasterDays int
}

// applyHow turns one calendar period into a candidate timestamp under how,
// or reports ok=false if the offset policy has no valid result in this
// period (e.g. a requested weekday occurrence that doesn't exist).
func applyHow(how How, period freq.Period, spec OffsetSpec) (time.Time, bool) {
	switch how {
	case FromStartOfEach:
		return applyFromStartOfEach(period, spec)
	case NthWeekdayOfMonth:
		return applyNthWeekdayOfMonth(period, spec)
	case FromEasterWestern:
		return applyFromEaster(period, spec, easter.Western)
	case FromEasterOrthodox:
		return applyFromEaster(period, spec, easter.Orthodox)
	default:
		return time.Time{}, false
	}
}

func applyFromStartOfEach(period freq.Period, spec OffsetSpec) (time.Time, bool) {
	ts := period.Start.
		AddDate(0, 0, spec.Weeks*7+spec.Days).
		Add(time.Duration(spec.Hours)*time.Hour +
			time.Duration(spec.Minutes)*time.Minute +
			time.Duration(spec.Seconds)*time.Second)
	if ts.Before(period.Start) || !ts.Before(period.End) {
		return time.Time{}, false
	}
	return ts, true
}

// isoWeekday converts spec's 1(Monday)..7(Sunday) numbering to time.Weekday.
func isoWeekday(n int) time.Weekday {
	if n == 7 {
		return time.Sunday
	}
	return time.Weekday(n)
}

func applyNthWeekdayOfMonth(period freq.Period, spec OffsetSpec) (time.Time, bool) {
	if spec.Week == 0 {
		return time.Time{}, false
	}
	targetMonth := time.Date(period.Start.Year(), period.Start.Month(), 1, 0, 0, 0, 0, period.Start.Location()).
		AddDate(0, spec.Month-1, 0)
	monthEnd := targetMonth.AddDate(0, 1, 0)
	wd := isoWeekday(spec.Weekday)

	var occurrences []time.Time
	for d := targetMonth; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == wd {
			occurrences = append(occurrences, d)
		}
	}

	var occurrence time.Time
	if spec.Week > 0 {
		idx := spec.Week - 1
		if idx >= len(occurrences) {
			return time.Time{}, false
		}
		occurrence = occurrences[idx]
	} else {
		idx := len(occurrences) + spec.Week
		if idx < 0 {
			return time.Time{}, false
		}
		occurrence = occurrences[idx]
	}

	return occurrence.AddDate(0, 0, spec.Shift), true
}

func applyFromEaster(period freq.Period, spec OffsetSpec, tradition easter.Tradition) (time.Time, bool) {
	sunday, err := easter.Date(period.Start.Year(), tradition)
	if err != nil {
		return time.Time{}, false
	}
	return sunday.AddDate(0, 0, spec.EasterDays), true
}
