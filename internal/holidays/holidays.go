// Package holidays produces holiday tables for timeboard amendments: a
// YAML-driven rule engine that turns locale-generic rules (fixed calendar
// dates, nth-weekday-of-month, Easter-relative) into an amendments map,
// without baking in any particular country's calendar.
package holidays

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-yaml"

	"shiftboard/internal/core"
	"shiftboard/internal/easter"
	"shiftboard/internal/pattern"
)

// Rule describes one recurring holiday. Kind selects which fields apply:
//   - "fixed": Month/Day, repeated every year.
//   - "nth_weekday": the Week-th Weekday of Month (negative Week counts
//     from the end), plus Shift days.
//   - "easter": Easter Sunday of Tradition, plus Shift days.
type Rule struct {
	Name           string      `yaml:"name"`
	Label          interface{} `yaml:"label"`
	Kind           string      `yaml:"kind"`
	Month          int         `yaml:"month"`
	Day            int         `yaml:"day"`
	Week           int         `yaml:"week"`
	Weekday        int         `yaml:"weekday"` // 1=Monday .. 7=Sunday, ISO numbering
	Shift          int         `yaml:"shift"`
	Tradition      string      `yaml:"tradition"` // "western" | "orthodox"
	ExtendWeekends string      `yaml:"extend_weekends"` // "", "previous", "next", "nearest"
}

// RuleFile is the top-level shape of a YAML rules file.
type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRulesFile reads and parses a YAML rules file.
func LoadRulesFile(path string) ([]Rule, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday rules file %q: %w", path, err)
	}
	var rf RuleFile
	if err := yaml.Unmarshal(bts, &rf); err != nil {
		return nil, fmt.Errorf("parse holiday rules file %q: %w", path, err)
	}
	for i, r := range rf.Rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Name, err)
		}
	}
	return rf.Rules, nil
}

func (r Rule) validate() error {
	switch r.Kind {
	case "fixed":
		if r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 31 {
			return core.NewInvalidArgumentsError(fmt.Sprintf("fixed rule needs month 1-12 and day 1-31, got month=%d day=%d", r.Month, r.Day))
		}
	case "nth_weekday":
		if r.Month < 1 || r.Month > 12 {
			return core.NewInvalidArgumentsError(fmt.Sprintf("nth_weekday rule needs month 1-12, got %d", r.Month))
		}
		if r.Week == 0 || r.Week < -5 || r.Week > 5 {
			return core.NewInvalidArgumentsError(fmt.Sprintf("nth_weekday rule needs week in -5..-1 or 1..5, got %d", r.Week))
		}
		if r.Weekday < 1 || r.Weekday > 7 {
			return core.NewInvalidArgumentsError(fmt.Sprintf("nth_weekday rule needs weekday 1-7, got %d", r.Weekday))
		}
	case "easter":
		if r.Tradition != "western" && r.Tradition != "orthodox" {
			return core.NewInvalidArgumentsError(fmt.Sprintf("easter rule needs tradition western or orthodox, got %q", r.Tradition)).
				WithSuggestion(core.SuggestCorrection(r.Tradition, []string{"western", "orthodox"}))
		}
	default:
		return core.NewInvalidArgumentsError(fmt.Sprintf("unknown rule kind %q", r.Kind))
	}
	return nil
}

// Amendments evaluates rules over every year touched by [start, end] and
// returns a timestamp -> label map suitable for timeboard.WithAmendments.
// Dates outside [start, end] are dropped.
func Amendments(start, end time.Time, rules []Rule) (map[time.Time]pattern.Label, error) {
	out := make(map[time.Time]pattern.Label)
	for _, r := range rules {
		dates, err := r.occurrences(start, end)
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			if d.Before(start) || d.After(end) {
				continue
			}
			out[d] = r.Label
		}
	}
	return out, nil
}

func (r Rule) occurrences(start, end time.Time) ([]time.Time, error) {
	loc := start.Location()
	var dates []time.Time
	for year := start.Year() - 1; year <= end.Year()+1; year++ {
		var d time.Time
		var ok bool
		switch r.Kind {
		case "fixed":
			d, ok = time.Date(year, time.Month(r.Month), r.Day, 0, 0, 0, 0, loc), true
		case "nth_weekday":
			d, ok = nthWeekdayOfMonth(year, r.Month, r.Week, r.Weekday, loc)
			if ok {
				d = d.AddDate(0, 0, r.Shift)
			}
		case "easter":
			tradition := easter.Western
			if r.Tradition == "orthodox" {
				tradition = easter.Orthodox
			}
			sunday, err := easter.Date(year, tradition)
			if err != nil {
				return nil, err
			}
			d, ok = sunday.AddDate(0, 0, r.Shift), true
		default:
			return nil, core.NewInvalidArgumentsError(fmt.Sprintf("unknown rule kind %q", r.Kind))
		}
		if ok {
			dates = append(dates, d)
		}
	}
	if r.ExtendWeekends != "" {
		dates = extendWeekends(dates, r.ExtendWeekends)
	}
	return dates, nil
}

func isoWeekday(n int) time.Weekday {
	if n == 7 {
		return time.Sunday
	}
	return time.Weekday(n)
}

// nthWeekdayOfMonth locates the week-th occurrence of weekday in
// (year, month); negative week counts from the end. Grounded on
// calendarbase.py's nth_weekday_of_month.
func nthWeekdayOfMonth(year, month, week, weekday int, loc *time.Location) (time.Time, bool) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)
	wd := isoWeekday(weekday)

	var occurrences []time.Time
	for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == wd {
			occurrences = append(occurrences, d)
		}
	}

	if week > 0 {
		idx := week - 1
		if idx >= len(occurrences) {
			return time.Time{}, false
		}
		return occurrences[idx], true
	}
	idx := len(occurrences) + week
	if idx < 0 {
		return time.Time{}, false
	}
	return occurrences[idx], true
}

// extendWeekends adds, for any date falling on Saturday/Sunday, a weekday
// replacement per how ("previous", "next", or "nearest"), skipping dates
// already present; the weekend date itself is kept. Grounded on calendarbase.py's extend_weekends.
func extendWeekends(dates []time.Time, how string) []time.Time {
	taken := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		taken[d] = true
	}

	out := append([]time.Time(nil), dates...)
	for _, d := range dates {
		var replacement time.Time
		switch d.Weekday() {
		case time.Saturday:
			switch how {
			case "next":
				replacement = d.AddDate(0, 0, 2) // Monday
			default:
				replacement = d.AddDate(0, 0, -1) // previous/nearest both land on Friday for Saturday
			}
		case time.Sunday:
			switch how {
			case "previous":
				replacement = d.AddDate(0, 0, -2) // Friday
			default:
				replacement = d.AddDate(0, 0, 1) // next/nearest both land on Monday for Sunday
			}
		default:
			continue
		}
		for taken[replacement] {
			replacement = replacement.AddDate(0, 0, 1)
		}
		taken[replacement] = true
		out = append(out, replacement)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
