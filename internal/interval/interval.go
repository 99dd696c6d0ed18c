// Package interval implements Interval, the handle (timeline, start_pos,
// end_pos, schedule) over which duty-aware counting, fractional
// count_periods, overlap, and worktime aggregation are computed.
package interval

import (
	"fmt"
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/freq"
	"shiftboard/internal/pattern"
	"shiftboard/internal/schedule"
	"shiftboard/internal/timeline"
	"shiftboard/internal/workshift"
)

// Interval is a closed range [First, Last] of workshift positions on a
// Timeline, interpreted under one Schedule.
type Interval struct {
	tl             *timeline.Timeline
	first, last    int
	sched          *schedule.Schedule
	worktimeSource workshift.WorktimeSource
}

// New builds an Interval spanning [first, last] inclusive. Returns
// OutOfBoundsError if either bound is outside the timeline, VoidIntervalError
// if first > last.
func New(tl *timeline.Timeline, first, last int, sched *schedule.Schedule, worktimeSource workshift.WorktimeSource) (*Interval, error) {
	if first < 0 || first >= tl.Len() || last < 0 || last >= tl.Len() {
		return nil, core.NewOutOfBoundsError(fmt.Sprintf("interval bounds (%d, %d)", first, last), describe(tl))
	}
	if first > last {
		return nil, core.NewVoidIntervalError(fmt.Sprintf("attempted to create void interval with bounds (%d, %d)", first, last))
	}
	return &Interval{tl: tl, first: first, last: last, sched: sched, worktimeSource: worktimeSource}, nil
}

func describe(tl *timeline.Timeline) string {
	return fmt.Sprintf("%s timeline, %d workshifts", tl.Frame().Freq(), tl.Len())
}

// First position of the interval on the timeline.
func (iv *Interval) FirstPos() int { return iv.first }

// Last position of the interval on the timeline.
func (iv *Interval) LastPos() int { return iv.last }

// Length returns the number of workshifts in the interval.
func (iv *Interval) Length() int { return iv.last - iv.first + 1 }

// Schedule returns the schedule bound to this handle.
func (iv *Interval) Schedule() *schedule.Schedule { return iv.sched }

// StartTime returns the start of the interval's first workshift.
func (iv *Interval) StartTime() time.Time { return iv.tl.WorkshiftAt(iv.first).StartTime }

// EndTime returns the end of the interval's last workshift.
func (iv *Interval) EndTime() time.Time { return iv.tl.WorkshiftAt(iv.last).EndTime }

func (iv *Interval) String() string {
	return fmt.Sprintf("Interval(%d, %d): [%d]", iv.first, iv.last, iv.Length())
}

func validateDuty(duty schedule.Duty) error {
	switch duty {
	case schedule.DutyOn, schedule.DutyOff, schedule.DutyAny:
		return nil
	default:
		return core.NewInvalidArgumentsError("interval duty must be 'on', 'off', or 'any'")
	}
}

// dutyBounds returns the [lo, hi] sub-range of idx that falls within
// [iv.first, iv.last], or ok=false if idx has no entries in that range.
func dutyBounds(idx []int, first, last int) (lo, hi int, ok bool) {
	lo = sort.SearchInts(idx, first)
	if lo == len(idx) || idx[lo] > last {
		return 0, 0, false
	}
	hi = sort.SearchInts(idx, last+1) - 1
	return lo, hi, true
}

func (iv *Interval) dutyIndex(duty schedule.Duty) ([]int, error) {
	if err := validateDuty(duty); err != nil {
		return nil, err
	}
	return iv.sched.Index(duty, false)
}

// Count returns the number of interval workshifts with the given duty.
func (iv *Interval) Count(duty schedule.Duty) (int, error) {
	idx, err := iv.dutyIndex(duty)
	if err != nil {
		return 0, err
	}
	lo, hi, ok := dutyBounds(idx, iv.first, iv.last)
	if !ok {
		return 0, nil
	}
	return hi - lo + 1, nil
}

// TotalDuration returns the sum of base-unit counts of the interval's
// duty-qualifying workshifts.
func (iv *Interval) TotalDuration(duty schedule.Duty) (int, error) {
	idx, err := iv.dutyIndex(duty)
	if err != nil {
		return 0, err
	}
	lo, hi, ok := dutyBounds(idx, iv.first, iv.last)
	if !ok {
		return 0, nil
	}
	total := 0
	for _, pos := range idx[lo : hi+1] {
		total += iv.tl.WorkshiftAt(pos).Duration()
	}
	return total, nil
}

// Worktime returns the interval's aggregated worktime under duty: the same
// as TotalDuration if worktimeSource is duration, or the sum of qualifying
// workshifts' numeric labels if it is labels.
func (iv *Interval) Worktime(duty schedule.Duty) (float64, error) {
	if iv.worktimeSource == workshift.WorktimeDuration {
		total, err := iv.TotalDuration(duty)
		return float64(total), err
	}

	idx, err := iv.dutyIndex(duty)
	if err != nil {
		return 0, err
	}
	lo, hi, ok := dutyBounds(idx, iv.first, iv.last)
	if !ok {
		return 0, nil
	}
	var sum float64
	for _, pos := range idx[lo : hi+1] {
		v, err := numericLabel(iv.tl.WorkshiftAt(pos).Label)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func numericLabel(label pattern.Label) (float64, error) {
	switch v := label.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, core.NewTypeMismatchError(fmt.Sprintf("label %v is expected to indicate work time but it is not a number", label))
	}
}

// Nth returns the n-th (1-based; negative counts from the end) interval
// workshift with the given duty. n=0 is invalid.
func (iv *Interval) Nth(n int, duty schedule.Duty) (*workshift.Workshift, error) {
	if n == 0 {
		return nil, core.NewInvalidArgumentsError("nth: n must not be zero")
	}
	idx, err := iv.dutyIndex(duty)
	if err != nil {
		return nil, err
	}
	lo, hi, ok := dutyBounds(idx, iv.first, iv.last)
	if !ok {
		return nil, core.NewOutOfBoundsError(fmt.Sprintf("duty not found in interval %s", iv), describe(iv.tl))
	}

	var pos int
	if n > 0 {
		pos = lo + n - 1
	} else {
		pos = hi + n + 1
	}
	if pos < lo || pos > hi {
		return nil, core.NewOutOfBoundsError(fmt.Sprintf("no %dth workshift of that duty in interval %s", n, iv), describe(iv.tl))
	}
	return workshift.New(iv.tl, idx[pos], iv.sched, iv.worktimeSource)
}

// First is Nth(1, duty).
func (iv *Interval) First(duty schedule.Duty) (*workshift.Workshift, error) { return iv.Nth(1, duty) }

// Last is Nth(-1, duty).
func (iv *Interval) Last(duty schedule.Duty) (*workshift.Workshift, error) { return iv.Nth(-1, duty) }

// Overlap returns the intersection of iv and other's position ranges,
// carrying iv's schedule unless sched overrides it. Returns
// VoidIntervalError if the ranges don't overlap.
func (iv *Interval) Overlap(other *Interval, sched *schedule.Schedule) (*Interval, error) {
	lo := iv.first
	if other.first > lo {
		lo = other.first
	}
	hi := iv.last
	if other.last < hi {
		hi = other.last
	}
	if lo > hi {
		return nil, core.NewVoidIntervalError("intervals do not overlap")
	}
	if sched == nil {
		sched = iv.sched
	}
	return New(iv.tl, lo, hi, sched, iv.worktimeSource)
}

// WhatPortionOf returns count(self ∩ other, duty) / count(other, duty),
// in [0, 1]. Returns 0 if other has no duty-qualifying workshift, or if
// self and other don't overlap.
func (iv *Interval) WhatPortionOf(other *Interval, duty schedule.Duty) (float64, error) {
	denom, err := other.Count(duty)
	if err != nil {
		return 0, err
	}
	if denom == 0 {
		return 0, nil
	}
	ov, err := iv.Overlap(other, nil)
	if err != nil {
		if _, isVoid := err.(*core.VoidIntervalError); isVoid {
			return 0, nil
		}
		return 0, err
	}
	num, err := ov.Count(duty)
	if err != nil {
		return 0, err
	}
	return float64(num) / float64(denom), nil
}

// refPositionsInPeriod returns the [lo, hi] range of timeline positions
// whose ref_time falls within the half-open period p, or ok=false if none.
func refPositionsInPeriod(tl *timeline.Timeline, p freq.Period) (lo, hi int, ok bool) {
	n := tl.Len()
	lo = sort.Search(n, func(i int) bool { return !tl.WorkshiftAt(i).RefTime.Before(p.Start) })
	hi = sort.Search(n, func(i int) bool { return !tl.WorkshiftAt(i).RefTime.Before(p.End) }) - 1
	if lo >= n || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

func countDutyInRange(tl *timeline.Timeline, sched *schedule.Schedule, duty schedule.Duty, lo, hi int) (int, error) {
	if lo > hi {
		return 0, nil
	}
	return sched.CountInRange(duty, false, lo, hi)
}

// CountPeriods returns the fractional count of calendar periods of f
// covered by the interval's duty-restricted bounds, weighted by
// duty-qualifying workshift density in each period. f must be a native
// (multiplier-1) superperiod of the timeline's base unit.
func (iv *Interval) CountPeriods(f freq.CalendarFreq, duty schedule.Duty) (float64, error) {
	if err := validateDuty(duty); err != nil {
		return 0, err
	}
	if !f.IsNative() {
		return 0, core.NewUnsupportedPeriodError(fmt.Sprintf("count_periods period %s must not carry a multiplier", f))
	}
	if !f.IsSuperperiodOf(iv.tl.Frame().Freq()) {
		return 0, core.NewUnsupportedPeriodError(fmt.Sprintf("period %s is not a superperiod of the timeline's base unit %s", f, iv.tl.Frame().Freq()))
	}

	startWS, err := iv.First(duty)
	if err != nil {
		return 0.0, nil
	}
	endWS, err := iv.Last(duty)
	if err != nil {
		return 0.0, nil
	}

	startTs := startWS.ToTimestamp()
	endTs := endWS.ToTimestamp()

	p := f.PeriodContaining(startTs)
	lastP := f.PeriodContaining(endTs)

	result := 0.0
	isFirst := true
	for {
		isLast := p.Start.Equal(lastP.Start)
		if isFirst || isLast {
			if p.Start.Before(iv.tl.StartTime()) || p.End.After(iv.tl.EndTime()) {
				return 0, core.NewPartialOutOfBoundsError(
					fmt.Sprintf("period %s containing %s extends outside the timeline", f, p.Start), describe(iv.tl))
			}
		}

		lo, hi, ok := refPositionsInPeriod(iv.tl, p)
		if ok {
			fullCount, err := countDutyInRange(iv.tl, iv.sched, duty, lo, hi)
			if err != nil {
				return 0, err
			}
			if fullCount > 0 {
				sliceLo, sliceHi := lo, hi
				if iv.first > sliceLo {
					sliceLo = iv.first
				}
				if iv.last < sliceHi {
					sliceHi = iv.last
				}
				sliceCount, err := countDutyInRange(iv.tl, iv.sched, duty, sliceLo, sliceHi)
				if err != nil {
					return 0, err
				}
				result += float64(sliceCount) / float64(fullCount)
			}
		}

		if isLast {
			break
		}
		p = f.Add(p, 1)
		isFirst = false
	}

	return result, nil
}
