// Package frame implements Frame, the ordered run of fixed-frequency base
// units that every Organizer walks over, plus Subframe, the
// (first, last, skip_left, skip_right) slice a Marker carves out of one.
package frame

import (
	"fmt"
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/freq"
)

// Frame owns a contiguous, monotonically increasing run of base units, all
// of the same CalendarFreq, spanning [start, end). It is immutable after
// construction.
type Frame struct {
	f      freq.CalendarFreq
	start  time.Time
	end    time.Time
	length int
}

// Subframe is a contiguous slice of a parent Frame's index range, with
// skip counters describing how far it's misaligned against the enclosing
// structural period (−1 means "alignment undefined").
type Subframe struct {
	FirstIndex int
	LastIndex  int
	SkipLeft   int
	SkipRight  int
}

// New builds a Frame of frequency f spanning [start, end]. start rounds
// down to the period containing it; end rounds up to the period containing
// it (or stays put if already on a period boundary). Returns
// VoidIntervalError if the rounded start is after the rounded end.
func New(f freq.CalendarFreq, start, end time.Time) (*Frame, error) {
	roundedStart := f.PeriodContaining(start).Start

	endPeriod := f.PeriodContaining(end)
	roundedEnd := endPeriod.End
	if endPeriod.Start.Equal(end) {
		roundedEnd = end
	}

	if roundedStart.After(roundedEnd) {
		return nil, core.NewVoidIntervalError(fmt.Sprintf("frame start %s after end %s", roundedStart, roundedEnd))
	}

	length := periodCount(f, roundedStart, roundedEnd)
	if length < 1 {
		return nil, core.NewVoidIntervalError(fmt.Sprintf("frame %s to %s contains no base units", roundedStart, roundedEnd))
	}

	return &Frame{f: f, start: roundedStart, end: roundedEnd, length: length}, nil
}

// periodCount returns the signed number of whole periods of f between the
// aligned boundary from and an arbitrary timestamp to — negative if to
// precedes from. Used both for bounds-checked frame indexing (from/to both
// inside the frame) and for unchecked position arithmetic against markers
// whose envelope can reach outside the frame.
func periodCount(f freq.CalendarFreq, from, to time.Time) int {
	if d, ok := f.FixedDuration(); ok {
		elapsed := to.Sub(from)
		q := int64(elapsed / d)
		if elapsed%d != 0 && (elapsed < 0) != (d < 0) {
			q--
		}
		return int(q)
	}
	if !to.Before(from) {
		n := 0
		p := f.PeriodContaining(from)
		for p.Start.Before(to) {
			p = f.Add(p, 1)
			n++
		}
		return n
	}
	n := 0
	p := f.PeriodContaining(from)
	for p.Start.After(to) {
		p = f.Add(p, -1)
		n--
	}
	return n
}

// Freq returns the frame's base frequency.
func (fr *Frame) Freq() freq.CalendarFreq { return fr.f }

// Len returns the number of base units in the frame.
func (fr *Frame) Len() int { return fr.length }

// StartTime returns the start of the first base unit.
func (fr *Frame) StartTime() time.Time { return fr.start }

// EndTime returns the end of the last base unit (exclusive).
func (fr *Frame) EndTime() time.Time { return fr.end }

// BaseUnitAt returns the [start, end) period of the i-th base unit.
// Panics if i is out of [0, Len()) — callers are expected to have already
// range-checked via an index obtained from this Frame.
func (fr *Frame) BaseUnitAt(i int) freq.Period {
	if i < 0 || i >= fr.length {
		panic(fmt.Sprintf("frame: base unit index %d out of range [0, %d)", i, fr.length))
	}
	first := fr.f.PeriodContaining(fr.start)
	return fr.f.Add(first, i)
}

// IndexAt returns the index of the base unit containing ts, or
// OutOfBoundsError if ts falls outside the frame.
func (fr *Frame) IndexAt(ts time.Time) (int, error) {
	if ts.Before(fr.start) || !ts.Before(fr.end) {
		return 0, core.NewOutOfBoundsError(fmt.Sprintf("timestamp %s outside frame", ts), fr.describe())
	}
	return periodCount(fr.f, fr.start, ts), nil
}

// AbsIndex returns the index ts would have relative to the frame's base
// unit 0, without bounds checking — it may be negative or >= Len() when ts
// falls outside the frame. Markers use this to measure a structural
// period's reach beyond the subframe they're partitioning.
func (fr *Frame) AbsIndex(ts time.Time) int {
	return periodCount(fr.f, fr.start, ts)
}

// CountUnits returns the signed number of whole f-periods between the
// aligned boundary from and an arbitrary timestamp to.
func CountUnits(f freq.CalendarFreq, from, to time.Time) int {
	return periodCount(f, from, to)
}

func (fr *Frame) describe() string {
	return fmt.Sprintf("%s frame [%s, %s) len=%d", fr.f, fr.start, fr.end, fr.length)
}

// SplitAtTimestamps maps tss to base-unit indices, dropping timestamps
// outside the frame, timestamps landing in the first base unit (index 0,
// which can never start a new subframe), and duplicates. The result is
// sorted ascending.
func (fr *Frame) SplitAtTimestamps(tss []time.Time) []int {
	seen := make(map[int]bool)
	var indices []int
	for _, ts := range tss {
		idx, err := fr.IndexAt(ts)
		if err != nil || idx == 0 {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// SubframesFromSplits turns a sorted list of interior split indices within
// [first, last] into contiguous Subframes. skipLeft/skipRight are applied
// only to the first/last resulting Subframe; interior subframes get skip
// 0 on both sides since they begin and end exactly on structural
// boundaries by construction.
func SubframesFromSplits(first, last int, splits []int, skipLeft, skipRight int) []Subframe {
	bounds := append([]int{first}, splits...)
	bounds = append(bounds, last+1)

	subs := make([]Subframe, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		sf := Subframe{FirstIndex: bounds[i], LastIndex: bounds[i+1] - 1}
		if i == 0 {
			sf.SkipLeft = skipLeft
		}
		if i == len(bounds)-2 {
			sf.SkipRight = skipRight
		}
		subs = append(subs, sf)
	}
	return subs
}
