// Package marker implements Marker, the declarative description of how an
// Organizer cuts a Frame into Subframes: periodic (by calendar frequency,
// optionally with anchor offsets) or explicit (a fixed list of timestamps).
package marker

import (
	"fmt"
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/frame"
	"shiftboard/internal/freq"
)

// Marker is either periodic (Each set) or explicit (Marks set).
type Marker struct {
	each     freq.CalendarFreq
	at       []OffsetSpec
	how      How
	periodic bool
	marks    []time.Time
}

// NewPeriodic builds a periodic Marker over each. at/how are optional: an
// empty at cuts strictly at each's period boundaries.
func NewPeriodic(each freq.CalendarFreq, how How, at []OffsetSpec) *Marker {
	return &Marker{each: each, at: append([]OffsetSpec(nil), at...), how: how, periodic: true}
}

// NewExplicit builds an explicit Marker from marks, sorted and deduplicated.
func NewExplicit(marks []time.Time) *Marker {
	sorted := append([]time.Time(nil), marks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	deduped := sorted[:0]
	for i, ts := range sorted {
		if i == 0 || !ts.Equal(sorted[i-1]) {
			deduped = append(deduped, ts)
		}
	}
	return &Marker{marks: deduped}
}

// Partition cuts fr[first:last] into Subframes: at period boundaries for a
// plain periodic marker, at anchor candidates for a periodic marker with
// offsets, or at the fixed timestamps of an explicit marker.
func (m *Marker) Partition(fr *frame.Frame, first, last int) ([]frame.Subframe, error) {
	if !m.periodic {
		return m.partitionCandidates(fr, first, last, m.marks)
	}
	if len(m.at) == 0 {
		return m.partitionPeriodicNoAt(fr, first, last)
	}
	return m.partitionPeriodicWithAt(fr, first, last)
}

func (m *Marker) partitionPeriodicNoAt(fr *frame.Frame, first, last int) ([]frame.Subframe, error) {
	if !m.each.IsSuperperiodOf(fr.Freq()) {
		return nil, core.NewUnsupportedPeriodError(fmt.Sprintf("marker frequency %s is not a superperiod of frame frequency %s", m.each, fr.Freq()))
	}

	firstStart := fr.BaseUnitAt(first).Start
	lastStart := fr.BaseUnitAt(last).Start
	p := m.each.PeriodContaining(firstStart)
	lastP := m.each.PeriodContaining(lastStart)

	var splits []int
	cur := p
	for !cur.Start.Equal(lastP.Start) {
		cur = m.each.Add(cur, 1)
		idx := fr.AbsIndex(cur.Start)
		if idx > first && idx <= last {
			splits = append(splits, idx)
		}
	}

	skipLeft := first - fr.AbsIndex(p.Start)
	skipRight := fr.AbsIndex(lastP.End) - (last + 1)

	return frame.SubframesFromSplits(first, last, splits, skipLeft, skipRight), nil
}

func (m *Marker) partitionPeriodicWithAt(fr *frame.Frame, first, last int) ([]frame.Subframe, error) {
	if !m.each.IsSuperperiodOf(fr.Freq()) {
		return nil, core.NewUnsupportedPeriodError(fmt.Sprintf("marker frequency %s is not a superperiod of frame frequency %s", m.each, fr.Freq()))
	}

	firstStart := fr.BaseUnitAt(first).Start
	lastStart := fr.BaseUnitAt(last).Start
	envelopeStart := m.each.PeriodContaining(firstStart)
	envelopeEnd := m.each.PeriodContaining(lastStart)

	var candidates []time.Time
	p := envelopeStart
	for {
		for _, spec := range m.at {
			raw, ok := applyHow(m.how, p, spec)
			if !ok {
				continue
			}
			snapped := fr.Freq().PeriodContaining(raw).Start
			if snapped.Before(p.Start) || !snapped.Before(p.End) {
				continue
			}
			candidates = append(candidates, snapped)
		}
		if p.Start.Equal(envelopeEnd.Start) {
			break
		}
		p = m.each.Add(p, 1)
	}

	return buildSubframes(fr, first, last, dedupSort(candidates))
}

func (m *Marker) partitionCandidates(fr *frame.Frame, first, last int, marks []time.Time) ([]frame.Subframe, error) {
	var candidates []time.Time
	for _, ts := range marks {
		candidates = append(candidates, fr.Freq().PeriodContaining(ts).Start)
	}
	return buildSubframes(fr, first, last, dedupSort(candidates))
}

// buildSubframes implements steps 4-6 shared by the periodic-with-at and
// explicit-marks cases: empty candidate set yields one dangling subframe;
// otherwise split the window at in-range candidates and compute skips from
// the nearest out-of-range candidate on each side.
func buildSubframes(fr *frame.Frame, first, last int, candidates []time.Time) ([]frame.Subframe, error) {
	if len(candidates) == 0 {
		return []frame.Subframe{{FirstIndex: first, LastIndex: last, SkipLeft: -1, SkipRight: -1}}, nil
	}

	indices := make([]int, len(candidates))
	for i, ts := range candidates {
		indices[i] = fr.AbsIndex(ts)
	}

	var splits []int
	skipLeft, skipRight := -1, -1
	for _, idx := range indices {
		if idx > first && idx <= last {
			splits = append(splits, idx)
		}
		if idx <= first {
			skipLeft = first - idx
		}
		if idx > last && skipRight == -1 {
			skipRight = idx - last - 1
		}
	}

	return frame.SubframesFromSplits(first, last, splits, skipLeft, skipRight), nil
}

func dedupSort(tss []time.Time) []time.Time {
	sort.Slice(tss, func(i, j int) bool { return tss[i].Before(tss[j]) })
	out := tss[:0]
	for i, ts := range tss {
		if i == 0 || !ts.Equal(tss[i-1]) {
			out = append(out, ts)
		}
	}
	return out
}
