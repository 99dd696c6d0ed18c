// Package timeline implements Timeline: the array of workshifts derived
// from a Frame plus its organize-pass labels, with position lookups by
// timestamp and by reference time.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/frame"
	"shiftboard/internal/pattern"
)

// Ref selects whether a workshift's reference time is the start of its
// first base unit or the end of its last.
type Ref int

const (
	RefStart Ref = iota
	RefEnd
)

// Workshift is one entry of a Timeline's ws_band: a run of one or more
// base units sharing a label.
type Workshift struct {
	FirstBaseUnitIndex int
	LastBaseUnitIndex  int
	Label              pattern.Label
	StartTime          time.Time
	EndTime            time.Time
	RefTime            time.Time
}

// Duration is the number of base units the workshift spans.
func (w Workshift) Duration() int { return w.LastBaseUnitIndex - w.FirstBaseUnitIndex + 1 }

// Timeline owns the base-unit Frame, the per-base-unit-to-workshift
// mapping (frame_band), and the workshift array (ws_band).
type Timeline struct {
	frame     *frame.Frame
	frameBand []int
	wsBand    []Workshift
	ref       Ref
}

// Build collapses (labels, compoundable) — already amendment-overlaid —
// into workshifts and assembles the Timeline. Adjacent base units merge
// into one workshift iff their labels are exactly equal and both are
// flagged compoundable (came from a scalar-broadcast structure element).
func Build(fr *frame.Frame, labels []pattern.Label, compoundable []bool, ref Ref) (*Timeline, error) {
	if len(labels) != fr.Len() || len(compoundable) != fr.Len() {
		return nil, core.NewInvalidArgumentsError("label/compoundable arrays must match frame length")
	}

	frameBand := make([]int, fr.Len())
	var wsBand []Workshift

	i := 0
	for i < len(labels) {
		j := i
		for j+1 < len(labels) && labels[j+1] == labels[i] && compoundable[j+1] && compoundable[i] {
			j++
		}

		startTime := fr.BaseUnitAt(i).Start
		endTime := fr.BaseUnitAt(j).End
		refTime := startTime
		if ref == RefEnd {
			refTime = endTime
		}

		wsIdx := len(wsBand)
		wsBand = append(wsBand, Workshift{
			FirstBaseUnitIndex: i, LastBaseUnitIndex: j, Label: labels[i],
			StartTime: startTime, EndTime: endTime, RefTime: refTime,
		})
		for k := i; k <= j; k++ {
			frameBand[k] = wsIdx
		}
		i = j + 1
	}

	return &Timeline{frame: fr, frameBand: frameBand, wsBand: wsBand, ref: ref}, nil
}

// Frame returns the timeline's base-unit axis.
func (tl *Timeline) Frame() *frame.Frame { return tl.frame }

// Len returns the number of workshifts.
func (tl *Timeline) Len() int { return len(tl.wsBand) }

// WorkshiftAt returns the workshift at position pos.
func (tl *Timeline) WorkshiftAt(pos int) Workshift { return tl.wsBand[pos] }

// StartTime returns the start of the timeline's first base unit.
func (tl *Timeline) StartTime() time.Time { return tl.frame.StartTime() }

// EndTime returns the end of the timeline's last base unit.
func (tl *Timeline) EndTime() time.Time { return tl.frame.EndTime() }

// WorkshiftContaining locates the workshift whose base units contain ts.
func (tl *Timeline) WorkshiftContaining(ts time.Time) (int, error) {
	idx, err := tl.frame.IndexAt(ts)
	if err != nil {
		return 0, err
	}
	return tl.frameBand[idx], nil
}

// WorkshiftWithRefAfter returns the smallest position whose ref_time is
// on or after ts, or OutOfBoundsError if every workshift's ref_time
// precedes ts.
func (tl *Timeline) WorkshiftWithRefAfter(ts time.Time) (int, error) {
	n := len(tl.wsBand)
	pos := sort.Search(n, func(i int) bool { return !tl.wsBand[i].RefTime.Before(ts) })
	if pos == n {
		return 0, core.NewOutOfBoundsError(fmt.Sprintf("no workshift with ref_time on or after %s", ts), tl.describe())
	}
	return pos, nil
}

// WorkshiftWithRefBefore returns the largest position whose ref_time is
// on or before ts, or OutOfBoundsError if every workshift's ref_time is
// after ts.
func (tl *Timeline) WorkshiftWithRefBefore(ts time.Time) (int, error) {
	n := len(tl.wsBand)
	pos := sort.Search(n, func(i int) bool { return tl.wsBand[i].RefTime.After(ts) })
	pos--
	if pos < 0 {
		return 0, core.NewOutOfBoundsError(fmt.Sprintf("no workshift with ref_time on or before %s", ts), tl.describe())
	}
	return pos, nil
}

// WorkshiftWithRefStrictlyBefore returns the largest position whose
// ref_time is strictly before ts, or OutOfBoundsError if none is. Calendar
// periods are half-open, so a period's last workshift is resolved with this
// lookup: a ref_time exactly at the period's End already belongs to the
// next period.
func (tl *Timeline) WorkshiftWithRefStrictlyBefore(ts time.Time) (int, error) {
	n := len(tl.wsBand)
	pos := sort.Search(n, func(i int) bool { return !tl.wsBand[i].RefTime.Before(ts) }) - 1
	if pos < 0 {
		return 0, core.NewOutOfBoundsError(fmt.Sprintf("no workshift with ref_time before %s", ts), tl.describe())
	}
	return pos, nil
}

func (tl *Timeline) describe() string {
	return fmt.Sprintf("%s timeline, %d workshifts", tl.frame.Freq(), len(tl.wsBand))
}
