// Package workshift implements Workshift, the lightweight immutable handle
// (timeline, position, schedule) with duty queries, roll-forward/back
// navigation, and worktime.
package workshift

import (
	"fmt"
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/pattern"
	"shiftboard/internal/schedule"
	"shiftboard/internal/timeline"
)

// WorktimeSource selects where Worktime reads its value from: the
// workshift's duration (base-unit count) or its numeric label.
type WorktimeSource int

const (
	WorktimeDuration WorktimeSource = iota
	WorktimeLabels
)

// Workshift is an ephemeral value handle into a Timeline: a position plus
// the Schedule used to interpret its duty unless overridden per call.
type Workshift struct {
	tl             *timeline.Timeline
	pos            int
	sched          *schedule.Schedule
	worktimeSource WorktimeSource
}

// New builds a Workshift at pos on tl, bound to sched. Returns
// OutOfBoundsError if pos is outside the timeline.
func New(tl *timeline.Timeline, pos int, sched *schedule.Schedule, worktimeSource WorktimeSource) (*Workshift, error) {
	if pos < 0 || pos >= tl.Len() {
		return nil, core.NewOutOfBoundsError(fmt.Sprintf("workshift location %d", pos), describe(tl))
	}
	return &Workshift{tl: tl, pos: pos, sched: sched, worktimeSource: worktimeSource}, nil
}

func describe(tl *timeline.Timeline) string {
	return fmt.Sprintf("%s timeline, %d workshifts", tl.Frame().Freq(), tl.Len())
}

// Position returns the workshift's zero-based location on the timeline.
func (w *Workshift) Position() int { return w.pos }

// Label returns the workshift's label.
func (w *Workshift) Label() pattern.Label { return w.tl.WorkshiftAt(w.pos).Label }

// StartTime returns the start of the workshift's first base unit.
func (w *Workshift) StartTime() time.Time { return w.tl.WorkshiftAt(w.pos).StartTime }

// EndTime returns the end of the workshift's last base unit.
func (w *Workshift) EndTime() time.Time { return w.tl.WorkshiftAt(w.pos).EndTime }

// Duration returns the number of base units the workshift spans.
func (w *Workshift) Duration() int { return w.tl.WorkshiftAt(w.pos).Duration() }

// Schedule returns the schedule bound to this handle.
func (w *Workshift) Schedule() *schedule.Schedule { return w.sched }

// ToTimestamp returns the workshift's reference time, per the timeline's
// workshift_ref policy.
func (w *Workshift) ToTimestamp() time.Time { return w.tl.WorkshiftAt(w.pos).RefTime }

// IsOnDuty reports whether w is on duty under sched, or under w's own
// schedule if sched is nil.
func (w *Workshift) IsOnDuty(sched *schedule.Schedule) bool {
	if sched == nil {
		sched = w.sched
	}
	return sched.IsOnDuty(w.pos)
}

// IsOffDuty reports whether w is off duty under sched, or under w's own
// schedule if sched is nil.
func (w *Workshift) IsOffDuty(sched *schedule.Schedule) bool {
	return !w.IsOnDuty(sched)
}

func (w *Workshift) String() string {
	durationStr := ""
	if w.Duration() != 1 {
		durationStr = fmt.Sprintf("%dx", w.Duration())
	}
	return fmt.Sprintf("Workshift(%d) of %s'%s' at %s", w.pos, durationStr, w.tl.Frame().Freq(), w.StartTime())
}

// dutyIndex resolves duty against sched. For the Same/Alt cases self's
// current duty status is evaluated under sched itself, not under the
// schedule the handle was created with.
func (w *Workshift) dutyIndex(duty schedule.Duty, sched *schedule.Schedule) ([]int, error) {
	return sched.Index(duty, sched.IsOnDuty(w.pos))
}

// RollForward finds the zero-step anchor — the smallest indexed position
// at or after w — then takes steps further positions within that index.
// Positive steps move toward the future, negative toward the past.
func (w *Workshift) RollForward(steps int, duty schedule.Duty, sched *schedule.Schedule) (*Workshift, error) {
	if sched == nil {
		sched = w.sched
	}
	idx, err := w.dutyIndex(duty, sched)
	if err != nil {
		return nil, err
	}

	n := len(idx)
	i := sort.SearchInts(idx, w.pos)
	if i == n || i+steps < 0 || i+steps >= n {
		return nil, core.NewOutOfBoundsError(
			fmt.Sprintf("rollforward of %s with steps=%d, duty=%d, schedule=%s", w, steps, duty, sched.Name),
			describe(w.tl))
	}
	return New(w.tl, idx[i+steps], sched, w.worktimeSource)
}

// RollBack finds the zero-step anchor — the largest indexed position at or
// before w — then takes steps further positions within that index.
// Positive steps move toward the past, negative toward the future.
func (w *Workshift) RollBack(steps int, duty schedule.Duty, sched *schedule.Schedule) (*Workshift, error) {
	if sched == nil {
		sched = w.sched
	}
	idx, err := w.dutyIndex(duty, sched)
	if err != nil {
		return nil, err
	}

	n := len(idx)
	i := n - 1
	for i >= 0 && idx[i] > w.pos {
		i--
	}
	if i == -1 || i-steps < 0 || i-steps >= n {
		return nil, core.NewOutOfBoundsError(
			fmt.Sprintf("rollback of %s with steps=%d, duty=%d, schedule=%s", w, steps, duty, sched.Name),
			describe(w.tl))
	}
	return New(w.tl, idx[i-steps], sched, w.worktimeSource)
}

// Add is ws.RollForward(n, 'on', nil) — ws + n.
func (w *Workshift) Add(n int) (*Workshift, error) { return w.RollForward(n, schedule.DutyOn, nil) }

// Sub is ws.RollBack(n, 'on', nil) — ws - n. Note that ws.Sub(n) and
// ws.RollForward(-n, 'on', nil) generally differ: RollForward seeks its
// zero-step anchor toward the future, RollBack toward the past.
func (w *Workshift) Sub(n int) (*Workshift, error) { return w.RollBack(n, schedule.DutyOn, nil) }

// Worktime returns the work time contributed by w under duty: zero if w's
// duty (under sched, or w's own schedule if nil) doesn't match, otherwise
// either the duration or the numeric label, per worktimeSource.
func (w *Workshift) Worktime(duty schedule.Duty, sched *schedule.Schedule) (float64, error) {
	if sched == nil {
		sched = w.sched
	}
	var qualifies bool
	switch duty {
	case schedule.DutyOn:
		qualifies = sched.IsOnDuty(w.pos)
	case schedule.DutyOff:
		qualifies = sched.IsOffDuty(w.pos)
	case schedule.DutyAny:
		qualifies = true
	default:
		return 0, core.NewInvalidArgumentsError("worktime duty must be on, off, or any")
	}
	if !qualifies {
		return 0, nil
	}

	switch w.worktimeSource {
	case WorktimeLabels:
		return numericLabel(w.Label())
	case WorktimeDuration:
		return float64(w.Duration()), nil
	default:
		return 0, core.NewInvalidArgumentsError("unrecognized worktime source")
	}
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
