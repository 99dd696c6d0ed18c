package workshift

import (
	"testing"
	"time"

	"shiftboard/internal/frame"
	"shiftboard/internal/freq"
	"shiftboard/internal/pattern"
	"shiftboard/internal/schedule"
	"shiftboard/internal/timeline"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buildWeek builds a 7-day timeline labeled Mon..Sun with on-duty weekdays.
func buildWeek(t *testing.T) (*timeline.Timeline, *schedule.Schedule) {
	t.Helper()
	day := freq.MustParse("D")
	fr, err := frame.New(day, date(2023, 1, 2), date(2023, 1, 9)) // Mon 1/2 .. Sun 1/8
	if err != nil {
		t.Fatalf("frame.New: %v", err)
	}
	labels := []pattern.Label{"work", "work", "work", "work", "work", "off", "off"}
	compoundable := make([]bool, len(labels))
	tl, err := timeline.Build(fr, labels, compoundable, timeline.RefStart)
	if err != nil {
		t.Fatalf("timeline.Build: %v", err)
	}
	sched := schedule.New("workweek", tl, func(l pattern.Label) bool { return l == "work" })
	return tl, sched
}

func TestRollForwardOnDuty(t *testing.T) {
	tl, sched := buildWeek(t)
	ws, err := New(tl, 4, sched, WorktimeDuration) // Friday, on duty
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Friday is the last on-duty position, so stepping one further on-duty
	// position is out of bounds.
	if _, err := ws.RollForward(1, schedule.DutyOn, nil); err == nil {
		t.Error("expected OutOfBoundsError rolling forward past the last on-duty workshift")
	}

	prev, err := ws.RollForward(-1, schedule.DutyOn, nil)
	if err != nil {
		t.Fatalf("RollForward(-1): %v", err)
	}
	if prev.Position() != 3 {
		t.Errorf("RollForward(-1) position = %d, want 3", prev.Position())
	}
}

func TestRollForwardOffDutyFromOnDuty(t *testing.T) {
	tl, sched := buildWeek(t)
	ws, err := New(tl, 4, sched, WorktimeDuration) // Friday, on duty
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Zero-step anchor for "off" from an on-duty position is the nearest
	// off-duty position at or after self: Saturday (pos 5).
	next, err := ws.RollForward(0, schedule.DutyOff, nil)
	if err != nil {
		t.Fatalf("RollForward(0, off): %v", err)
	}
	if next.Position() != 5 {
		t.Errorf("RollForward(0, off) position = %d, want 5", next.Position())
	}
}

func TestRollBackFindsPastAnchor(t *testing.T) {
	tl, sched := buildWeek(t)
	ws, err := New(tl, 5, sched, WorktimeDuration) // Saturday, off duty
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prev, err := ws.RollBack(0, schedule.DutyOn, nil)
	if err != nil {
		t.Fatalf("RollBack(0, on): %v", err)
	}
	if prev.Position() != 4 {
		t.Errorf("RollBack(0, on) position = %d, want 4", prev.Position())
	}
}

func TestAddSubAsymmetry(t *testing.T) {
	tl, sched := buildWeek(t)
	// Saturday: off duty. RollForward looks for its on-duty anchor at or
	// after self and finds none before the timeline ends, so Add fails;
	// RollBack finds its anchor toward the past (Friday) and succeeds, one
	// step back landing on Thursday.
	ws, err := New(tl, 5, sched, WorktimeDuration)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ws.Add(1); err == nil {
		t.Error("expected OutOfBoundsError: no on-duty anchor at or after Saturday")
	}
	back, err := ws.Sub(1)
	if err != nil {
		t.Fatalf("Sub(1): %v", err)
	}
	if back.Position() != 3 {
		t.Errorf("Sub(1) position = %d, want 3", back.Position())
	}
}

func TestOutOfBoundsRoll(t *testing.T) {
	tl, sched := buildWeek(t)
	ws, err := New(tl, 0, sched, WorktimeDuration)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ws.RollBack(1, schedule.DutyOn, nil); err == nil {
		t.Error("expected OutOfBoundsError rolling back past the start")
	}
}

func TestWorktimeDurationVsLabels(t *testing.T) {
	tl, sched := buildWeek(t)
	ws, err := New(tl, 0, sched, WorktimeDuration)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wt, err := ws.Worktime(schedule.DutyOn, nil)
	if err != nil {
		t.Fatalf("Worktime: %v", err)
	}
	if wt != 1 {
		t.Errorf("Worktime (duration) = %v, want 1", wt)
	}

	wsOff, _ := New(tl, 5, sched, WorktimeDuration)
	wt, err = wsOff.Worktime(schedule.DutyOn, nil)
	if err != nil {
		t.Fatalf("Worktime off-duty: %v", err)
	}
	if wt != 0 {
		t.Errorf("off-duty Worktime(on) = %v, want 0", wt)
	}
}

func TestWorktimeFromLabelsRequiresNumericLabel(t *testing.T) {
	tl, sched := buildWeek(t)
	ws, err := New(tl, 0, sched, WorktimeLabels)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ws.Worktime(schedule.DutyOn, nil); err == nil {
		t.Error("expected TypeMismatchError: label \"work\" is not numeric")
	}
}

func TestIsOnDutyIsOffDuty(t *testing.T) {
	tl, sched := buildWeek(t)
	onWS, _ := New(tl, 0, sched, WorktimeDuration)
	offWS, _ := New(tl, 5, sched, WorktimeDuration)
	if !onWS.IsOnDuty(nil) || onWS.IsOffDuty(nil) {
		t.Error("position 0 should be on duty")
	}
	if offWS.IsOnDuty(nil) || !offWS.IsOffDuty(nil) {
		t.Error("position 5 should be off duty")
	}
}
