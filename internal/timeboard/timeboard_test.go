package timeboard

import (
	"testing"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/freq"
	"shiftboard/internal/marker"
	"shiftboard/internal/organizer"
	"shiftboard/internal/pattern"
	"shiftboard/internal/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buildFlatTimeboard(t *testing.T) *Timeboard {
	t.Helper()
	layout := []pattern.Label{"day", "day", "night", "off"}
	tb, err := New("D", date(2023, 1, 1), date(2023, 2, 1), layout)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tb
}

func TestNewWithFlatLayout(t *testing.T) {
	tb := buildFlatTimeboard(t)
	if tb.Len() != 31 {
		t.Errorf("Len() = %d, want 31", tb.Len())
	}
	ws, err := tb.WorkshiftAt(0, "")
	if err != nil {
		t.Fatalf("WorkshiftAt: %v", err)
	}
	if ws.Label() != pattern.Label("day") {
		t.Errorf("label at 0 = %v, want day", ws.Label())
	}
}

func TestNewRejectsBadLayoutType(t *testing.T) {
	if _, err := New("D", date(2023, 1, 1), date(2023, 2, 1), "not-a-layout"); err == nil {
		t.Error("expected InvalidArgumentsError for an unsupported layout type")
	}
}

func TestAddDropSchedule(t *testing.T) {
	tb := buildFlatTimeboard(t)
	isNight := func(l pattern.Label) bool { return l == pattern.Label("night") }
	if _, err := tb.AddSchedule("nights", isNight); err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}
	if _, err := tb.AddSchedule("nights", isNight); err == nil {
		t.Error("expected InvalidArgumentsError: schedule already exists")
	}
	if _, err := tb.Schedule("nights"); err != nil {
		t.Fatalf("Schedule(nights): %v", err)
	}
	if err := tb.DropSchedule("nights"); err != nil {
		t.Fatalf("DropSchedule: %v", err)
	}
	if _, err := tb.Schedule("nights"); err == nil {
		t.Error("expected schedule lookup to fail after drop")
	}
	if err := tb.DropSchedule(DefaultScheduleName); err == nil {
		t.Error("expected InvalidArgumentsError: cannot drop default schedule")
	}
}

func TestGetWorkshift(t *testing.T) {
	tb := buildFlatTimeboard(t)
	ws, err := tb.GetWorkshift(date(2023, 1, 5), "")
	if err != nil {
		t.Fatalf("GetWorkshift: %v", err)
	}
	if ws.Position() != 4 {
		t.Errorf("position = %d, want 4", ws.Position())
	}
}

func TestGetIntervalBetweenClosedCodes(t *testing.T) {
	tb := buildFlatTimeboard(t)
	iv, err := tb.GetIntervalBetween(date(2023, 1, 1), date(2023, 1, 10), "", "11")
	if err != nil {
		t.Fatalf("GetIntervalBetween(11): %v", err)
	}
	if iv.FirstPos() != 0 || iv.LastPos() != 9 {
		t.Errorf("closed=11 bounds = [%d, %d], want [0, 9]", iv.FirstPos(), iv.LastPos())
	}

	iv, err = tb.GetIntervalBetween(date(2023, 1, 1), date(2023, 1, 10), "", "00")
	if err != nil {
		t.Fatalf("GetIntervalBetween(00): %v", err)
	}
	if iv.FirstPos() != 1 || iv.LastPos() != 8 {
		t.Errorf("closed=00 bounds = [%d, %d], want [1, 8]", iv.FirstPos(), iv.LastPos())
	}
}

func TestGetIntervalBetweenVoidFromStripping(t *testing.T) {
	tb := buildFlatTimeboard(t)
	// A single-workshift span stripped on both sides has nothing left.
	if _, err := tb.GetIntervalBetween(date(2023, 1, 1), date(2023, 1, 1), "", "00"); err == nil {
		t.Error("expected VoidIntervalError when closed=00 strips a one-workshift interval to nothing")
	}
}

func TestGetIntervalLength(t *testing.T) {
	tb := buildFlatTimeboard(t)
	iv, err := tb.GetIntervalLength(date(2023, 1, 10), 5, "", "11")
	if err != nil {
		t.Fatalf("GetIntervalLength(+5): %v", err)
	}
	if iv.FirstPos() != 9 || iv.LastPos() != 13 {
		t.Errorf("forward length bounds = [%d, %d], want [9, 13]", iv.FirstPos(), iv.LastPos())
	}

	iv, err = tb.GetIntervalLength(date(2023, 1, 10), -5, "", "11")
	if err != nil {
		t.Fatalf("GetIntervalLength(-5): %v", err)
	}
	if iv.FirstPos() != 5 || iv.LastPos() != 9 {
		t.Errorf("backward length bounds = [%d, %d], want [5, 9]", iv.FirstPos(), iv.LastPos())
	}

	if _, err := tb.GetIntervalLength(date(2023, 1, 10), 0, "", "11"); err == nil {
		t.Error("expected InvalidArgumentsError for length=0")
	}
}

func TestGetIntervalPeriodClipSemantics(t *testing.T) {
	tb := buildFlatTimeboard(t)
	// January's month period is exactly the timeline: no clip needed.
	iv, err := tb.GetIntervalPeriod("M", date(2023, 1, 15), "", false, "11")
	if err != nil {
		t.Fatalf("GetIntervalPeriod(January, no clip): %v", err)
	}
	if iv.FirstPos() != 0 || iv.LastPos() != 30 {
		t.Errorf("January period bounds = [%d, %d], want [0, 30]", iv.FirstPos(), iv.LastPos())
	}
}

func TestGetIntervalPeriodInteriorPeriodExcludesNextPeriodStart(t *testing.T) {
	// A two-month timeline: January's period end (Feb 1) is the ref_time of
	// an interior workshift, which must land in February, not January.
	layout := []pattern.Label{"day"}
	tb, err := New("D", date(2023, 1, 1), date(2023, 3, 1), layout)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	jan, err := tb.GetIntervalPeriod("M", date(2023, 1, 15), "", false, "11")
	if err != nil {
		t.Fatalf("GetIntervalPeriod(January): %v", err)
	}
	if jan.FirstPos() != 0 || jan.LastPos() != 30 {
		t.Errorf("January bounds = [%d, %d], want [0, 30]", jan.FirstPos(), jan.LastPos())
	}

	feb, err := tb.GetIntervalPeriod("M", date(2023, 2, 15), "", false, "11")
	if err != nil {
		t.Fatalf("GetIntervalPeriod(February): %v", err)
	}
	if feb.FirstPos() != 31 || feb.LastPos() != 58 {
		t.Errorf("February bounds = [%d, %d], want [31, 58]", feb.FirstPos(), feb.LastPos())
	}
}

func TestGetIntervalPeriodOutOfBoundsWithoutClip(t *testing.T) {
	tb := buildFlatTimeboard(t) // spans only January 2023
	quarter := "Q"
	if _, err := tb.GetIntervalPeriod(quarter, date(2023, 1, 15), "", false, "11"); err == nil {
		t.Error("expected OutOfBoundsError: Q1 extends past the January-only timeline without clip")
	}
}

func TestGetIntervalPeriodClippedForcesClosedDigit(t *testing.T) {
	tb := buildFlatTimeboard(t)
	iv, err := tb.GetIntervalPeriod("Q", date(2023, 1, 15), "", true, "00")
	if err != nil {
		t.Fatalf("GetIntervalPeriod(Q, clip): %v", err)
	}
	// Even though closed="00" asked to strip both ends, clipping at the
	// timeline boundary forces the tail digit back to '1'.
	if iv.LastPos() != 30 {
		t.Errorf("clipped tail position = %d, want 30 (forced closed)", iv.LastPos())
	}
}

func TestGetIntervalWhole(t *testing.T) {
	tb := buildFlatTimeboard(t)
	iv, err := tb.GetIntervalWhole("", "11")
	if err != nil {
		t.Fatalf("GetIntervalWhole: %v", err)
	}
	if iv.FirstPos() != 0 || iv.LastPos() != tb.Len()-1 {
		t.Errorf("whole interval bounds = [%d, %d], want [0, %d]", iv.FirstPos(), iv.LastPos(), tb.Len()-1)
	}
}

func TestScheduleLookupUnknownSuggestsCorrection(t *testing.T) {
	tb := buildFlatTimeboard(t)
	if _, err := tb.AddSchedule("nights", func(l pattern.Label) bool { return l == pattern.Label("night") }); err != nil {
		t.Fatalf("AddSchedule: %v", err)
	}
	_, err := tb.Schedule("nights_typo")
	if err == nil {
		t.Fatal("expected InvalidArgumentsError for unknown schedule name")
	}
	iae, ok := err.(*core.InvalidArgumentsError)
	if !ok {
		t.Fatalf("error type = %T, want *core.InvalidArgumentsError", err)
	}
	if iae.Suggestion != "nights" {
		t.Errorf("suggestion = %q, want \"nights\"", iae.Suggestion)
	}
}

func TestWithAmendments(t *testing.T) {
	layout := []pattern.Label{"day"}
	amendments := map[time.Time]pattern.Label{
		date(2023, 1, 1): "holiday",
	}
	tb, err := New("D", date(2023, 1, 1), date(2023, 1, 5), layout, WithAmendments(amendments))
	if err != nil {
		t.Fatalf("New with amendments: %v", err)
	}
	ws, err := tb.WorkshiftAt(0, "")
	if err != nil {
		t.Fatalf("WorkshiftAt: %v", err)
	}
	if ws.Label() != pattern.Label("holiday") {
		t.Errorf("amended label = %v, want holiday", ws.Label())
	}
}

func TestWithDefaultSchedule(t *testing.T) {
	layout := []pattern.Label{"work", "rest"}
	tb, err := New("D", date(2023, 1, 1), date(2023, 1, 5), layout,
		WithDefaultSchedule("custom", func(l pattern.Label) bool { return l == pattern.Label("work") }))
	if err != nil {
		t.Fatalf("New with custom default schedule: %v", err)
	}
	sched, err := tb.Schedule("")
	if err != nil {
		t.Fatalf("Schedule(\"\"): %v", err)
	}
	if sched.Name != "custom" {
		t.Errorf("default schedule name = %q, want custom", sched.Name)
	}
	if err := tb.DropSchedule("custom"); err == nil {
		t.Error("expected error dropping the configured default schedule")
	}
}

// buildOddEvenDaysTimeboard builds the odd/even-days scenario: a flat
// cyclic [0,1] layout where 0 is off duty and 1 is on duty.
func buildOddEvenDaysTimeboard(t *testing.T) *Timeboard {
	t.Helper()
	layout := []pattern.Label{0, 1}
	tb, err := New("D", date(2017, 9, 30), date(2017, 10, 16), layout)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tb
}

func TestScenarioOddEvenDaysCountAndFirst(t *testing.T) {
	tb := buildOddEvenDaysTimeboard(t)

	iv, err := tb.GetIntervalBetween(date(2017, 10, 2), date(2017, 10, 8), "", "11")
	if err != nil {
		t.Fatalf("GetIntervalBetween: %v", err)
	}
	count, err := iv.Count(schedule.DutyOn)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count(on) = %d, want 3", count)
	}

	first, err := iv.First(schedule.DutyOn)
	if err != nil {
		t.Fatalf("First(on): %v", err)
	}
	if !first.StartTime().Equal(date(2017, 10, 3)) {
		t.Errorf("First(on) start = %s, want 2017-10-03", first.StartTime())
	}

	firstOff, err := iv.First(schedule.DutyOff)
	if err != nil {
		t.Fatalf("First(off): %v", err)
	}
	if !firstOff.StartTime().Equal(date(2017, 10, 2)) {
		t.Errorf("First(off) start = %s, want 2017-10-02", firstOff.StartTime())
	}
}

func TestScenarioRollAcrossDuty(t *testing.T) {
	tb := buildOddEvenDaysTimeboard(t)

	ws, err := tb.GetWorkshift(date(2017, 10, 6), "")
	if err != nil {
		t.Fatalf("GetWorkshift: %v", err)
	}

	// 2017-10-06 is off duty, so a bare on-duty rollforward lands on its
	// zero-step anchor 2017-10-07, and one on-duty step back from that
	// anchor lands on 2017-10-05.
	fwd, err := ws.RollForward(0, schedule.DutyOn, nil)
	if err != nil {
		t.Fatalf("RollForward(0, on): %v", err)
	}
	if !fwd.StartTime().Equal(date(2017, 10, 7)) {
		t.Errorf("rollforward() start = %s, want 2017-10-07", fwd.StartTime())
	}

	back, err := ws.RollForward(-1, schedule.DutyOn, nil)
	if err != nil {
		t.Fatalf("RollForward(-1, on): %v", err)
	}
	if !back.StartTime().Equal(date(2017, 10, 5)) {
		t.Errorf("rollforward(-1) start = %s, want 2017-10-05", back.StartTime())
	}

	sub, err := ws.Sub(1)
	if err != nil {
		t.Fatalf("Sub(1): %v", err)
	}
	if !sub.StartTime().Equal(date(2017, 10, 3)) {
		t.Errorf("ws - 1 start = %s, want 2017-10-03", sub.StartTime())
	}
}

func TestScenarioWeeklyFiveByEightAmendments(t *testing.T) {
	m := marker.NewPeriodic(freq.MustParse("W"), marker.FromStartOfEach, nil)
	org, err := organizer.New(m, []organizer.Element{
		organizer.NewListElement([]pattern.Label{1, 1, 1, 1, 1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("organizer.New: %v", err)
	}

	amendments := make(map[time.Time]pattern.Label)
	for d := date(2017, 1, 1); !d.After(date(2017, 1, 10)); d = d.AddDate(0, 0, 1) {
		amendments[d] = pattern.Label(0)
	}

	tb, err := New("D", date(2016, 11, 28), date(2017, 5, 2), org, WithAmendments(amendments))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ws, err := tb.GetWorkshift(date(2017, 1, 11), "")
	if err != nil {
		t.Fatalf("GetWorkshift(Jan 11): %v", err)
	}
	if !ws.IsOnDuty(nil) {
		t.Error("expected 2017-01-11 (un-amended Wednesday) to be on duty")
	}

	ws, err = tb.GetWorkshift(date(2017, 1, 10), "")
	if err != nil {
		t.Fatalf("GetWorkshift(Jan 10): %v", err)
	}
	if ws.IsOnDuty(nil) {
		t.Error("expected 2017-01-10 to be off duty after the amendment zeroes it")
	}
}

func TestScenarioPartialOutOfBoundsPeriodClip(t *testing.T) {
	tb := buildFlatTimeboard(t) // January 2023 only
	if _, err := tb.GetIntervalPeriod("A-MAR", date(2023, 1, 15), "", false, "11"); err == nil {
		t.Error("expected OutOfBoundsError: the March-anchored annual period extends well past a January-only timeline")
	}
	iv, err := tb.GetIntervalPeriod("A-MAR", date(2023, 1, 15), "", true, "11")
	if err != nil {
		t.Fatalf("GetIntervalPeriod(clip): %v", err)
	}
	if iv.FirstPos() != 0 || iv.LastPos() != tb.Len()-1 {
		t.Errorf("clipped period bounds = [%d, %d], want the whole timeline [0, %d]", iv.FirstPos(), iv.LastPos(), tb.Len()-1)
	}
}
