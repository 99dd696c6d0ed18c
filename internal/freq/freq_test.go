package freq

import (
	"testing"
	"time"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		input      string
		base       Base
		multiplier int
		want       string
	}{
		{"D", Day, 1, "D"},
		{"3H", Hour, 3, "3H"},
		{"H", Hour, 1, "H"},
		{"T", Minute, 1, "T"},
		{"min", Minute, 1, "T"},
		{"W", Week, 1, "W-SUN"},
		{"W-MON", Week, 1, "W-MON"},
		{"M", Month, 1, "M"},
		{"Q", Quarter, 1, "Q-JAN"},
		{"Q-JAN", Quarter, 1, "Q-JAN"},
		{"A", Year, 1, "A-JAN"},
		{"Y", Year, 1, "A-JAN"},
		{"2W-SUN", Week, 2, "2W-SUN"},
	}
	for _, c := range cases {
		got, err := Parse(c.input)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.input, err)
		}
		if got.Base() != c.base || got.Multiplier() != c.multiplier {
			t.Errorf("Parse(%q) = base %v mult %d, want base %v mult %d", c.input, got.Base(), got.Multiplier(), c.base, c.multiplier)
		}
		if got.String() != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.input, got.String(), c.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "X", "3", "W-XXX", "Q-FEB-FOO", "0D", "-1H", "D-MON"}
	for _, input := range cases {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q): expected error, got none", input)
		}
	}
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestPeriodContainingDay(t *testing.T) {
	f := MustParse("D")
	p := f.PeriodContaining(date(2023, 6, 15, 14, 30))
	wantStart := date(2023, 6, 15, 0, 0)
	wantEnd := date(2023, 6, 16, 0, 0)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("PeriodContaining = [%v, %v), want [%v, %v)", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestPeriodContainingHourMultiplier(t *testing.T) {
	f := MustParse("3H")
	p := f.PeriodContaining(date(1970, 1, 1, 7, 15))
	wantStart := date(1970, 1, 1, 6, 0)
	wantEnd := date(1970, 1, 1, 9, 0)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("PeriodContaining = [%v, %v), want [%v, %v)", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestPeriodContainingWeekMonday(t *testing.T) {
	f := MustParse("W-MON")
	// Wednesday 2023-06-14, week ends Monday 2023-06-19.
	p := f.PeriodContaining(date(2023, 6, 14, 10, 0))
	wantStart := date(2023, 6, 13, 0, 0)
	wantEnd := date(2023, 6, 20, 0, 0)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("PeriodContaining = [%v, %v), want [%v, %v)", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestPeriodContainingMonth(t *testing.T) {
	f := MustParse("M")
	p := f.PeriodContaining(date(2023, 2, 20, 0, 0))
	wantStart := date(2023, 2, 1, 0, 0)
	wantEnd := date(2023, 3, 1, 0, 0)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("PeriodContaining = [%v, %v), want [%v, %v)", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestPeriodContainingQuarterJan(t *testing.T) {
	f := MustParse("Q-JAN")
	p := f.PeriodContaining(date(2023, 5, 1, 0, 0))
	wantStart := date(2023, 4, 1, 0, 0)
	wantEnd := date(2023, 7, 1, 0, 0)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("PeriodContaining = [%v, %v), want [%v, %v)", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestPeriodContainingYear(t *testing.T) {
	f := MustParse("A")
	p := f.PeriodContaining(date(2023, 7, 4, 0, 0))
	wantStart := date(2023, 1, 1, 0, 0)
	wantEnd := date(2024, 1, 1, 0, 0)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Errorf("PeriodContaining = [%v, %v), want [%v, %v)", p.Start, p.End, wantStart, wantEnd)
	}
}

func TestAddMonth(t *testing.T) {
	f := MustParse("M")
	p := f.PeriodContaining(date(2023, 1, 15, 0, 0))
	next := f.Add(p, 1)
	wantStart := date(2023, 2, 1, 0, 0)
	wantEnd := date(2023, 3, 1, 0, 0)
	if !next.Start.Equal(wantStart) || !next.End.Equal(wantEnd) {
		t.Errorf("Add(p, 1) = [%v, %v), want [%v, %v)", next.Start, next.End, wantStart, wantEnd)
	}
	prev := f.Add(p, -1)
	wantPrevStart := date(2022, 12, 1, 0, 0)
	if !prev.Start.Equal(wantPrevStart) {
		t.Errorf("Add(p, -1).Start = %v, want %v", prev.Start, wantPrevStart)
	}
}

func TestIsSuperperiodOf(t *testing.T) {
	cases := []struct {
		self, other string
		want        bool
	}{
		{"D", "H", true},
		{"D", "T", true},
		{"W", "D", true},
		{"M", "D", true},
		{"M", "W", false},
		{"Q", "M", true},
		{"A", "Q", true},
		{"A", "M", true},
		{"A", "W", false},
		{"H", "D", false},
		{"D", "D", true},
		{"3H", "H", false},
		{"3H", "3H", true},
	}
	for _, c := range cases {
		self := MustParse(c.self)
		other := MustParse(c.other)
		if got := self.IsSuperperiodOf(other); got != c.want {
			t.Errorf("%s.IsSuperperiodOf(%s) = %v, want %v", c.self, c.other, got, c.want)
		}
	}
}

func TestIsNative(t *testing.T) {
	if !MustParse("D").IsNative() {
		t.Error("D should be native")
	}
	if MustParse("3D").IsNative() {
		t.Error("3D should not be native")
	}
}
