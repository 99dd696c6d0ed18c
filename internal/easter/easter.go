// Package easter computes the date of Easter Sunday for a given year, in
// both its western (Gregorian) and orthodox (Julian, expressed on the
// Gregorian calendar) observances. It backs the "from_easter" marker
// anchor policy.
package easter

import (
	"fmt"
	"time"
)

// Tradition selects which Easter computus to use.
type Tradition int

const (
	Western Tradition = iota
	Orthodox
)

func (t Tradition) String() string {
	switch t {
	case Western:
		return "western"
	case Orthodox:
		return "orthodox"
	default:
		return fmt.Sprintf("Tradition(%d)", int(t))
	}
}

// Date returns the date of Easter Sunday for year under the given
// tradition.
func Date(year int, tradition Tradition) (time.Time, error) {
	switch tradition {
	case Western:
		return western(year), nil
	case Orthodox:
		return orthodox(year), nil
	default:
		return time.Time{}, fmt.Errorf("easter: unknown tradition %v", tradition)
	}
}

// western returns the date of Easter Sunday in the given year according to
// the Gregorian computus (the anonymous algorithm attributed to Gauss).
func western(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// orthodox returns the date of Easter Sunday in the given year according to
// the Julian computus, expressed as a date on the proleptic Gregorian
// calendar (the convention almost every calendaring system uses when
// reporting orthodox Easter alongside Gregorian dates).
func orthodox(year int) time.Time {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := (d+e+114)%31 + 1

	julian := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return julian.AddDate(0, 0, julianToGregorianOffset(year))
}

// julianToGregorianOffset is the number of days the proleptic Gregorian
// calendar runs ahead of the Julian calendar in the given year.
func julianToGregorianOffset(year int) int {
	return year/100 - year/400 - 2
}
