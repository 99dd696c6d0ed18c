// Package schedule implements Schedule, a named duty view over a Timeline:
// a label selector precomputed into sorted on-duty/off-duty position
// indexes.
package schedule

import (
	"sort"

	"shiftboard/internal/core"
	"shiftboard/internal/pattern"
	"shiftboard/internal/timeline"
)

// Duty selects which precomputed index a Workshift/Interval operation
// reads from. Same and Alt are resolved relative to the caller's current
// duty state, not stored directly.
type Duty int

const (
	DutyOn Duty = iota
	DutyOff
	DutySame
	DutyAlt
	DutyAny
)

// Selector maps a workshift's label to on-duty (true) or off-duty (false).
type Selector func(pattern.Label) bool

// Schedule is a named duty view bound to one Timeline.
type Schedule struct {
	Name         string
	selector     Selector
	onDutyIndex  []int
	offDutyIndex []int
	anyIndex     []int
}

// New scans tl once, building sorted on-duty and off-duty position arrays.
func New(name string, tl *timeline.Timeline, selector Selector) *Schedule {
	n := tl.Len()
	s := &Schedule{Name: name, selector: selector, anyIndex: make([]int, n)}
	for i := 0; i < n; i++ {
		s.anyIndex[i] = i
		if selector(tl.WorkshiftAt(i).Label) {
			s.onDutyIndex = append(s.onDutyIndex, i)
		} else {
			s.offDutyIndex = append(s.offDutyIndex, i)
		}
	}
	return s
}

// IsOnDuty reports whether pos is in the on-duty index.
func (s *Schedule) IsOnDuty(pos int) bool {
	i := sort.SearchInts(s.onDutyIndex, pos)
	return i < len(s.onDutyIndex) && s.onDutyIndex[i] == pos
}

// IsOffDuty reports whether pos is in the off-duty index.
func (s *Schedule) IsOffDuty(pos int) bool { return !s.IsOnDuty(pos) }

// Index resolves duty to the concrete sorted position array it names.
// Same/Alt are resolved against selfOnDuty, the caller's own duty state.
func (s *Schedule) Index(duty Duty, selfOnDuty bool) ([]int, error) {
	switch duty {
	case DutyOn:
		return s.onDutyIndex, nil
	case DutyOff:
		return s.offDutyIndex, nil
	case DutyAny:
		return s.anyIndex, nil
	case DutySame:
		if selfOnDuty {
			return s.onDutyIndex, nil
		}
		return s.offDutyIndex, nil
	case DutyAlt:
		if selfOnDuty {
			return s.offDutyIndex, nil
		}
		return s.onDutyIndex, nil
	default:
		return nil, core.NewInvalidArgumentsError("unknown duty value")
	}
}

// CountInRange returns the number of positions in duty's index that fall
// within [first, last] inclusive.
func (s *Schedule) CountInRange(duty Duty, selfOnDuty bool, first, last int) (int, error) {
	idx, err := s.Index(duty, selfOnDuty)
	if err != nil {
		return 0, err
	}
	lo := sort.SearchInts(idx, first)
	hi := sort.SearchInts(idx, last+1)
	if hi < lo {
		return 0, nil
	}
	return hi - lo, nil
}
