// Package pattern implements the label sources an Organizer draws from:
// the stateless cyclic LabelPattern and the stateful, shared-by-reference
// RememberingPattern.
package pattern

import "shiftboard/internal/core"

// Label is the arbitrary value a workshift carries; schedule selectors
// interpret it.
type Label = interface{}

// Truthy implements the default schedule selector: numeric zero, empty
// string, nil, and false are off-duty; everything else is on-duty.
func Truthy(label Label) bool {
	switch v := label.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// LabelPattern is an immutable cyclic sequence of labels. A pattern built
// by NewBroadcast is a "scalar broadcast" — the only kind eligible for
// compound-workshift collapse; a one-label list from NewLabelPattern is not.
type LabelPattern struct {
	labels    []Label
	broadcast bool
}

// NewLabelPattern builds a cyclic list pattern from labels. Panics if
// labels is empty — an empty pattern is a construction-time error the
// caller must catch before building one (ValidatePattern reports it as an
// error; timeboard.New calls it for a flat layout).
func NewLabelPattern(labels []Label) *LabelPattern {
	if len(labels) == 0 {
		panic("pattern: NewLabelPattern requires at least one label")
	}
	return &LabelPattern{labels: append([]Label(nil), labels...)}
}

// NewBroadcast builds a single-label pattern that qualifies for
// compound-workshift collapse.
func NewBroadcast(label Label) *LabelPattern {
	return &LabelPattern{labels: []Label{label}, broadcast: true}
}

// Len returns the number of labels in one cycle.
func (p *LabelPattern) Len() int { return len(p.labels) }

// IsBroadcast reports whether this pattern is a scalar broadcast.
func (p *LabelPattern) IsBroadcast() bool { return p.broadcast }

// At returns the label at cyclic position phase (phase may be any
// non-negative integer; it wraps modulo Len()).
func (p *LabelPattern) At(phase int) Label {
	return p.labels[phase%len(p.labels)]
}

// RememberingPattern owns a label sequence and an iteration cursor that
// persists across repeated draws within a single organize pass. It is
// always used through a pointer so its cursor is shared by reference.
type RememberingPattern struct {
	labels []Label
	cursor int
}

// NewRememberingPattern builds a RememberingPattern starting at cursor 0.
func NewRememberingPattern(labels []Label) *RememberingPattern {
	if len(labels) == 0 {
		panic("pattern: NewRememberingPattern requires at least one label")
	}
	return &RememberingPattern{labels: append([]Label(nil), labels...)}
}

// Len returns the number of labels in one cycle.
func (p *RememberingPattern) Len() int { return len(p.labels) }

// Advance moves the cursor forward by n positions without drawing labels,
// used to align a shared cursor to a subframe's skip_left phase.
func (p *RememberingPattern) Advance(n int) {
	p.cursor = (p.cursor + n) % len(p.labels)
}

// Next draws the label at the current cursor and advances it by one.
func (p *RememberingPattern) Next() Label {
	l := p.labels[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.labels)
	return l
}

// Cursor returns the current cursor position, for tests and inspection.
func (p *RememberingPattern) Cursor() int { return p.cursor }

// ValidatePattern returns InvalidArgumentsError if labels is empty — the
// "empty pattern is fatal" rule, surfaced before panicking constructors
// are reached.
func ValidatePattern(labels []Label) error {
	if len(labels) == 0 {
		return core.NewInvalidArgumentsError("label pattern must contain at least one label")
	}
	return nil
}
