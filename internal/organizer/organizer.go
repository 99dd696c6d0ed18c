// Package organizer implements Organizer, the recursive tree that pairs a
// Marker partitioning rule with a cyclic structure of label sources and
// nested organizers, producing the label array a Timeline is built from.
package organizer

import (
	"shiftboard/internal/core"
	"shiftboard/internal/frame"
	"shiftboard/internal/marker"
	"shiftboard/internal/pattern"
)

// ElementKind tags the variant a structure Element holds.
type ElementKind int

const (
	// KindPattern is a list-sourced cyclic LabelPattern: never compoundable.
	KindPattern ElementKind = iota
	// KindBroadcast is a single-label (scalar) LabelPattern: eligible for
	// compound-workshift collapse.
	KindBroadcast
	// KindRemembering draws from a shared, cursor-persisting RememberingPattern.
	KindRemembering
	// KindNested recurses into a child Organizer.
	KindNested
)

// Element is one entry of an Organizer's structure.
type Element struct {
	Kind        ElementKind
	Pattern     *pattern.LabelPattern
	Remembering *pattern.RememberingPattern
	Nested      *Organizer
}

// NewListElement wraps a cyclic list of labels; never compoundable.
func NewListElement(labels []pattern.Label) Element {
	return Element{Kind: KindPattern, Pattern: pattern.NewLabelPattern(labels)}
}

// NewBroadcastElement wraps a single scalar label, eligible for
// compound-workshift collapse.
func NewBroadcastElement(label pattern.Label) Element {
	return Element{Kind: KindBroadcast, Pattern: pattern.NewBroadcast(label)}
}

// NewRememberingElement wraps a shared, cursor-persisting pattern.
func NewRememberingElement(rp *pattern.RememberingPattern) Element {
	return Element{Kind: KindRemembering, Remembering: rp}
}

// NewNestedElement wraps a child Organizer.
func NewNestedElement(o *Organizer) Element {
	return Element{Kind: KindNested, Nested: o}
}

// Organizer pairs a partitioning Marker with a cyclic structure.
type Organizer struct {
	Rule      *marker.Marker
	Structure []Element
}

// New builds an Organizer. Returns InvalidArgumentsError for an empty
// structure — the "empty pattern is fatal" rule.
func New(rule *marker.Marker, structure []Element) (*Organizer, error) {
	if len(structure) == 0 {
		return nil, core.NewInvalidArgumentsError("organizer structure must not be empty")
	}
	return &Organizer{Rule: rule, Structure: structure}, nil
}

// Result is the label fragment produced by one Apply call, aligned
// one-to-one with the base units of [first, last].
type Result struct {
	Labels       []pattern.Label
	Compoundable []bool
}

// Apply partitions fr[first:last] via o.Rule, then fills a label for every
// base unit in range: nested organizers recurse, RememberingPattern
// elements draw from (and advance) their shared cursor, and list/scalar
// patterns are indexed starting at the subframe's skip_left phase.
func (o *Organizer) Apply(fr *frame.Frame, first, last int) (Result, error) {
	subs, err := o.Rule.Partition(fr, first, last)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Labels:       make([]pattern.Label, 0, last-first+1),
		Compoundable: make([]bool, 0, last-first+1),
	}

	for i, sf := range subs {
		elem := o.Structure[i%len(o.Structure)]
		n := sf.LastIndex - sf.FirstIndex + 1
		phase := sf.SkipLeft
		if phase < 0 {
			phase = 0
		}

		switch elem.Kind {
		case KindNested:
			sub, err := elem.Nested.Apply(fr, sf.FirstIndex, sf.LastIndex)
			if err != nil {
				return Result{}, err
			}
			result.Labels = append(result.Labels, sub.Labels...)
			result.Compoundable = append(result.Compoundable, sub.Compoundable...)

		case KindRemembering:
			elem.Remembering.Advance(phase)
			for k := 0; k < n; k++ {
				result.Labels = append(result.Labels, elem.Remembering.Next())
				result.Compoundable = append(result.Compoundable, false)
			}

		case KindPattern, KindBroadcast:
			compoundable := elem.Kind == KindBroadcast
			for k := 0; k < n; k++ {
				result.Labels = append(result.Labels, elem.Pattern.At(phase+k))
				result.Compoundable = append(result.Compoundable, compoundable)
			}
		}
	}

	return result, nil
}
