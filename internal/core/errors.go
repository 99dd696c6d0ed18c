// Package core provides logging, error types, configuration, and other
// ambient infrastructure shared by shiftboard's calendar engine and its
// CLI.
package core

import (
	"fmt"
	"strings"
)

// OutOfBoundsError is raised when a position or timestamp falls outside a
// timeboard, a roll exceeds the timeline's ends, or a period endpoint lies
// outside the timeline without clipping.
type OutOfBoundsError struct {
	Context string // human-readable description of the offending operation
	Board   string // compact descriptor of the timeboard involved
}

func (e *OutOfBoundsError) Error() string {
	if e.Board != "" {
		return fmt.Sprintf("out of bounds: %s (%s)", e.Context, e.Board)
	}
	return fmt.Sprintf("out of bounds: %s", e.Context)
}

// NewOutOfBoundsError creates an OutOfBoundsError.
func NewOutOfBoundsError(context, board string) *OutOfBoundsError {
	return &OutOfBoundsError{Context: context, Board: board}
}

// PartialOutOfBoundsError is raised when count_periods touches a calendar
// period that is not fully covered by the timeline.
type PartialOutOfBoundsError struct {
	Context string
	Board   string
}

func (e *PartialOutOfBoundsError) Error() string {
	if e.Board != "" {
		return fmt.Sprintf("partially out of bounds: %s (%s)", e.Context, e.Board)
	}
	return fmt.Sprintf("partially out of bounds: %s", e.Context)
}

// NewPartialOutOfBoundsError creates a PartialOutOfBoundsError.
func NewPartialOutOfBoundsError(context, board string) *PartialOutOfBoundsError {
	return &PartialOutOfBoundsError{Context: context, Board: board}
}

// VoidIntervalError is raised when an interval would be empty or reversed.
type VoidIntervalError struct {
	Context string
}

func (e *VoidIntervalError) Error() string {
	return fmt.Sprintf("void interval: %s", e.Context)
}

// NewVoidIntervalError creates a VoidIntervalError.
func NewVoidIntervalError(context string) *VoidIntervalError {
	return &VoidIntervalError{Context: context}
}

// UnsupportedPeriodError is raised when a frequency pair has no
// super/sub-period relation, or count_periods is asked for a
// non-native period.
type UnsupportedPeriodError struct {
	Context string
}

func (e *UnsupportedPeriodError) Error() string {
	return fmt.Sprintf("unsupported period: %s", e.Context)
}

// NewUnsupportedPeriodError creates an UnsupportedPeriodError.
func NewUnsupportedPeriodError(context string) *UnsupportedPeriodError {
	return &UnsupportedPeriodError{Context: context}
}

// AmendmentCollisionError is raised when two amendment keys resolve to the
// same base unit.
type AmendmentCollisionError struct {
	BaseUnitIndex int
}

func (e *AmendmentCollisionError) Error() string {
	return fmt.Sprintf("amendment collision: two keys resolve to base unit %d", e.BaseUnitIndex)
}

// NewAmendmentCollisionError creates an AmendmentCollisionError.
func NewAmendmentCollisionError(baseUnitIndex int) *AmendmentCollisionError {
	return &AmendmentCollisionError{BaseUnitIndex: baseUnitIndex}
}

// InvalidArgumentsError is raised when mutually exclusive construction
// parameters are combined, or a duty/closed code/n value is invalid.
type InvalidArgumentsError struct {
	Message    string
	Suggestion string // optional nearest-valid-token suggestion
}

func (e *InvalidArgumentsError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid arguments: %s (did you mean %q?)", e.Message, e.Suggestion)
	}
	return fmt.Sprintf("invalid arguments: %s", e.Message)
}

// NewInvalidArgumentsError creates an InvalidArgumentsError.
func NewInvalidArgumentsError(message string) *InvalidArgumentsError {
	return &InvalidArgumentsError{Message: message}
}

// WithSuggestion attaches a suggested correction and returns the receiver.
func (e *InvalidArgumentsError) WithSuggestion(s string) *InvalidArgumentsError {
	e.Suggestion = s
	return e
}

// InvalidFrequencyError is raised when a calendar frequency string cannot
// be parsed.
type InvalidFrequencyError struct {
	Input      string
	Suggestion string
}

func (e *InvalidFrequencyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid frequency %q (did you mean %q?)", e.Input, e.Suggestion)
	}
	return fmt.Sprintf("invalid frequency %q", e.Input)
}

// NewInvalidFrequencyError creates an InvalidFrequencyError, optionally
// suggesting the nearest valid frequency string found among known.
func NewInvalidFrequencyError(input string, known []string) *InvalidFrequencyError {
	return &InvalidFrequencyError{Input: input, Suggestion: SuggestCorrection(input, known)}
}

// TypeMismatchError is raised when numeric worktime is requested over
// non-numeric labels.
type TypeMismatchError struct {
	Context string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s", e.Context)
}

// NewTypeMismatchError creates a TypeMismatchError.
func NewTypeMismatchError(context string) *TypeMismatchError {
	return &TypeMismatchError{Context: context}
}

// ErrorAggregator collects multiple errors and warnings encountered while
// validating a configuration or a construction request, and provides
// summary reporting.
type ErrorAggregator struct {
	Errors   []error
	Warnings []error
}

// NewErrorAggregator creates an empty ErrorAggregator.
func NewErrorAggregator() *ErrorAggregator {
	return &ErrorAggregator{Errors: make([]error, 0), Warnings: make([]error, 0)}
}

// AddError records an error, ignoring nil.
func (ea *ErrorAggregator) AddError(err error) {
	if err != nil {
		ea.Errors = append(ea.Errors, err)
	}
}

// AddWarning records a warning, ignoring nil.
func (ea *ErrorAggregator) AddWarning(err error) {
	if err != nil {
		ea.Warnings = append(ea.Warnings, err)
	}
}

// HasErrors reports whether any error was recorded.
func (ea *ErrorAggregator) HasErrors() bool { return len(ea.Errors) > 0 }

// HasWarnings reports whether any warning was recorded.
func (ea *ErrorAggregator) HasWarnings() bool { return len(ea.Warnings) > 0 }

// Error implements the error interface, returning the first error.
func (ea *ErrorAggregator) Error() string {
	if len(ea.Errors) == 0 {
		return "no errors"
	}
	if len(ea.Errors) == 1 {
		return ea.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred (first: %v)", len(ea.Errors), ea.Errors[0])
}

// Summary returns a multi-line report of all errors and warnings.
func (ea *ErrorAggregator) Summary() string {
	if !ea.HasErrors() && !ea.HasWarnings() {
		return "no errors or warnings"
	}
	var b strings.Builder
	if ea.HasErrors() {
		fmt.Fprintf(&b, "Errors (%d):\n", len(ea.Errors))
		for i, err := range ea.Errors {
			fmt.Fprintf(&b, "  %d. %v\n", i+1, err)
		}
	}
	if ea.HasWarnings() {
		if ea.HasErrors() {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Warnings (%d):\n", len(ea.Warnings))
		for i, err := range ea.Warnings {
			fmt.Fprintf(&b, "  %d. %v\n", i+1, err)
		}
	}
	return b.String()
}
