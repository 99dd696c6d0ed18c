// Package timeboard implements Timeboard, the façade that owns a Timeline,
// a named collection of Schedules, and the workshift/interval construction
// methods queries are made through.
package timeboard

import (
	"fmt"
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/frame"
	"shiftboard/internal/freq"
	"shiftboard/internal/interval"
	"shiftboard/internal/marker"
	"shiftboard/internal/organizer"
	"shiftboard/internal/pattern"
	"shiftboard/internal/schedule"
	"shiftboard/internal/timeline"
	"shiftboard/internal/workshift"
)

// DefaultScheduleName is the name of the schedule created from the default
// (or caller-supplied) selector at construction time.
const DefaultScheduleName = "on/off"

var knownClosedCodes = []string{"11", "10", "01", "00"}

// Timeboard owns a Timeline, its named Schedules, and the base Frame it was
// built over.
type Timeboard struct {
	fr               *frame.Frame
	tl               *timeline.Timeline
	scheds           map[string]*schedule.Schedule
	defaultSchedName string
	worktimeSource   workshift.WorktimeSource
}

type options struct {
	ref              timeline.Ref
	amendments       map[time.Time]pattern.Label
	strictAmendments bool
	defaultSelector  schedule.Selector
	defaultSchedName string
	worktimeSource   workshift.WorktimeSource
}

// Option configures Timeboard construction.
type Option func(*options)

// WithWorkshiftRefEnd sets each workshift's ref_time to the end of its last
// base unit, instead of the default (the start of its first).
func WithWorkshiftRefEnd() Option {
	return func(o *options) { o.ref = timeline.RefEnd }
}

// WithAmendments overlays ts -> label overrides onto the organized labels
// before the timeline is built.
func WithAmendments(amendments map[time.Time]pattern.Label) Option {
	return func(o *options) { o.amendments = amendments }
}

// WithStrictAmendments makes an amendment key outside the frame a fatal
// OutOfBoundsError instead of being silently dropped.
func WithStrictAmendments() Option {
	return func(o *options) { o.strictAmendments = true }
}

// WithDefaultSchedule names and seeds the schedule built automatically at
// construction time (default: DefaultScheduleName / pattern.Truthy).
func WithDefaultSchedule(name string, selector schedule.Selector) Option {
	return func(o *options) { o.defaultSchedName = name; o.defaultSelector = selector }
}

// WithWorktimeFromLabels makes Worktime queries read workshifts' numeric
// labels instead of their base-unit duration.
func WithWorktimeFromLabels() Option {
	return func(o *options) { o.worktimeSource = workshift.WorktimeLabels }
}

// New builds a Timeboard spanning [start, end] at frequency freqStr, laid
// out by layout — either an *organizer.Organizer, or a []pattern.Label
// applied as a single cyclic pattern across the whole frame (the
// flat-layout shorthand).
func New(freqStr string, start, end time.Time, layout interface{}, opts ...Option) (*Timeboard, error) {
	cfg := options{
		defaultSchedName: DefaultScheduleName,
		defaultSelector:  pattern.Truthy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := freq.Parse(freqStr)
	if err != nil {
		return nil, err
	}

	fr, err := frame.New(f, start, end)
	if err != nil {
		return nil, err
	}

	org, err := asOrganizer(layout)
	if err != nil {
		return nil, err
	}

	res, err := org.Apply(fr, 0, fr.Len()-1)
	if err != nil {
		return nil, err
	}

	if cfg.amendments != nil {
		if err := timeline.ApplyAmendments(fr, res.Labels, cfg.amendments, cfg.strictAmendments); err != nil {
			return nil, err
		}
	}

	tl, err := timeline.Build(fr, res.Labels, res.Compoundable, cfg.ref)
	if err != nil {
		return nil, err
	}

	tb := &Timeboard{
		fr:               fr,
		tl:               tl,
		scheds:           make(map[string]*schedule.Schedule),
		defaultSchedName: cfg.defaultSchedName,
		worktimeSource:   cfg.worktimeSource,
	}
	tb.scheds[cfg.defaultSchedName] = schedule.New(cfg.defaultSchedName, tl, cfg.defaultSelector)
	return tb, nil
}

func asOrganizer(layout interface{}) (*organizer.Organizer, error) {
	switch v := layout.(type) {
	case *organizer.Organizer:
		return v, nil
	case []pattern.Label:
		if err := pattern.ValidatePattern(v); err != nil {
			return nil, err
		}
		return organizer.New(marker.NewExplicit(nil), []organizer.Element{organizer.NewListElement(v)})
	default:
		return nil, core.NewInvalidArgumentsError(fmt.Sprintf("layout must be *organizer.Organizer or []pattern.Label, got %T", layout))
	}
}

func (tb *Timeboard) describe() string {
	return fmt.Sprintf("%s timeboard, %d workshifts", tb.fr.Freq(), tb.tl.Len())
}

func (tb *Timeboard) String() string {
	return fmt.Sprintf("Timeboard(%s, %s to %s): [%d]", tb.fr.Freq(), tb.tl.StartTime(), tb.tl.EndTime(), tb.tl.Len())
}

func (tb *Timeboard) scheduleNames() []string {
	names := make([]string, 0, len(tb.scheds))
	for n := range tb.scheds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Schedule looks up a named schedule; an empty name resolves to the default
// schedule.
func (tb *Timeboard) Schedule(name string) (*schedule.Schedule, error) {
	if name == "" {
		name = tb.defaultSchedName
	}
	s, ok := tb.scheds[name]
	if !ok {
		return nil, core.NewInvalidArgumentsError(fmt.Sprintf("schedule %q not found", name)).
			WithSuggestion(core.SuggestCorrection(name, tb.scheduleNames()))
	}
	return s, nil
}

// AddSchedule computes and registers a new named schedule from selector.
// Returns InvalidArgumentsError if the name is already registered.
func (tb *Timeboard) AddSchedule(name string, selector schedule.Selector) (*schedule.Schedule, error) {
	if _, exists := tb.scheds[name]; exists {
		return nil, core.NewInvalidArgumentsError(fmt.Sprintf("schedule %q already exists", name))
	}
	s := schedule.New(name, tb.tl, selector)
	tb.scheds[name] = s
	return s, nil
}

// DropSchedule removes a named schedule. The default schedule cannot be
// dropped.
func (tb *Timeboard) DropSchedule(name string) error {
	if name == tb.defaultSchedName {
		return core.NewInvalidArgumentsError(fmt.Sprintf("cannot drop default schedule %q", name))
	}
	if _, exists := tb.scheds[name]; !exists {
		return core.NewInvalidArgumentsError(fmt.Sprintf("schedule %q not found", name)).
			WithSuggestion(core.SuggestCorrection(name, tb.scheduleNames()))
	}
	delete(tb.scheds, name)
	return nil
}

// GetWorkshift returns the workshift containing ts, bound to the named
// schedule (empty name -> default).
func (tb *Timeboard) GetWorkshift(ts time.Time, schedName string) (*workshift.Workshift, error) {
	sched, err := tb.Schedule(schedName)
	if err != nil {
		return nil, err
	}
	pos, err := tb.tl.WorkshiftContaining(ts)
	if err != nil {
		return nil, err
	}
	return workshift.New(tb.tl, pos, sched, tb.worktimeSource)
}

// Len returns the number of workshifts on the timeline.
func (tb *Timeboard) Len() int { return tb.tl.Len() }

// WorkshiftAt returns the workshift at position pos, bound to the named
// schedule (empty name -> default). Used by inspection tooling that walks
// the timeline position by position rather than by timestamp.
func (tb *Timeboard) WorkshiftAt(pos int, schedName string) (*workshift.Workshift, error) {
	sched, err := tb.Schedule(schedName)
	if err != nil {
		return nil, err
	}
	return workshift.New(tb.tl, pos, sched, tb.worktimeSource)
}

func parseClosed(closed string) (head, tail byte, err error) {
	if closed == "" {
		closed = "11"
	}
	for _, code := range knownClosedCodes {
		if code == closed {
			return closed[0], closed[1], nil
		}
	}
	return 0, 0, core.NewInvalidArgumentsError(fmt.Sprintf("closed code %q must be one of %v", closed, knownClosedCodes)).
		WithSuggestion(core.SuggestCorrection(closed, knownClosedCodes))
}

// finalizeInterval strips the head/tail workshift per head/tail ('0' means
// strip), then builds the Interval. Returns VoidIntervalError if stripping
// empties the range, or if first > last to begin with.
func (tb *Timeboard) finalizeInterval(first, last int, head, tail byte, sched *schedule.Schedule) (*interval.Interval, error) {
	if first > last {
		return nil, core.NewVoidIntervalError("resolved interval bounds are reversed")
	}
	if head == '0' {
		first++
	}
	if tail == '0' {
		last--
	}
	if first > last {
		return nil, core.NewVoidIntervalError("closed code would empty the interval")
	}
	return interval.New(tb.tl, first, last, sched, tb.worktimeSource)
}

// GetIntervalBetween returns the interval from the workshift containing ts1
// to the workshift containing ts2.
func (tb *Timeboard) GetIntervalBetween(ts1, ts2 time.Time, schedName, closed string) (*interval.Interval, error) {
	sched, err := tb.Schedule(schedName)
	if err != nil {
		return nil, err
	}
	head, tail, err := parseClosed(closed)
	if err != nil {
		return nil, err
	}
	first, err := tb.tl.WorkshiftContaining(ts1)
	if err != nil {
		return nil, err
	}
	last, err := tb.tl.WorkshiftContaining(ts2)
	if err != nil {
		return nil, err
	}
	return tb.finalizeInterval(first, last, head, tail, sched)
}

// GetIntervalLength returns length workshifts starting at the workshift
// containing ts (negative length extends backward from it). length must
// not be zero.
func (tb *Timeboard) GetIntervalLength(ts time.Time, length int, schedName, closed string) (*interval.Interval, error) {
	if length == 0 {
		return nil, core.NewInvalidArgumentsError("length must not be zero")
	}
	sched, err := tb.Schedule(schedName)
	if err != nil {
		return nil, err
	}
	head, tail, err := parseClosed(closed)
	if err != nil {
		return nil, err
	}
	pos, err := tb.tl.WorkshiftContaining(ts)
	if err != nil {
		return nil, err
	}

	var first, last int
	if length > 0 {
		first, last = pos, pos+length-1
	} else {
		first, last = pos+length+1, pos
	}
	if first < 0 || last >= tb.tl.Len() {
		return nil, core.NewOutOfBoundsError(fmt.Sprintf("interval of length %d from %s", length, ts), tb.describe())
	}
	return tb.finalizeInterval(first, last, head, tail, sched)
}

// GetIntervalPeriod returns the interval covering the calendar period of
// freqStr containing ts: every workshift whose ref_time falls in the
// half-open [period.Start, period.End). If an end of the period lies
// outside the timeline, clip=true clips that end to the timeline bound (and
// forces its closed digit to '1'); clip=false raises OutOfBoundsError.
func (tb *Timeboard) GetIntervalPeriod(freqStr string, ts time.Time, schedName string, clip bool, closed string) (*interval.Interval, error) {
	f, err := freq.Parse(freqStr)
	if err != nil {
		return nil, err
	}
	return tb.getIntervalFromPeriod(f.PeriodContaining(ts), schedName, clip, closed)
}

// GetIntervalFromPeriodValue is GetIntervalPeriod's bare-Period-value
// construction shape.
func (tb *Timeboard) GetIntervalFromPeriodValue(p freq.Period, schedName string, clip bool, closed string) (*interval.Interval, error) {
	return tb.getIntervalFromPeriod(p, schedName, clip, closed)
}

func (tb *Timeboard) getIntervalFromPeriod(p freq.Period, schedName string, clip bool, closed string) (*interval.Interval, error) {
	sched, err := tb.Schedule(schedName)
	if err != nil {
		return nil, err
	}
	head, tail, err := parseClosed(closed)
	if err != nil {
		return nil, err
	}

	var first, last int
	if p.Start.Before(tb.tl.StartTime()) {
		if !clip {
			return nil, core.NewOutOfBoundsError(fmt.Sprintf("period %s starts before timeline", p.Start), tb.describe())
		}
		first = 0
		head = '1'
	} else {
		first, err = tb.tl.WorkshiftWithRefAfter(p.Start)
		if err != nil {
			return nil, err
		}
	}

	if p.End.After(tb.tl.EndTime()) {
		if !clip {
			return nil, core.NewOutOfBoundsError(fmt.Sprintf("period ending %s extends past timeline", p.End), tb.describe())
		}
		last = tb.tl.Len() - 1
		tail = '1'
	} else {
		last, err = tb.tl.WorkshiftWithRefStrictlyBefore(p.End)
		if err != nil {
			return nil, err
		}
	}

	return tb.finalizeInterval(first, last, head, tail, sched)
}

// GetIntervalWhole returns the interval spanning the entire timeline.
func (tb *Timeboard) GetIntervalWhole(schedName, closed string) (*interval.Interval, error) {
	sched, err := tb.Schedule(schedName)
	if err != nil {
		return nil, err
	}
	head, tail, err := parseClosed(closed)
	if err != nil {
		return nil, err
	}
	return tb.finalizeInterval(0, tb.tl.Len()-1, head, tail, sched)
}
