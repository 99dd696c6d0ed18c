// Spinner provides a CLI progress indicator for long-running operations
// such as building a timeboard from a large holiday-rule file: it reports
// elapsed time once an operation runs long enough for that to be useful
// feedback, and falls back to plain ASCII frames on terminals termenv can't
// color.
package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

var (
	unicodeFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	asciiFrames   = []string{"|", "/", "-", "\\"}
)

// elapsedThreshold is how long an operation must run before the spinner
// starts annotating its line with elapsed time.
const elapsedThreshold = 3 * time.Second

// Spinner is a terminal progress indicator driven by a ticking goroutine.
type Spinner struct {
	mu       sync.Mutex
	label    string
	active   bool
	silent   bool
	stop     chan struct{}
	finished chan struct{}
	started  time.Time
}

// NewSpinner creates a spinner that reports progress on label. If silent is
// true, Start/Stop are no-ops; UpdateMessage still replaces the label.
func NewSpinner(label string, silent bool) *Spinner {
	return &Spinner{label: label, silent: silent}
}

func frameSet() []string {
	if profile == termenv.Ascii {
		return asciiFrames
	}
	return unicodeFrames
}

// Start begins the spinner animation in the background.
func (s *Spinner) Start() {
	if s.silent {
		return
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.started = time.Now()
	s.stop = make(chan struct{})
	s.finished = make(chan struct{})
	stop, finished := s.stop, s.finished
	s.mu.Unlock()

	frames := frameSet()

	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for tick := 0; ; tick++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.active {
					s.mu.Unlock()
					return
				}
				fmt.Print(s.render(frames[tick%len(frames)]))
				s.mu.Unlock()
			}
		}
	}()
}

func (s *Spinner) render(frame string) string {
	suffix := DimText("...")
	if elapsed := time.Since(s.started); elapsed >= elapsedThreshold {
		suffix = DimText(fmt.Sprintf("(%s)", elapsed.Round(time.Second)))
	}
	return fmt.Sprintf("\r%s %s %s\033[K", Info(frame), s.label, suffix)
}

// Stop ends the spinner animation and prints a final status line, including
// elapsed time once the operation ran long enough to cross elapsedThreshold.
func (s *Spinner) Stop(success bool) {
	if s.silent {
		return
	}

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stop, finished := s.stop, s.finished
	started := s.started
	s.mu.Unlock()

	close(stop)
	<-finished

	fmt.Print("\r\033[K")
	status := Success("done")
	if !success {
		status = Error("failed")
	}

	elapsed := time.Since(started)
	if elapsed >= elapsedThreshold {
		fmt.Printf("%s %s %s\n", status, s.label, DimText(fmt.Sprintf("(%s)", elapsed.Round(time.Second))))
		return
	}
	fmt.Printf("%s %s\n", status, s.label)
}

// UpdateMessage changes the label shown while the spinner is running.
func (s *Spinner) UpdateMessage(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}
