package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer records named steps of one command and their wall-clock cost. A nil
// *Timer accepts every call and records nothing. Safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	started []time.Time
	reports []StepReport
}

// StepReport is one finished or running step. DurationMS stays zero until the
// step ends.
type StepReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of a Timer.
type Report struct {
	TotalMS float64      `json:"total_ms"`
	Steps   []StepReport `json:"steps"`
}

func NewTimer() *Timer { return &Timer{} }

// Begin opens a step and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = append(t.started, time.Now())
	t.reports = append(t.reports, StepReport{Name: name})
	return len(t.reports) - 1
}

// End closes the step behind handle. Unknown handles are ignored.
func (t *Timer) End(handle int, note string) {
	if t == nil {
		return
	}
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.reports) {
		return
	}
	t.reports[handle].DurationMS = millis(now.Sub(t.started[handle]))
	t.reports[handle].Note = note
}

// Time wraps fn in a step; a failing fn leaves the note "failed".
func (t *Timer) Time(name string, fn func() error) error {
	handle := t.Begin(name)
	err := fn()
	if err != nil {
		t.End(handle, "failed")
	} else {
		t.End(handle, "")
	}
	return err
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	steps := append([]StepReport(nil), t.reports...)
	t.mu.Unlock()

	r := Report{Steps: steps}
	for _, s := range steps {
		r.TotalMS += s.DurationMS
	}
	return r
}

// Summary renders the report as a fixed-width table ending in a total row.
func (t *Timer) Summary() string {
	r := t.Report()
	lines := []string{"timings:"}
	row := func(name string, ms float64, note string) {
		line := fmt.Sprintf("  %-20s %9.2f ms", name, ms)
		if note != "" {
			line += "  // " + note
		}
		lines = append(lines, line)
	}
	for _, s := range r.Steps {
		row(s.Name, s.DurationMS, s.Note)
	}
	row("total", r.TotalMS, "")
	return strings.Join(lines, "\n") + "\n"
}

func millis(d time.Duration) float64 { return d.Seconds() * 1e3 }
