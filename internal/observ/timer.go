// Package observ records wall-clock phases of a run for --timings.
package observ

import (
	"fmt"
	"strings"
	"time"
)

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// Timer records phases in the order they begin. A nil *Timer records
// nothing, so callers need not branch on --timings.
type Timer struct {
	created time.Time
	phases  []phase
}

func NewTimer() *Timer {
	return &Timer{created: time.Now(), phases: make([]phase, 0, 4)}
}

// Begin opens a phase and returns its handle, -1 on a nil timer.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase behind idx with an optional note. Unknown handles
// are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].dur = time.Since(t.phases[idx].start)
	t.phases[idx].note = note
}

// PhaseReport is one phase in serializable form.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the JSON form of a Timer. TotalMS is the wall-clock time since
// NewTimer, so it also covers work between phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	r := Report{TotalMS: millis(time.Since(t.created)), Phases: make([]PhaseReport, 0, len(t.phases))}
	for _, p := range t.phases {
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	return r
}

func (r Report) Empty() bool { return len(r.Phases) == 0 }

// String renders the aligned table printed by --timings.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, ms)
		if note != "" {
			b.WriteString("  // " + note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
