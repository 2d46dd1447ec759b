package observ

import (
	"sync"
	"time"
)

type span struct {
	name       string
	start, end time.Time
	note       string
}

// Timer records the phases of one update batch (build, merge, resolve).
// Phases may be tracked from several goroutines; repeated names are
// folded into one entry of the report.
type Timer struct {
	mu    sync.Mutex
	spans []span
}

func NewTimer() *Timer { return &Timer{spans: make([]span, 0, 8)} }

// Track starts a phase and returns the function that ends it with an
// optional note. Calling the function again is a no-op.
func (t *Timer) Track(name string) func(note string) {
	t.mu.Lock()
	idx := len(t.spans)
	t.spans = append(t.spans, span{name: name, start: time.Now()})
	t.mu.Unlock()

	var once sync.Once
	return func(note string) {
		once.Do(func() {
			t.mu.Lock()
			t.spans[idx].end = time.Now()
			t.spans[idx].note = note
			t.mu.Unlock()
		})
	}
}

// PhaseReport is one phase as printed with --timings and exported to
// metrics.
type PhaseReport struct {
	Name       string  `json:"name" yaml:"name"`
	DurationMS float64 `json:"duration_ms" yaml:"duration_ms"`
	Count      int     `json:"count,omitempty" yaml:"count,omitempty"` // > 1 when folded
	Note       string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// Report is the finished view of a Timer.
type Report struct {
	// TotalMS is wall time from the first start to the last end, so
	// parallel phases are not counted twice.
	TotalMS float64       `json:"total_ms" yaml:"total_ms"`
	Phases  []PhaseReport `json:"phases" yaml:"phases"`
}

// Report folds the ended phases by name in order of first appearance.
// Folded durations are summed; the last non-empty note wins.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		r          Report
		byName     = make(map[string]int)
		first, end time.Time
	)
	for _, s := range t.spans {
		if s.end.IsZero() {
			continue
		}
		if first.IsZero() || s.start.Before(first) {
			first = s.start
		}
		if s.end.After(end) {
			end = s.end
		}
		i, ok := byName[s.name]
		if !ok {
			i = len(r.Phases)
			byName[s.name] = i
			r.Phases = append(r.Phases, PhaseReport{Name: s.name})
		}
		p := &r.Phases[i]
		p.DurationMS += millis(s.end.Sub(s.start))
		p.Count++
		if s.note != "" {
			p.Note = s.note
		}
	}
	for i := range r.Phases {
		if r.Phases[i].Count == 1 {
			r.Phases[i].Count = 0
		}
	}
	if len(r.Phases) > 0 {
		r.TotalMS = millis(end.Sub(first))
	}
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
