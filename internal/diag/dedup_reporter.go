package diag

import (
	"sync"

	"vlxref/internal/source"
)

// DedupReporter forwards each distinct diagnostic (code, severity,
// position, message) once. Safe for concurrent use.
type DedupReporter struct {
	next Reporter

	mu         sync.Mutex
	seen       map[key]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[key]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Pos, msg string, notes []Note) {
	if r == nil {
		return
	}
	k := New(sev, code, primary, msg).key()
	r.mu.Lock()
	_, dup := r.seen[k]
	if dup {
		r.suppressed++
	} else {
		r.seen[k] = struct{}{}
	}
	r.mu.Unlock()
	if !dup && r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed is the number of duplicates dropped so far.
func (r *DedupReporter) Suppressed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.suppressed
}
