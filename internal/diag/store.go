package diag

import (
	"slices"
	"sort"
	"sync"

	"vlxref/internal/source"
)

// Store keeps diagnostics per file with set semantics: reporting the same
// message at the same place twice records it once. Store is safe for
// concurrent use and implements Reporter.
type Store struct {
	mu    sync.RWMutex
	files map[string]*fileDiags
}

type fileDiags struct {
	seen  map[key]struct{}
	items []Diagnostic
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{files: make(map[string]*fileDiags)}
}

func (s *Store) Report(code Code, sev Severity, primary source.Pos, msg string, notes []Note) {
	s.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// Add records d under its primary path. It returns false for duplicates.
func (s *Store) Add(d Diagnostic) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(d)
}

func (s *Store) addLocked(d Diagnostic) bool {
	fd := s.files[d.Primary.Path]
	if fd == nil {
		fd = &fileDiags{seen: make(map[key]struct{})}
		s.files[d.Primary.Path] = fd
	}
	k := d.key()
	if _, dup := fd.seen[k]; dup {
		return false
	}
	fd.seen[k] = struct{}{}
	fd.items = append(fd.items, d)
	return true
}

// ClearFiles drops every diagnostic recorded for the given files.
func (s *Store) ClearFiles(files []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range files {
		delete(s.files, f)
	}
}

// Clear drops everything.
func (s *Store) Clear() {
	s.mu.Lock()
	s.files = make(map[string]*fileDiags)
	s.mu.Unlock()
}

// Replace clears files and copies from's diagnostics for exactly those files.
// Entries in from that belong to other files are ignored, so files outside
// the batch keep what they had.
func (s *Store) Replace(files []string, from *Store) {
	var snapshot map[string][]Diagnostic
	if from != nil && from != s {
		snapshot = from.byFile(files)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range files {
		delete(s.files, f)
	}
	for _, f := range files {
		for _, d := range snapshot[f] {
			s.addLocked(d)
		}
	}
}

// Update overwrites, per file, the entries of every file from has
// diagnostics for.
func (s *Store) Update(from *Store) {
	if from == nil || from == s {
		return
	}
	snapshot := from.byFile(from.Files())
	s.mu.Lock()
	defer s.mu.Unlock()
	for f, items := range snapshot {
		delete(s.files, f)
		for _, d := range items {
			s.addLocked(d)
		}
	}
}

func (s *Store) byFile(files []string) map[string][]Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]Diagnostic, len(files))
	for _, f := range files {
		if fd := s.files[f]; fd != nil {
			out[f] = slices.Clone(fd.items)
		}
	}
	return out
}

// File returns the diagnostics of one file, sorted.
func (s *Store) File(path string) []Diagnostic {
	s.mu.RLock()
	fd := s.files[path]
	var out []Diagnostic
	if fd != nil {
		out = slices.Clone(fd.items)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Files lists the paths that have diagnostics, sorted.
func (s *Store) Files() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.files))
	for f, fd := range s.files {
		if len(fd.items) > 0 {
			out = append(out, f)
		}
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// All returns every diagnostic, sorted.
func (s *Store) All() []Diagnostic {
	s.mu.RLock()
	var out []Diagnostic
	for _, fd := range s.files {
		out = append(out, fd.items...)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Bag copies the stored diagnostics into a sorted Bag limited to max entries.
func (s *Store) Bag(max int) *Bag {
	b := NewBag(max)
	for _, d := range s.All() {
		if !b.Add(d) {
			break
		}
	}
	return b
}

// Len reports the total number of stored diagnostics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, fd := range s.files {
		n += len(fd.items)
	}
	return n
}

// ErrorCount reports diagnostics with Severity >= Error.
func (s *Store) ErrorCount() int {
	return s.count(func(d *Diagnostic) bool { return d.Severity.AtLeast(SevError) })
}

// WarningCount reports diagnostics with Severity == Warning.
func (s *Store) WarningCount() int {
	return s.count(func(d *Diagnostic) bool { return d.Severity == SevWarning })
}

// CountByKind groups the stored diagnostics by Kind.
func (s *Store) CountByKind() map[Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Kind]int)
	for _, fd := range s.files {
		for i := range fd.items {
			out[fd.items[i].Kind()]++
		}
	}
	return out
}

func (s *Store) count(pred func(*Diagnostic) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, fd := range s.files {
		for i := range fd.items {
			if pred(&fd.items[i]) {
				n++
			}
		}
	}
	return n
}
