package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values,
// so a level admits every scope up to a bound.
type Scope uint8

const (
	// ScopeSession covers a whole index session or command: creation,
	// watcher events, heartbeats.
	ScopeSession Scope = iota + 1
	// ScopeBatch covers one update batch and its phases (build, merge,
	// resolve, publish).
	ScopeBatch
	// ScopeFile covers per-file work: decode, symbol tree build, cache access.
	ScopeFile
	// ScopeSymbol covers single symbols; debug only.
	ScopeSymbol
)

var scopeNames = [...]string{
	ScopeSession: "session",
	ScopeBatch:   "batch",
	ScopeFile:    "file",
	ScopeSymbol:  "symbol",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// depth is the nesting used by the text format.
func (s Scope) depth() int {
	if s < ScopeSession {
		return 0
	}
	return int(s - ScopeSession)
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the sink, monotonic per process
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	GID      uint64 // emitting goroutine
	Name     string // "batch", "merge", "decode"...
	Detail   string
	Extra    map[string]string
}
