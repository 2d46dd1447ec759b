package trace

import (
	"io"
	"sync"
)

// StreamTracer encodes events to a writer as they arrive. Write errors
// never reach the traced code; the first one is returned by Flush and Close.
type StreamTracer struct {
	mu     sync.Mutex
	enc    encoder
	level  Level
	owned  bool // close the writer on Close
	closed bool
}

// NewStreamTracer writes to w, which stays owned by the caller.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{enc: encoder{w: w, format: format}, level: level}
	t.enc.begin()
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.admits(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	ev.Seq = NextSeq()
	t.enc.event(ev)
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if t.enc.err != nil {
		return t.enc.err
	}
	if f, ok := t.enc.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close terminates a chrome document and closes files opened by New.
// Further events are dropped.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.enc.end()
	err := t.flushLocked()
	if c, ok := t.enc.w.(io.Closer); ok && t.owned {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
