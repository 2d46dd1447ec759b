package trace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeSession, false},
		{LevelError, ScopeSession, false},
		{LevelPhase, ScopeBatch, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeSymbol, false},
		{LevelDebug, ScopeSymbol, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%v.ShouldEmit(%v) = %v", tc.level, tc.scope, got)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel(" Detail "); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil || !strings.Contains(err.Error(), "off|error|phase|detail|debug") {
		t.Errorf("ParseLevel(verbose) err = %v", err)
	}
	if m, err := ParseMode("RING"); err != nil || m != ModeRing {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("disk accepted")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || tr != Nop {
		t.Fatalf("New = %v, %v", tr, err)
	}
}

func TestNewBothFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeBatch, "publish", "gen 3")
	ring, ok := Ring(tr)
	if !ok {
		t.Fatal("no ring in both mode")
	}
	if n := len(ring.Snapshot()); n != 1 {
		t.Errorf("ring holds %d events", n)
	}
	if !strings.Contains(buf.String(), "publish (gen 3)") {
		t.Errorf("stream output: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewClosesOwnedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	span := Begin(tr, ScopeBatch, "batch", 0)
	span.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("{\"traceEvents\"")) || !bytes.HasSuffix(data, []byte("]}\n")) {
		t.Errorf("not a chrome document: %s", data)
	}
}

func TestRingDumpKeepsTail(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		tr.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: ScopeBatch, Name: name})
	}
	if d := tr.Dropped(); d != 1 {
		t.Errorf("Dropped = %d", d)
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, " a\n") || !strings.Contains(out, " b\n") || !strings.Contains(out, " c\n") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
	if strings.Index(out, " b\n") > strings.Index(out, " c\n") {
		t.Errorf("dump out of order:\n%s", out)
	}
}

func TestStartNestsSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	before := OpenSpans()
	batch, ctx := Start(ctx, ScopeBatch, "batch")
	file, _ := Start(ctx, ScopeFile, "build")
	sym, _ := Start(ctx, ScopeSymbol, "resolve")
	if OpenSpans() != before+2 {
		t.Errorf("open spans = %d, want %d", OpenSpans(), before+2)
	}
	if sym.ID() != 0 {
		t.Error("symbol span emitted at detail level")
	}
	file.WithExtra("symbols", "4").End("top.vcst")
	file.End("again")
	batch.End("")
	if OpenSpans() != before {
		t.Errorf("open spans after end = %d", OpenSpans())
	}

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}
	if events[1].ParentID != batch.ID() {
		t.Errorf("file parent = %d, want %d", events[1].ParentID, batch.ID())
	}
	if events[2].Kind != KindSpanEnd || events[2].Extra["symbols"] != "4" {
		t.Errorf("file end = %+v", events[2])
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat on disabled tracer")
	}
	ring := NewRingTracer(8, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	if ev := events[0]; ev.Kind != KindHeartbeat || !strings.HasPrefix(ev.Detail, "#1 open=") {
		t.Errorf("heartbeat = %+v", ev)
	}
}
