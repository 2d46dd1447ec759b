package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "text": FormatText, "NDJSON": FormatNDJSON, "chrome": FormatChrome} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"":                FormatText,
		"-":               FormatText,
		"out.ndjson":      FormatNDJSON,
		"out.json":        FormatChrome,
		"out.chrome.json": FormatChrome,
		"out.log":         FormatText,
	}
	for path, want := range cases {
		if got := detectFormat(path); got != want {
			t.Errorf("detectFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestChromeStreamIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatChrome)

	span := Begin(tr, ScopeBatch, "batch", 0)
	Point(tr, ScopeFile, "decode", "top.vcst")
	span.End("2 files")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	// after Close events are dropped and the document stays valid
	Point(tr, ScopeFile, "late", "")

	var doc struct {
		TraceEvents []struct {
			Name string            `json:"name"`
			Ph   string            `json:"ph"`
			Args map[string]string `json:"args"`
		} `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	var phases []string
	for _, ev := range doc.TraceEvents {
		phases = append(phases, ev.Ph)
	}
	if got := strings.Join(phases, ""); got != "BiE" {
		t.Fatalf("phases = %q, want BiE", got)
	}
	if doc.TraceEvents[1].Args["detail"] != "top.vcst" {
		t.Errorf("point detail lost: %+v", doc.TraceEvents[1])
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{
		Time:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Kind:   KindSpanEnd,
		Scope:  ScopeFile,
		Name:   "build",
		Detail: "top.vcst",
		Extra:  map[string]string{"symbols": "12", "cached": "false"},
	}
	want := "10:00:00.000000 file        ← build (top.vcst) {cached=false, symbols=12}\n"
	if got := string(FormatEvent(ev, FormatText)); got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errShort
}

var errShort = errors.New("short write")

func TestStreamKeepsFirstWriteError(t *testing.T) {
	w := &failingWriter{}
	tr := NewStreamTracer(w, LevelPhase, FormatText)
	Point(tr, ScopeBatch, "a", "")
	Point(tr, ScopeBatch, "b", "")
	if w.n != 1 {
		t.Errorf("writes after failure = %d, want 1", w.n)
	}
	if err := tr.Flush(); err != errShort {
		t.Errorf("Flush = %v", err)
	}
}
