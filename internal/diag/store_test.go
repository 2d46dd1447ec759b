package diag

import (
	"sync"
	"testing"

	"vlxref/internal/source"
)

func pos(path string, line, col uint32) source.Pos {
	return source.Pos{Path: path, Line: line, Col: col, Len: 1}
}

func TestStoreDeduplicates(t *testing.T) {
	s := NewStore()
	s.Report(SemUnknownIdent, SevError, pos("a.v", 3, 5), "unknown identifier: w", nil)
	s.Report(SemUnknownIdent, SevError, pos("a.v", 3, 5), "unknown identifier: w", nil)
	if got := s.Len(); got != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", got)
	}
}

func TestStoreReplaceTouchesOnlyBatchFiles(t *testing.T) {
	s := NewStore()
	s.Report(SemUnknownIdent, SevError, pos("a.v", 1, 1), "unknown identifier: x", nil)
	s.Report(SemUnknownIdent, SevError, pos("b.v", 1, 1), "unknown identifier: y", nil)

	batch := NewStore()
	batch.Report(SemDuplicateName, SevError, pos("a.v", 2, 1), "duplicate name: q", nil)
	batch.Report(SemDuplicateName, SevError, pos("b.v", 9, 1), "duplicate name: z", nil)

	s.Replace([]string{"a.v"}, batch)

	a := s.File("a.v")
	if len(a) != 1 || a[0].Message != "duplicate name: q" {
		t.Fatalf("a.v not replaced: %+v", a)
	}
	b := s.File("b.v")
	if len(b) != 1 || b[0].Message != "unknown identifier: y" {
		t.Fatalf("b.v must be untouched: %+v", b)
	}
}

func TestStoreReplaceWithEmptyBatchClears(t *testing.T) {
	s := NewStore()
	s.Report(SemUnknownIdent, SevError, pos("a.v", 1, 1), "unknown identifier: x", nil)
	s.Replace([]string{"a.v"}, NewStore())
	if got := s.File("a.v"); len(got) != 0 {
		t.Fatalf("expected a.v cleared, got %+v", got)
	}
	if files := s.Files(); len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}

func TestStoreUpdateOverwritesPerFile(t *testing.T) {
	s := NewStore()
	s.Report(SemUnknownIdent, SevError, pos("a.v", 1, 1), "old", nil)
	s.Report(SemUnknownIdent, SevError, pos("b.v", 1, 1), "keep", nil)
	from := NewStore()
	from.Report(SemUnknownIdent, SevWarning, pos("a.v", 4, 1), "new", nil)
	s.Update(from)

	a := s.File("a.v")
	if len(a) != 1 || a[0].Message != "new" {
		t.Fatalf("unexpected a.v: %+v", a)
	}
	if s.WarningCount() != 1 || s.ErrorCount() != 1 {
		t.Fatalf("unexpected counts: warnings=%d errors=%d", s.WarningCount(), s.ErrorCount())
	}
}

func TestStoreAllSorted(t *testing.T) {
	s := NewStore()
	s.Report(ElabUnknownCell, SevError, pos("b.v", 1, 1), "unknown module or udp: m", nil)
	s.Report(SemUnknownIdent, SevError, pos("a.v", 7, 2), "unknown identifier: b", nil)
	s.Report(SemUnknownIdent, SevError, pos("a.v", 2, 9), "unknown identifier: a", nil)

	all := s.All()
	want := []string{"unknown identifier: a", "unknown identifier: b", "unknown module or udp: m"}
	if len(all) != len(want) {
		t.Fatalf("expected %d diagnostics, got %d", len(want), len(all))
	}
	for i, w := range want {
		if all[i].Message != w {
			t.Fatalf("diag %d: want %q, got %q", i, w, all[i].Message)
		}
	}
	kinds := s.CountByKind()
	if kinds[KindSemantics] != 2 || kinds[KindElaboration] != 1 {
		t.Fatalf("unexpected kind counts: %v", kinds)
	}
}

func TestStoreConcurrentReport(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(line uint32) {
			defer wg.Done()
			s.Report(SemUnknownIdent, SevError, pos("a.v", line, 1), "unknown identifier: x", nil)
			_ = s.File("a.v")
		}(uint32(i + 1))
	}
	wg.Wait()
	if got := s.Len(); got != 8 {
		t.Fatalf("expected 8 diagnostics, got %d", got)
	}
}
