package diag

import (
	"strings"
	"testing"
)

func TestCodeKinds(t *testing.T) {
	cases := []struct {
		code Code
		kind Kind
		id   string
	}{
		{LexBadToken, KindLexer, "LEX1001"},
		{PreIncludeError, KindPreprocessor, "PRE2002"},
		{SynBadNumber, KindSyntax, "SYN3001"},
		{SemDuplicateName, KindSemantics, "SEM4001"},
		{ElabUnknownCell, KindElaboration, "ELB5001"},
		{IOLoadFileError, KindIO, "IO6001"},
		{UnknownCode, KindUnknown, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.Kind(); got != tc.kind {
			t.Errorf("%d: kind %v, want %v", tc.code, got, tc.kind)
		}
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("%d: id %q, want %q", tc.code, got, tc.id)
		}
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(SemUnknownIdent, pos("b.v", 1, 1), "unknown identifier: y"))
	b.Add(NewError(SemUnknownIdent, pos("a.v", 5, 1), "unknown identifier: x"))
	b.Add(New(SevWarning, SemUnknownIdent, pos("a.v", 5, 1), "unknown identifier: x"))
	b.Add(NewError(SemUnknownIdent, pos("a.v", 5, 1), "unknown identifier: x"))
	b.Dedup()
	b.Sort()

	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Severity != SevError || items[1].Severity != SevWarning {
		t.Fatalf("errors must sort before warnings at the same position: %+v", items)
	}
	if items[2].Primary.Path != "b.v" {
		t.Fatalf("expected b.v last, got %s", items[2].Primary.Path)
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(SemUnknownIdent, pos("a.v", uint32(i+1), 1), "x"))
		if i < 2 && !ok {
			t.Fatalf("add %d rejected", i)
		}
		if i == 2 && ok {
			t.Fatalf("limit not enforced")
		}
	}
	if !b.HasErrors() {
		t.Fatalf("expected errors")
	}
	if b.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", b.Dropped())
	}
}

func TestFilterReporter(t *testing.T) {
	bag := NewBag(0)
	r := FilterReporter{Next: BagReporter{Bag: bag}, Keep: func(p string) bool { return p == "a.v" }}
	r.Report(SemUnknownIdent, SevError, pos("a.v", 1, 1), "kept", nil)
	r.Report(SemUnknownIdent, SevError, pos("b.v", 1, 1), "dropped", nil)
	if bag.Len() != 1 || bag.Items()[0].Message != "kept" {
		t.Fatalf("unexpected items: %+v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, SemDuplicateName, pos("a.v", 2, 3), "duplicate name: w").Emit()
	}
	if bag.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", bag.Len())
	}
	if r.Suppressed() != 2 {
		t.Fatalf("suppressed = %d, want 2", r.Suppressed())
	}
}

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		NewError(ElabUnknownCell, pos("top.v", 4, 3), "unknown module or udp: sub").
			WithNote(pos("top.v", 1, 8), "in module top"),
		NewError(SemUnknownIdent, pos("top.v", 2, 1), "unknown identifier: q"),
	}
	got := FormatShort(diags, "", "", true)
	want := strings.Join([]string{
		"ERROR SEM4002 top.v:2:1 unknown identifier: q",
		"ERROR ELB5001 top.v:4:3 unknown module or udp: sub",
		"  note top.v:1:8 in module top",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}
