package source

import "testing"

func TestPosCoversExclusiveEnd(t *testing.T) {
	p := Pos{Path: "a.v", Line: 10, Col: 5, Len: 3}
	tests := []struct {
		col  uint32
		want bool
	}{
		{4, false},
		{5, true},
		{6, true},
		{7, true},
		{8, false},
	}
	for _, tt := range tests {
		if got := p.Covers("a.v", 10, tt.col); got != tt.want {
			t.Errorf("Covers(col=%d) = %v, want %v", tt.col, got, tt.want)
		}
	}
	if p.Covers("b.v", 10, 5) {
		t.Errorf("other file must not be covered")
	}
	if p.Covers("a.v", 11, 5) {
		t.Errorf("other line must not be covered")
	}
}

func TestPosSubstitutedNeverCovers(t *testing.T) {
	p := Pos{Path: "a.v", Line: 1, Col: 1, Len: 10, Flags: PosSubstituted}
	if p.Covers("a.v", 1, 3) {
		t.Fatalf("macro-expanded token must not be hit")
	}
}

func TestPosOrdering(t *testing.T) {
	a := Pos{Path: "a.v", Line: 2, Col: 3}
	b := Pos{Path: "a.v", Line: 2, Col: 7}
	c := Pos{Path: "a.v", Line: 3, Col: 1}
	if a.Compare(b) >= 0 || b.Compare(c) >= 0 || c.Compare(a) <= 0 {
		t.Fatalf("unexpected ordering")
	}
	if !b.StartsAfter(2, 3) || a.StartsAfter(2, 3) {
		t.Fatalf("StartsAfter mismatch")
	}
	if !a.AtOrAfter(2, 3) || a.AtOrAfter(2, 4) {
		t.Fatalf("AtOrAfter mismatch")
	}
	if got := a.String(); got != "a.v:2:3" {
		t.Fatalf("String() = %q", got)
	}
}
