package token_test

import (
	"testing"

	"vlxref/internal/token"
)

func TestKindRoundTripNames(t *testing.T) {
	kinds := []token.Kind{
		token.Ident, token.Natural, token.SizedBased, token.Attribute, token.MacroUsage,
		token.Section, token.SectionEnd, token.Rpar, token.Semi, token.Op,
		token.KwModule, token.KwEndmodule, token.KwPulsestyleOnevent, token.KwXor,
	}
	for _, k := range kinds {
		got, ok := token.ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", k.String(), got, ok, k)
		}
	}
	if _, ok := token.ParseKind("no_such_kind"); ok {
		t.Fatalf("unknown name must not parse")
	}
}

func TestReservedWords(t *testing.T) {
	if !token.KwModule.IsReservedWord() || !token.KwWire.IsReservedWord() {
		t.Fatalf("module and wire are reserved words")
	}
	for _, k := range []token.Kind{token.Ident, token.Rpar, token.Attribute, token.Natural} {
		if k.IsReservedWord() {
			t.Fatalf("%v must not be a reserved word", k)
		}
	}
	if got := token.KeywordLen(token.KwModule); got != 6 {
		t.Fatalf("KeywordLen(module) = %d, want 6", got)
	}
	if got := token.KeywordLen(token.Ident); got != 0 {
		t.Fatalf("KeywordLen(identifier) = %d, want 0", got)
	}
}

func TestBlockEnd(t *testing.T) {
	ends := []token.Kind{token.KwEnd, token.KwEndmodule, token.KwJoin, token.KwEndtask}
	for _, k := range ends {
		if !k.IsBlockEnd() {
			t.Fatalf("%v should end a block", k)
		}
	}
	if token.KwBegin.IsBlockEnd() || !token.KwBegin.IsBlockBegin() {
		t.Fatalf("begin opens a block")
	}
}
