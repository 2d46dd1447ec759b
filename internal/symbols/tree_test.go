package symbols

import (
	"strings"
	"testing"

	"vlxref/internal/cst"
	"vlxref/internal/source"
	"vlxref/internal/token"
)

func at(line, col, n uint32) source.Pos {
	return source.Pos{Path: "m.v", Line: line, Col: col, Len: n}
}

// module m (a); input a; wire a; endmodule
func buildModule(t *testing.T) (*Tree, SymbolID, SymbolID) {
	t.Helper()
	tr := NewTree(1, "m.v", 0)
	mod := tr.New(RootID, Symbol{Kind: KindScope, Prod: cst.ModuleDeclaration, Name: "m", Pos: at(1, 1, 6), Super: RootID})
	decl := tr.New(mod, Symbol{Kind: KindIdentDecl, Prod: cst.Tok(token.Ident), Name: "m", Pos: at(1, 8, 1), Decl: mod})
	tr.Declare(RootID, "m", decl)
	lop := tr.New(mod, Symbol{Kind: KindScope, Prod: cst.ListOfPorts, Pos: at(1, 10, 0), Super: mod})
	port := tr.New(lop, Symbol{Kind: KindBranch, Prod: cst.Port, Pos: at(1, 11, 0), Super: lop})
	pa := tr.New(port, Symbol{Kind: KindIdentDecl, Prod: cst.Tok(token.Ident), Name: "a", Pos: at(1, 11, 1), Decl: port})
	tr.Declare(lop, "a", pa)
	return tr, mod, lop
}

func TestDeclareFirstWins(t *testing.T) {
	tr, mod, _ := buildModule(t)
	net := tr.New(mod, Symbol{Kind: KindBranch, Prod: cst.NetDeclaration, Pos: at(2, 3, 0), Super: mod})
	w1 := tr.New(net, Symbol{Kind: KindIdentDecl, Name: "w", Pos: at(2, 8, 1), Decl: net})
	w2 := tr.New(net, Symbol{Kind: KindIdentDecl, Name: "w", Pos: at(2, 11, 1), Decl: net})
	if got, ok := tr.Declare(mod, "w", w1); !ok || got != w1 {
		t.Fatalf("first declaration must be entered")
	}
	if got, ok := tr.Declare(mod, "w", w2); ok || got != w1 {
		t.Fatalf("second declaration must report the first (got %d, %v)", got, ok)
	}
	if tr.Get(mod).Names["w"] != w1 {
		t.Fatalf("name table changed by duplicate")
	}
}

func TestNamesIncludesPortList(t *testing.T) {
	tr, mod, lop := buildModule(t)
	if got := tr.PortList(mod); got != lop {
		t.Fatalf("PortList = %d, want %d", got, lop)
	}
	names := tr.Names(mod)
	if len(names) != 1 || tr.Get(names[0]).Name != "a" {
		t.Fatalf("module names = %v", names)
	}
	if tr.PortList(lop) != NoSymbolID {
		t.Fatalf("only module declarations have a port list")
	}
}

func TestValidate(t *testing.T) {
	tr, mod, _ := buildModule(t)
	if err := tr.Validate(); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}
	if !tr.IsTopLevel(mod) {
		t.Fatalf("module must be top level")
	}
	bad := tr.New(mod, Symbol{Kind: KindIdentDecl, Name: "q", Pos: at(3, 1, 1)})
	tr.Get(mod).Names[""] = bad
	err := tr.Validate()
	if err == nil {
		t.Fatalf("expected violations")
	}
	msg := err.Error()
	if !strings.Contains(msg, "invalid target") || !strings.Contains(msg, "empty name") {
		t.Fatalf("violations not all reported: %v", msg)
	}
}

func TestDisplayNameAnonymous(t *testing.T) {
	s := Symbol{Kind: KindScope, Prod: cst.SeqBlock, Flags: FlagAnonymous}
	if s.DisplayName() != "." {
		t.Fatalf("anonymous block display = %q", s.DisplayName())
	}
	s.Name = "blk"
	s.Flags = 0
	if s.DisplayName() != "blk" {
		t.Fatalf("named block display = %q", s.DisplayName())
	}
}

type oneTree struct{ t *Tree }

func (o oneTree) Tree(id TreeID) *Tree {
	if id == o.t.ID {
		return o.t
	}
	return nil
}

func TestClosestScopeAndBranch(t *testing.T) {
	tr, mod, lop := buildModule(t)
	port := tr.Get(lop).Children[0]
	ident := tr.Get(port).Children[0]
	path := TreePath{tr.Ref(ident), tr.Ref(port), tr.Ref(lop), tr.Ref(mod)}
	f := oneTree{tr}
	if got := ClosestBranch(f, path); got != tr.Ref(port) {
		t.Fatalf("ClosestBranch = %v", got)
	}
	if got := ClosestScope(f, path); got != tr.Ref(lop) {
		t.Fatalf("ClosestScope = %v", got)
	}
	if Lookup(f, Ref{Tree: 9, ID: 1}) != nil {
		t.Fatalf("unknown tree must not resolve")
	}
	if path.Leaf() != tr.Ref(ident) || path.Top() != tr.Ref(mod) {
		t.Fatalf("Leaf/Top wrong")
	}
}
