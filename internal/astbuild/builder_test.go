package astbuild

import (
	"fmt"
	"strings"
	"testing"

	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/symbols"
	"vlxref/internal/testkit"
	"vlxref/internal/token"
)

func build(t *testing.T, f *cst.File) (*symbols.Tree, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	tr := Build(1, f, diag.BagReporter{Bag: bag})
	if err := testkit.CheckTree(tr); err != nil {
		t.Fatalf("tree invariants: %v", err)
	}
	return tr, bag
}

func find(tr *symbols.Tree, kind symbols.Kind, name string) (symbols.SymbolID, *symbols.Symbol) {
	var hitID symbols.SymbolID
	var hit *symbols.Symbol
	tr.Walk(symbols.RootID, func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if hit != nil {
			return false
		}
		if s.Kind == kind && s.Name == name {
			hitID, hit = id, s
			return false
		}
		return true
	})
	return hitID, hit
}

func messages(bag *diag.Bag) []string {
	bag.Sort()
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Message)
	}
	return out
}

func TestModuleWithPortList(t *testing.T) {
	f := testkit.File("top.v", testkit.Module("top", []string{"a", "b"},
		testkit.Input("a"),
		testkit.Output("b"),
		testkit.Wire("w"),
		testkit.Assign("b", "w"),
	))
	tr, bag := build(t, f)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(bag))
	}

	modDecl, ok := tr.Root().Names["top"]
	if !ok {
		t.Fatalf("module name must be declared in the file scope")
	}
	mod := tr.Get(tr.Get(modDecl).Decl)
	if mod.Kind != symbols.KindScope || mod.Prod != cst.ModuleDeclaration || mod.Name != "top" {
		t.Fatalf("unexpected module symbol %+v", mod)
	}
	if mod.Pos.Line != 1 || mod.Pos.Col != 8 || mod.Pos.Len != 6 {
		t.Fatalf("module takes name line/col and keyword length, got %v len %d", mod.Pos, mod.Pos.Len)
	}
	if mod.Super != symbols.RootID {
		t.Fatalf("top-level module must hang off the file scope")
	}

	lop := tr.PortList(tr.Get(modDecl).Decl)
	if lop == symbols.NoSymbolID {
		t.Fatalf("missing list_of_ports scope")
	}
	for _, p := range []string{"a", "b"} {
		d, ok := tr.Get(lop).Names[p]
		if !ok {
			t.Fatalf("port %s not declared in list_of_ports", p)
		}
		if tr.Get(tr.Get(d).Decl).Prod != cst.Port {
			t.Fatalf("port %s must declare its port branch", p)
		}
	}

	// body port declarations are uses of the list_of_ports entries
	if _, s := find(tr, symbols.KindIdentUse, "a"); s == nil || s.Pos.Line != 2 {
		t.Fatalf("input a must be a use on line 2, got %+v", s)
	}
	if _, ok := mod.Names["w"]; !ok {
		t.Fatalf("wire w must be declared in the module")
	}
	last := tr.Get(mod.Children[len(mod.Children)-1])
	if last.Kind != symbols.KindLeaf || last.Prod.Token() != token.KwEndmodule {
		t.Fatalf("endmodule must be kept as last leaf, got %+v", last)
	}
}

func TestDuplicateNameKeepsFirst(t *testing.T) {
	f := testkit.File("d.v", testkit.Module("d", nil, testkit.Wire("w", "w")))
	tr, bag := build(t, f)
	msgs := messages(bag)
	if len(msgs) != 1 || msgs[0] != "duplicate name: w" {
		t.Fatalf("diagnostics = %v", msgs)
	}
	first := testkit.FindToken(f, "w", 0)
	_, mod := find(tr, symbols.KindScope, "d")
	if got := tr.Get(mod.Names["w"]).Pos; got.Col != first.Pos.Col {
		t.Fatalf("first declaration must win, got col %d want %d", got.Col, first.Pos.Col)
	}
	if bag.Items()[0].Primary.Col != testkit.FindToken(f, "w", 1).Pos.Col {
		t.Fatalf("duplicate must be reported at the second occurrence")
	}
}

func TestPortDeclarationChecks(t *testing.T) {
	f := testkit.File("p.v",
		testkit.Module("m", []string{"a"},
			testkit.Input("a"),
			testkit.Input("a"),
			testkit.Input("c"),
		),
		testkit.NL,
		testkit.Module("n", nil, testkit.Input("x")),
	)
	_, bag := build(t, f)
	want := []string{
		"duplicate port_declaration: a",
		"port_declaration must correspond to one in the list_of_ports: c",
		"port_declaration not allowed here if list_of_ports declaration is not used",
	}
	got := messages(bag)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("diagnostics:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestANSIPortDeclarations(t *testing.T) {
	f := testkit.File("ansi.v", testkit.ModuleANSI("m",
		[]*cst.Node{testkit.PortDecl(token.KwInput, "a"), testkit.PortDecl(token.KwOutput, "y")},
		testkit.Assign("y", "a"),
	))
	tr, bag := build(t, f)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(bag))
	}
	_, mod := find(tr, symbols.KindScope, "m")
	for _, n := range []string{"a", "y"} {
		if _, ok := mod.Names[n]; !ok {
			t.Fatalf("ANSI port %s must be declared in the module scope", n)
		}
	}
}

func TestInstanceShape(t *testing.T) {
	f := testkit.File("top.v", testkit.Module("top", nil,
		testkit.Wire("w"),
		testkit.Instance("sub", "u1", testkit.Conn{Port: "p", Signal: "w"}),
	))
	tr, _ := build(t, f)

	instID, inst := find(tr, symbols.KindBranch, "u1")
	if inst == nil || inst.Prod != cst.ModuleOrUdpInstance {
		t.Fatalf("instance branch must take the instance name")
	}
	parent := tr.Get(inst.Super)
	if parent == nil || parent.Prod != cst.ModuleOrUdpInstantiation || parent.Name != "sub" {
		t.Fatalf("instance super must be the instantiation named after the cell, got %+v", parent)
	}
	if _, s := find(tr, symbols.KindCellRef, "sub"); s == nil {
		t.Fatalf("missing cell reference")
	}
	if _, s := find(tr, symbols.KindPortRef, "p"); s == nil || s.Parent != instID {
		t.Fatalf("port reference must hang off the instance")
	}
	_, mod := find(tr, symbols.KindScope, "top")
	d, ok := mod.Names["u1"]
	if !ok || tr.Get(d).Decl != instID {
		t.Fatalf("instance name must declare the instance branch")
	}
	last := tr.Get(inst.Children[len(inst.Children)-1])
	if last.Kind != symbols.KindLeaf || last.Prod.Token() != token.Rpar {
		t.Fatalf("closing parenthesis of the instance must be kept")
	}
}

func TestBlocks(t *testing.T) {
	f := testkit.File("b.v", testkit.Module("m", nil,
		testkit.Reg("x", "y"),
		testkit.Always(testkit.Block("", testkit.Blocking("x", "y"))),
		testkit.Always(testkit.Block("blk", testkit.Reg("r"))),
	))
	tr, bag := build(t, f)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(bag))
	}
	var anon *symbols.Symbol
	tr.Walk(symbols.RootID, func(_ symbols.SymbolID, s *symbols.Symbol) bool {
		if s.IsScope() && s.IsAnonymous() {
			anon = s
		}
		return true
	})
	if anon == nil || anon.Name != "" || anon.DisplayName() != "." || anon.Pos.Len != 5 {
		t.Fatalf("anonymous block wrong: %+v", anon)
	}
	blkID, blk := find(tr, symbols.KindScope, "blk")
	if blk == nil || blk.IsAnonymous() {
		t.Fatalf("named block must lose the anonymous flag")
	}
	if _, ok := blk.Names["r"]; !ok {
		t.Fatalf("reg r must be declared inside blk")
	}
	_, mod := find(tr, symbols.KindScope, "m")
	if d := mod.Names["blk"]; tr.Get(d).Decl != blkID {
		t.Fatalf("block name must be declared in the enclosing scope")
	}
	var alwaysSym *symbols.Symbol
	tr.Walk(symbols.RootID, func(_ symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Prod == cst.AlwaysConstruct && alwaysSym == nil {
			alwaysSym = s
		}
		return true
	})
	if alwaysSym == nil || alwaysSym.Super.IsValid() || alwaysSym.Pos.Len != 6 {
		t.Fatalf("always branch must have no super and keyword length, got %+v", alwaysSym)
	}
}

func TestPortForms(t *testing.T) {
	explicit := testkit.R(cst.Port, testkit.P("."), testkit.Id("p"), testkit.P("("),
		testkit.R(cst.PortExpression, testkit.R(cst.PortReference, testkit.Id("x"))), testkit.P(")"))
	concat := testkit.R(cst.Port, testkit.R(cst.PortExpression, testkit.P("{"),
		testkit.R(cst.PortReference, testkit.Id("c1")), testkit.P(","),
		testkit.R(cst.PortReference, testkit.Id("c2")), testkit.P("}")))
	mod := testkit.R(cst.ModuleDeclaration, testkit.Kw(token.KwModule), testkit.Id("m"),
		testkit.R(cst.ListOfPorts, testkit.P("("), explicit, testkit.P(","), concat, testkit.P(")")),
		testkit.P(";"), testkit.Kw(token.KwEndmodule))
	tr, _ := build(t, testkit.File("ports.v", mod))

	if _, s := find(tr, symbols.KindIdentDecl, "p"); s == nil {
		t.Fatalf(".p(x): p must declare the port")
	}
	for _, n := range []string{"x", "c1", "c2"} {
		if _, s := find(tr, symbols.KindIdentUse, n); s == nil {
			t.Fatalf("%s must be a use", n)
		}
	}
}

func TestHierarchicalPath(t *testing.T) {
	f := testkit.File("h.v", testkit.Module("m", nil,
		testkit.Wire("x"),
		testkit.Assign("x", testkit.Hier("u1", "w")),
	))
	tr, _ := build(t, f)
	u1ID, u1 := find(tr, symbols.KindPathIdent, "u1")
	_, w := find(tr, symbols.KindPathIdent, "w")
	if u1 == nil || w == nil || u1.Parent != w.Parent {
		t.Fatalf("path segments must share one hierarchy branch")
	}
	br := tr.Get(u1.Parent)
	if br.Prod != cst.HierarchicalIdentifier || br.Children[0] != u1ID || !br.Super.IsValid() {
		t.Fatalf("hierarchy branch wrong: %+v", br)
	}
}

func TestNumberValidation(t *testing.T) {
	macro := testkit.Tok(token.MacroUsage, "`W")
	macro.PrePp = true
	f := testkit.File("n.v", testkit.Module("m", nil,
		testkit.Param("A", "08'h1"),
		testkit.Param("B", "4'b1010"),
		testkit.R(cst.ParameterDeclaration, testkit.Kw(token.KwParameter),
			testkit.R(cst.ParamAssignment, testkit.Id("C"), testkit.P("="),
				testkit.R(cst.Number, macro, testkit.Tok(token.Natural, "8"))), testkit.P(";")),
	))
	_, bag := build(t, f)
	msgs := messages(bag)
	if len(msgs) != 1 || msgs[0] != "number 08'h1: invalid size '08'" {
		t.Fatalf("diagnostics = %v", msgs)
	}
	if bag.Items()[0].Kind() != diag.KindSyntax {
		t.Fatalf("number problems are syntax diagnostics")
	}
}

func TestMalformedPortReferencePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	mod := testkit.R(cst.ModuleDeclaration, testkit.Kw(token.KwModule), testkit.Id("m"),
		testkit.R(cst.PortReference, testkit.Id("x")))
	Build(1, testkit.File("bad.v", mod), nil)
}

func shape(tr *symbols.Tree) string {
	var b strings.Builder
	var walk func(id symbols.SymbolID, depth int)
	walk = func(id symbols.SymbolID, depth int) {
		s := tr.Get(id)
		fmt.Fprintf(&b, "%s%s %s %s %v\n", strings.Repeat(" ", depth), s.Kind, s.Prod, s.DisplayName(), s.Pos)
		for _, c := range s.Children {
			walk(c, depth+1)
		}
	}
	walk(symbols.RootID, 0)
	return b.String()
}

func TestBuildIsDeterministic(t *testing.T) {
	mk := func() *cst.File {
		return testkit.File("top.v", testkit.Module("top", []string{"a"},
			testkit.Input("a"),
			testkit.Wire("w"),
			testkit.Instance("sub", "u1", testkit.Conn{Port: "p", Signal: "w"}),
			testkit.Always(testkit.Block("", testkit.Blocking("w", "a"))),
		))
	}
	a, _ := build(t, mk())
	b, _ := build(t, mk())
	if shape(a) != shape(b) {
		t.Fatalf("two builds differ:\n%s\n---\n%s", shape(a), shape(b))
	}
}
