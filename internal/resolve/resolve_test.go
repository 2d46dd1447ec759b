package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vlxref/internal/astbuild"
	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/symbols"
	"vlxref/internal/testkit"
)

type graph struct {
	trees  map[symbols.TreeID]*symbols.Tree
	global *symbols.Global
}

func (g *graph) Tree(id symbols.TreeID) *symbols.Tree { return g.trees[id] }
func (g *graph) Global() *symbols.Global              { return g.global }

// load builds the files in order and joins them the way a merge does:
// the first declaration of a cell name wins.
func load(t *testing.T, files ...*cst.File) *graph {
	t.Helper()
	g := &graph{trees: make(map[symbols.TreeID]*symbols.Tree), global: symbols.NewGlobal()}
	for i, f := range files {
		tr := astbuild.Build(symbols.TreeID(i+1), f, nil)
		if err := testkit.CheckTree(tr); err != nil {
			t.Fatalf("%s: %v", f.Path, err)
		}
		g.trees[tr.ID] = tr
		for name, d := range tr.Root().Names {
			if _, ok := g.global.Names[name]; !ok {
				g.global.Names[name] = tr.Ref(d)
			}
		}
		for _, c := range tr.Top() {
			g.global.Children = append(g.global.Children, tr.Ref(c))
		}
	}
	return g
}

func resolveAll(t *testing.T, g *graph) (*Result, []string) {
	t.Helper()
	bag := diag.NewBag(0)
	res, err := Resolve(context.Background(), g, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	bag.Sort()
	var msgs []string
	for _, d := range bag.Items() {
		msgs = append(msgs, d.Message)
	}
	return res, msgs
}

// nth returns the n-th symbol (0-based, depth-first) of kind named name.
func nth(t *testing.T, g *graph, tree symbols.TreeID, kind symbols.Kind, name string, n int) symbols.Ref {
	t.Helper()
	tr := g.trees[tree]
	hit := symbols.NoSymbolID
	tr.Walk(symbols.RootID, func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if hit.IsValid() {
			return false
		}
		if s.Kind == kind && s.Name == name {
			if n == 0 {
				hit = id
				return false
			}
			n--
		}
		return true
	})
	if !hit.IsValid() {
		t.Fatalf("no %s %q in tree %d", kind, name, tree)
	}
	return tr.Ref(hit)
}

func TestInnerDeclarationShadowsOuter(t *testing.T) {
	g := load(t, testkit.File("m.v", testkit.Module("m", nil,
		testkit.Wire("w"),
		testkit.Always(testkit.Block("blk", testkit.Reg("w"), testkit.Blocking("w", "w"))),
		testkit.Assign("w", "w"),
	)))
	res, msgs := resolveAll(t, g)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
	outer := nth(t, g, 1, symbols.KindIdentDecl, "w", 0)
	inner := nth(t, g, 1, symbols.KindIdentDecl, "w", 1)
	for i := 0; i < 2; i++ {
		if got := res.Index[nth(t, g, 1, symbols.KindIdentUse, "w", i)]; got != inner {
			t.Errorf("use %d inside the block resolved to %v, want %v", i, got, inner)
		}
	}
	for i := 2; i < 4; i++ {
		if got := res.Index[nth(t, g, 1, symbols.KindIdentUse, "w", i)]; got != outer {
			t.Errorf("use %d in the module resolved to %v, want %v", i, got, outer)
		}
	}
}

func TestBodyPortDeclarationResolvesToPortList(t *testing.T) {
	g := load(t, testkit.File("m.v", testkit.Module("m", []string{"a", "y"},
		testkit.Input("a"),
		testkit.Output("y"),
		testkit.Assign("y", "a"),
	)))
	res, msgs := resolveAll(t, g)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
	portA := nth(t, g, 1, symbols.KindIdentDecl, "a", 0)
	if got := symbols.Lookup(g, Target(g, portA)).Prod; got != cst.Port {
		t.Fatalf("a must be declared by the port, got %s", got)
	}
	for i := 0; i < 2; i++ {
		if got := res.Index[nth(t, g, 1, symbols.KindIdentUse, "a", i)]; got != portA {
			t.Errorf("use %d of a resolved to %v, want %v", i, got, portA)
		}
	}
}

func TestHierarchicalPathThroughInstance(t *testing.T) {
	g := load(t,
		testkit.File("sub.v", testkit.Module("sub", nil, testkit.Wire("w"))),
		testkit.File("top.v", testkit.Module("top", nil,
			testkit.Wire("x"),
			testkit.Instance("sub", "u1"),
			testkit.Assign("x", testkit.Hier("u1", "w")),
		)),
	)
	res, msgs := resolveAll(t, g)
	if len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
	if got, want := res.Index[nth(t, g, 2, symbols.KindPathIdent, "u1", 0)], nth(t, g, 2, symbols.KindIdentDecl, "u1", 0); got != want {
		t.Fatalf("u1 resolved to %v, want %v", got, want)
	}
	if got, want := res.Index[nth(t, g, 2, symbols.KindPathIdent, "w", 0)], nth(t, g, 1, symbols.KindIdentDecl, "w", 0); got != want {
		t.Fatalf("u1.w resolved to %v, want the wire of sub %v", got, want)
	}
}

func TestPathThroughNonNameSpaceStops(t *testing.T) {
	g := load(t, testkit.File("m.v", testkit.Module("m", nil,
		testkit.Wire("x", "w"),
		testkit.Assign("x", testkit.Hier("x", "y")),
		testkit.Assign("x", testkit.Hier("nope", "w")),
	)))
	res, msgs := resolveAll(t, g)
	want := []string{"identifier is not a name space: x", "unknown identifier: nope"}
	if strings.Join(msgs, "\n") != strings.Join(want, "\n") {
		t.Fatalf("diagnostics = %v, want %v", msgs, want)
	}
	if _, ok := res.Index[nth(t, g, 1, symbols.KindPathIdent, "y", 0)]; ok {
		t.Fatalf("segment after a non-name-space must stay unresolved")
	}
	// the local wire w must not catch nope.w
	if d, ok := res.Index[nth(t, g, 1, symbols.KindPathIdent, "w", 0)]; ok {
		t.Fatalf("segment after an unknown identifier must stay unresolved, got %v", d)
	}
	if uses := res.RevIndex[nth(t, g, 1, symbols.KindIdentDecl, "w", 0)]; len(uses) != 0 {
		t.Fatalf("wire w must have no references, got %d", len(uses))
	}
}

func TestPortAndParameterReferences(t *testing.T) {
	g := load(t,
		testkit.File("sub.v", testkit.Module("sub", []string{"p"},
			testkit.Input("p"),
			testkit.Param("P", "1"),
		)),
		testkit.File("top.v", testkit.Module("top", nil,
			testkit.Wire("w"),
			testkit.Instantiation("sub", []testkit.Conn{{Port: "P", Signal: "w"}},
				testkit.InstanceOf("u1", testkit.Conn{Port: "p", Signal: "w"}, testkit.Conn{Port: "q", Signal: "w"})),
		)),
	)
	res, msgs := resolveAll(t, g)
	if len(msgs) != 1 || msgs[0] != "unknown port or parameter: q" {
		t.Fatalf("diagnostics = %v", msgs)
	}
	if got, want := res.Index[nth(t, g, 2, symbols.KindPortRef, "p", 0)], nth(t, g, 1, symbols.KindIdentDecl, "p", 0); got != want {
		t.Fatalf("port p resolved to %v, want %v", got, want)
	}
	if got, want := res.Index[nth(t, g, 2, symbols.KindPortRef, "P", 0)], nth(t, g, 1, symbols.KindIdentDecl, "P", 0); got != want {
		t.Fatalf("parameter P resolved to %v, want %v", got, want)
	}
	if got, want := res.Index[nth(t, g, 2, symbols.KindCellRef, "sub", 0)], g.global.Names["sub"]; got != want {
		t.Fatalf("cell reference resolved to %v, want %v", got, want)
	}
}

func TestUnknownCellReportsOnce(t *testing.T) {
	g := load(t, testkit.File("top.v", testkit.Module("top", nil,
		testkit.Wire("w"),
		testkit.Instance("ghost", "g1", testkit.Conn{Port: "p", Signal: "w"}),
	)))
	bag := diag.NewBag(0)
	if _, err := Resolve(context.Background(), g, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 1 {
		t.Fatalf("want exactly one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Message != "unknown module or udp: ghost" || d.Kind() != diag.KindElaboration {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestAttributeNamesAreSilent(t *testing.T) {
	g := load(t, testkit.File("m.v", testkit.Module("m", nil,
		testkit.Attribute("keep"),
		testkit.Wire("w"),
		testkit.Assign("w", "zz"),
	)))
	_, msgs := resolveAll(t, g)
	if len(msgs) != 1 || msgs[0] != "unknown identifier: zz" {
		t.Fatalf("diagnostics = %v", msgs)
	}
}

func TestIndexAndRevIndexAgree(t *testing.T) {
	g := load(t,
		testkit.File("sub.v", testkit.Module("sub", []string{"p"}, testkit.Input("p"), testkit.Wire("w"))),
		testkit.File("top.v", testkit.Module("top", nil,
			testkit.Wire("x"),
			testkit.Instance("sub", "u1", testkit.Conn{Port: "p", Signal: "x"}),
			testkit.Instance("sub", "u2", testkit.Conn{Port: "p", Signal: "x"}),
			testkit.Assign("x", testkit.Hier("u2", "w")),
		)),
	)
	res, _ := resolveAll(t, g)
	total := 0
	for decl, uses := range res.RevIndex {
		total += len(uses)
		for _, u := range uses {
			if res.Index[u] != decl {
				t.Fatalf("reverse entry %v -> %v not in the index", decl, u)
			}
		}
	}
	if total != res.Len() {
		t.Fatalf("index has %d entries, reverse index %d", res.Len(), total)
	}
	for use, decl := range res.Index {
		if symbols.Lookup(g, decl).Kind != symbols.KindIdentDecl {
			t.Fatalf("%v resolved to a non-declaration", use)
		}
	}
	if got := len(res.RevIndex[nth(t, g, 1, symbols.KindIdentDecl, "p", 0)]); got != 3 {
		t.Fatalf("port p has %d references, want 3 (input p and two connections)", got)
	}
}

func TestVisibleNames(t *testing.T) {
	g := load(t,
		testkit.File("sub.v", testkit.Module("sub", nil)),
		testkit.File("m.v", testkit.Module("m", []string{"a"},
			testkit.Input("a"),
			testkit.Wire("w"),
			testkit.Always(testkit.Block("blk", testkit.Reg("w", "r"))),
		)),
	)
	blk := Target(g, nth(t, g, 2, symbols.KindIdentDecl, "blk", 0))
	var names []string
	inner := nth(t, g, 2, symbols.KindIdentDecl, "w", 1)
	for _, b := range VisibleNames(g, blk) {
		names = append(names, b.Name)
		if b.Name == "w" && b.Decl != inner {
			t.Fatalf("w must be the block's declaration")
		}
	}
	if got, want := strings.Join(names, ","), "a,blk,m,r,sub,w"; got != want {
		t.Fatalf("visible names = %s, want %s", got, want)
	}
}

func TestResolveHonoursCancellation(t *testing.T) {
	g := load(t, testkit.File("m.v", testkit.Module("m", nil)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Resolve(ctx, g, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestScopeFindsOwnDeclarations(t *testing.T) {
	g := load(t, testkit.File("m.v", testkit.Module("m", []string{"a", "b"},
		testkit.Input("a"),
		testkit.Output("b"),
		testkit.Wire("w"),
		testkit.Task("t", testkit.Reg("tr"),
			testkit.Block("inner", testkit.Reg("w"))),
		testkit.Always(testkit.Block("outer",
			testkit.Reg("r"),
			testkit.Block("", testkit.Reg("anon")))),
	)))
	tr := g.trees[1]
	scopes := 0
	tr.Walk(symbols.RootID, func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if id == symbols.RootID || !s.IsScope() {
			return true
		}
		scopes++
		for _, d := range tr.Names(id) {
			name := tr.Get(d).Name
			if got := Lookup(g, tr.Ref(id), name, false, true); got != tr.Ref(d) {
				t.Errorf("%s in scope %v: lookup = %v, want %v", name, id, got, tr.Ref(d))
			}
		}
		return true
	})
	// module, port list, task, two named blocks and the anonymous one
	if scopes < 6 {
		t.Fatalf("walked %d scopes, want at least 6", scopes)
	}
}

// The file scope forwards to the global table, so a file that lost a
// duplicate cell sees the winner there.
func TestFileScopeReadsGlobalTable(t *testing.T) {
	g := load(t,
		testkit.File("a.v", testkit.Module("m", nil)),
		testkit.File("b.v", testkit.Module("m", nil)),
	)
	a, b := g.trees[1], g.trees[2]
	winner := a.Ref(a.Root().Names["m"])
	if got := Lookup(g, a.Ref(symbols.RootID), "m", false, false); got != winner {
		t.Fatalf("a.v root lookup = %v, want its own m %v", got, winner)
	}
	if got := Lookup(g, b.Ref(symbols.RootID), "m", false, false); got != winner {
		t.Fatalf("b.v root lookup = %v, want the winner %v", got, winner)
	}
}
