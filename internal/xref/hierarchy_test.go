package xref

import (
	"fmt"
	"strings"
	"testing"

	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/testkit"
)

func TestHierarchyCutsCycles(t *testing.T) {
	p := newFakeParser()
	p.set(topPath, topModule)
	p.set(subPath, func() *cst.Node {
		return testkit.Module("sub", []string{"p"},
			testkit.Input("p"),
			testkit.Wire("w"),
			testkit.Always(testkit.Block("g", testkit.Blocking("w", "p"))),
			testkit.Instance("top", "back"),
			testkit.Instance("nowhere", "lost"),
		)
	})
	s := newSession(t, p)
	update(t, s, topPath, subPath)

	root, err := s.Snapshot().Hierarchy("top")
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	root.Walk(func(n *Instance, depth int) {
		mark := ""
		switch {
		case n.Cycle:
			mark = " (cycle)"
		case n.Unresolved:
			mark = " (unresolved)"
		}
		lines = append(lines, fmt.Sprintf("%s%s:%s%s", strings.Repeat(" ", depth), n.Name, n.Cell, mark))
	})
	want := []string{
		":top",
		" u1:sub",
		"  back:top (cycle)",
		"  lost:nowhere (unresolved)",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("hierarchy:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}

	if _, err := s.Snapshot().Hierarchy("missing"); err == nil {
		t.Fatalf("an unknown top must fail")
	}

	var cycles []string
	for _, d := range s.Diagnostics().All() {
		if d.Code == diag.ElabCellCycle {
			cycles = append(cycles, d.Message)
		}
	}
	want = []string{
		"cell 'sub' participates in an instantiation cycle: sub -> top",
		"cell 'top' participates in an instantiation cycle: sub -> top",
	}
	if strings.Join(cycles, "\n") != strings.Join(want, "\n") {
		t.Fatalf("cycle warnings = %q", cycles)
	}
	if tops := s.TopCells(); len(tops) != 0 {
		t.Fatalf("every cell of a cycle is instantiated, got tops %v", tops)
	}
}

func TestTopCells(t *testing.T) {
	p := newFakeParser()
	p.set(subPath, subModule)
	p.set(topPath, topModule)
	s := newSession(t, p)
	update(t, s, subPath, topPath)
	if got := s.TopCells(); len(got) != 1 || got[0] != "top" {
		t.Fatalf("tops = %v, want [top]", got)
	}
}

func TestDumpListsSymbols(t *testing.T) {
	p := newFakeParser()
	p.set(subPath, subModule)
	s := newSession(t, p)
	update(t, s, subPath)

	var out strings.Builder
	if err := s.Snapshot().Dump(&out, subPath); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{`module_declaration "sub"`, `   list_of_ports`, `IdentDecl`, `endmodule`} {
		if !strings.Contains(text, want) {
			t.Errorf("dump lacks %q:\n%s", want, text)
		}
	}
	if err := s.Snapshot().Dump(&out, "/w/none.v"); err == nil {
		t.Fatalf("dumping an unloaded file must fail")
	}
}
