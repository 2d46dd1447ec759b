package xref

import (
	"vlxref/internal/celldag"
	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/symbols"
)

// Cells lists the top-level modules and UDPs that own their name, in load
// order, with the cells each one instantiates.
func (g *Generation) Cells() []celldag.Cell {
	var cells []celldag.Cell
	for _, r := range g.global.Children {
		sc := g.Symbol(r)
		if sc == nil || !sc.IsScope() || sc.Name == "" {
			continue
		}
		if d := g.global.Names[sc.Name]; d.Tree != r.Tree || g.Symbol(d).Decl != r.ID {
			// shadowed by an earlier cell of the same name
			continue
		}
		tr := g.trees[r.Tree]
		c := celldag.Cell{Name: sc.Name, Pos: sc.Pos}
		tr.Walk(r.ID, func(_ symbols.SymbolID, s *symbols.Symbol) bool {
			if s.Prod == cst.ModuleOrUdpInstantiation && s.Name != "" {
				c.Uses = append(c.Uses, celldag.Use{Name: s.Name, Pos: s.Pos})
				return false
			}
			return true
		})
		cells = append(cells, c)
	}
	return cells
}

// TopCells returns the loaded cells no other cell instantiates.
func (g *Generation) TopCells() []string {
	cells := g.Cells()
	idx := celldag.BuildIndex(cells)
	graph, _ := celldag.BuildGraph(idx, cells)
	var out []string
	for _, id := range celldag.Roots(graph) {
		out = append(out, idx.IDToName[id])
	}
	return out
}

// checkCycles reports cells that end up instantiating themselves.
func (g *Generation) checkCycles(rep diag.Reporter) {
	cells := g.Cells()
	idx := celldag.BuildIndex(cells)
	graph, slots := celldag.BuildGraph(idx, cells)
	celldag.ReportCycles(rep, idx, graph, slots, celldag.ToposortKahn(graph))
}

// TopCells of the published generation.
func (s *Session) TopCells() []string { return s.Snapshot().TopCells() }
