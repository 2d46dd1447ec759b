// Package celldag orders cells by instantiation: an edge runs from a cell
// to every cell its body instantiates.
package celldag

import (
	"fmt"
	"slices"
	"strings"

	"vlxref/internal/diag"
)

type Graph struct {
	Edges   [][]CellID // Edges[from] = []to
	Indeg   []int      // входящие степени для Kahn (только присутствующие ячейки)
	Present []bool     // ячейка объявлена, а не только инстанцирована
	// SelfUse marks cells instantiating themselves directly.
	SelfUse []bool
}

type Slot struct {
	Cell    Cell
	Present bool
}

// BuildGraph joins cells into a graph. The first cell of a name wins, as in
// the global name table; uses of undeclared cells get no edge weight.
func BuildGraph(idx Index, cells []Cell) (Graph, []Slot) {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]CellID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
		SelfUse: make([]bool, n),
	}
	slots := make([]Slot, n)
	for i, name := range idx.IDToName {
		slots[i].Cell.Name = name
	}

	for _, c := range cells {
		id, ok := idx.NameToID[c.Name]
		if !ok || slots[id].Present {
			continue
		}
		slots[id] = Slot{Cell: c, Present: true}
		g.Present[id] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present {
			continue
		}
		seen := make(map[CellID]struct{}, len(slot.Cell.Uses))
		for _, u := range slot.Cell.Uses {
			to, ok := idx.NameToID[u.Name]
			if !ok {
				continue
			}
			if CellID(from) == to {
				g.SelfUse[from] = true
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
			if g.Present[to] {
				g.Indeg[to]++
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}
	return g, slots
}

// Roots lists the declared cells nobody instantiates: the candidates for a
// top module.
func Roots(g Graph) []CellID {
	var out []CellID
	for i := range g.Edges {
		if g.Present[i] && g.Indeg[i] == 0 {
			out = append(out, CellID(i))
		}
	}
	return out
}

// ReportCycles reports every cell of a cycle, and every cell instantiating
// itself, at its declaration.
func ReportCycles(rep diag.Reporter, idx Index, g Graph, slots []Slot, topo *Topo) {
	if rep == nil {
		return
	}
	for i, self := range g.SelfUse {
		if self {
			slot := slots[i]
			diag.ReportWarning(rep, diag.ElabCellCycle, slot.Cell.Pos,
				fmt.Sprintf("cell '%s' instantiates itself", slot.Cell.Name)).Emit()
		}
	}
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[id])
	}
	summary := strings.Join(names, " -> ")
	for _, id := range topo.Cycles {
		slot := slots[id]
		if !slot.Present {
			continue
		}
		diag.ReportWarning(rep, diag.ElabCellCycle, slot.Cell.Pos,
			fmt.Sprintf("cell '%s' participates in an instantiation cycle: %s", slot.Cell.Name, summary)).Emit()
	}
}
