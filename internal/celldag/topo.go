package celldag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []CellID   // линейный порядок (только объявленные ячейки)
	Batches [][]CellID // уровни: каждая ячейка после всех, кто её инстанцирует
	Cyclic  bool
	Cycles  []CellID // ячейки, оставшиеся в цикле
}

// ToposortKahn orders the declared cells from the tops down.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]CellID, 0, nodeCount),
		Batches: make([][]CellID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]CellID, 0, nodeCount)
	for i := range nodeCount {
		if g.Present[i] && indeg[i] == 0 {
			current = append(current, cellID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]CellID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[id] {
				if !g.Present[to] {
					continue
				}
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		topo.Cycles = onCycles(g, indeg)
	}
	return topo
}

// onCycles trims the cells left over by Kahn that merely hang below a
// cycle: whatever reaches no other leftover cell is dropped until nothing
// changes.
func onCycles(g Graph, indeg []int) []CellID {
	left := make([]bool, len(g.Edges))
	for i := range g.Edges {
		left[i] = g.Present[i] && indeg[i] > 0
	}
	for changed := true; changed; {
		changed = false
		for i := range g.Edges {
			if !left[i] {
				continue
			}
			stuck := false
			for _, to := range g.Edges[i] {
				if left[to] {
					stuck = true
					break
				}
			}
			if !stuck {
				left[i] = false
				changed = true
			}
		}
	}
	var out []CellID
	for i, ok := range left {
		if ok {
			out = append(out, cellID(i))
		}
	}
	return out
}

func cellID(i int) CellID {
	id, err := safecast.Conv[CellID](i)
	if err != nil {
		panic(fmt.Errorf("cell id overflow: %w", err))
	}
	return id
}
