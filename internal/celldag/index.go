package celldag

import (
	"sort"

	"vlxref/internal/source"
)

type CellID uint32

// Cell is one module or UDP and the cells its body instantiates.
type Cell struct {
	Name string
	Pos  source.Pos
	Uses []Use
}

// Use is one instantiation of a cell by name.
type Use struct {
	Name string
	Pos  source.Pos
}

type Index struct {
	NameToID map[string]CellID
	IDToName []string
}

// BuildIndex numbers every cell name, declared or only instantiated, in
// lexical order.
func BuildIndex(cells []Cell) Index {
	uniq := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		if c.Name != "" {
			uniq[c.Name] = struct{}{}
		}
		for _, u := range c.Uses {
			if u.Name != "" {
				uniq[u.Name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]CellID, len(names))
	for i, name := range names {
		nameToID[name] = CellID(i)
	}
	return Index{NameToID: nameToID, IDToName: names}
}
