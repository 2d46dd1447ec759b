package xref

import (
	"fmt"

	"vlxref/internal/cst"
	"vlxref/internal/resolve"
	"vlxref/internal/symbols"
)

// Instance is one node of the instance hierarchy.
type Instance struct {
	// Name is the instance name; empty for the top.
	Name string
	Cell string
	// Decl is the instance branch, or the cell scope for the top.
	Decl     symbols.Ref
	Children []*Instance
	// Unresolved is set when the instantiated cell is not loaded.
	Unresolved bool
	// Cycle is set when the cell already appears above; its children are
	// not expanded.
	Cycle bool
}

// Hierarchy expands the instances below the cell top by following every
// instance to the cell it instantiates.
func (g *Generation) Hierarchy(top string) (*Instance, error) {
	scope := resolve.CellScope(g, top)
	if !scope.IsValid() {
		return nil, fmt.Errorf("top cell %q is not loaded", top)
	}
	root := &Instance{Cell: top, Decl: scope}
	g.expand(root, scope, map[symbols.Ref]bool{scope: true})
	return root, nil
}

func (g *Generation) expand(parent *Instance, scope symbols.Ref, active map[symbols.Ref]bool) {
	tr := g.trees[scope.Tree]
	tr.Walk(scope.ID, func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Prod != cst.ModuleOrUdpInstance {
			return true
		}
		ref := tr.Ref(id)
		inst := &Instance{Name: s.Name, Decl: ref}
		if sup := tr.Get(s.Super); sup != nil {
			inst.Cell = sup.Name
		}
		parent.Children = append(parent.Children, inst)

		cell := resolve.InstanceCell(g, ref)
		switch {
		case !cell.IsValid():
			inst.Unresolved = true
		case active[cell]:
			inst.Cycle = true
		default:
			active[cell] = true
			g.expand(inst, cell, active)
			delete(active, cell)
		}
		return false
	})
}

// Walk visits n and its descendants depth first with their depth.
func (n *Instance) Walk(fn func(*Instance, int)) {
	n.walk(fn, 0)
}

func (n *Instance) walk(fn func(*Instance, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
