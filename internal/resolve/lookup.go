// Package resolve binds every reference of a symbol graph generation to its
// declaration: plain identifiers through the scope chain, hierarchical
// paths across instances, ports and parameters inside the instantiated
// cell, and cell names in the global scope.
package resolve

import (
	"sort"

	"vlxref/internal/cst"
	"vlxref/internal/symbols"
)

// Graph is one generation of the symbol graph: the per-file trees and the
// global scope joining them.
type Graph interface {
	symbols.Forest
	Global() *symbols.Global
}

// Lookup finds the declaration of name starting at scope. With ports set a
// module scope also searches its list_of_ports. With recursive set the
// search continues through Super; the file scope of every tree continues
// into the global scope, so a lookup in it never reads the file's own table.
func Lookup(g Graph, scope symbols.Ref, name string, recursive, ports bool) symbols.Ref {
	tr := g.Tree(scope.Tree)
	cur := scope.ID
	for {
		if cur == symbols.RootID || !cur.IsValid() {
			return LookupGlobal(g, name)
		}
		sc := tr.Get(cur)
		if sc == nil || !sc.IsScope() {
			return symbols.NoRef
		}
		if d, ok := sc.Names[name]; ok {
			return tr.Ref(d)
		}
		if ports {
			if lop := tr.Get(tr.PortList(cur)); lop != nil {
				if d, ok := lop.Names[name]; ok {
					return tr.Ref(d)
				}
			}
		}
		if !recursive {
			return symbols.NoRef
		}
		cur = sc.Super
	}
}

// LookupGlobal finds a cell name in the global scope.
func LookupGlobal(g Graph, name string) symbols.Ref {
	gl := g.Global()
	if gl == nil {
		return symbols.NoRef
	}
	if r, ok := gl.Names[name]; ok {
		return r
	}
	return symbols.NoRef
}

// Target returns the Branch or Scope declared by the IdentDecl at decl.
func Target(g symbols.Forest, decl symbols.Ref) symbols.Ref {
	d := symbols.Lookup(g, decl)
	if d == nil || d.Kind != symbols.KindIdentDecl {
		return symbols.NoRef
	}
	return symbols.Ref{Tree: decl.Tree, ID: d.Decl}
}

// CellScope returns the scope of the module or UDP named cell.
func CellScope(g Graph, cell string) symbols.Ref {
	t := Target(g, LookupGlobal(g, cell))
	if s := symbols.Lookup(g, t); s != nil && s.IsScope() {
		return t
	}
	return symbols.NoRef
}

// InstanceCell returns the scope of the cell instantiated by the
// module_or_udp_instance branch at inst.
func InstanceCell(g Graph, inst symbols.Ref) symbols.Ref {
	s := symbols.Lookup(g, inst)
	if s == nil || s.Prod != cst.ModuleOrUdpInstance {
		return symbols.NoRef
	}
	sup := g.Tree(inst.Tree).Get(s.Super)
	if sup == nil || sup.Prod != cst.ModuleOrUdpInstantiation {
		return symbols.NoRef
	}
	return CellScope(g, sup.Name)
}

// Binding is one visible name.
type Binding struct {
	Name string
	Decl symbols.Ref
}

// VisibleNames lists every name visible in scope, including ports and the
// global cell names, ordered by name. Inner declarations hide outer ones.
func VisibleNames(g Graph, scope symbols.Ref) []Binding {
	seen := make(map[string]symbols.Ref)
	add := func(name string, r symbols.Ref) {
		if _, ok := seen[name]; !ok {
			seen[name] = r
		}
	}
	tr := g.Tree(scope.Tree)
	for cur := scope.ID; cur.IsValid() && cur != symbols.RootID; {
		sc := tr.Get(cur)
		if sc == nil || !sc.IsScope() {
			break
		}
		for _, d := range tr.Names(cur) {
			add(tr.Get(d).Name, tr.Ref(d))
		}
		cur = sc.Super
	}
	if gl := g.Global(); gl != nil {
		for name, r := range gl.Names {
			add(name, r)
		}
	}
	out := make([]Binding, 0, len(seen))
	for name, r := range seen {
		out = append(out, Binding{Name: name, Decl: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
