package symbols

import "maps"

// Forest resolves tree IDs of one generation.
type Forest interface {
	Tree(id TreeID) *Tree
}

// Lookup dereferences r within f.
func Lookup(f Forest, r Ref) *Symbol {
	if !r.IsValid() {
		return nil
	}
	return f.Tree(r.Tree).Get(r.ID)
}

// Global is the scope shared by all loaded files: top-level module and UDP
// scopes in load order, and the cell name table.
type Global struct {
	Children []Ref
	Names    map[string]Ref
}

// NewGlobal returns an empty global scope.
func NewGlobal() *Global {
	return &Global{Names: make(map[string]Ref)}
}

// Clone copies the children slice and name table; symbols are shared.
func (g *Global) Clone() *Global {
	names := maps.Clone(g.Names)
	if names == nil {
		names = make(map[string]Ref)
	}
	return &Global{
		Children: append([]Ref(nil), g.Children...),
		Names:    names,
	}
}

// ClosestScope returns the innermost Scope on path.
func ClosestScope(f Forest, path TreePath) Ref {
	for _, r := range path {
		if s := Lookup(f, r); s != nil && s.IsScope() {
			return r
		}
	}
	return NoRef
}

// ClosestBranch returns the innermost Branch or Scope on path.
func ClosestBranch(f Forest, path TreePath) Ref {
	for _, r := range path {
		if s := Lookup(f, r); s != nil && s.IsBranch() {
			return r
		}
	}
	return NoRef
}
