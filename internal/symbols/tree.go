package symbols

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"vlxref/internal/cst"
	"vlxref/internal/source"
)

// RootID is the synthetic file scope of every Tree. Its children are the
// file's top-level declarations; its name table holds their names.
const RootID SymbolID = 1

// Tree owns all symbols built from one file in a slice arena. A Tree is
// mutated only while it is built and is read-only once published.
type Tree struct {
	ID   TreeID
	Path string
	data []Symbol
}

// NewTree creates a tree with its root scope.
func NewTree(id TreeID, path string, capacity uint32) *Tree {
	if capacity == 0 {
		capacity = 64
	}
	t := &Tree{
		ID:   id,
		Path: path,
		data: make([]Symbol, 1, capacity+2), // index 0 reserved for NoSymbolID
	}
	t.data = append(t.data, Symbol{
		Kind:  KindScope,
		Pos:   source.Pos{Path: path},
		Names: make(map[string]SymbolID),
	})
	return t
}

// New allocates sym as the last child of parent and returns its ID.
func (t *Tree) New(parent SymbolID, sym Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := SymbolID(value)
	sym.Parent = parent
	if sym.Kind == KindScope && sym.Names == nil {
		sym.Names = make(map[string]SymbolID)
	}
	t.data = append(t.data, sym)
	if p := t.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns a symbol pointer or nil for an invalid ID.
func (t *Tree) Get(id SymbolID) *Symbol {
	if t == nil || !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Root returns the file scope.
func (t *Tree) Root() *Symbol { return t.Get(RootID) }

// Ref converts a local ID to a cross-tree handle.
func (t *Tree) Ref(id SymbolID) Ref { return Ref{Tree: t.ID, ID: id} }

// Len reports the number of symbols excluding the sentinel.
func (t *Tree) Len() int { return len(t.data) - 1 }

// Top lists the top-level declarations of the file.
func (t *Tree) Top() []SymbolID { return t.Root().Children }

// IsTopLevel reports whether id is a direct child of the file scope.
func (t *Tree) IsTopLevel(id SymbolID) bool {
	s := t.Get(id)
	return s != nil && s.Parent == RootID
}

// Declare enters decl under name in scope. It returns the existing entry
// and false when the name is taken.
func (t *Tree) Declare(scope SymbolID, name string, decl SymbolID) (SymbolID, bool) {
	sc := t.Get(scope)
	if sc == nil || sc.Kind != KindScope {
		panic(fmt.Errorf("declare %q: %d is not a scope", name, scope))
	}
	if prev, ok := sc.Names[name]; ok {
		return prev, false
	}
	sc.Names[name] = decl
	return decl, true
}

// FindFirst returns the first direct child of b built from production prod.
func (t *Tree) FindFirst(b SymbolID, prod cst.Kind) SymbolID {
	br := t.Get(b)
	if br == nil {
		return NoSymbolID
	}
	for _, c := range br.Children {
		if t.data[c].Prod == prod {
			return c
		}
	}
	return NoSymbolID
}

// PortList returns the list_of_ports scope of a module declaration.
func (t *Tree) PortList(scope SymbolID) SymbolID {
	sc := t.Get(scope)
	if sc == nil || sc.Kind != KindScope || sc.Prod != cst.ModuleDeclaration {
		return NoSymbolID
	}
	lop := t.FindFirst(scope, cst.ListOfPorts)
	if s := t.Get(lop); s == nil || s.Kind != KindScope {
		return NoSymbolID
	}
	return lop
}

// Names returns the declarations visible directly in scope: its own table
// and, for modules, the port list. Entries are ordered by name; an own
// declaration hides a port of the same name.
func (t *Tree) Names(scope SymbolID) []SymbolID {
	sc := t.Get(scope)
	if sc == nil || sc.Kind != KindScope {
		return nil
	}
	merged := make(map[string]SymbolID, len(sc.Names))
	if lop := t.Get(t.PortList(scope)); lop != nil {
		for n, id := range lop.Names {
			merged[n] = id
		}
	}
	for n, id := range sc.Names {
		merged[n] = id
	}
	names := make([]string, 0, len(merged))
	for n := range merged {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]SymbolID, 0, len(names))
	for _, n := range names {
		out = append(out, merged[n])
	}
	return out
}

// Walk visits id and its descendants depth first. Returning false from fn
// skips the children of that symbol.
func (t *Tree) Walk(id SymbolID, fn func(SymbolID, *Symbol) bool) {
	s := t.Get(id)
	if s == nil || !fn(id, s) {
		return
	}
	for _, c := range s.Children {
		t.Walk(c, fn)
	}
}
