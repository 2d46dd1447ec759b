package xref

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"

	"vlxref/internal/resolve"
	"vlxref/internal/symbols"
)

// Generation is one published state of the cross-reference graph. It is
// never modified after publication; the next merge starts from a shallow
// copy, so readers holding a Generation keep a consistent view.
type Generation struct {
	// Seq counts publications; the empty generation is 0.
	Seq uint64

	global   *symbols.Global
	trees    map[symbols.TreeID]*symbols.Tree
	files    map[string]symbols.TreeID
	index    resolve.Index
	rev      resolve.RevIndex
	toggles  map[string][]uint32
	sections map[string][]Section
}

func emptyGeneration() *Generation {
	return &Generation{
		global:   symbols.NewGlobal(),
		trees:    make(map[symbols.TreeID]*symbols.Tree),
		files:    make(map[string]symbols.TreeID),
		index:    make(resolve.Index),
		rev:      make(resolve.RevIndex),
		toggles:  make(map[string][]uint32),
		sections: make(map[string][]Section),
	}
}

// clone copies the containers; trees and symbols are shared.
func (g *Generation) clone() *Generation {
	return &Generation{
		Seq:      g.Seq,
		global:   g.global.Clone(),
		trees:    maps.Clone(g.trees),
		files:    maps.Clone(g.files),
		index:    g.index,
		rev:      g.rev,
		toggles:  maps.Clone(g.toggles),
		sections: maps.Clone(g.sections),
	}
}

// Tree implements symbols.Forest.
func (g *Generation) Tree(id symbols.TreeID) *symbols.Tree { return g.trees[id] }

// Global implements resolve.Graph.
func (g *Generation) Global() *symbols.Global { return g.global }

// Symbol dereferences r.
func (g *Generation) Symbol(r symbols.Ref) *symbols.Symbol { return symbols.Lookup(g, r) }

// TreeOf returns the tree built from path, or nil.
func (g *Generation) TreeOf(path string) *symbols.Tree {
	id, ok := g.files[path]
	if !ok {
		return nil
	}
	return g.trees[id]
}

// Files lists the loaded files in lexical order.
func (g *Generation) Files() []string {
	return slices.Sorted(maps.Keys(g.files))
}

// IsEmpty reports whether nothing is loaded.
func (g *Generation) IsEmpty() bool { return len(g.global.Children) == 0 }

// Stats reports the number of trees, symbols and resolved references.
func (g *Generation) Stats() (trees, syms, refs int) {
	for _, t := range g.trees {
		syms += t.Len()
	}
	return len(g.trees), syms, len(g.index)
}

// Validate checks the structural invariants of the generation and returns
// all violations joined.
func (g *Generation) Validate() error {
	var errs []error
	ids := make([]symbols.TreeID, 0, len(g.trees))
	for id := range g.trees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := g.trees[id].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("tree %s: %w", g.trees[id].Path, err))
		}
	}
	for path, id := range g.files {
		t := g.trees[id]
		if t == nil {
			errs = append(errs, fmt.Errorf("file %s: tree %d missing", path, id))
			continue
		}
		if t.Path != path {
			errs = append(errs, fmt.Errorf("file %s: tree %d built from %s", path, id, t.Path))
		}
	}
	if len(g.files) != len(g.trees) {
		errs = append(errs, fmt.Errorf("%d files but %d trees", len(g.files), len(g.trees)))
	}

	// global children are exactly the top-level nodes of the loaded trees
	inGlobal := make(map[symbols.Ref]bool, len(g.global.Children))
	for _, r := range g.global.Children {
		if inGlobal[r] {
			errs = append(errs, fmt.Errorf("global child %v listed twice", r))
		}
		inGlobal[r] = true
		t := g.trees[r.Tree]
		if t == nil || !t.IsTopLevel(r.ID) {
			errs = append(errs, fmt.Errorf("global child %v is not a top-level node of a loaded tree", r))
		}
	}
	for _, t := range g.trees {
		for _, id := range t.Top() {
			if !inGlobal[t.Ref(id)] {
				errs = append(errs, fmt.Errorf("%s: top-level node %d missing from the global scope", t.Path, id))
			}
		}
	}
	for name, r := range g.global.Names {
		d := g.Symbol(r)
		switch {
		case d == nil || d.Kind != symbols.KindIdentDecl:
			errs = append(errs, fmt.Errorf("global name %q maps to non-declaration %v", name, r))
		case d.Name != name:
			errs = append(errs, fmt.Errorf("global name %q maps to declaration of %q", name, d.Name))
		case !inGlobal[symbols.Ref{Tree: r.Tree, ID: d.Decl}]:
			errs = append(errs, fmt.Errorf("global name %q declares a node outside the global scope", name))
		}
	}

	total := 0
	for decl, uses := range g.rev {
		total += len(uses)
		for _, u := range uses {
			if g.index[u] != decl {
				errs = append(errs, fmt.Errorf("reverse reference %v -> %v missing from the index", decl, u))
			}
		}
	}
	if total != len(g.index) {
		errs = append(errs, fmt.Errorf("index has %d entries, reverse index %d", len(g.index), total))
	}
	for use, decl := range g.index {
		if g.Symbol(use) == nil {
			errs = append(errs, fmt.Errorf("index entry %v refers to a dropped symbol", use))
		}
		if d := g.Symbol(decl); d == nil || d.Kind != symbols.KindIdentDecl {
			errs = append(errs, fmt.Errorf("index entry %v resolves to non-declaration %v", use, decl))
		}
	}
	return errors.Join(errs...)
}
