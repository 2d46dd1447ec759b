package testkit

import (
	"errors"
	"fmt"

	"vlxref/internal/symbols"
)

// CheckTree runs Tree.Validate and the containment invariants the resolver
// relies on:
//  1. every scope reaches the file scope through Super without a cycle
//  2. every declaration entered in a name table lies inside the subtree of
//     that scope; the file scope only names top-level symbols
func CheckTree(tr *symbols.Tree) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	var errs []error
	tr.Walk(symbols.RootID, func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if !s.IsScope() || id == symbols.RootID {
			return true
		}
		seen := map[symbols.SymbolID]bool{id: true}
		cur := s.Super
		for cur != symbols.RootID {
			if seen[cur] || !cur.IsValid() {
				errs = append(errs, fmt.Errorf("scope %d (%s) does not reach the file scope", id, s.DisplayName()))
				break
			}
			seen[cur] = true
			cur = tr.Get(cur).Super
		}
		for name, d := range s.Names {
			if !isDescendant(tr, d, id) {
				errs = append(errs, fmt.Errorf("scope %d (%s): declaration %q lies outside the scope", id, s.DisplayName(), name))
			}
		}
		return true
	})
	for name, d := range tr.Root().Names {
		if !tr.IsTopLevel(tr.Get(d).Decl) {
			errs = append(errs, fmt.Errorf("file scope: %q does not declare a top-level symbol", name))
		}
	}
	return errors.Join(errs...)
}

// isDescendant reports whether id lies in the subtree below anc.
func isDescendant(tr *symbols.Tree, id, anc symbols.SymbolID) bool {
	for cur := tr.Get(id); cur != nil; cur = tr.Get(cur.Parent) {
		if cur.Parent == anc {
			return true
		}
	}
	return false
}
