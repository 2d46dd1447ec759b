package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate walks the arena checking structural invariants. It returns nil
// when the tree is consistent; otherwise all detected issues joined.
func (t *Tree) Validate() error {
	var errs []error
	if len(t.data) < 2 || t.data[RootID].Kind != KindScope {
		return fmt.Errorf("tree %d (%s): missing root scope", t.ID, t.Path)
	}
	if t.data[RootID].Parent.IsValid() {
		errs = append(errs, fmt.Errorf("root has parent %d", t.data[RootID].Parent))
	}

	for idx := 2; idx < len(t.data); idx++ {
		id := SymbolID(idx) // #nosec G115 -- arena length checked by New
		s := &t.data[idx]
		if s.Kind == KindInvalid {
			errs = append(errs, fmt.Errorf("symbol %d has invalid kind", id))
			continue
		}
		parent := t.Get(s.Parent)
		if parent == nil || !parent.IsBranch() {
			errs = append(errs, fmt.Errorf("symbol %d has invalid parent %d", id, s.Parent))
		} else if !slices.Contains(parent.Children, id) {
			errs = append(errs, fmt.Errorf("symbol %d missing from children of %d", id, s.Parent))
		}
		if !s.IsBranch() && len(s.Children) > 0 {
			errs = append(errs, fmt.Errorf("%s %d has children", s.Kind, id))
		}

		switch s.Kind {
		case KindScope:
			sup := t.Get(s.Super)
			if sup == nil || !sup.IsScope() {
				errs = append(errs, fmt.Errorf("scope %d (%s) has no super scope", id, s.Name))
			}
			for name, d := range s.Names {
				decl := t.Get(d)
				switch {
				case name == "":
					errs = append(errs, fmt.Errorf("scope %d declares an empty name", id))
				case decl == nil || decl.Kind != KindIdentDecl:
					errs = append(errs, fmt.Errorf("scope %d: %q maps to non-declaration %d", id, name, d))
				case decl.Name != name:
					errs = append(errs, fmt.Errorf("scope %d: %q maps to declaration of %q", id, name, decl.Name))
				}
			}
			if s.IsAnonymous() && s.Name != "" {
				errs = append(errs, fmt.Errorf("anonymous scope %d has name %q", id, s.Name))
			}
		case KindBranch:
			if s.Super.IsValid() {
				if sup := t.Get(s.Super); sup == nil || !sup.IsBranch() {
					errs = append(errs, fmt.Errorf("branch %d has invalid super %d", id, s.Super))
				}
			}
		case KindIdentDecl:
			if d := t.Get(s.Decl); d == nil || !d.IsBranch() {
				errs = append(errs, fmt.Errorf("declaration %d (%s) has invalid target %d", id, s.Name, s.Decl))
			}
		}
	}

	for name, d := range t.data[RootID].Names {
		if decl := t.Get(d); decl == nil || decl.Kind != KindIdentDecl || decl.Name != name {
			errs = append(errs, fmt.Errorf("root: %q maps to %d", name, d))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
