package symbols

import (
	"vlxref/internal/cst"
	"vlxref/internal/source"
)

// Symbol is one node of a symbol tree. Which fields are meaningful depends
// on Kind:
//
//   - Branch: Children, Super (enclosing Branch; unset for block structures).
//   - Scope: Children, Super (enclosing Scope), Names.
//   - IdentDecl: Decl (the Branch it declares).
//   - Leaf, IdentUse, PathIdent, CellRef, PortRef: position and name only.
type Symbol struct {
	Kind Kind
	// Prod is the production or token kind the symbol was built from.
	Prod  cst.Kind
	Name  string
	Pos   source.Pos
	Flags Flags

	// Parent is the owning Branch; NoSymbolID only for the tree root.
	Parent   SymbolID
	Super    SymbolID
	Decl     SymbolID
	Children []SymbolID
	// Names maps a name to its IdentDecl, first declaration wins.
	Names map[string]SymbolID
}

func (s *Symbol) IsBranch() bool    { return s.Kind.IsBranch() }
func (s *Symbol) IsScope() bool     { return s.Kind == KindScope }
func (s *Symbol) IsIdent() bool     { return s.Kind.IsIdent() }
func (s *Symbol) IsAnonymous() bool { return s.Flags&FlagAnonymous != 0 }

// DisplayName is the text shown for the symbol: "." for anonymous blocks.
func (s *Symbol) DisplayName() string {
	if s.IsAnonymous() && s.Name == "" {
		return "."
	}
	return s.Name
}
