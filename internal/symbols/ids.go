package symbols

// SymbolID identifies a symbol inside the arena of one Tree.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// TreeID identifies one built Tree within a session. IDs are never reused,
// so a Ref into a dropped tree can be recognised.
type TreeID uint32

const (
	// NoTreeID marks the absence of a tree.
	NoTreeID TreeID = 0
)

func (id TreeID) IsValid() bool { return id != NoTreeID }

// Ref addresses a symbol across trees.
type Ref struct {
	Tree TreeID
	ID   SymbolID
}

// NoRef is the zero Ref.
var NoRef = Ref{}

func (r Ref) IsValid() bool { return r.Tree.IsValid() && r.ID.IsValid() }

// TreePath is a chain of symbols from a hit (index 0) up to the top-level
// node of a file (last element).
type TreePath []Ref

// Leaf returns the innermost element or NoRef.
func (p TreePath) Leaf() Ref {
	if len(p) == 0 {
		return NoRef
	}
	return p[0]
}

// Top returns the top-level element or NoRef.
func (p TreePath) Top() Ref {
	if len(p) == 0 {
		return NoRef
	}
	return p[len(p)-1]
}
