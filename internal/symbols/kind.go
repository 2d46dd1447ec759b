package symbols

// Kind tags the variant of a Symbol.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindLeaf is a block-end keyword or instance ')' kept for position queries.
	KindLeaf
	KindBranch
	KindScope
	KindIdentDecl
	KindIdentUse
	// KindPathIdent is one segment of a hierarchical identifier.
	KindPathIdent
	// KindCellRef names the module or UDP of an instantiation.
	KindCellRef
	// KindPortRef names a port or parameter in a named connection.
	KindPortRef
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "Leaf"
	case KindBranch:
		return "Branch"
	case KindScope:
		return "Scope"
	case KindIdentDecl:
		return "IdentDecl"
	case KindIdentUse:
		return "IdentUse"
	case KindPathIdent:
		return "PathIdent"
	case KindCellRef:
		return "CellRef"
	case KindPortRef:
		return "PortRef"
	}
	return "Invalid"
}

// IsBranch is true for Branch and Scope.
func (k Kind) IsBranch() bool { return k == KindBranch || k == KindScope }

// IsIdent is true for every identifier occurrence.
func (k Kind) IsIdent() bool { return k >= KindIdentDecl && k <= KindPortRef }

// IsReference is true for the identifier kinds the resolver binds.
func (k Kind) IsReference() bool { return k >= KindIdentUse && k <= KindPortRef }

// Flags carries per-symbol bits.
type Flags uint8

const (
	// FlagAnonymous marks a generate/sequential/parallel block without a label.
	FlagAnonymous Flags = 1 << iota
)
