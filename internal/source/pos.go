package source

import "fmt"

// PosFlags describes how a token relates to the literal source text.
type PosFlags uint8

const (
	// PosSubstituted marks tokens produced by macro expansion; they do not
	// occupy their columns in the file.
	PosSubstituted PosFlags = 1 << iota
	// PosHidden marks tokens inside an inactive conditional block.
	PosHidden
	// PosUnexpanded marks the original text of a macro usage that was replaced
	// by its expansion.
	PosUnexpanded
)

// Pos is the position tag carried by every syntax and symbol node.
type Pos struct {
	Path  string
	Line  uint32 // 1-based
	Col   uint32 // 1-based
	Len   uint32 // display length in columns
	Flags PosFlags
}

func (p Pos) Substituted() bool { return p.Flags&PosSubstituted != 0 }
func (p Pos) Hidden() bool      { return p.Flags&PosHidden != 0 }
func (p Pos) Unexpanded() bool  { return p.Flags&PosUnexpanded != 0 }

// IsValid reports whether the position points at a real line.
func (p Pos) IsValid() bool { return p.Line != 0 }

// Covers reports whether line:col falls on the token. The end column is
// exclusive and substituted tokens never cover anything.
func (p Pos) Covers(path string, line, col uint32) bool {
	if p.Substituted() || p.Path != path || p.Line != line {
		return false
	}
	return p.Col <= col && col < p.Col+p.Len
}

// StartsAfter reports whether the token starts strictly after line:col.
func (p Pos) StartsAfter(line, col uint32) bool {
	return p.Line > line || (p.Line == line && p.Col > col)
}

// AtOrAfter reports whether the token starts at or after line:col.
func (p Pos) AtOrAfter(line, col uint32) bool {
	return p.Line > line || (p.Line == line && p.Col >= col)
}

// Compare orders positions by path, line and column.
func (p Pos) Compare(other Pos) int {
	switch {
	case p.Path != other.Path:
		if p.Path < other.Path {
			return -1
		}
		return 1
	case p.Line != other.Line:
		if p.Line < other.Line {
			return -1
		}
		return 1
	case p.Col != other.Col:
		if p.Col < other.Col {
			return -1
		}
		return 1
	}
	return 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Path, p.Line, p.Col)
}
