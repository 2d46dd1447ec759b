package cst

import (
	"fmt"

	"vlxref/internal/source"
	"vlxref/internal/token"
)

// Marker is an outline marker reported by the frontend. Kind is token.Section
// or token.SectionEnd; Pos.Path may name an included file.
type Marker struct {
	Kind  token.Kind
	Title string
	Pos   source.Pos
}

// File is the parser output for one source file.
type File struct {
	Path string
	// Root is a synthetic node (Kind 0) whose children are the top-level
	// productions of the file.
	Root *Node
	// Toggles lists the lines where conditional visibility switched.
	Toggles []uint32
	Markers []Marker
}

// NewFile wraps top-level productions into a File.
func NewFile(path string, top ...*Node) *File {
	root := &Node{Children: top, Pos: source.Pos{Path: path}}
	return &File{Path: path, Root: root}
}

// Check verifies the structural contract expected by the symbol builder:
// tokens have no children, every node has a kind, every positioned node has
// a path.
func (f *File) Check() error {
	if f.Root == nil {
		return fmt.Errorf("%s: nil root", f.Path)
	}
	var err error
	for _, top := range f.Root.Children {
		top.Walk(func(n *Node) bool {
			if err != nil {
				return false
			}
			switch {
			case n.Kind == 0:
				err = fmt.Errorf("%s:%d:%d: node without kind", n.Pos.Path, n.Pos.Line, n.Pos.Col)
			case !n.IsRule() && len(n.Children) > 0 && !isCompoundToken(n.Kind.Token()):
				err = fmt.Errorf("%s:%d:%d: token %s has children", n.Pos.Path, n.Pos.Line, n.Pos.Col, n.Kind)
			case n.Pos.IsValid() && n.Pos.Path == "":
				err = fmt.Errorf("%s:%d:%d: node without path", f.Path, n.Pos.Line, n.Pos.Col)
			}
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Attribute and MacroUsage tokens carry the tokens they stand for.
func isCompoundToken(k token.Kind) bool {
	return k == token.Attribute || k == token.MacroUsage
}
