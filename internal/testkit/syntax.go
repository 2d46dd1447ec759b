// Package testkit builds small Verilog syntax trees for tests and checks
// structural invariants of the symbol trees built from them.
//
// Nodes are created without positions; File lays every token out the way
// it would appear in source text: tokens separated by one space, NL
// starting a new line at column 1. Productions take the position of their
// first token.
package testkit

import (
	"fmt"

	"vlxref/internal/cst"
	"vlxref/internal/source"
	"vlxref/internal/token"
)

// NL is a line break marker. File removes it from the tree.
var NL = &cst.Node{}

// Tok creates a token of kind k.
func Tok(k token.Kind, text string) *cst.Node {
	return &cst.Node{Kind: cst.Tok(k), Text: text}
}

// Kw creates a reserved word token.
func Kw(k token.Kind) *cst.Node { return Tok(k, k.String()) }

// Id creates an identifier token.
func Id(name string) *cst.Node { return Tok(token.Ident, name) }

// P creates punctuation; unknown spellings become operators.
func P(text string) *cst.Node {
	if k, ok := token.ParseKind(text); ok && !k.IsReservedWord() {
		return Tok(k, text)
	}
	return Tok(token.Op, text)
}

// R creates a production. Parts may be *cst.Node, []*cst.Node, or a string
// (an identifier); nil parts are skipped.
func R(k cst.Kind, parts ...any) *cst.Node {
	n := &cst.Node{Kind: k}
	for _, p := range parts {
		switch v := p.(type) {
		case nil:
		case *cst.Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*cst.Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		case string:
			n.Children = append(n.Children, Id(v))
		default:
			panic(fmt.Sprintf("testkit.R: unsupported part %T", p))
		}
	}
	return n
}

// Other creates a production the symbol builder treats transparently.
func Other(name string, parts ...any) *cst.Node {
	n := R(cst.RuleOther, parts...)
	n.Text = name
	return n
}

// File lays out tops starting at line 1 and wraps them into a cst.File.
func File(path string, tops ...*cst.Node) *cst.File {
	l := layout{path: path, line: 1, col: 1}
	var kept []*cst.Node
	for _, n := range tops {
		if n == NL {
			l.newline()
			continue
		}
		l.place(n)
		kept = append(kept, n)
	}
	return cst.NewFile(path, kept...)
}

type layout struct {
	path      string
	line, col uint32
}

func (l *layout) newline() {
	l.line++
	l.col = 1
}

func (l *layout) place(n *cst.Node) {
	if !n.IsRule() && len(n.Children) == 0 {
		n.Pos = source.Pos{Path: l.path, Line: l.line, Col: l.col, Len: uint32(len(n.Text))}
		l.col += uint32(len(n.Text)) + 1
		return
	}
	if !n.IsRule() {
		// Attribute or MacroUsage: the token itself occupies its text
		n.Pos = source.Pos{Path: l.path, Line: l.line, Col: l.col, Len: uint32(len(n.Text))}
		l.col += uint32(len(n.Text)) + 1
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c == NL {
			l.newline()
			continue
		}
		l.place(c)
		kept = append(kept, c)
	}
	n.Children = kept
	if n.IsRule() {
		if len(n.Children) > 0 {
			first := n.Children[0].Pos
			n.Pos = source.Pos{Path: first.Path, Line: first.Line, Col: first.Col}
		} else {
			n.Pos = source.Pos{Path: l.path, Line: l.line, Col: l.col}
		}
	}
}

// FindToken returns the nth (0-based) token with the given text in f.
func FindToken(f *cst.File, text string, nth int) *cst.Node {
	var hit *cst.Node
	f.Root.Walk(func(n *cst.Node) bool {
		if hit != nil {
			return false
		}
		if !n.IsRule() && n.Text == text && n.Kind != 0 {
			if nth == 0 {
				hit = n
				return false
			}
			nth--
		}
		return true
	})
	return hit
}

// Marker builds an outline marker on line of path; open selects Section
// over SectionEnd.
func Marker(path, title string, line uint32, open bool) cst.Marker {
	k := token.SectionEnd
	if open {
		k = token.Section
	}
	return cst.Marker{Kind: k, Title: title, Pos: source.Pos{Path: path, Line: line, Col: 1}}
}
