package cst

import (
	"vlxref/internal/source"
	"vlxref/internal/token"
)

// Node is one element of a concrete syntax tree: a token leaf or a
// production with ordered children. Productions take the position of their
// first token.
type Node struct {
	Kind Kind
	// Text is the token value. For RuleOther it keeps the production name
	// the frontend reported.
	Text string
	Pos  source.Pos
	// PrePp marks tokens that document a macro usage before expansion.
	PrePp    bool
	Children []*Node
}

// NewToken creates a token leaf.
func NewToken(k token.Kind, text string, pos source.Pos) *Node {
	if pos.Len == 0 {
		pos.Len = uint32(len(text))
	}
	return &Node{Kind: Tok(k), Text: text, Pos: pos}
}

// NewRule creates a production node positioned at its first child.
func NewRule(k Kind, children ...*Node) *Node {
	n := &Node{Kind: k, Children: children}
	if len(children) > 0 {
		n.Pos = children[0].Pos
	}
	return n
}

func (n *Node) IsRule() bool { return n.Kind.IsRule() }

// IsToken reports whether n is a token of kind k.
func (n *Node) IsToken(k token.Kind) bool { return !n.Kind.IsRule() && n.Kind.Token() == k }

// First returns the first child or nil.
func (n *Node) First() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// KeywordLen is the length of the reserved word that starts the production,
// 0 when the first child is not a reserved word.
func (n *Node) KeywordLen() uint32 {
	f := n.First()
	if f == nil || f.IsRule() {
		return 0
	}
	return token.KeywordLen(f.Kind.Token())
}

// Walk visits n and its descendants depth first, pre-order. Returning false
// from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}
