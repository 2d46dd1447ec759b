// Package astbuild turns the syntax tree of one file into a symbol tree:
// it opens scopes and branches, classifies every identifier by its
// syntactic position, detects duplicates within a scope and validates
// numeric literals.
package astbuild

import (
	"fmt"
	"strings"

	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/numlex"
	"vlxref/internal/symbols"
	"vlxref/internal/token"
)

// Build creates the symbol tree of f. Problems are reported to rep; Build
// always returns a tree. A syntax tree violating the grammar shape the
// classification relies on panics.
func Build(id symbols.TreeID, f *cst.File, rep diag.Reporter) *symbols.Tree {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	capacity := uint32(0)
	if f.Root != nil {
		capacity = uint32(min(f.Root.Count(), 1<<20)) // #nosec G115 -- bounded above
	}
	b := &builder{
		tree:     symbols.NewTree(id, f.Path, capacity),
		rep:      rep,
		declared: make(map[symbols.SymbolID]map[string]struct{}),
	}
	if f.Root != nil {
		b.fill(symbols.RootID, symbols.RootID, []*cst.Node{f.Root})
	}
	return b.tree
}

type builder struct {
	tree *symbols.Tree
	rep  diag.Reporter
	// port declarations already matched per list_of_ports scope
	declared map[symbols.SymbolID]map[string]struct{}
}

// up returns the syntax node i levels above the innermost one on path.
func up(path []*cst.Node, i int) *cst.Node {
	if i >= len(path) {
		return nil
	}
	return path[len(path)-1-i]
}

func (b *builder) fill(parent, scope symbols.SymbolID, path []*cst.Node) {
	for _, child := range up(path, 0).Children {
		k := child.Kind
		switch {
		case opensScope(k):
			sym := symbols.Symbol{
				Kind:  symbols.KindScope,
				Prod:  k,
				Pos:   child.Pos,
				Super: scope,
			}
			sym.Pos.Len = child.KeywordLen()
			if isAnonymousCandidate(k) {
				sym.Flags |= symbols.FlagAnonymous
			}
			sc := b.tree.New(parent, sym)
			b.fill(sc, sc, append(path, child))

		case isDecl(k) || isHierarchy(k) || isBlockStructure(k):
			sym := symbols.Symbol{
				Kind: symbols.KindBranch,
				Prod: k,
				Pos:  child.Pos,
			}
			if !k.IsRule() {
				sym.Name = child.Text
			}
			if isBlockStructure(k) {
				sym.Pos.Len = child.KeywordLen()
			} else {
				sym.Super = parent
			}
			br := b.tree.New(parent, sym)
			b.fill(br, scope, append(path, child))

		case k == cst.Number:
			b.checkNumber(child)

		case k.IsRule():
			// transparent, identifiers may sit further down
			b.fill(parent, scope, append(path, child))

		case k.Token().IsBlockEnd():
			// the last token of a production lets whitespace queries find it
			b.tree.New(parent, symbols.Symbol{Kind: symbols.KindLeaf, Prod: k, Name: child.Text, Pos: child.Pos})

		case child.IsToken(token.Rpar):
			if b.tree.Get(parent).Prod == cst.ModuleOrUdpInstance {
				b.tree.New(parent, symbols.Symbol{Kind: symbols.KindLeaf, Prod: k, Name: child.Text, Pos: child.Pos})
			}

		case child.IsToken(token.Ident):
			b.ident(parent, scope, path, child)
		}
	}
}

func (b *builder) ident(parent, scope symbols.SymbolID, path []*cst.Node, id *cst.Node) {
	front := up(path, 0)
	kind := symbols.KindInvalid
	declScope := scope

	switch {
	case opensScope(front.Kind):
		// the name of the scope itself; it is declared in the enclosing scope
		kind = symbols.KindIdentDecl
		sc := b.tree.Get(scope)
		declScope = sc.Super
		sc.Name = id.Text
		sc.Pos.Line, sc.Pos.Col = id.Pos.Line, id.Pos.Col
		sc.Flags &^= symbols.FlagAnonymous

	case isHierarchy(front.Kind):
		kind = symbols.KindPathIdent

	case front.Kind == cst.Port:
		// port = . port_identifier ( port_expression )
		kind = symbols.KindIdentDecl

	case front.Kind == cst.PortReference:
		expr, port := up(path, 1), up(path, 2)
		if expr == nil || port == nil || expr.Kind != cst.PortExpression {
			panic(fmt.Sprintf("astbuild: %s: port_reference outside port/port_expression", id.Pos))
		}
		if expr == port.First() {
			if expr.First() == front {
				// port = port_reference
				kind = symbols.KindIdentDecl
			}
			// port = { port_reference, ... } stays a use
		} else {
			// port = . port_identifier ( port_expression ): names inside the module
			kind = symbols.KindIdentUse
		}

	case front.Kind == cst.ModuleOrUdpInstantiation:
		kind = symbols.KindCellRef
		b.tree.Get(parent).Name = id.Text

	case front.Kind == cst.ModuleOrUdpInstance:
		kind = symbols.KindIdentDecl
		b.tree.Get(parent).Name = id.Text

	case front.Kind == cst.PortConnectionOrOutputTerminal, front.Kind == cst.NamedParameterAssignment:
		kind = symbols.KindPortRef

	case isPlainDeclParent(front.Kind):
		kind = symbols.KindIdentDecl

	case front.Kind == cst.InoutDeclaration, front.Kind == cst.InputDeclaration, front.Kind == cst.OutputDeclaration:
		if outer := up(path, 1); outer != nil && outer.Kind == cst.ListOfPortDeclarations {
			kind = symbols.KindIdentDecl
		} else {
			// the use resolves to the port in list_of_ports
			b.checkPortList(scope, id)
		}

	case front.Kind == cst.ListOfVariablePortIdentifiers:
		if outer := up(path, 2); outer != nil && outer.Kind == cst.ListOfPortDeclarations {
			kind = symbols.KindIdentDecl
		} else {
			b.checkPortList(scope, id)
		}
	}

	if kind == symbols.KindInvalid {
		kind = symbols.KindIdentUse
	}
	sym := symbols.Symbol{Kind: kind, Prod: id.Kind, Name: id.Text, Pos: id.Pos}
	if kind == symbols.KindIdentDecl {
		sym.Decl = parent
	}
	sid := b.tree.New(parent, sym)
	if kind != symbols.KindIdentDecl {
		return
	}
	if _, ok := b.tree.Declare(declScope, id.Text, sid); !ok {
		diag.ReportError(b.rep, diag.SemDuplicateName, id.Pos,
			fmt.Sprintf("duplicate name: %s", id.Text)).Emit()
	}
}

// checkPortList verifies that a port declaration in a module body matches
// an entry of the module's list_of_ports, once.
func (b *builder) checkPortList(scope symbols.SymbolID, id *cst.Node) {
	lop := b.tree.FindFirst(scope, cst.ListOfPorts)
	lopSym := b.tree.Get(lop)
	if lopSym == nil || !lopSym.IsScope() {
		diag.ReportError(b.rep, diag.SemPortDeclNotAllowed, id.Pos,
			"port_declaration not allowed here if list_of_ports declaration is not used").Emit()
		return
	}
	if _, ok := lopSym.Names[id.Text]; !ok {
		diag.ReportError(b.rep, diag.SemPortDeclNotInList, id.Pos,
			fmt.Sprintf("port_declaration must correspond to one in the list_of_ports: %s", id.Text)).Emit()
		return
	}
	seen := b.declared[lop]
	if seen == nil {
		seen = make(map[string]struct{})
		b.declared[lop] = seen
	}
	if _, dup := seen[id.Text]; dup {
		diag.ReportError(b.rep, diag.SemDuplicatePortDecl, id.Pos,
			fmt.Sprintf("duplicate port_declaration: %s", id.Text)).Emit()
		return
	}
	seen[id.Text] = struct{}{}
}

func (b *builder) checkNumber(n *cst.Node) {
	var sb strings.Builder
	for _, c := range n.Children {
		if !c.PrePp {
			sb.WriteString(c.Text)
		}
	}
	text := sb.String()
	if err := numlex.Validate(text); err != nil {
		diag.ReportError(b.rep, diag.SynBadNumber, n.Pos,
			fmt.Sprintf("number %s: %v", text, err)).Emit()
	}
}
