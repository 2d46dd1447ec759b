package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"vlxref/internal/cst"
	"vlxref/internal/symbols"
	"vlxref/internal/xref"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	g := s.session.Snapshot()
	result := s.buildHover(g, params.TextDocument.URI, params.Position)
	if result == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, result)
}

// buildHover describes the identifier under pos: what its declaration
// declares, its qualified name and where it is declared.
func (s *Server) buildHover(g *xref.Generation, uri string, pos position) *hover {
	path := s.indexPath(g, uriToPath(uri))
	line, col, ok := sourcePos(pos)
	if path == "" || !ok {
		return nil
	}
	hit := g.FindSymbolBySourcePos(path, line, col, true, false)
	if len(hit) == 0 {
		return nil
	}
	leaf := g.Symbol(hit.Leaf())
	rng := rangeOf(leaf.Pos)

	decl := g.FindDeclarationOfSymbol(hit.Leaf())
	d := g.Symbol(decl)
	if d == nil {
		return &hover{
			Contents: markupContent{
				Kind:  "markdown",
				Value: fmt.Sprintf("unresolved %s `%s`", roleName(leaf.Kind), leaf.Name),
			},
			Range: &rng,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** `%s`", declares(g, decl), g.QualifiedName(g.PathTo(decl), false))
	if cell := instanceCell(g, decl); cell != "" {
		fmt.Fprintf(&b, " of `%s`", cell)
	}
	fmt.Fprintf(&b, "\n\ndeclared at %s:%d:%d", s.documentPath(d.Pos.Path), d.Pos.Line, d.Pos.Col)
	if n := len(g.FindAllReferencingSymbols(decl)); n > 0 {
		fmt.Fprintf(&b, ", %d references", n)
	}
	return &hover{
		Contents: markupContent{Kind: "markdown", Value: b.String()},
		Range:    &rng,
	}
}

// declares names the production of the Branch a declaration introduces.
func declares(g *xref.Generation, decl symbols.Ref) string {
	d := g.Symbol(decl)
	b := g.Symbol(symbols.Ref{Tree: decl.Tree, ID: d.Decl})
	if b == nil {
		return "declaration"
	}
	return b.Prod.String()
}

// instanceCell returns the cell name when decl names a module instance.
func instanceCell(g *xref.Generation, decl symbols.Ref) string {
	d := g.Symbol(decl)
	b := g.Symbol(symbols.Ref{Tree: decl.Tree, ID: d.Decl})
	if b == nil || b.Prod != cst.ModuleOrUdpInstance {
		return ""
	}
	if inst := g.Symbol(symbols.Ref{Tree: decl.Tree, ID: b.Super}); inst != nil {
		return inst.Name
	}
	return ""
}

func roleName(k symbols.Kind) string {
	switch k {
	case symbols.KindCellRef:
		return "module"
	case symbols.KindPortRef:
		return "port"
	case symbols.KindPathIdent:
		return "path segment"
	}
	return "identifier"
}
