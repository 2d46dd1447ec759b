package lsp

import (
	"encoding/json"

	"vlxref/internal/cst"
	"vlxref/internal/symbols"
	"vlxref/internal/xref"
)

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	g := s.session.Snapshot()
	result := s.buildDocumentSymbols(g, params.TextDocument.URI)
	if result == nil {
		result = []documentSymbol{}
	}
	return s.sendResponse(msg.ID, result)
}

// buildDocumentSymbols returns the named scopes of the document as a tree,
// with the declarations of each scope as leaves.
func (s *Server) buildDocumentSymbols(g *xref.Generation, uri string) []documentSymbol {
	path := s.indexPath(g, uriToPath(uri))
	if path == "" {
		return nil
	}
	var out []documentSymbol
	for _, top := range g.GlobalSyms(path) {
		tr := g.Tree(top.Tree)
		if tr == nil {
			continue
		}
		out = append(out, outlineChildren(tr, top.ID, true)...)
	}
	return out
}

// outlineChildren lists the outline entries below id. With self set, id
// itself is the entry when it is a named scope.
func outlineChildren(tr *symbols.Tree, id symbols.SymbolID, self bool) []documentSymbol {
	sym := tr.Get(id)
	if sym == nil {
		return nil
	}
	if self && isOutlineScope(sym) {
		entry := documentSymbol{
			Name:           sym.DisplayName(),
			Detail:         sym.Prod.String(),
			Kind:           scopeKind(sym.Prod),
			Range:          lineSpan(tr, id),
			SelectionRange: rangeOf(sym.Pos),
		}
		for _, c := range sym.Children {
			entry.Children = append(entry.Children, outlineChildren(tr, c, true)...)
		}
		return []documentSymbol{entry}
	}

	switch sym.Kind {
	case symbols.KindIdentDecl:
		branch := tr.Get(sym.Decl)
		if branch == nil || branch.IsScope() {
			// a scope's own name is shown by the scope
			return nil
		}
		entry := documentSymbol{
			Name:           sym.Name,
			Detail:         branch.Prod.String(),
			Kind:           symbolKindVariable,
			Range:          rangeOf(sym.Pos),
			SelectionRange: rangeOf(sym.Pos),
		}
		if branch.Prod == cst.ModuleOrUdpInstance {
			entry.Kind = symbolKindObject
			if inst := tr.Get(branch.Super); inst != nil && inst.Name != "" {
				entry.Detail = inst.Name
			}
		}
		return []documentSymbol{entry}
	case symbols.KindBranch, symbols.KindScope:
		var out []documentSymbol
		for _, c := range sym.Children {
			out = append(out, outlineChildren(tr, c, true)...)
		}
		return out
	}
	return nil
}

// isOutlineScope is true for scopes shown as their own entry: named ones
// except the port list, whose ports belong to the module.
func isOutlineScope(sym *symbols.Symbol) bool {
	return sym.IsScope() && sym.Name != "" && sym.Prod != cst.ListOfPorts
}

func scopeKind(prod cst.Kind) int {
	switch prod {
	case cst.ModuleDeclaration, cst.UdpDeclaration:
		return symbolKindModule
	case cst.TaskDeclaration, cst.FunctionDeclaration:
		return symbolKindFunction
	}
	return symbolKindNamespace
}

// lineSpan covers id from its own position to the last line of its
// subtree.
func lineSpan(tr *symbols.Tree, id symbols.SymbolID) lspRange {
	sym := tr.Get(id)
	start := rangeOf(sym.Pos).Start
	last := sym.Pos
	tr.Walk(id, func(_ symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Pos.Path == sym.Pos.Path && s.Pos.Compare(last) > 0 {
			last = s.Pos
		}
		return true
	})
	return lspRange{Start: start, End: rangeOf(last).End}
}
