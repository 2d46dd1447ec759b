package lsp

import (
	"encoding/json"

	"fortio.org/safecast"

	"vlxref/internal/symbols"
	"vlxref/internal/xref"
)

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	g := s.session.Snapshot()
	result := s.buildDefinition(g, params.TextDocument.URI, params.Position)
	if result == nil {
		result = []location{}
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleReferences(msg *rpcMessage) error {
	var params referenceParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	g := s.session.Snapshot()
	result := s.buildReferences(g, params.TextDocument.URI, params.Position, params.Context.IncludeDeclaration)
	if result == nil {
		result = []location{}
	}
	return s.sendResponse(msg.ID, result)
}

// declarationAt resolves the identifier under pos to its declaration.
func (s *Server) declarationAt(g *xref.Generation, uri string, pos position) symbols.Ref {
	path := s.indexPath(g, uriToPath(uri))
	line, col, ok := sourcePos(pos)
	if path == "" || !ok {
		return symbols.NoRef
	}
	return g.FindDeclarationAtSourcePos(path, line, col)
}

// sourcePos converts a zero-based LSP position to a one-based line and
// column. Negative or oversized positions are rejected.
func sourcePos(pos position) (line, col uint32, ok bool) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, 0, false
	}
	line, err := safecast.Conv[uint32](pos.Line + 1)
	if err != nil {
		return 0, 0, false
	}
	col, err = safecast.Conv[uint32](pos.Character + 1)
	if err != nil {
		return 0, 0, false
	}
	return line, col, true
}

func (s *Server) buildDefinition(g *xref.Generation, uri string, pos position) []location {
	decl := s.declarationAt(g, uri, pos)
	sym := g.Symbol(decl)
	if sym == nil || !sym.Pos.IsValid() {
		return nil
	}
	return []location{s.locationOf(sym.Pos)}
}

func (s *Server) buildReferences(g *xref.Generation, uri string, pos position, includeDecl bool) []location {
	decl := s.declarationAt(g, uri, pos)
	sym := g.Symbol(decl)
	if sym == nil {
		return nil
	}
	var out []location
	if includeDecl && sym.Pos.IsValid() {
		out = append(out, s.locationOf(sym.Pos))
	}
	for _, r := range g.FindAllReferencingSymbols(decl) {
		if u := g.Symbol(r); u != nil && u.Pos.IsValid() {
			out = append(out, s.locationOf(u.Pos))
		}
	}
	return out
}
