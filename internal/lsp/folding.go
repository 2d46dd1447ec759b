package lsp

import (
	"encoding/json"
	"sort"

	"vlxref/internal/symbols"
	"vlxref/internal/xref"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	g := s.session.Snapshot()
	ranges := s.buildFoldingRanges(g, params.TextDocument.URI)
	if ranges == nil {
		ranges = []foldingRange{}
	}
	return s.sendResponse(msg.ID, ranges)
}

// buildFoldingRanges folds multi-line scopes, outline sections and the
// regions hidden by conditional compilation.
func (s *Server) buildFoldingRanges(g *xref.Generation, uri string) []foldingRange {
	path := s.indexPath(g, uriToPath(uri))
	if path == "" {
		return nil
	}
	var ranges []foldingRange
	for _, top := range g.GlobalSyms(path) {
		tr := g.Tree(top.Tree)
		if tr == nil {
			continue
		}
		tr.Walk(top.ID, func(id symbols.SymbolID, sym *symbols.Symbol) bool {
			if !sym.IsScope() || sym.Pos.Path != path {
				return true
			}
			span := lineSpan(tr, id)
			if span.End.Line > span.Start.Line {
				ranges = append(ranges, foldingRange{StartLine: span.Start.Line, EndLine: span.End.Line})
			}
			return true
		})
	}
	for _, sec := range g.Sections(path) {
		if sec.LineTo > sec.LineFrom {
			ranges = append(ranges, foldingRange{StartLine: int(sec.LineFrom) - 1, EndLine: int(sec.LineTo) - 1, Kind: "region"})
		}
	}
	// toggles come in pairs: visibility goes off, then back on
	toggles := g.IfDefOutsByFile(path)
	for i := 0; i+1 < len(toggles); i += 2 {
		if toggles[i+1] > toggles[i] {
			ranges = append(ranges, foldingRange{StartLine: int(toggles[i]) - 1, EndLine: int(toggles[i+1]) - 1, Kind: "region"})
		}
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].StartLine != ranges[j].StartLine {
			return ranges[i].StartLine < ranges[j].StartLine
		}
		return ranges[i].EndLine > ranges[j].EndLine
	})
	return ranges
}
