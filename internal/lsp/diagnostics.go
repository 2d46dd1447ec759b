package lsp

import (
	"maps"
	"slices"

	"vlxref/internal/diag"
	"vlxref/internal/source"
)

// publishDiagnostics sends the diagnostics of every file the session holds
// and clears documents whose diagnostics went away.
func (s *Server) publishDiagnostics() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	store := s.session.Diagnostics()
	current := make(map[string][]lspDiagnostic)
	for _, path := range store.Files() {
		uri := pathToURI(s.documentPath(path))
		list := current[uri]
		for _, d := range store.File(path) {
			if len(list) >= s.maxDiagnostics {
				break
			}
			list = append(list, s.toLSPDiagnostic(d))
		}
		current[uri] = list
	}

	for _, uri := range slices.Sorted(maps.Keys(current)) {
		if err := s.sendPublish(uri, current[uri]); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
			return
		}
	}
	for uri := range s.published {
		if _, ok := current[uri]; ok {
			continue
		}
		if err := s.sendPublish(uri, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	s.published = make(map[string]struct{}, len(current))
	for uri := range current {
		s.published[uri] = struct{}{}
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	for _, uri := range slices.Sorted(maps.Keys(s.published)) {
		if err := s.sendPublish(uri, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	clear(s.published)
}

func (s *Server) sendPublish(uri string, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Diagnostics: list,
	})
}

func (s *Server) toLSPDiagnostic(d diag.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    rangeOf(d.Primary),
		Severity: severityOf(d.Severity),
		Code:     d.Code.ID(),
		Source:   "vlxref",
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		if !n.Pos.IsValid() {
			continue
		}
		out.RelatedInformation = append(out.RelatedInformation, diagnosticRelatedInformation{
			Location: s.locationOf(n.Pos),
			Message:  n.Msg,
		})
	}
	return out
}

func severityOf(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	}
	return 3
}

// rangeOf maps a 1-based position tag to a zero-based range on one line.
// Tags without a length cover one column.
func rangeOf(p source.Pos) lspRange {
	line := max(int(p.Line)-1, 0)
	col := max(int(p.Col)-1, 0)
	return lspRange{
		Start: position{Line: line, Character: col},
		End:   position{Line: line, Character: col + max(int(p.Len), 1)},
	}
}

func (s *Server) locationOf(p source.Pos) location {
	return location{URI: pathToURI(s.documentPath(p.Path)), Range: rangeOf(p)}
}
