package lsp

import "encoding/json"

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if s.applySettings(params.Settings) {
		s.publishDiagnostics()
	}
	return nil
}

// applySettings reads the "vlxref" section and reports whether the
// diagnostics limit changed.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false
	}
	s.mu.Lock()
	if settings.Vlxref.Trace != nil {
		s.traceLSP = *settings.Vlxref.Trace
	}
	s.mu.Unlock()

	limit := settings.Vlxref.MaxDiagnostics
	if limit == nil || *limit <= 0 {
		return false
	}
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	changed := s.maxDiagnostics != *limit
	s.maxDiagnostics = *limit
	return changed
}
