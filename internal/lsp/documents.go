package lsp

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Open dump buffers are indexed from their text after a pause in editing;
// closing one restores the disk copy. Other documents are only queried.

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.mu.Lock()
	s.docs[path] = &document{text: params.TextDocument.Text, version: params.TextDocument.Version}
	s.mu.Unlock()
	if s.isDump(path) {
		s.markDirty(path)
	}
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.mu.Lock()
	doc := s.docs[path]
	if doc == nil {
		doc = &document{}
		s.docs[path] = doc
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	s.tracef("didChange: %s version=%d", path, params.TextDocument.Version)
	if s.isDump(path) {
		s.markDirty(path)
	}
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" || !s.isDump(path) {
		return nil
	}
	s.mu.Lock()
	delete(s.dirty, path)
	s.mu.Unlock()
	return s.session.RequestUpdate(s.context(), []string{path}, false)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	path := uriToPath(params.TextDocument.URI)
	if path == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.docs, path)
	delete(s.dirty, path)
	s.mu.Unlock()
	if !s.isDump(path) {
		return nil
	}
	// the buffer may have differed from the disk copy
	return s.session.RequestUpdate(s.context(), []string{path}, false)
}

// handleDidChangeWatchedFiles queues changed dumps the editor reports.
func (s *Server) handleDidChangeWatchedFiles(msg *rpcMessage) error {
	var params didChangeWatchedFilesParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	var files []string
	s.mu.Lock()
	for _, ev := range params.Changes {
		path := uriToPath(ev.URI)
		if path == "" || !s.isDump(path) {
			continue
		}
		// an open buffer wins over the disk
		if _, open := s.docs[path]; open {
			continue
		}
		files = append(files, path)
	}
	s.mu.Unlock()
	if len(files) == 0 {
		return nil
	}
	return s.session.RequestUpdate(s.context(), files, false)
}

func (s *Server) markDirty(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[path] = struct{}{}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, s.flushDocuments)
}

// flushDocuments indexes every dirty dump buffer.
func (s *Server) flushDocuments() {
	s.mu.Lock()
	texts := make(map[string]string, len(s.dirty))
	for path := range s.dirty {
		if doc := s.docs[path]; doc != nil {
			texts[path] = doc.text
		}
	}
	clear(s.dirty)
	ctx := s.baseCtx
	s.mu.Unlock()

	for _, path := range slices.Sorted(maps.Keys(texts)) {
		clean, err := s.session.ParseInlineSource(ctx, []byte(texts[path]), path)
		if err != nil {
			s.logf("index %s: %v", path, err)
			continue
		}
		s.tracef("indexed buffer %s clean=%t", path, clean)
	}
}
