package lsp

import (
	"os"
	"strings"

	"vlxref/internal/xref"
)

// Documents and index files are matched by name: a dump is named after the
// source it was produced from, so rtl/top.v is indexed as rtl/top.v.vcst
// (or one of the other dump extensions).

// indexPath returns the loaded file that serves path, or path itself when
// nothing matches.
func (s *Server) indexPath(g *xref.Generation, path string) string {
	if path == "" || g.TreeOf(path) != nil {
		return path
	}
	for _, ext := range s.exts {
		if g.TreeOf(path+ext) != nil {
			return path + ext
		}
	}
	return path
}

// documentPath maps an index path back to the source an editor shows: the
// dump's source when it exists on disk, otherwise the dump itself.
func (s *Server) documentPath(path string) string {
	for _, ext := range s.exts {
		src, ok := strings.CutSuffix(path, ext)
		if !ok || src == "" {
			continue
		}
		if _, err := os.Stat(src); err == nil {
			return src
		}
	}
	return path
}

// isDump reports whether an open document is a dump the server can index
// from its buffer.
func (s *Server) isDump(path string) bool {
	for _, ext := range s.exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
