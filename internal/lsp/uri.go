package lsp

import (
	"net/url"
	"path/filepath"

	"vlxref/internal/source"
)

// uriToPath turns a file URI into the canonical path the index uses. Other
// schemes yield "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" {
		path = uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return source.CanonicalPath(filepath.FromSlash(path))
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(source.CanonicalPath(path))}
	return u.String()
}

// canonicalURI normalizes uri so the same document always maps to one key.
func canonicalURI(uri string) string {
	return pathToURI(uriToPath(uri))
}
