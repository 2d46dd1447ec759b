// Package frontend supplies syntax trees to the indexer. The Verilog
// lexer, preprocessor and parser live outside this repository; their
// output reaches vlxref as syntax tree dumps (see package cst).
package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"vlxref/internal/cst"
	"vlxref/internal/source"
	"vlxref/internal/trace"
	"vlxref/internal/treecache"
)

// Parser produces the syntax tree of one file.
type Parser interface {
	// Parse reads path, from an overlay or disk.
	Parse(ctx context.Context, path string) (*cst.File, error)
	// ParseText parses text held in memory as the content of path.
	ParseText(ctx context.Context, path string, text []byte) (*cst.File, error)
}

// DumpParser reads syntax tree dumps through a FileSet. Binary dumps are
// recognised by extension; text is treated as YAML when the extension
// says nothing.
type DumpParser struct {
	Files *source.FileSet
	// Cache is optional.
	Cache *treecache.Cache
}

// NewDumpParser returns a parser over files with an optional tree cache.
func NewDumpParser(files *source.FileSet, cache *treecache.Cache) *DumpParser {
	if files == nil {
		files = source.NewFileSet()
	}
	return &DumpParser{Files: files, Cache: cache}
}

func (p *DumpParser) Parse(ctx context.Context, path string) (*cst.File, error) {
	span, _ := trace.Start(ctx, trace.ScopeFile, "decode")
	defer span.End(path)

	f, err := p.Files.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if p.Cache != nil {
		if tree, err := p.Cache.Get(f.Path, f.Hash); err == nil {
			span.WithExtra("cache", "hit")
			return tree, nil
		}
	}
	tree, err := decode(f.Path, f.Content)
	if err != nil {
		return nil, err
	}
	if p.Cache != nil {
		// a failed write only costs the next run a decode
		_ = p.Cache.Put(f.Path, f.Hash, tree)
	}
	return tree, nil
}

func (p *DumpParser) ParseText(_ context.Context, path string, text []byte) (*cst.File, error) {
	return decode(path, text)
}

func decode(path string, content []byte) (*cst.File, error) {
	format, err := cst.FormatForPath(path)
	if errors.Is(err, cst.ErrUnknownFormat) {
		format = sniff(content)
	}
	tree, err := cst.Decode(bytes.NewReader(content), path, format)
	if err != nil {
		return nil, err
	}
	if err := tree.Check(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tree, nil
}

// sniff tells msgpack from YAML: a msgpack dump starts with a map header.
func sniff(content []byte) cst.Format {
	if len(content) > 0 && (content[0]&0xf0 == 0x80 || content[0] == 0xde || content[0] == 0xdf) {
		return cst.FormatBinary
	}
	return cst.FormatYAML
}

// IsDump reports whether path has one of the dump extensions.
func IsDump(path string) bool {
	_, err := cst.FormatForPath(path)
	return err == nil
}

// HasExtension reports whether path ends with one of exts.
func HasExtension(path string, exts []string) bool {
	for _, e := range exts {
		if strings.HasSuffix(path, e) {
			return true
		}
	}
	return false
}
