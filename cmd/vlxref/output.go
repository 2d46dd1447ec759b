package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"vlxref/internal/diagfmt"
	"vlxref/internal/symbols"
	"vlxref/internal/xref"
)

var (
	pathColor = color.New(color.Bold)
	kindColor = color.New(color.FgCyan)
	nameColor = color.New(color.FgGreen)
	dimColor  = color.New(color.Faint)
)

// symbolOut is the printed form of one symbol.
type symbolOut struct {
	Name      string `yaml:"name"`
	Qualified string `yaml:"qualified,omitempty"`
	Kind      string `yaml:"kind"`
	Prod      string `yaml:"production"`
	File      string `yaml:"file"`
	Line      uint32 `yaml:"line"`
	Col       uint32 `yaml:"col"`
	Len       uint32 `yaml:"length,omitempty"`
}

func (w *workspace) describe(g *xref.Generation, r symbols.Ref) symbolOut {
	s := g.Symbol(r)
	if s == nil {
		return symbolOut{}
	}
	return symbolOut{
		Name:      s.DisplayName(),
		Qualified: g.QualifiedName(g.PathTo(r), false),
		Kind:      s.Kind.String(),
		Prod:      s.Prod.String(),
		File:      w.display(s.Pos.Path),
		Line:      s.Pos.Line,
		Col:       s.Pos.Col,
		Len:       s.Pos.Len,
	}
}

func (w *workspace) describeAll(g *xref.Generation, refs []symbols.Ref) []symbolOut {
	out := make([]symbolOut, 0, len(refs))
	for _, r := range refs {
		out = append(out, w.describe(g, r))
	}
	return out
}

func writeSymbolText(out io.Writer, s symbolOut) {
	name := s.Qualified
	if name == "" {
		name = s.Name
	}
	fmt.Fprintf(out, "%s %s %s\n",
		pathColor.Sprintf("%s:%d:%d", s.File, s.Line, s.Col),
		kindColor.Sprint(s.Kind),
		nameColor.Sprint(name),
	)
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// printDiagnostics writes the stored diagnostics, limited by
// --max-diagnostics, and a summary line unless quiet.
func (w *workspace) printDiagnostics(out io.Writer) error {
	store := w.session.Diagnostics()
	bag := store.Bag(w.cfg.maxDiagnostics)
	if w.cfg.format == "yaml" {
		return diagfmt.YAML(out, bag, w.fileSet, diagfmt.OutputOpts{
			PathMode:     w.cfg.pathMode,
			Max:          w.cfg.maxDiagnostics,
			IncludeNotes: true,
		})
	}
	diagfmt.Pretty(out, bag, w.fileSet, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		PathMode:  w.cfg.pathMode,
		ShowNotes: true,
	})
	if w.cfg.quiet {
		return nil
	}
	if bag.Len() > 0 {
		fmt.Fprintln(out)
	}
	if shown, total := bag.Len(), store.Len(); shown < total {
		fmt.Fprintln(out, dimColor.Sprintf("(%d of %d diagnostics shown)", shown, total))
	}
	fmt.Fprintf(out, "indexed %d files: %d errors, %d warnings\n",
		len(w.session.Snapshot().Files()), store.ErrorCount(), store.WarningCount())
	return nil
}
