package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vlxref/internal/xref"
)

var hierCmd = &cobra.Command{
	Use:   "hier [top]",
	Short: "Show the instance hierarchy below a top cell",
	Long: `Expand the instance hierarchy below top. Without an argument the top from
vlxref.toml is used, or every cell that no other cell instantiates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHier,
}

type instanceOut struct {
	Name       string         `yaml:"name,omitempty"`
	Cell       string         `yaml:"cell"`
	File       string         `yaml:"file,omitempty"`
	Line       uint32         `yaml:"line,omitempty"`
	Unresolved bool           `yaml:"unresolved,omitempty"`
	Cycle      bool           `yaml:"cycle,omitempty"`
	Children   []*instanceOut `yaml:"children,omitempty"`
}

func runHier(cmd *cobra.Command, args []string) error {
	w, err := indexed(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	var tops []string
	switch {
	case len(args) == 1:
		tops = args
	case w.manifest != nil && w.manifest.Config.Project.Top != "":
		tops = []string{w.manifest.Config.Project.Top}
	default:
		tops = w.session.TopCells()
	}
	if len(tops) == 0 {
		return fmt.Errorf("no top cell: every loaded cell is instantiated somewhere")
	}

	g := w.session.Snapshot()
	var roots []*instanceOut
	for _, top := range tops {
		root, err := g.Hierarchy(top)
		if err != nil {
			return err
		}
		roots = append(roots, w.convertInstance(g, root))
	}
	if w.cfg.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), roots)
	}
	out := cmd.OutOrStdout()
	for _, root := range roots {
		writeInstance(out, root, 0)
	}
	return nil
}

func (w *workspace) convertInstance(g *xref.Generation, n *xref.Instance) *instanceOut {
	o := &instanceOut{Name: n.Name, Cell: n.Cell, Unresolved: n.Unresolved, Cycle: n.Cycle}
	if s := g.Symbol(n.Decl); s != nil {
		o.File = w.display(s.Pos.Path)
		o.Line = s.Pos.Line
	}
	for _, c := range n.Children {
		o.Children = append(o.Children, w.convertInstance(g, c))
	}
	return o
}

func writeInstance(out io.Writer, n *instanceOut, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	if n.Name != "" {
		b.WriteString(nameColor.Sprint(n.Name))
		b.WriteByte(' ')
	}
	b.WriteString(kindColor.Sprint(n.Cell))
	switch {
	case n.Unresolved:
		b.WriteString(dimColor.Sprint(" (unresolved)"))
	case n.Cycle:
		b.WriteString(dimColor.Sprint(" (cycle)"))
	case n.File != "":
		b.WriteString(dimColor.Sprintf(" %s:%d", n.File, n.Line))
	}
	b.WriteByte('\n')
	_, _ = out.Write([]byte(b.String()))
	for _, c := range n.Children {
		writeInstance(out, c, depth+1)
	}
}
