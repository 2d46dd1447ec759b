package xref

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"vlxref/internal/symbols"
)

const dumpColumn = 48

// Dump writes the symbol tree built from file, one symbol per line:
// production, position, name and symbol kind, indented by depth.
func (g *Generation) Dump(w io.Writer, file string) error {
	tr := g.TreeOf(g.fileKey(file))
	if tr == nil {
		return fmt.Errorf("%s: not loaded", file)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "tree %d %s (%d symbols)\n", tr.ID, tr.Path, tr.Len())
	for _, top := range tr.Top() {
		tr.Walk(top, func(id symbols.SymbolID, s *symbols.Symbol) bool {
			depth := 0
			for p := s.Parent; p.IsValid() && p != symbols.RootID; p = tr.Get(p).Parent {
				depth++
			}
			label := strings.Repeat("   ", depth) + s.Prod.String()
			if name := s.DisplayName(); name != "" {
				label += ` "` + name + `"`
			}
			fmt.Fprintf(bw, "%s %d:%d+%d %s\n",
				runewidth.FillRight(label, dumpColumn), s.Pos.Line, s.Pos.Col, s.Pos.Len, s.Kind)
			return true
		})
	}
	return bw.Flush()
}
