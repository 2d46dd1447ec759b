package diag

import (
	"fmt"
	"sort"
	"strings"

	"vlxref/internal/source"
)

// FormatShort renders diagnostics one per line as
// "SEV CODE path:line:col message", sorted deterministically. Paths are
// shown according to pathMode (see source.FormatPath). Notes follow their
// diagnostic indented by two spaces when includeNotes is set.
func FormatShort(diags []Diagnostic, pathMode, baseDir string, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })

	var b strings.Builder
	for i, d := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code.ID(), formatPos(d.Primary, pathMode, baseDir), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\n  note %s %s", formatPos(n.Pos, pathMode, baseDir), n.Msg)
		}
	}
	return b.String()
}

func formatPos(p source.Pos, pathMode, baseDir string) string {
	return fmt.Sprintf("%s:%d:%d", source.FormatPath(p.Path, pathMode, baseDir), p.Line, p.Col)
}
