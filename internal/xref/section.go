package xref

import (
	"vlxref/internal/cst"
	"vlxref/internal/token"
)

// Section is an outline entry delimited by section markers in a file.
type Section struct {
	Title    string `yaml:"title"`
	LineFrom uint32 `yaml:"from"`
	LineTo   uint32 `yaml:"to"`
}

// IsValid reports whether s was found.
func (s Section) IsValid() bool { return s.LineFrom != 0 }

// buildSections pairs the Section and SectionEnd markers of path. Sections
// nest; an unterminated section ends on its own line. Markers reported for
// other files (includes) are skipped.
func buildSections(path string, markers []cst.Marker) []Section {
	var secs []Section
	var stack []int
	for _, m := range markers {
		if m.Pos.Path != path {
			continue
		}
		switch m.Kind {
		case token.Section:
			secs = append(secs, Section{Title: m.Title, LineFrom: m.Pos.Line, LineTo: m.Pos.Line})
			stack = append(stack, len(secs)-1)
		case token.SectionEnd:
			if len(stack) == 0 {
				continue
			}
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			secs[i].LineTo = m.Pos.Line
		}
	}
	return secs
}
