package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vlxref/internal/diag"
	"vlxref/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по позиции, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPrinter(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(displayPath(d.Primary.Path, fs, opts.PathMode)+posSuffix(d.Primary)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		writeContext(w, fs, d.Primary, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: %s %s\n",
				p.path.Sprint(displayPath(n.Pos.Path, fs, opts.PathMode)+posSuffix(n.Pos)),
				p.note.Sprint("note:"),
				n.Msg,
			)
			writeContext(w, fs, n.Pos, 0, p)
		}
	}
}

type printer struct {
	path, code, note, gutter, caret, warning, err, info *color.Color
}

func newPrinter(enabled bool) printer {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return printer{
		path:    mk(color.Bold),
		code:    mk(color.FgCyan),
		note:    mk(color.FgBlue, color.Bold),
		gutter:  mk(color.FgBlue),
		caret:   mk(color.FgGreen, color.Bold),
		warning: mk(color.FgYellow, color.Bold),
		err:     mk(color.FgRed, color.Bold),
		info:    mk(color.FgWhite),
	}
}

func (p printer) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warning
	}
	return p.info
}

func posSuffix(pos source.Pos) string {
	if !pos.IsValid() {
		return ""
	}
	return fmt.Sprintf(":%d:%d", pos.Line, pos.Col)
}

func displayPath(path string, fs *source.FileSet, mode PathMode) string {
	base := ""
	if fs != nil && mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return source.FormatPath(path, mode.String(), base)
}

// writeContext prints the source line of pos with ctx lines around it and
// underlines the token. Nothing is printed when the file cannot be read.
func writeContext(w io.Writer, fs *source.FileSet, pos source.Pos, ctx int8, p printer) {
	if fs == nil || !pos.IsValid() {
		return
	}
	const missing = "\x00"
	line := fs.Line(pos.Path, pos.Line, missing)
	if line == missing {
		return
	}
	from := pos.Line
	if n := uint32(max(ctx, 0)); n < from {
		from -= n
	} else {
		from = 1
	}
	to := pos.Line + uint32(max(ctx, 0))
	width := len(fmt.Sprint(to))

	for n := from; n <= to; n++ {
		text := line
		if n != pos.Line {
			text = fs.Line(pos.Path, n, missing)
			if text == missing {
				continue
			}
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, n), expandTabs(text))
		if n != pos.Line {
			continue
		}
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", width, ""),
			strings.Repeat(" ", leadWidth(text, pos.Col)),
			p.caret.Sprint(underline(pos.Len)),
		)
	}
}

// leadWidth is the display width of text before the 1-based column col.
func leadWidth(text string, col uint32) int {
	if col <= 1 {
		return 0
	}
	runes := []rune(expandTabs(text))
	n := min(int(col-1), len(runes))
	return runewidth.StringWidth(string(runes[:n]))
}

func underline(n uint32) string {
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", int(n-1))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
