package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vlxref/internal/source"
	"vlxref/internal/symbols"
	"vlxref/internal/xref"
)

var defCmd = &cobra.Command{
	Use:   "def <file> <line> <col>",
	Short: "Show the declaration of the identifier at a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runDef,
}

var refsCmd = &cobra.Command{
	Use:   "refs <file> <line> <col>",
	Short: "List the references to the declaration at a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runRefs,
}

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Show the sections and top-level cells of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the global names",
	Args:  cobra.NoArgs,
	RunE:  runSymbols,
}

var ifdefsCmd = &cobra.Command{
	Use:   "ifdefs <file>",
	Short: "List the lines where conditional compilation switched visibility",
	Args:  cobra.ExactArgs(1),
	RunE:  runIfdefs,
}

func init() {
	refsCmd.Flags().String("file", "", "only references located in this file")
	symbolsCmd.Flags().String("file", "", "only names declared in this file")
}

type position struct {
	file      string
	line, col uint32
}

func parsePosition(args []string) (position, error) {
	line, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil || line == 0 {
		return position{}, fmt.Errorf("invalid line %q", args[1])
	}
	col, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil || col == 0 {
		return position{}, fmt.Errorf("invalid column %q", args[2])
	}
	return position{file: source.CanonicalPath(args[0]), line: uint32(line), col: uint32(col)}, nil
}

// declarationAt resolves the identifier at pos.
func declarationAt(w *workspace, pos position) (symbols.Ref, error) {
	path := w.session.FindSymbolBySourcePos(pos.file, pos.line, pos.col, true, false)
	if len(path) == 0 {
		return symbols.NoRef, fmt.Errorf("%s:%d:%d: no identifier here", w.display(pos.file), pos.line, pos.col)
	}
	decl := w.session.FindDeclarationOfSymbol(path.Leaf())
	if !decl.IsValid() {
		name := w.session.Snapshot().Symbol(path.Leaf()).Name
		return symbols.NoRef, fmt.Errorf("%q is not resolved to a declaration", name)
	}
	return decl, nil
}

func runDef(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}
	w, err := indexed(cmd, pos.file)
	if err != nil {
		return err
	}
	defer w.Close()

	decl, err := declarationAt(w, pos)
	if err != nil {
		return err
	}
	d := w.describe(w.session.Snapshot(), decl)
	if w.cfg.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), d)
	}
	writeSymbolText(cmd.OutOrStdout(), d)
	return nil
}

type refsOut struct {
	Declaration symbolOut   `yaml:"declaration"`
	References  []symbolOut `yaml:"references"`
}

func runRefs(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args)
	if err != nil {
		return err
	}
	only, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	files := []string{pos.file}
	if only != "" {
		only = source.CanonicalPath(only)
		files = append(files, only)
	}
	w, err := indexed(cmd, files...)
	if err != nil {
		return err
	}
	defer w.Close()

	decl, err := declarationAt(w, pos)
	if err != nil {
		return err
	}
	var refs []symbols.Ref
	if only != "" {
		refs = w.session.FindReferencingSymbolsByFile(decl, only)
	} else {
		refs = w.session.FindAllReferencingSymbols(decl)
	}

	g := w.session.Snapshot()
	res := refsOut{Declaration: w.describe(g, decl), References: w.describeAll(g, refs)}
	if w.cfg.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), res)
	}
	out := cmd.OutOrStdout()
	writeSymbolText(out, res.Declaration)
	for _, r := range res.References {
		fmt.Fprint(out, "  ")
		writeSymbolText(out, r)
	}
	if !w.cfg.quiet {
		fmt.Fprintln(out, dimColor.Sprintf("%d references", len(res.References)))
	}
	return nil
}

type outlineOut struct {
	File     string         `yaml:"file"`
	Sections []xref.Section `yaml:"sections"`
	Cells    []symbolOut    `yaml:"cells"`
}

func runOutline(cmd *cobra.Command, args []string) error {
	file := source.CanonicalPath(args[0])
	w, err := indexed(cmd, file)
	if err != nil {
		return err
	}
	defer w.Close()

	g := w.session.Snapshot()
	res := outlineOut{
		File:     w.display(file),
		Sections: w.session.Sections(file),
		Cells:    w.describeAll(g, w.session.GlobalSyms(file)),
	}
	if w.cfg.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), res)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, pathColor.Sprint(res.File))
	for _, s := range res.Sections {
		fmt.Fprintf(out, "  %s %s\n", dimColor.Sprintf("%d-%d", s.LineFrom, s.LineTo), s.Title)
	}
	for _, c := range res.Cells {
		fmt.Fprintf(out, "  %s %s %s\n", kindColor.Sprint(c.Prod), nameColor.Sprint(c.Name), dimColor.Sprintf("%d:%d", c.Line, c.Col))
	}
	return nil
}

func runSymbols(cmd *cobra.Command, _ []string) error {
	only, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	var files []string
	if only != "" {
		only = source.CanonicalPath(only)
		files = append(files, only)
	}
	w, err := indexed(cmd, files...)
	if err != nil {
		return err
	}
	defer w.Close()

	res := w.describeAll(w.session.Snapshot(), w.session.GlobalNames(only))
	if w.cfg.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), res)
	}
	for _, s := range res {
		writeSymbolText(cmd.OutOrStdout(), s)
	}
	return nil
}

func runIfdefs(cmd *cobra.Command, args []string) error {
	file := source.CanonicalPath(args[0])
	w, err := indexed(cmd, file)
	if err != nil {
		return err
	}
	defer w.Close()

	lines := w.session.IfDefOutsByFile(file)
	if w.cfg.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), map[string]any{"file": w.display(file), "lines": lines})
	}
	for _, l := range lines {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", w.display(file), l)
	}
	return nil
}
