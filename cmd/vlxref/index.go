package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errDiagnostics = errors.New("indexing reported errors")

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Index the project (or the given dumps) and report diagnostics",
	Long: `Load the files selected by vlxref.toml, plus any paths given on the command
line, build the cross-reference index and print its diagnostics. Directories
are searched recursively for syntax tree dumps.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("no-fail", false, "exit with status 0 even when errors were reported")
}

func runIndex(cmd *cobra.Command, args []string) error {
	noFail, err := cmd.Flags().GetBool("no-fail")
	if err != nil {
		return err
	}
	w, err := openWorkspace(cmd, args)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.index(cmd.Context()); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := w.printDiagnostics(out); err != nil {
		return err
	}
	if w.cfg.timings {
		printStageTimings(cmd.ErrOrStderr(), w.timings, w.report)
	}
	if !noFail && w.session.Diagnostics().ErrorCount() > 0 {
		return errDiagnostics
	}
	return nil
}

// indexed opens and indexes the workspace for a query command. The file a
// query names is indexed along with the project.
func indexed(cmd *cobra.Command, files ...string) (*workspace, error) {
	w, err := openWorkspace(cmd, files)
	if err != nil {
		return nil, err
	}
	if err := w.index(cmd.Context()); err != nil {
		w.Close()
		return nil, err
	}
	if w.cfg.timings {
		printStageTimings(cmd.ErrOrStderr(), w.timings, w.report)
	}
	return w, nil
}
