package main

import (
	"github.com/spf13/cobra"

	"vlxref/internal/source"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the symbol tree built from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := source.CanonicalPath(args[0])
		w, err := indexed(cmd, file)
		if err != nil {
			return err
		}
		defer w.Close()
		return w.session.Snapshot().Dump(cmd.OutOrStdout(), file)
	},
}
