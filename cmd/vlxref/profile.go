package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vlxref/internal/prof"
)

// setupProfiling starts the profilers named by --cpu-profile, --mem-profile
// and --runtime-trace. The returned cleanup may be called more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	var opts prof.Options
	var err error
	if opts.CPU, err = cmd.Root().PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if opts.Mem, err = cmd.Root().PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, err
	}
	if opts.Trace, err = cmd.Root().PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, err
	}
	if opts == (prof.Options{}) {
		return func() {}, nil
	}
	p, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
		}
	}, nil
}
