package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vlxref/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vlxref",
	Short: "Incremental Verilog cross-reference index",
	Long: `vlxref builds a cross-reference index over Verilog syntax tree dumps and
answers declaration, reference, outline and hierarchy queries`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

// main registers subcommands and persistent flags and executes the root
// command. A failing command exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(defCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(ifdefsCmd)
	rootCmd.AddCommand(hierCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("format", "text", "output format (text|yaml)")
	pf.String("project", "", "path to vlxref.toml (default: search upwards from the working directory)")
	pf.Int("jobs", 0, "max files built in parallel (0=auto)")
	pf.String("cache-dir", "", "persistent syntax tree cache directory")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.String("path-mode", "relative", "how paths are shown (auto|absolute|relative|basename)")

	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson|chrome)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for ring trace mode")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	err := rootCmd.Execute()
	// PersistentPostRun не вызывается при ошибке команды
	finish()
	if err != nil {
		os.Exit(1)
	}
}

var (
	traceCleanup   = func() {}
	profileCleanup = func() {}
)

func preRun(cmd *cobra.Command, _ []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup

	stop, err := setupProfiling(cmd)
	if err != nil {
		return err // трассировку закроет finish
	}
	profileCleanup = stop
	return nil
}

func finish() {
	profileCleanup()
	traceCleanup()
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
