package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vlxref/internal/version"
)

type versionPayload struct {
	Tool      string `yaml:"tool"`
	Version   string `yaml:"version"`
	GitCommit string `yaml:"git_commit,omitempty"`
	BuildDate string `yaml:"build_date,omitempty"`
}

var versionShowFull bool

func init() {
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show vlxref build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Root().PersistentFlags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		switch format {
		case "yaml":
			return writeYAML(cmd.OutOrStdout(), versionPayload{
				Tool:      "vlxref",
				Version:   strings.TrimSpace(version.Version),
				GitCommit: version.GitCommit,
				BuildDate: version.BuildDate,
			})
		case "text":
			renderVersionText(cmd.OutOrStdout())
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be text or yaml)", format)
		}
	},
}

func renderVersionText(out io.Writer) {
	fmt.Fprintln(out, version.Line(!color.NoColor))
	if !versionShowFull {
		return
	}
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
