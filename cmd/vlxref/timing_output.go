package main

import (
	"fmt"
	"io"
	"time"

	"vlxref/internal/buildpipeline"
	"vlxref/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, report observ.Report) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageParse)))
	}
	if timings.Has(buildpipeline.StageIndex) {
		fmt.Fprintf(out, "indexed %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageIndex)))
	}
	printReport(out, report)
}

func printReport(out io.Writer, report observ.Report) {
	for _, p := range report.Phases {
		if p.Note != "" {
			fmt.Fprintf(out, "  %-8s %8.2f ms  %s\n", p.Name, p.DurationMS, p.Note)
			continue
		}
		fmt.Fprintf(out, "  %-8s %8.2f ms\n", p.Name, p.DurationMS)
	}
	if len(report.Phases) > 0 {
		fmt.Fprintf(out, "  %-8s %8.2f ms\n", "total", report.TotalMS)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
