package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vlxref/internal/diag"
	"vlxref/internal/diagfmt"
	"vlxref/internal/frontend"
	"vlxref/internal/metrics"
	"vlxref/internal/project"
	"vlxref/internal/source"
	"vlxref/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Index, then re-index changed files until interrupted",
	Long: `Index the project like "vlxref index", then watch its directories and feed
every debounced batch of changed dumps to the index. A change to vlxref.toml
reloads the project.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9464)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := openWorkspace(cmd, args)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.index(ctx); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := w.printDiagnostics(out); err != nil {
		return err
	}

	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr, w, cmd.ErrOrStderr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	debounce := project.DefaultDebounce
	manifestPath := ""
	if w.manifest != nil {
		debounce = w.manifest.Config.Index.Debounce.Duration
		manifestPath = source.CanonicalPath(w.manifest.Path)
	}
	accept := func(path string) bool {
		return frontend.HasExtension(path, w.extensions) || path == manifestPath
	}
	watcher, err := watch.New(w.watchDirs(), debounce, accept, w.tracer)
	if err != nil {
		return err
	}
	defer watcher.Close()

	batches := make(chan []string, 4)
	runErr := make(chan error, 1)
	go func() { runErr <- watcher.Run(ctx, batches) }()

	if !w.cfg.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), dimColor.Sprint("watching for changes, press Ctrl+C to stop"))
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-runErr:
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case batch := <-batches:
			if err := w.applyBatch(ctx, batch, manifestPath, out); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if w.cfg.timings {
				if report, ok := w.session.Timings(); ok {
					printReport(cmd.ErrOrStderr(), report)
				}
			}
		}
	}
}

// applyBatch re-indexes the changed files. A changed manifest reloads the
// project and re-indexes everything.
func (w *workspace) applyBatch(ctx context.Context, batch []string, manifestPath string, out io.Writer) error {
	if manifestPath != "" && slices.Contains(batch, manifestPath) {
		m, err := project.Load(w.manifest.Path)
		if err != nil {
			// битый манифест: оставить прежнее состояние
			fmt.Fprintln(out, color.RedString("reload failed: %v", err))
			return nil
		}
		w.manifest = m
		w.extensions = m.Config.Sources.Extensions
		old := w.session.Clear()
		files := append(m.Files(), slices.DeleteFunc(old, func(f string) bool { return !frontend.HasExtension(f, w.extensions) })...)
		slices.Sort(files)
		w.files = slices.Compact(files)
		batch = w.files
	}
	if err := w.session.RequestUpdate(ctx, batch, true); err != nil {
		return err
	}
	w.printBatch(out, batch)
	return nil
}

func (w *workspace) printBatch(out io.Writer, batch []string) {
	store := w.session.Diagnostics()
	bag := diag.NewBag(w.cfg.maxDiagnostics)
	for _, f := range batch {
		for _, d := range store.File(f) {
			bag.Add(d)
		}
	}
	bag.Sort()
	diagfmt.Pretty(out, bag, w.fileSet, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		PathMode:  w.cfg.pathMode,
		ShowNotes: true,
	})
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(out, "... %d more diagnostics not shown\n", n)
	}
	if w.cfg.quiet {
		return
	}
	fmt.Fprintf(out, "%s %d files: %d errors, %d warnings in total\n",
		dimColor.Sprint(time.Now().Format("15:04:05")), len(batch), store.ErrorCount(), store.WarningCount())
}

func serveMetrics(addr string, w *workspace, errOut io.Writer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(w.registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "metrics: %v\n", err)
		}
	}()
	return srv
}
