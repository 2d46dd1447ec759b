package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"vlxref/internal/buildpipeline"
	"vlxref/internal/diagfmt"
	"vlxref/internal/frontend"
	"vlxref/internal/metrics"
	"vlxref/internal/observ"
	"vlxref/internal/project"
	"vlxref/internal/source"
	"vlxref/internal/trace"
	"vlxref/internal/treecache"
	"vlxref/internal/xref"
)

// settings are the effective options: flags win over the manifest when set.
type settings struct {
	format         string
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	cacheDir       string
	ui             switchMode
	pathMode       diagfmt.PathMode
}

// workspace is an indexed set of files and everything needed to query it.
type workspace struct {
	cfg        settings
	manifest   *project.Manifest
	baseDir    string
	extensions []string
	files      []string

	fileSet  *source.FileSet
	cache    *treecache.Cache
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	session *xref.Session
	report  observ.Report
	timings buildpipeline.Timings
}

// openWorkspace loads the project manifest, if any, and collects the files
// to index: the manifest's files plus paths. A directory in paths
// contributes its dumps recursively.
func openWorkspace(cmd *cobra.Command, paths []string) (*workspace, error) {
	return loadWorkspace(cmd, paths, false)
}

func loadWorkspace(cmd *cobra.Command, paths []string, allowEmpty bool) (*workspace, error) {
	cfg, err := readSettings(cmd)
	if err != nil {
		return nil, err
	}
	w := &workspace{cfg: cfg, extensions: project.DefaultExtensions, tracer: trace.FromContext(cmd.Context())}

	if err := w.loadManifest(cmd); err != nil {
		return nil, err
	}
	if w.manifest != nil {
		w.applyManifest(cmd)
	}

	if w.baseDir == "" {
		if w.baseDir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	extra, err := expandPaths(paths, w.extensions)
	if err != nil {
		return nil, err
	}
	w.files = append(w.files, extra...)
	slices.Sort(w.files)
	w.files = slices.Compact(w.files)
	if len(w.files) == 0 && !allowEmpty {
		return nil, errors.New("nothing to index: no files given and no vlxref.toml found")
	}

	w.fileSet = source.NewFileSetWithBase(w.baseDir)
	if w.cfg.cacheDir != "" {
		if w.cache, err = treecache.Open(w.cfg.cacheDir); err != nil {
			return nil, err
		}
	}
	w.registry = prometheus.NewRegistry()
	w.metrics = metrics.New(w.registry)
	return w, nil
}

func readSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg settings
	var err error
	if cfg.format, err = flags.GetString("format"); err != nil {
		return cfg, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch cfg.format {
	case "text", "yaml":
	default:
		return cfg, fmt.Errorf("unsupported format %q (must be text or yaml)", cfg.format)
	}
	if cfg.quiet, err = flags.GetBool("quiet"); err != nil {
		return cfg, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cfg.timings, err = flags.GetBool("timings"); err != nil {
		return cfg, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if cfg.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return cfg, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if cfg.jobs, err = flags.GetInt("jobs"); err != nil {
		return cfg, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cfg.cacheDir, err = flags.GetString("cache-dir"); err != nil {
		return cfg, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return cfg, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cfg.ui, err = parseSwitch("ui", uiValue); err != nil {
		return cfg, err
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return cfg, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if cfg.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return cfg, fmt.Errorf("invalid --path-mode value %q", pathMode)
	}
	return cfg, nil
}

func (w *workspace) loadManifest(cmd *cobra.Command) error {
	path, err := cmd.Root().PersistentFlags().GetString("project")
	if err != nil {
		return fmt.Errorf("failed to get project flag: %w", err)
	}
	if path == "" {
		found, ok, err := project.FindManifest(".")
		if err != nil || !ok {
			return err
		}
		path = found
	}
	m, err := project.Load(path)
	if err != nil {
		return err
	}
	w.manifest = m
	w.baseDir = m.Root
	w.files = m.Files()
	w.extensions = m.Config.Sources.Extensions
	return nil
}

// applyManifest fills in settings whose flags were left unset.
func (w *workspace) applyManifest(cmd *cobra.Command) {
	flags := cmd.Root().PersistentFlags()
	c := w.manifest.Config
	if !flags.Changed("jobs") && c.Index.Jobs > 0 {
		w.cfg.jobs = c.Index.Jobs
	}
	if !flags.Changed("cache-dir") {
		w.cfg.cacheDir = w.manifest.CacheDir()
	}
	if !flags.Changed("max-diagnostics") && c.Output.MaxDiagnostics > 0 {
		w.cfg.maxDiagnostics = c.Output.MaxDiagnostics
	}
	if !flags.Changed("format") {
		w.cfg.format = c.Output.Format
	}
	if !flags.Changed("color") {
		if mode, err := parseSwitch("color", c.Output.Color); err == nil {
			setColor(mode)
		}
	}
}

func expandPaths(paths, exts []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// несуществующий файл станет диагностикой IO
			out = append(out, source.CanonicalPath(p))
			continue
		}
		files, err := project.Collect(p, project.FileSection{Dirs: []string{"*"}, Extensions: exts}, false)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// index loads all files into a new session, with the progress UI when
// enabled.
func (w *workspace) index(ctx context.Context) error {
	var cacheStats func() (uint64, uint64)
	if w.cache != nil {
		cacheStats = w.cache.Stats
	}
	req := &buildpipeline.IndexRequest{
		Files:      w.files,
		BaseDir:    w.baseDir,
		Parser:     frontend.NewDumpParser(w.fileSet, w.cache),
		Jobs:       w.cfg.jobs,
		Tracer:     w.tracer,
		Metrics:    w.metrics,
		CacheStats: cacheStats,
	}

	var res buildpipeline.IndexResult
	var err error
	if !w.cfg.quiet && w.cfg.ui.enabled(os.Stderr) {
		res, err = runIndexWithUI(ctx, "indexing", buildpipeline.DisplayFiles(w.files, w.baseDir), req)
	} else {
		res, err = buildpipeline.Index(ctx, req)
	}
	w.session = res.Session
	w.report = res.Report
	w.timings = res.Timings
	return err
}

// display formats a path for output.
func (w *workspace) display(path string) string {
	return source.FormatPath(path, w.cfg.pathMode.String(), w.baseDir)
}

// watchDirs lists the directories whose changes matter: the project root,
// or the directories of the indexed files.
func (w *workspace) watchDirs() []string {
	if w.manifest != nil {
		return []string{w.manifest.Root}
	}
	var dirs []string
	for _, f := range w.files {
		dirs = append(dirs, filepath.Dir(f))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)
	// вложенные каталоги уже покрыты рекурсивным обходом родителя
	all := slices.Clone(dirs)
	return slices.DeleteFunc(dirs, func(d string) bool {
		for _, o := range all {
			if o != d && strings.HasPrefix(d, o+"/") {
				return true
			}
		}
		return false
	})
}

func (w *workspace) Close() {
	if w.session != nil {
		_ = w.session.Close()
	}
	if w.cache != nil {
		_ = w.cache.Close()
	}
}
