// Package project loads vlxref.toml and expands it into the files to index.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultExtensions are the syntax tree dump suffixes indexed when a file
// section names none.
var DefaultExtensions = []string{".vcst", ".vcst.yaml", ".vcst.yml"}

const DefaultDebounce = 200 * time.Millisecond

type Config struct {
	Project ProjectSection `toml:"project"`
	Sources FileSection    `toml:"sources"`
	Library FileSection    `toml:"library"`
	Index   IndexSection   `toml:"index"`
	Output  OutputSection  `toml:"output"`
}

type ProjectSection struct {
	Name string `toml:"name"`
	// Top is the top module for the instance hierarchy.
	Top string `toml:"top"`
}

// FileSection selects files. Dirs entries ending in '*' are searched
// recursively; an entry "-name" drops files called name from the
// directories listed before it.
type FileSection struct {
	Files      []string `toml:"files"`
	Dirs       []string `toml:"dirs"`
	Extensions []string `toml:"extensions"`
}

type IndexSection struct {
	Jobs     int      `toml:"jobs"`
	CacheDir string   `toml:"cache_dir"`
	Debounce Duration `toml:"debounce"`
}

type OutputSection struct {
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Format         string `toml:"format"`
}

// Duration reads "250ms"-style values.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Manifest is a loaded project: its configuration and the files it selects.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Sources and Library are absolute, deduplicated and sorted.
	Sources []string
	Library []string
}

// Files returns sources followed by library files.
func (m *Manifest) Files() []string {
	out := make([]string, 0, len(m.Sources)+len(m.Library))
	out = append(out, m.Sources...)
	return append(out, m.Library...)
}

// Load parses the manifest at path and collects its files.
func Load(path string) (*Manifest, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(path)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	m := &Manifest{Path: path, Root: root, Config: cfg}
	if m.Library, err = Collect(root, cfg.Library, false); err != nil {
		return nil, fmt.Errorf("%s: [library]: %w", path, err)
	}
	if m.Sources, err = Collect(root, cfg.Sources, true); err != nil {
		return nil, fmt.Errorf("%s: [sources]: %w", path, err)
	}
	// a file listed in both sections is a library file
	m.Sources = slices.DeleteFunc(m.Sources, func(f string) bool {
		_, found := slices.BinarySearch(m.Library, f)
		return found
	})
	return m, nil
}

// LoadConfig parses path and fills in defaults for keys it leaves out.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("sources", "extensions") {
		cfg.Sources.Extensions = slices.Clone(DefaultExtensions)
	}
	if !meta.IsDefined("library", "extensions") {
		cfg.Library.Extensions = slices.Clone(cfg.Sources.Extensions)
	}
	if !meta.IsDefined("index", "debounce") {
		cfg.Index.Debounce = Duration{DefaultDebounce}
	}
	if !meta.IsDefined("output", "color") {
		cfg.Output.Color = "auto"
	}
	if !meta.IsDefined("output", "format") {
		cfg.Output.Format = "text"
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color))
	}
	switch c.Output.Format {
	case "text", "yaml":
	default:
		errs = append(errs, fmt.Errorf("[output].format must be text or yaml, got %q", c.Output.Format))
	}
	if c.Output.MaxDiagnostics < 0 {
		errs = append(errs, errors.New("[output].max_diagnostics must not be negative"))
	}
	if c.Index.Jobs < 0 {
		errs = append(errs, errors.New("[index].jobs must not be negative"))
	}
	if c.Index.Debounce.Duration < 0 {
		errs = append(errs, errors.New("[index].debounce must not be negative"))
	}
	for _, ext := range c.Sources.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Errorf("[sources].extensions: %q does not start with a dot", ext))
		}
	}
	return errors.Join(errs...)
}

// CacheDir resolves [index].cache_dir against the project root; empty
// means no persistent cache.
func (m *Manifest) CacheDir() string {
	dir := m.Config.Index.CacheDir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}
