package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"vlxref/internal/source"
)

// Collect expands a file section relative to root. With defaultAll, a
// section without files and without leading directories searches root
// recursively.
func Collect(root string, sec FileSection, defaultAll bool) ([]string, error) {
	dirs := sec.Dirs
	if defaultAll && len(sec.Files) == 0 && (len(dirs) == 0 || strings.HasPrefix(dirs[0], "-")) {
		dirs = append([]string{".*"}, dirs...)
	}
	found := make(map[string]struct{})
	if err := collectDirs(root, dirs, sec.Extensions, found); err != nil {
		return nil, err
	}

	// a directory entry in files sets the base for the names after it
	base := root
	for _, f := range sec.Files {
		p := abs(root, base, f)
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			base = p
			continue
		}
		if f == "" {
			continue
		}
		found[p] = struct{}{}
	}

	out := make([]string, 0, len(found))
	for p := range found {
		out = append(out, source.CanonicalPath(p))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func abs(root, base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if base == "" {
		base = root
	}
	return filepath.Join(base, p)
}

// collectDirs searches dirs in order. Exclusions apply to the files found
// since the previous exclusion group.
func collectDirs(root string, dirs, exts []string, out map[string]struct{}) error {
	var pending []string
	excluded := make(map[string]struct{})
	flush := func() {
		for _, p := range pending {
			if _, skip := excluded[filepath.Base(p)]; !skip {
				out[p] = struct{}{}
			}
		}
		pending = pending[:0]
		clear(excluded)
	}
	for _, d := range dirs {
		if name, ok := strings.CutPrefix(d, "-"); ok {
			excluded[strings.TrimSpace(name)] = struct{}{}
			continue
		}
		if len(pending) > 0 {
			flush()
		}
		dir, recursive := strings.CutSuffix(d, "*")
		if dir == "" {
			dir = "."
		}
		files, err := findFiles(abs(root, root, dir), exts, recursive)
		if err != nil {
			return err
		}
		pending = append(pending, files...)
	}
	flush()
	return nil
}

// findFiles lists the files of dir with one of exts. A missing directory
// yields nothing.
func findFiles(dir string, exts []string, recursive bool) ([]string, error) {
	var out []string
	if !recursive {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && hasExtension(e.Name(), exts) {
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
		return out, nil
	}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == dir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && hasExtension(d.Name(), exts) {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func hasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
