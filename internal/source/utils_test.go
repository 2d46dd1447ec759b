package source

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	cases := []struct {
		name, target, want string
	}{
		{"inside", filepath.Join(base, "nested", "top.v"), "nested/top.v"},
		{"base itself", base, "."},
		// a path outside base is shown absolute, never as ../other
		{"sibling", filepath.Join(tmp, "other", "top.v"), normalizePath(filepath.Join(tmp, "other", "top.v"))},
		{"prefix sibling", filepath.Join(tmp, "base2", "top.v"), normalizePath(filepath.Join(tmp, "base2", "top.v"))},
	}
	for _, tc := range cases {
		got, err := RelativePath(tc.target, base)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: RelativePath = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNormalizePathComposesUnicode(t *testing.T) {
	// "é" as e + combining acute (NFD) must match the precomposed form.
	decomposed := "rtl/cafe\u0301/top.v"
	composed := "rtl/caf\u00e9/top.v"
	if got := normalizePath(decomposed); got != composed {
		t.Fatalf("expected %q, got %q", composed, got)
	}
}

func TestCanonicalPathIsAbsolute(t *testing.T) {
	got := CanonicalPath("a/../b/top.v")
	if !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Fatalf("expected absolute path, got %q", got)
	}
	if filepath.Base(got) != "top.v" || strings.Contains(got, "..") {
		t.Fatalf("expected cleaned path, got %q", got)
	}
	if CanonicalPath("") != "" {
		t.Fatalf("expected empty path to stay empty")
	}
}

func TestLineIndexAndCRLF(t *testing.T) {
	if got := buildLineIndex([]byte("a\nbc\n\nd")); len(got) != 3 || got[0] != 1 || got[1] != 4 || got[2] != 5 {
		t.Errorf("buildLineIndex = %v", got)
	}
	if out, changed := normalizeCRLF([]byte("a\r\n\r\nb\r")); string(out) != "a\n\nb\r" || !changed {
		t.Errorf("normalizeCRLF = %q %v", out, changed)
	}
	if _, had := removeBOM([]byte("ab")); had {
		t.Error("short input has no BOM")
	}
}
