package project

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func write(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func rel(t *testing.T, root string, files []string) []string {
	t.Helper()
	base, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(root, f)
		if err != nil || strings.HasPrefix(r, "..") {
			r, _ = filepath.Rel(base, f)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{
		ManifestName:          "[project]\nname = \"soc\"\n",
		"rtl/a.vcst":          "",
		"rtl/sub/b.vcst.yaml": "",
		"rtl/notes.txt":       "",
	})
	m, err := Load(filepath.Join(root, ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := rel(t, root, m.Sources), []string{"rtl/a.vcst", "rtl/sub/b.vcst.yaml"}; !slices.Equal(got, want) {
		t.Fatalf("sources = %v, want %v", got, want)
	}
	if len(m.Library) != 0 {
		t.Fatalf("library = %v", m.Library)
	}
	cfg := m.Config
	if cfg.Index.Debounce.Duration != DefaultDebounce || cfg.Output.Color != "auto" || cfg.Output.Format != "text" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if !slices.Equal(cfg.Library.Extensions, DefaultExtensions) {
		t.Fatalf("library extensions = %v", cfg.Library.Extensions)
	}
}

func TestDirsAndExclusions(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{
		ManifestName: `
[project]
top = "soc"

[sources]
dirs = ["rtl*", "-skip.vcst", "tb"]
files = ["extra", "x.vcst"]
extensions = [".vcst"]

[library]
dirs = ["lib"]
files = ["rtl/shared.vcst"]

[index]
jobs = 3
debounce = "50ms"
cache_dir = ".vlxref"
`,
		"rtl/a.vcst":         "",
		"rtl/deep/skip.vcst": "",
		"rtl/shared.vcst":    "",
		"tb/skip.vcst":       "",
		"tb/tb.vcst":         "",
		"extra/x.vcst":       "",
		"lib/cells.vcst":     "",
		"lib/sub/no.vcst":    "",
	})
	m, err := Load(filepath.Join(root, ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	// the exclusion only covers rtl; x.vcst is taken from the directory entry before it
	wantSrc := []string{"extra/x.vcst", "rtl/a.vcst", "tb/skip.vcst", "tb/tb.vcst"}
	if got := rel(t, root, m.Sources); !slices.Equal(got, wantSrc) {
		t.Fatalf("sources = %v, want %v", got, wantSrc)
	}
	wantLib := []string{"lib/cells.vcst", "rtl/shared.vcst"}
	if got := rel(t, root, m.Library); !slices.Equal(got, wantLib) {
		t.Fatalf("library = %v, want %v", got, wantLib)
	}
	if m.Config.Project.Top != "soc" || m.Config.Index.Jobs != 3 || m.Config.Index.Debounce.Duration != 50*time.Millisecond {
		t.Fatalf("config = %+v", m.Config)
	}
	if got := m.CacheDir(); got != filepath.Join(m.Root, ".vlxref") {
		t.Fatalf("cache dir = %q", got)
	}
	if n := len(m.Files()); n != len(wantSrc)+len(wantLib) {
		t.Fatalf("files = %d", n)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	cases := map[string]string{
		"unknown key": "[sources]\ndirz = [\"x\"]\n",
		"bad color":   "[output]\ncolor = \"sometimes\"\n",
		"bad format":  "[output]\nformat = \"json\"\n",
		"bad jobs":    "[index]\njobs = -1\n",
		"bad ext":     "[sources]\nextensions = [\"v\"]\n",
		"bad toml":    "[project\n",
		"bad dur":     "[index]\ndebounce = \"soon\"\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			write(t, root, map[string]string{ManifestName: text})
			if _, err := LoadConfig(filepath.Join(root, ManifestName)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{ManifestName: "", "a/b/c/keep": ""})
	path, ok, err := FindManifest(filepath.Join(root, "a", "b", "c"))
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if filepath.Base(path) != ManifestName {
		t.Fatalf("path = %q", path)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("manifest dir = %q, want %q", filepath.Dir(path), root)
	}
}

func TestFindManifestStopsAtRepository(t *testing.T) {
	root := t.TempDir()
	write(t, root, map[string]string{ManifestName: "", "repo/.git/HEAD": "", "repo/rtl/keep": ""})
	_, ok, err := FindManifest(filepath.Join(root, "repo", "rtl"))
	if err != nil || ok {
		t.Fatalf("manifest outside the repository found: ok=%v err=%v", ok, err)
	}
}
