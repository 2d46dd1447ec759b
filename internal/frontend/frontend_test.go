package frontend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"vlxref/internal/cst"
	"vlxref/internal/source"
	"vlxref/internal/testkit"
	"vlxref/internal/treecache"
)

const subYAML = `
format: 1
nodes:
  - kind: module_declaration
    children:
      - {kind: module, text: module, line: 1, col: 1}
      - {kind: identifier, text: sub, line: 1, col: 8}
      - {kind: ";", text: ";", line: 1, col: 11}
      - {kind: endmodule, text: endmodule, line: 2, col: 1}
`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseYAMLDump(t *testing.T) {
	p := writeFile(t, t.TempDir(), "sub.vcst.yaml", []byte(subYAML))
	parser := NewDumpParser(nil, nil)
	f, err := parser.Parse(context.Background(), p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id := testkit.FindToken(f, "sub", 0)
	if id == nil || id.Pos.Path != f.Path || id.Pos.Col != 8 {
		t.Fatalf("identifier decoded wrong: %+v", id)
	}
}

func TestParseBinaryDumpUsesCache(t *testing.T) {
	var buf bytes.Buffer
	if err := cst.Encode(&buf, testkit.File("top.v", testkit.Module("top", nil, testkit.Wire("w"))), cst.FormatBinary); err != nil {
		t.Fatal(err)
	}
	p := writeFile(t, t.TempDir(), "top.vcst", buf.Bytes())

	cache, err := treecache.Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	parser := NewDumpParser(source.NewFileSet(), cache)
	for i := 0; i < 2; i++ {
		f, err := parser.Parse(context.Background(), p)
		if err != nil {
			t.Fatalf("parse %d: %v", i, err)
		}
		if testkit.FindToken(f, "w", 0) == nil {
			t.Fatalf("parse %d lost the wire", i)
		}
	}
	if hits, _ := cache.Stats(); hits != 1 {
		t.Fatalf("second parse must come from the cache, hits = %d", hits)
	}
}

func TestParsePrefersOverlay(t *testing.T) {
	p := writeFile(t, t.TempDir(), "sub.vcst.yaml", []byte("format: 1\nnodes: []\n"))
	files := source.NewFileSet()
	files.SetOverlay(p, []byte(subYAML))
	f, err := NewDumpParser(files, nil).Parse(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Root.Children) != 1 {
		t.Fatalf("overlay content must win over the disk")
	}
}

func TestParseTextSniffsFormat(t *testing.T) {
	parser := NewDumpParser(nil, nil)
	f, err := parser.ParseText(context.Background(), "<inline>", []byte(subYAML))
	if err != nil {
		t.Fatalf("yaml text: %v", err)
	}
	if f.Path != "<inline>" || testkit.FindToken(f, "sub", 0).Pos.Path != "<inline>" {
		t.Fatalf("inline path not applied")
	}
	data, err := cst.MarshalBinary(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.ParseText(context.Background(), "<inline>", data); err != nil {
		t.Fatalf("binary text: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	parser := NewDumpParser(nil, nil)
	if _, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "missing.vcst")); err == nil {
		t.Fatalf("missing file must fail")
	}
	bad := "format: 1\nnodes:\n  - {kind: identifier, text: x, line: 1, col: 1, children: [{kind: identifier, text: y}]}\n"
	if _, err := parser.ParseText(context.Background(), "bad.vcst.yaml", []byte(bad)); err == nil {
		t.Fatalf("token with children must be rejected")
	}
	if !IsDump("a.vcst") || IsDump("a.v") || !HasExtension("x.vcst.yml", []string{".vcst.yml"}) {
		t.Fatalf("extension helpers wrong")
	}
}
