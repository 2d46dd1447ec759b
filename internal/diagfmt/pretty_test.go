package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"vlxref/internal/diag"
	"vlxref/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("/home/user/project/rtl/top.v", []byte("module top;\n  wire w\nendmodule\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.SemUnknownIdent,
		source.Pos{Path: "/home/user/project/rtl/top.v", Line: 2, Col: 8, Len: 1},
		"unknown identifier: x",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/rtl/top.v:2:8"},
		{"Relative path", PathModeRelative, "rtl/top.v:2:8"},
		{"Basename only", PathModeBasename, "top.v:2:8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SEM4002: unknown identifier: x") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettyUnderlinesToken(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.v", []byte("module m;\n  reg abc;\nendmodule\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SemDuplicateName, source.Pos{Path: "a.v", Line: 2, Col: 7, Len: 3}, "dup"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "a.v:2:7: WARNING SEM4001: dup\n" +
		"2 |   reg abc;\n" +
		"  |       ^~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("b.v", []byte("module sub;\nendmodule\nmodule sub;\nendmodule\n"))

	d := diag.New(diag.SevError, diag.SemDuplicateCell, source.Pos{Path: "b.v", Line: 3, Col: 8, Len: 3}, "duplicate cell: sub").
		WithNote(source.Pos{Path: "b.v", Line: 1, Col: 8, Len: 3}, "first declared here")
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})
	output := buf.String()

	for _, want := range []string{
		"2 | endmodule",
		"3 | module sub;",
		"4 | endmodule",
		"  b.v:1:8: note: first declared here",
		"1 | module sub;",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}
}

func TestPrettyWithoutSource(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Pos{Path: "/nonexistent/x.v", Line: 1, Col: 1}, "cannot load"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{PathMode: PathModeAbsolute})

	if got, want := buf.String(), "/nonexistent/x.v:1:1: ERROR IO6001: cannot load\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStructuredOutput(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemUnknownIdent, source.Pos{Path: "a.v", Line: 1, Col: 2, Len: 1}, "unknown identifier: q"))
	bag.Add(diag.New(diag.SevWarning, diag.ElabCellCycle, source.Pos{Path: "a.v", Line: 3, Col: 8, Len: 3}, "cycle"))

	out := BuildDiagnosticsOutput(bag, nil, OutputOpts{Max: 1, PathMode: PathModeBasename})
	if out.Count != 1 || !out.Truncated || out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("unexpected counters: %+v", out)
	}

	var js bytes.Buffer
	if err := JSON(&js, bag, nil, OutputOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"code": "ELB5002"`) {
		t.Errorf("json output lacks cycle code:\n%s", js.String())
	}

	var ym bytes.Buffer
	if err := YAML(&ym, bag, nil, OutputOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ym.String(), "code: SEM4002") || !strings.Contains(ym.String(), "count: 2") {
		t.Errorf("yaml output:\n%s", ym.String())
	}
}
