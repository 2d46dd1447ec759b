package lsp

import "testing"

func TestApplyChanges(t *testing.T) {
	text := "module a;\nendmodule\n"
	tests := []struct {
		name    string
		changes []textDocumentContentChangeEvent
		want    string
	}{
		{
			name:    "full replace",
			changes: []textDocumentContentChangeEvent{{Text: "x"}},
			want:    "x",
		},
		{
			name: "insert on second line",
			changes: []textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{Line: 1, Character: 0}, End: position{Line: 1, Character: 0}},
				Text:  "  ",
			}},
			want: "module a;\n  endmodule\n",
		},
		{
			name: "replace name",
			changes: []textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{Line: 0, Character: 7}, End: position{Line: 0, Character: 8}},
				Text:  "top",
			}},
			want: "module top;\nendmodule\n",
		},
		{
			name: "range past the end is clamped",
			changes: []textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{Line: 9, Character: 0}, End: position{Line: 9, Character: 4}},
				Text:  "// x",
			}},
			want: "module a;\nendmodule\n// x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyChanges(text, tt.changes); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOffsetForPositionCountsUTF16(t *testing.T) {
	text := "a😀b\n"
	// the emoji takes two UTF-16 units and four bytes
	if got := offsetForPosition(text, position{Line: 0, Character: 3}); got != 5 {
		t.Fatalf("offset = %d, want 5", got)
	}
	if got := offsetForPosition(text, position{Line: 0, Character: 2}); got != 1 {
		t.Fatalf("offset inside surrogate pair = %d, want 1", got)
	}
}

func TestSourcePos(t *testing.T) {
	cases := []struct {
		pos       position
		line, col uint32
		ok        bool
	}{
		{position{Line: 0, Character: 0}, 1, 1, true},
		{position{Line: 3, Character: 16}, 4, 17, true},
		{position{Line: -1, Character: 0}, 0, 0, false},
		{position{Line: 0, Character: -1}, 0, 0, false},
		{position{Line: 1 << 40, Character: 0}, 0, 0, false},
	}
	for _, tc := range cases {
		line, col, ok := sourcePos(tc.pos)
		if line != tc.line || col != tc.col || ok != tc.ok {
			t.Errorf("sourcePos(%+v) = %d, %d, %v; want %d, %d, %v", tc.pos, line, col, ok, tc.line, tc.col, tc.ok)
		}
	}
}
