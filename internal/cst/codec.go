package cst

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"vlxref/internal/source"
	"vlxref/internal/token"
)

// FormatVersion is written into every dump; readers reject other versions.
const FormatVersion = 1

// Format selects the dump encoding.
type Format uint8

const (
	// FormatBinary is msgpack, extension .vcst.
	FormatBinary Format = iota
	// FormatYAML is the text form, extension .vcst.yaml or .vcst.yml.
	FormatYAML
)

var ErrUnknownFormat = errors.New("not a syntax tree dump")

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".vcst"):
		return FormatBinary, nil
	case strings.HasSuffix(path, ".vcst.yaml"), strings.HasSuffix(path, ".vcst.yml"):
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

type wireFile struct {
	Format  int          `msgpack:"format" yaml:"format"`
	Path    string       `msgpack:"path,omitempty" yaml:"path,omitempty"`
	Nodes   []wireNode   `msgpack:"nodes" yaml:"nodes"`
	Toggles []uint32     `msgpack:"toggles,omitempty" yaml:"toggles,omitempty,flow"`
	Markers []wireMarker `msgpack:"markers,omitempty" yaml:"markers,omitempty"`
}

type wireNode struct {
	Kind     string     `msgpack:"k" yaml:"kind"`
	Text     string     `msgpack:"t,omitempty" yaml:"text,omitempty"`
	Path     string     `msgpack:"p,omitempty" yaml:"path,omitempty"`
	Line     uint32     `msgpack:"l,omitempty" yaml:"line,omitempty"`
	Col      uint32     `msgpack:"c,omitempty" yaml:"col,omitempty"`
	Len      uint32     `msgpack:"n,omitempty" yaml:"len,omitempty"`
	Flags    []string   `msgpack:"f,omitempty" yaml:"flags,omitempty,flow"`
	Children []wireNode `msgpack:"ch,omitempty" yaml:"children,omitempty"`
}

type wireMarker struct {
	Kind  string `msgpack:"k" yaml:"kind"`
	Title string `msgpack:"t,omitempty" yaml:"title,omitempty"`
	Path  string `msgpack:"p,omitempty" yaml:"path,omitempty"`
	Line  uint32 `msgpack:"l" yaml:"line"`
}

const (
	flagSubstituted = "substituted"
	flagHidden      = "hidden"
	flagUnexpanded  = "unexpanded"
	flagPrePp       = "prepp"
)

// Encode writes f in the given format.
func Encode(w io.Writer, f *File, format Format) error {
	wf := toWire(f)
	switch format {
	case FormatBinary:
		return msgpack.NewEncoder(w).Encode(wf)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wf); err != nil {
			return err
		}
		return enc.Close()
	}
	return ErrUnknownFormat
}

// Decode reads a dump. Nodes without a path belong to path.
func Decode(r io.Reader, path string, format Format) (*File, error) {
	var wf wireFile
	switch format {
	case FormatBinary:
		if err := msgpack.NewDecoder(r).Decode(&wf); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&wf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	f, err := fromWire(&wf, path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}

// MarshalBinary encodes f as msgpack.
func MarshalBinary(f *File) ([]byte, error) {
	return msgpack.Marshal(toWire(f))
}

// UnmarshalBinary is the inverse of MarshalBinary.
func UnmarshalBinary(data []byte, path string) (*File, error) {
	return Decode(bytes.NewReader(data), path, FormatBinary)
}

// ParseYAML decodes the text form held in memory.
func ParseYAML(text, path string) (*File, error) {
	return Decode(strings.NewReader(text), path, FormatYAML)
}

func toWire(f *File) *wireFile {
	wf := &wireFile{Format: FormatVersion, Path: f.Path, Toggles: f.Toggles}
	if f.Root != nil {
		wf.Nodes = make([]wireNode, 0, len(f.Root.Children))
		for _, n := range f.Root.Children {
			wf.Nodes = append(wf.Nodes, nodeToWire(n, f.Path))
		}
	}
	for _, m := range f.Markers {
		wm := wireMarker{Kind: m.Kind.String(), Title: m.Title, Line: m.Pos.Line}
		if m.Pos.Path != f.Path {
			wm.Path = m.Pos.Path
		}
		wf.Markers = append(wf.Markers, wm)
	}
	return wf
}

func nodeToWire(n *Node, parentPath string) wireNode {
	wn := wireNode{Kind: n.Kind.String(), Text: n.Text, Line: n.Pos.Line, Col: n.Pos.Col}
	if n.Kind == RuleOther && n.Text != "" {
		wn.Kind, wn.Text = n.Text, ""
	}
	if n.Pos.Path != parentPath {
		wn.Path = n.Pos.Path
	}
	if !n.IsRule() && n.Pos.Len != uint32(len(n.Text)) {
		wn.Len = n.Pos.Len
	}
	if n.Pos.Substituted() {
		wn.Flags = append(wn.Flags, flagSubstituted)
	}
	if n.Pos.Hidden() {
		wn.Flags = append(wn.Flags, flagHidden)
	}
	if n.Pos.Unexpanded() {
		wn.Flags = append(wn.Flags, flagUnexpanded)
	}
	if n.PrePp {
		wn.Flags = append(wn.Flags, flagPrePp)
	}
	if len(n.Children) > 0 {
		wn.Children = make([]wireNode, 0, len(n.Children))
		for _, c := range n.Children {
			wn.Children = append(wn.Children, nodeToWire(c, n.Pos.Path))
		}
	}
	return wn
}

func fromWire(wf *wireFile, path string) (*File, error) {
	if wf.Format != FormatVersion {
		return nil, fmt.Errorf("unsupported dump format %d", wf.Format)
	}
	if path == "" {
		path = wf.Path
	}
	f := NewFile(path)
	f.Toggles = wf.Toggles
	for i := range wf.Nodes {
		n, err := nodeFromWire(&wf.Nodes[i], path)
		if err != nil {
			return nil, err
		}
		f.Root.Children = append(f.Root.Children, n)
	}
	for _, wm := range wf.Markers {
		k, ok := token.ParseKind(wm.Kind)
		if !ok || (k != token.Section && k != token.SectionEnd) {
			return nil, fmt.Errorf("line %d: bad marker kind %q", wm.Line, wm.Kind)
		}
		p := wm.Path
		if p == "" {
			p = path
		}
		f.Markers = append(f.Markers, Marker{Kind: k, Title: wm.Title, Pos: source.Pos{Path: p, Line: wm.Line, Col: 1}})
	}
	return f, nil
}

func nodeFromWire(wn *wireNode, parentPath string) (*Node, error) {
	n := &Node{Text: wn.Text}
	k, ok := ParseKind(wn.Kind)
	switch {
	case ok:
		n.Kind = k
	case isRuleName(wn.Kind):
		// productions the builder does not distinguish
		n.Kind, n.Text = RuleOther, wn.Kind
	default:
		return nil, fmt.Errorf("line %d: unknown token kind %q", wn.Line, wn.Kind)
	}
	n.Pos = source.Pos{Path: wn.Path, Line: wn.Line, Col: wn.Col, Len: wn.Len}
	if n.Pos.Path == "" {
		n.Pos.Path = parentPath
	}
	for _, fl := range wn.Flags {
		switch fl {
		case flagSubstituted:
			n.Pos.Flags |= source.PosSubstituted
		case flagHidden:
			n.Pos.Flags |= source.PosHidden
		case flagUnexpanded:
			n.Pos.Flags |= source.PosUnexpanded
		case flagPrePp:
			n.PrePp = true
		default:
			return nil, fmt.Errorf("line %d: unknown flag %q", wn.Line, fl)
		}
	}
	if len(wn.Children) > 0 {
		n.Children = make([]*Node, 0, len(wn.Children))
		for i := range wn.Children {
			c, err := nodeFromWire(&wn.Children[i], n.Pos.Path)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
	}
	if !n.IsRule() && n.Pos.Len == 0 {
		n.Pos.Len = uint32(len(n.Text))
	}
	if n.IsRule() && !n.Pos.IsValid() && len(n.Children) > 0 {
		first := n.Children[0].Pos
		n.Pos.Path, n.Pos.Line, n.Pos.Col = first.Path, first.Line, first.Col
	}
	return n, nil
}

// Production names are lowercase words joined by underscores.
func isRuleName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}
