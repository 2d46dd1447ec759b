package xref

import (
	"slices"
	"sort"
	"strings"

	"vlxref/internal/cst"
	"vlxref/internal/resolve"
	"vlxref/internal/source"
	"vlxref/internal/symbols"
)

// FindSymbolBySourcePos returns the path from the symbol at line:col of file
// up to its top-level node, or nil. Only identifiers are hit when
// onlyIdents is set. With hitEmpty a point between tokens yields the
// innermost branch around it.
func (g *Generation) FindSymbolBySourcePos(file string, line, col uint32, onlyIdents, hitEmpty bool) symbols.TreePath {
	for _, top := range g.global.Children {
		s := g.Symbol(top)
		if s == nil || s.Pos.Path != file {
			continue
		}
		stack := []symbols.Ref{top}
		if found, ok := g.hit(stack, file, line, col, onlyIdents, hitEmpty); ok {
			return leafFirst(found)
		}
		if hitEmpty && hitsArea(g.trees[top.Tree], s, file, line, col) {
			return leafFirst(stack)
		}
	}
	return nil
}

// hit searches the children of the last element of stack in source order.
func (g *Generation) hit(stack []symbols.Ref, file string, line, col uint32, onlyIdents, hitEmpty bool) ([]symbols.Ref, bool) {
	cur := stack[len(stack)-1]
	tr := g.trees[cur.Tree]
	for _, c := range tr.Get(cur.ID).Children {
		sub := tr.Get(c)
		stack = append(stack, tr.Ref(c))
		if (sub.IsIdent() || !onlyIdents) && sub.Pos.Covers(file, line, col) {
			return stack, true
		}
		if found, ok := g.hit(stack, file, line, col, onlyIdents, hitEmpty); ok {
			return found, true
		}
		if hitEmpty && hitsArea(tr, sub, file, line, col) {
			return stack, true
		}
		stack = stack[:len(stack)-1]
	}
	return nil, false
}

// hitsArea reports whether line:col lies inside sub: sub starts at or
// before the point and one of its children starts at or after it.
func hitsArea(tr *symbols.Tree, sub *symbols.Symbol, file string, line, col uint32) bool {
	if sub.Pos.Path != file || sub.Pos.StartsAfter(line, col) || len(sub.Children) == 0 {
		return false
	}
	for _, c := range sub.Children {
		p := tr.Get(c).Pos
		if p.Path == file && p.AtOrAfter(line, col) {
			return true
		}
	}
	return false
}

func leafFirst(stack []symbols.Ref) symbols.TreePath {
	out := slices.Clone(stack)
	slices.Reverse(out)
	return out
}

// FindDeclarationOfSymbol returns the IdentDecl a reference resolved to. A
// declaration is its own declaration.
func (g *Generation) FindDeclarationOfSymbol(r symbols.Ref) symbols.Ref {
	if s := g.Symbol(r); s != nil && s.Kind == symbols.KindIdentDecl {
		return r
	}
	if d, ok := g.index[r]; ok {
		return d
	}
	return symbols.NoRef
}

// FindDeclarationAtSourcePos combines the identifier lookup at line:col
// with FindDeclarationOfSymbol.
func (g *Generation) FindDeclarationAtSourcePos(file string, line, col uint32) symbols.Ref {
	path := g.FindSymbolBySourcePos(file, line, col, true, false)
	if len(path) == 0 {
		return symbols.NoRef
	}
	return g.FindDeclarationOfSymbol(path.Leaf())
}

// FindAllReferencingSymbols returns the references resolved to decl in
// resolution order.
func (g *Generation) FindAllReferencingSymbols(decl symbols.Ref) []symbols.Ref {
	return slices.Clone(g.rev[decl])
}

// FindReferencingSymbolsByFile is FindAllReferencingSymbols restricted to
// references located in file.
func (g *Generation) FindReferencingSymbolsByFile(decl symbols.Ref, file string) []symbols.Ref {
	var out []symbols.Ref
	for _, u := range g.rev[decl] {
		if s := g.Symbol(u); s != nil && s.Pos.Path == file {
			out = append(out, u)
		}
	}
	return out
}

// PathTo returns the path from r up to its top-level node.
func (g *Generation) PathTo(r symbols.Ref) symbols.TreePath {
	tr := g.trees[r.Tree]
	if tr == nil {
		return nil
	}
	var path symbols.TreePath
	for id := r.ID; id.IsValid() && id != symbols.RootID; {
		s := tr.Get(id)
		if s == nil {
			break
		}
		path = append(path, tr.Ref(id))
		id = s.Parent
	}
	return path
}

// QualifiedNameParts lists the names on path from the top-level node down.
// Instantiation wrappers and anonymous nodes contribute nothing; the leaf is
// left out when skipFirst is set.
func (g *Generation) QualifiedNameParts(path symbols.TreePath, skipFirst bool) []string {
	var parts []string
	for i := len(path) - 1; i >= 0; i-- {
		s := g.Symbol(path[i])
		if s == nil || s.Name == "" || s.Prod == cst.ModuleOrUdpInstantiation {
			continue
		}
		if i == 0 && skipFirst {
			continue
		}
		parts = append(parts, s.Name)
	}
	return parts
}

// QualifiedName joins QualifiedNameParts with dots.
func (g *Generation) QualifiedName(path symbols.TreePath, skipFirst bool) string {
	return strings.Join(g.QualifiedNameParts(path, skipFirst), ".")
}

// IfDefOutsByFile returns the lines where conditional visibility switched.
func (g *Generation) IfDefOutsByFile(file string) []uint32 {
	return slices.Clone(g.toggles[file])
}

// Sections returns the outline sections of file.
func (g *Generation) Sections(file string) []Section {
	return slices.Clone(g.sections[file])
}

// FindSectionBySourcePos returns the section starting on line.
func (g *Generation) FindSectionBySourcePos(file string, line uint32) Section {
	for _, s := range g.sections[file] {
		if s.LineFrom == line {
			return s
		}
	}
	return Section{}
}

// FindGlobal returns the top-level module or UDP named name.
func (g *Generation) FindGlobal(name string) symbols.Ref {
	return resolve.Target(g, resolve.LookupGlobal(g, name))
}

// GlobalSyms returns the top-level nodes located in file, or all of them in
// load order when file is empty.
func (g *Generation) GlobalSyms(file string) []symbols.Ref {
	if file == "" {
		return slices.Clone(g.global.Children)
	}
	var out []symbols.Ref
	for _, r := range g.global.Children {
		if s := g.Symbol(r); s != nil && s.Pos.Path == file {
			out = append(out, r)
		}
	}
	return out
}

// GlobalNames returns the declarations of the global name table ordered by
// name, restricted to file unless it is empty.
func (g *Generation) GlobalNames(file string) []symbols.Ref {
	names := make([]string, 0, len(g.global.Names))
	for name, r := range g.global.Names {
		if file == "" {
			names = append(names, name)
			continue
		}
		if s := g.Symbol(r); s != nil && s.Pos.Path == file {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]symbols.Ref, len(names))
	for i, name := range names {
		out[i] = g.global.Names[name]
	}
	return out
}

// fileKey maps a user supplied path to the key the generation stores.
// Loaded paths (including virtual ones) match verbatim.
func (g *Generation) fileKey(file string) string {
	if file == "" {
		return ""
	}
	if _, ok := g.files[file]; ok {
		return file
	}
	return source.CanonicalPath(file)
}

// Session queries read the published generation. Paths are canonicalized
// unless they name a loaded file verbatim.

func (s *Session) FindSymbolBySourcePos(file string, line, col uint32, onlyIdents, hitEmpty bool) symbols.TreePath {
	g := s.Snapshot()
	return g.FindSymbolBySourcePos(g.fileKey(file), line, col, onlyIdents, hitEmpty)
}

func (s *Session) FindDeclarationOfSymbol(r symbols.Ref) symbols.Ref {
	return s.Snapshot().FindDeclarationOfSymbol(r)
}

func (s *Session) FindDeclarationAtSourcePos(file string, line, col uint32) symbols.Ref {
	g := s.Snapshot()
	return g.FindDeclarationAtSourcePos(g.fileKey(file), line, col)
}

func (s *Session) FindAllReferencingSymbols(decl symbols.Ref) []symbols.Ref {
	return s.Snapshot().FindAllReferencingSymbols(decl)
}

func (s *Session) FindReferencingSymbolsByFile(decl symbols.Ref, file string) []symbols.Ref {
	g := s.Snapshot()
	return g.FindReferencingSymbolsByFile(decl, g.fileKey(file))
}

func (s *Session) IfDefOutsByFile(file string) []uint32 {
	g := s.Snapshot()
	return g.IfDefOutsByFile(g.fileKey(file))
}

func (s *Session) Sections(file string) []Section {
	g := s.Snapshot()
	return g.Sections(g.fileKey(file))
}

func (s *Session) FindSectionBySourcePos(file string, line uint32) Section {
	g := s.Snapshot()
	return g.FindSectionBySourcePos(g.fileKey(file), line)
}

func (s *Session) FindGlobal(name string) symbols.Ref {
	return s.Snapshot().FindGlobal(name)
}

func (s *Session) GlobalSyms(file string) []symbols.Ref {
	g := s.Snapshot()
	return g.GlobalSyms(g.fileKey(file))
}

func (s *Session) GlobalNames(file string) []symbols.Ref {
	g := s.Snapshot()
	return g.GlobalNames(g.fileKey(file))
}
