package resolve

import (
	"context"
	"fmt"

	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/symbols"
	"vlxref/internal/token"
)

// Index maps a referencing symbol to exactly one IdentDecl.
type Index map[symbols.Ref]symbols.Ref

// RevIndex maps an IdentDecl to its referencing symbols in resolution order.
type RevIndex map[symbols.Ref][]symbols.Ref

// Result is the outcome of one resolver run. Index and RevIndex are
// always built together and describe the same bindings.
type Result struct {
	Index    Index
	RevIndex RevIndex
}

func newResult() *Result {
	return &Result{Index: make(Index), RevIndex: make(RevIndex)}
}

func (r *Result) bind(use, decl symbols.Ref) {
	r.Index[use] = decl
	r.RevIndex[decl] = append(r.RevIndex[decl], use)
}

// Len reports the number of resolved references.
func (r *Result) Len() int { return len(r.Index) }

// Resolve walks every top-level scope of g in global order and binds each
// reference. Unresolved references are reported to rep. The walk stops
// between top-level scopes once ctx is done.
func Resolve(ctx context.Context, g Graph, rep diag.Reporter) (*Result, error) {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	r := &resolver{g: g, rep: rep, res: newResult()}
	gl := g.Global()
	if gl == nil {
		return r.res, nil
	}
	for _, top := range gl.Children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr := g.Tree(top.Tree)
		if s := tr.Get(top.ID); s == nil || !s.IsScope() {
			continue
		}
		r.walk(tr, top.ID, top.ID)
	}
	return r.res, nil
}

type resolver struct {
	g   Graph
	rep diag.Reporter
	res *Result
}

func (r *resolver) walk(tr *symbols.Tree, id, scope symbols.SymbolID) {
	s := tr.Get(id)
	switch s.Kind {
	case symbols.KindIdentUse:
		r.use(tr, id, s, scope)
	case symbols.KindPathIdent:
		r.path(tr, id, s, scope)
	case symbols.KindPortRef:
		r.port(tr, id, s)
	case symbols.KindCellRef:
		r.cell(tr, id, s)
	}
	for _, c := range s.Children {
		sc := scope
		if tr.Get(c).IsScope() {
			sc = c
		}
		r.walk(tr, c, sc)
	}
}

func (r *resolver) use(tr *symbols.Tree, id symbols.SymbolID, s *symbols.Symbol, scope symbols.SymbolID) {
	if d := Lookup(r.g, tr.Ref(scope), s.Name, true, true); d.IsValid() {
		r.res.bind(tr.Ref(id), d)
		return
	}
	// names in attribute instances are tool specific
	if p := tr.Get(s.Parent); p != nil && p.Prod == cst.Tok(token.Attribute) {
		return
	}
	diag.ReportError(r.rep, diag.SemUnknownIdent, s.Pos,
		fmt.Sprintf("unknown identifier: %s", s.Name)).Emit()
}

// path resolves a whole hierarchical name when visiting its first segment.
func (r *resolver) path(tr *symbols.Tree, id symbols.SymbolID, s *symbols.Symbol, scope symbols.SymbolID) {
	parent := tr.Get(s.Parent)
	if parent == nil || len(parent.Children) == 0 || parent.Children[0] != id {
		return
	}
	segs := make([]symbols.SymbolID, 0, len(parent.Children))
	for _, c := range parent.Children {
		if tr.Get(c).Kind == symbols.KindPathIdent {
			segs = append(segs, c)
		}
	}

	cur := tr.Ref(scope)
	for i, seg := range segs {
		sym := tr.Get(seg)
		d := Lookup(r.g, cur, sym.Name, true, true)
		if !d.IsValid() {
			diag.ReportError(r.rep, diag.SemUnknownIdent, sym.Pos,
				fmt.Sprintf("unknown identifier: %s", sym.Name)).Emit()
			break
		}
		r.res.bind(tr.Ref(seg), d)
		if i == len(segs)-1 {
			break
		}
		cur = r.nameSpace(d)
		if !cur.IsValid() {
			diag.ReportError(r.rep, diag.SemNotNameSpace, sym.Pos,
				fmt.Sprintf("identifier is not a name space: %s", sym.Name)).Emit()
			break
		}
	}
}

// nameSpace returns the scope a path continues in after the declaration
// decl: the instantiated cell for an instance, the declared scope itself
// for a module, task, function or named block.
func (r *resolver) nameSpace(decl symbols.Ref) symbols.Ref {
	t := Target(r.g, decl)
	s := symbols.Lookup(r.g, t)
	switch {
	case s == nil:
		return symbols.NoRef
	case s.Prod == cst.ModuleOrUdpInstance:
		return InstanceCell(r.g, t)
	case s.IsScope():
		return t
	}
	return symbols.NoRef
}

func (r *resolver) port(tr *symbols.Tree, id symbols.SymbolID, s *symbols.Symbol) {
	parent := tr.Get(s.Parent)
	if parent == nil {
		return
	}
	var cellName string
	switch parent.Prod {
	case cst.ModuleOrUdpInstance:
		sup := tr.Get(parent.Super)
		if sup == nil || sup.Prod != cst.ModuleOrUdpInstantiation {
			return
		}
		cellName = sup.Name
	case cst.ModuleOrUdpInstantiation:
		cellName = parent.Name
	default:
		return
	}
	cell := CellScope(r.g, cellName)
	if !cell.IsValid() {
		// reported by the cell reference
		return
	}
	if d := Lookup(r.g, cell, s.Name, false, true); d.IsValid() {
		r.res.bind(tr.Ref(id), d)
		return
	}
	diag.ReportError(r.rep, diag.SemUnknownPort, s.Pos,
		fmt.Sprintf("unknown port or parameter: %s", s.Name)).Emit()
}

func (r *resolver) cell(tr *symbols.Tree, id symbols.SymbolID, s *symbols.Symbol) {
	if d := LookupGlobal(r.g, s.Name); d.IsValid() {
		r.res.bind(tr.Ref(id), d)
		return
	}
	diag.ReportError(r.rep, diag.ElabUnknownCell, s.Pos,
		fmt.Sprintf("unknown module or udp: %s", s.Name)).Emit()
}
