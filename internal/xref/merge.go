package xref

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"vlxref/internal/astbuild"
	"vlxref/internal/cst"
	"vlxref/internal/diag"
	"vlxref/internal/observ"
	"vlxref/internal/resolve"
	"vlxref/internal/source"
	"vlxref/internal/symbols"
	"vlxref/internal/trace"
)

// built is the per-file outcome of the build phase.
type built struct {
	path     string
	tree     *symbols.Tree
	toggles  []uint32
	sections []Section
}

// batchReporter keeps only diagnostics located in the batch files; the
// diagnostics of other files stay as they were published. A symbol
// resolved from several scopes reports its problem once.
func batchReporter(files []string, sink diag.Reporter) diag.Reporter {
	in := make(map[string]struct{}, len(files))
	for _, f := range files {
		in[f] = struct{}{}
	}
	return diag.NewDedupReporter(diag.FilterReporter{Next: sink, Keep: func(path string) bool {
		_, ok := in[path]
		return ok
	}})
}

// build parses and builds the batch files in parallel. Results keep the
// order of files.
func (s *Session) build(ctx context.Context, files []string, rep diag.Reporter) ([]*built, error) {
	results := make([]*built, len(files))
	if len(files) == 0 {
		return results, nil
	}
	// tree IDs follow batch order whatever the build order
	n, err := safecast.Conv[uint32](len(files))
	if err != nil {
		return nil, err
	}
	first := symbols.TreeID(s.nextTree.Add(n) - n + 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.jobs, len(files)))
	for i, path := range files {
		id := first + symbols.TreeID(i)
		g.Go(func() error {
			// отмена проверяется между файлами
			if s.stop.Load() {
				return ErrClosed
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := s.parser.Parse(gctx, path)
			results[i] = buildFile(gctx, id, path, f, err, rep)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// buildFile turns parser output into a tree. A file that cannot be read or
// decoded becomes an I/O diagnostic and an empty tree.
func buildFile(ctx context.Context, id symbols.TreeID, path string, f *cst.File, parseErr error, rep diag.Reporter) *built {
	span, _ := trace.Start(ctx, trace.ScopeFile, "build")
	defer span.End(path)

	b := &built{path: path}
	if parseErr != nil {
		code := diag.IODecodeError
		var pathErr *fs.PathError
		if errors.As(parseErr, &pathErr) {
			code = diag.IOLoadFileError
		}
		diag.ReportError(rep, code, source.Pos{Path: path, Line: 1, Col: 1}, parseErr.Error()).Emit()
		b.tree = symbols.NewTree(id, path, 0)
		return b
	}
	f.Path = path
	b.tree = buildTree(id, f, rep)
	b.toggles = f.Toggles
	b.sections = buildSections(path, f.Markers)
	span.WithExtra("symbols", fmt.Sprint(b.tree.Len()))
	return b
}

// buildTree runs the symbol builder; a syntax tree that breaks the grammar
// contract is reported instead of taking the session down.
func buildTree(id symbols.TreeID, f *cst.File, rep diag.Reporter) (tr *symbols.Tree) {
	defer func() {
		if r := recover(); r != nil {
			diag.ReportError(rep, diag.IODecodeError, source.Pos{Path: f.Path, Line: 1, Col: 1},
				fmt.Sprintf("malformed syntax tree: %v", r)).Emit()
			tr = symbols.NewTree(id, f.Path, 0)
		}
	}()
	return astbuild.Build(id, f, rep)
}

// merge derives the next generation from cur: the batch files are dropped,
// the new trees inserted in batch order and the whole graph re-resolved.
func merge(ctx context.Context, cur *Generation, files []string, builds []*built, rep diag.Reporter, timer *observ.Timer) (*Generation, error) {
	span, ctx := trace.Start(ctx, trace.ScopeBatch, "merge")
	defer span.End("")

	done := timer.Track("merge")
	next := cur.clone()
	next.Seq = cur.Seq + 1
	for _, f := range files {
		next.clearFile(f)
	}
	for _, b := range builds {
		if b != nil {
			next.insert(b, rep)
		}
	}
	// после вставки: файл из пакета сохраняет свои имена
	next.promoteShadowed()
	done(fmt.Sprintf("%d files", len(next.files)))

	done = timer.Track("resolve")
	res, err := resolve.Resolve(ctx, next, rep)
	if err != nil {
		done("cancelled")
		return nil, err
	}
	done(fmt.Sprintf("%d references", res.Len()))
	next.index, next.rev = res.Index, res.RevIndex
	next.checkCycles(rep)
	return next, nil
}

// clearFile drops the tree of path and everything the global scope holds
// from it.
func (g *Generation) clearFile(path string) {
	id, ok := g.files[path]
	delete(g.toggles, path)
	delete(g.sections, path)
	if !ok {
		return
	}
	old := g.trees[id]
	delete(g.files, path)
	delete(g.trees, id)

	kept := make([]symbols.Ref, 0, len(g.global.Children))
	for _, r := range g.global.Children {
		if r.Tree != id {
			kept = append(kept, r)
			continue
		}
		if s := old.Get(r.ID); s != nil && s.IsScope() && s.Name == "" {
			panic(fmt.Sprintf("xref: unnamed top-level scope at %s", s.Pos))
		}
	}
	g.global.Children = kept
	for name, r := range g.global.Names {
		if r.Tree == id {
			delete(g.global.Names, name)
		}
	}
}

// promoteShadowed enters names that lost a duplicate-cell conflict against
// a now removed declaration, in load order. Names the batch declared again
// are already taken by then.
func (g *Generation) promoteShadowed() {
	seen := make(map[symbols.TreeID]bool)
	for _, r := range g.global.Children {
		if seen[r.Tree] {
			continue
		}
		seen[r.Tree] = true
		t := g.trees[r.Tree]
		root := t.Root()
		for _, name := range slices.Sorted(maps.Keys(root.Names)) {
			if _, ok := g.global.Names[name]; !ok {
				g.global.Names[name] = t.Ref(root.Names[name])
			}
		}
	}
}

// insert adds a built file. A cell name that is already taken is reported
// at the new declaration and the existing entry is kept.
func (g *Generation) insert(b *built, rep diag.Reporter) {
	tr := b.tree
	g.trees[tr.ID] = tr
	g.files[b.path] = tr.ID
	if len(b.toggles) > 0 {
		g.toggles[b.path] = b.toggles
	}
	if len(b.sections) > 0 {
		g.sections[b.path] = b.sections
	}

	root := tr.Root()
	for _, name := range slices.Sorted(maps.Keys(root.Names)) {
		d := root.Names[name]
		prev, taken := g.global.Names[name]
		if !taken {
			g.global.Names[name] = tr.Ref(d)
			continue
		}
		pos := tr.Get(d).Pos
		if decl := tr.Get(tr.Get(d).Decl); decl != nil {
			pos = decl.Pos
		}
		prevPath := ""
		if p := g.Symbol(prev); p != nil {
			prevPath = p.Pos.Path
		}
		diag.ReportError(rep, diag.SemDuplicateCell, pos,
			fmt.Sprintf("duplicate cell name '%s' already declared in %s", name, prevPath)).Emit()
	}
	for _, c := range tr.Top() {
		g.global.Children = append(g.global.Children, tr.Ref(c))
	}
}
