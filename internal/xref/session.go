package xref

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"vlxref/internal/diag"
	"vlxref/internal/frontend"
	"vlxref/internal/metrics"
	"vlxref/internal/observ"
	"vlxref/internal/source"
	"vlxref/internal/symbols"
	"vlxref/internal/trace"
)

// ErrClosed is returned by operations on a closed Session.
var ErrClosed = errors.New("xref: session closed")

// Options configure a Session.
type Options struct {
	Parser frontend.Parser
	// Jobs bounds the files built in parallel; 0 means GOMAXPROCS.
	Jobs   int
	Tracer trace.Tracer
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// CacheStats, when set, reports cumulative tree cache hits and misses.
	CacheStats func() (hits, misses uint64)
	// OnBatch is called after every published batch with its timings.
	OnBatch func(files []string, r observ.Report)
}

// Session owns the cross-reference graph of one set of files. Updates are
// applied by a single background worker; queries read the last published
// generation and never block on a running batch.
type Session struct {
	id      uuid.UUID
	parser  frontend.Parser
	jobs    int
	metrics *metrics.Metrics
	stats   func() (uint64, uint64)
	onBatch func([]string, observ.Report)

	ctx    context.Context
	cancel context.CancelFunc

	genMu sync.RWMutex
	gen   *Generation
	diags *diag.Store

	// mergeMu serializes merges of the worker, inline sources and Clear.
	mergeMu sync.Mutex

	mu      sync.Mutex
	queue   []string
	queued  map[string]struct{}
	running bool
	idle    chan struct{}
	timings *observ.Report

	stop     atomic.Bool
	wg       sync.WaitGroup
	nextTree atomic.Uint32
	hub      hub

	cacheHits, cacheMisses uint64
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Parser == nil {
		panic("xref: Options.Parser is nil")
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	ctx, cancel := context.WithCancel(trace.WithTracer(context.Background(), tracer))
	idle := make(chan struct{})
	close(idle)
	s := &Session{
		id:      uuid.New(),
		parser:  opts.Parser,
		jobs:    jobs,
		metrics: opts.Metrics,
		stats:   opts.CacheStats,
		onBatch: opts.OnBatch,
		ctx:     ctx,
		cancel:  cancel,
		gen:     emptyGeneration(),
		diags:   diag.NewStore(),
		queued:  make(map[string]struct{}),
		idle:    idle,
	}
	trace.Point(tracer, trace.ScopeSession, "session", s.id.String())
	return s
}

// ID identifies the session in traces.
func (s *Session) ID() uuid.UUID { return s.id }

// RequestUpdate queues files for (re)processing. A file already waiting is
// not queued twice. With synchronous set it returns once the queue is
// drained, or when ctx is done.
func (s *Session) RequestUpdate(ctx context.Context, files []string, synchronous bool) error {
	if s.stop.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	if s.stop.Load() {
		s.mu.Unlock()
		return ErrClosed
	}
	for _, f := range files {
		p := source.CanonicalPath(f)
		if p == "" {
			continue
		}
		if _, ok := s.queued[p]; ok {
			continue
		}
		s.queued[p] = struct{}{}
		s.queue = append(s.queue, p)
	}
	if !s.running && len(s.queue) > 0 {
		s.running = true
		s.idle = make(chan struct{})
		s.wg.Add(1)
		go s.run()
	}
	idle := s.idle
	s.mu.Unlock()

	if !synchronous {
		return nil
	}
	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.stop.Load() {
		return ErrClosed
	}
	return nil
}

// run drains the queue batch by batch; work queued during a batch forms
// the next one.
func (s *Session) run() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.stop.Load() {
			s.running = false
			close(s.idle)
			s.mu.Unlock()
			return
		}
		batch := s.queue
		s.queue = nil
		clear(s.queued)
		s.mu.Unlock()

		if err := s.runBatch(s.ctx, batch); err != nil && !s.stop.Load() {
			trace.Point(trace.FromContext(s.ctx), trace.ScopeBatch, "batch failed", err.Error())
		}
	}
}

func (s *Session) runBatch(ctx context.Context, files []string) error {
	span, ctx := trace.Start(ctx, trace.ScopeBatch, "batch")
	defer span.End(fmt.Sprintf("%d files", len(files)))

	timer := observ.NewTimer()
	sink := diag.NewStore()
	rep := batchReporter(files, sink)

	done := timer.Track("build")
	builds, err := s.build(ctx, files, rep)
	done(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return err
	}
	return s.commit(ctx, files, builds, sink, rep, timer)
}

// commit merges builds into the published generation and swaps it in.
func (s *Session) commit(ctx context.Context, files []string, builds []*built, sink *diag.Store, rep diag.Reporter, timer *observ.Timer) error {
	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()

	next, err := merge(ctx, s.Snapshot(), files, builds, rep, timer)
	if err != nil {
		return err
	}
	if s.stop.Load() {
		return ErrClosed
	}

	s.genMu.Lock()
	s.gen = next
	s.diags.Replace(files, sink)
	s.genMu.Unlock()

	s.published(files, next, timer.Report())
	return nil
}

func (s *Session) published(files []string, g *Generation, r observ.Report) {
	s.mu.Lock()
	s.timings = &r
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveBatch(len(files), r)
		s.metrics.SetGraph(g.Stats())
		s.metrics.SetDiagnostics(s.diags.CountByKind())
		if s.stats != nil {
			hits, misses := s.stats()
			s.metrics.AddCacheLookups(hits-s.cacheHits, misses-s.cacheMisses)
			s.cacheHits, s.cacheMisses = hits, misses
		}
	}
	if s.onBatch != nil {
		s.onBatch(files, r)
	}

	ns := make([]Notification, 0, len(files)+1)
	ns = append(ns, Notification{Kind: ModelUpdated, Seq: g.Seq})
	for _, f := range files {
		ns = append(ns, Notification{Kind: FileUpdated, Path: f, Seq: g.Seq})
	}
	s.hub.publish(ns...)
}

// ParseInlineSource indexes text as the content of virtualPath, bypassing
// the queue. It reports whether the text produced no errors.
func (s *Session) ParseInlineSource(ctx context.Context, text []byte, virtualPath string) (bool, error) {
	if s.stop.Load() {
		return false, ErrClosed
	}
	span, ctx := trace.Start(trace.WithTracer(ctx, trace.FromContext(s.ctx)), trace.ScopeBatch, "inline")
	defer span.End(virtualPath)

	files := []string{virtualPath}
	timer := observ.NewTimer()
	sink := diag.NewStore()
	rep := batchReporter(files, sink)

	done := timer.Track("build")
	f, err := s.parser.ParseText(ctx, virtualPath, text)
	b := buildFile(ctx, symbols.TreeID(s.nextTree.Add(1)), virtualPath, f, err, rep)
	done("inline")

	if err := s.commit(ctx, files, []*built{b}, sink, rep, timer); err != nil {
		return false, err
	}
	return sink.ErrorCount() == 0, nil
}

// Clear drops everything loaded and pending. It returns the files that
// were loaded or queued, so a caller can reload them.
func (s *Session) Clear() []string {
	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()

	s.mu.Lock()
	files := slices.Clone(s.queue)
	s.queue = nil
	clear(s.queued)
	s.mu.Unlock()

	s.genMu.Lock()
	old := s.gen
	s.gen = emptyGeneration()
	s.gen.Seq = old.Seq + 1
	s.diags.Clear()
	s.genMu.Unlock()

	files = append(files, old.Files()...)
	for _, r := range old.global.Children {
		if sym := old.Symbol(r); sym != nil && sym.Pos.Path != "" {
			files = append(files, sym.Pos.Path)
		}
	}
	slices.Sort(files)
	files = slices.Compact(files)

	ns := []Notification{{Kind: ModelUpdated, Seq: old.Seq + 1}}
	for _, f := range files {
		ns = append(ns, Notification{Kind: FileUpdated, Path: f, Seq: old.Seq + 1})
	}
	s.hub.publish(ns...)
	if s.metrics != nil {
		s.metrics.SetGraph(0, 0, 0)
		s.metrics.SetDiagnostics(nil)
	}
	return files
}

// Close stops the worker, waits for it and ends all subscriptions. A batch
// interrupted by Close publishes nothing.
func (s *Session) Close() error {
	s.mu.Lock()
	closed := s.stop.Swap(true)
	s.mu.Unlock()
	if closed {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	s.hub.closeAll()
	return nil
}

// Subscribe returns a channel of publication notifications with the given
// buffer and a function that ends the subscription.
func (s *Session) Subscribe(buf int) (<-chan Notification, func()) {
	return s.hub.subscribe(buf)
}

// Snapshot returns the published generation.
func (s *Session) Snapshot() *Generation {
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	return s.gen
}

// Diagnostics returns the per-file diagnostics of the published state.
func (s *Session) Diagnostics() *diag.Store { return s.diags }

// Timings returns the phase report of the last published batch.
func (s *Session) Timings() (observ.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timings == nil {
		return observ.Report{}, false
	}
	return *s.timings, true
}

// IsEmpty reports whether nothing is loaded.
func (s *Session) IsEmpty() bool { return s.Snapshot().IsEmpty() }
