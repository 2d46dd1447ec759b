package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vlxref/internal/cst"
	"vlxref/internal/frontend"
	"vlxref/internal/metrics"
	"vlxref/internal/observ"
	"vlxref/internal/trace"
	"vlxref/internal/xref"
)

// IndexRequest configures the initial indexing of a file set.
type IndexRequest struct {
	Files   []string
	BaseDir string
	Parser  frontend.Parser
	Jobs    int
	Tracer  trace.Tracer
	Metrics *metrics.Metrics
	// CacheStats reports cumulative tree cache lookups, may be nil.
	CacheStats func() (hits, misses uint64)
	// Progress may be nil.
	Progress ProgressSink
}

// IndexResult holds the loaded session and its stage timings. The caller
// owns the session and must Close it.
type IndexResult struct {
	Session *xref.Session
	Report  observ.Report
	Timings Timings
}

// Index creates a session and loads req.Files into it synchronously.
func Index(ctx context.Context, req *IndexRequest) (IndexResult, error) {
	var result IndexResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, errors.New("missing index request")
	}
	if req.Parser == nil {
		return result, errors.New("missing parser")
	}

	base := absBase(req.BaseDir)
	display := DisplayFiles(req.Files, req.BaseDir)
	emitQueued(req.Progress, display)

	sess := xref.New(xref.Options{
		Parser:     &progressParser{next: req.Parser, sink: req.Progress, base: base},
		Jobs:       req.Jobs,
		Tracer:     req.Tracer,
		Metrics:    req.Metrics,
		CacheStats: req.CacheStats,
	})
	result.Session = sess

	start := time.Now()
	if err := sess.RequestUpdate(ctx, req.Files, true); err != nil {
		err = fmt.Errorf("index: %w", err)
		emitStage(req.Progress, display, StageIndex, StatusError, err, time.Since(start))
		return result, err
	}
	emitStage(req.Progress, display, StageIndex, StatusDone, nil, time.Since(start))

	if report, ok := sess.Timings(); ok {
		result.Report = report
		recordIndexTimings(&result, report)
	}
	return result, nil
}

// progressParser reports every file it parses to sink.
type progressParser struct {
	next frontend.Parser
	sink ProgressSink
	base string
}

func (p *progressParser) Parse(ctx context.Context, path string) (*cst.File, error) {
	if p.sink == nil {
		return p.next.Parse(ctx, path)
	}
	name := displayFile(path, p.base)
	p.sink.OnEvent(Event{File: name, Stage: StageParse, Status: StatusWorking})
	start := time.Now()
	f, err := p.next.Parse(ctx, path)
	status := StatusDone
	if err != nil {
		status = StatusError
	}
	p.sink.OnEvent(Event{File: name, Stage: StageParse, Status: status, Err: err, Elapsed: time.Since(start)})
	return f, err
}

func (p *progressParser) ParseText(ctx context.Context, path string, text []byte) (*cst.File, error) {
	return p.next.ParseText(ctx, path, text)
}

func recordIndexTimings(result *IndexResult, report observ.Report) {
	if result == nil || len(report.Phases) == 0 {
		return
	}
	result.Timings.Set(StageParse, sumPhase(report, "build"))
	result.Timings.Set(StageIndex, sumPhase(report, "merge", "resolve"))
}

func sumPhase(report observ.Report, names ...string) time.Duration {
	if len(report.Phases) == 0 || len(names) == 0 {
		return 0
	}
	nameSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		nameSet[name] = struct{}{}
	}
	var total time.Duration
	for _, phase := range report.Phases {
		if _, ok := nameSet[phase.Name]; !ok {
			continue
		}
		total += durationFromMillis(phase.DurationMS)
	}
	return total
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
