package buildpipeline

import "time"

// Stage is a pipeline phase as the progress UI shows it: files are
// parsed one by one, then the batch is indexed as a whole.
type Stage uint8

const (
	StageParse Stage = iota + 1 // decode one dump into a syntax tree
	StageIndex                  // build, merge and resolve the batch
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageIndex:
		return "index"
	}
	return "stage?"
}

// Status is where a file (or the whole batch) is within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

var statusNames = [...]string{"queued", "working", "done", "error"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "status?"
}

// Event reports progress of one file; File is empty for batch-wide
// events.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from
// several goroutines at once.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds the wall time spent per stage of one indexing run.
type Timings struct {
	dur  [stageCount]time.Duration
	seen [stageCount]bool
}

func (t *Timings) Set(stage Stage, d time.Duration) {
	if t == nil || stage >= stageCount {
		return
	}
	t.dur[stage], t.seen[stage] = d, true
}

func (t Timings) Has(stage Stage) bool {
	return stage < stageCount && t.seen[stage]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if stage >= stageCount {
		return 0
	}
	return t.dur[stage]
}
