package observ

import (
	"sync"
	"testing"
	"time"
)

func TestTimerTracksPhases(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("build")
	time.Sleep(2 * time.Millisecond)
	done("3 files")
	done("ignored")
	tm.Track("merge")("")
	tm.Track("resolve") // never ended

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "build" || r.Phases[1].Name != "merge" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Phases[0].Note != "3 files" || r.Phases[0].Count != 0 {
		t.Errorf("build phase = %+v", r.Phases[0])
	}
	if r.Phases[0].DurationMS < 2 || r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("durations: build %.2f total %.2f", r.Phases[0].DurationMS, r.TotalMS)
	}
}

func TestTimerFoldsParallelPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := tm.Track("file")
			time.Sleep(time.Millisecond)
			done("")
		}()
	}
	wg.Wait()

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Count != 16 {
		t.Fatalf("report = %+v", r)
	}
	// wall time, not the sum of overlapping phases
	if r.TotalMS > r.Phases[0].DurationMS {
		t.Errorf("total %.2f exceeds summed phases %.2f", r.TotalMS, r.Phases[0].DurationMS)
	}
}

func TestEmptyTimerReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty timer report = %+v", r)
	}
}
