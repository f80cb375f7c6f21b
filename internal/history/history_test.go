package history

import (
	"path/filepath"
	"testing"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/stats"
	"github.com/mbuckley/pairscale/internal/sysinfo"
)

func testReduction() *stats.Reduction {
	return &stats.Reduction{
		BaselineSeconds: 12.5,
		ThreadCounts:    []int{1, 2, 4},
		MedianTimes:     []float64{12.5, 6.5, 3.6},
		MADTimes:        []float64{0.1, 0.1, 0.2},
		MedianSpeedups:  []float64{1.0, 1.92, 3.47},
		MADSpeedups:     []float64{0.01, 0.03, 0.2},
	}
}

func TestRecordAndList(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	spec := config.Default()
	spec.MaxThreads = 4
	info := sysinfo.Info{Hostname: "benchbox", GitCommit: "abc1234"}

	if err := db.Record(testReduction(), spec, info); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	runs, err := db.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	r := runs[0]
	if r.Hostname != "benchbox" || r.GitCommit != "abc1234" {
		t.Errorf("host info mismatch: %+v", r)
	}
	if r.BaselineSeconds != 12.5 {
		t.Errorf("baseline = %v, want 12.5", r.BaselineSeconds)
	}
	if r.PeakSpeedup != 3.47 || r.PeakThreads != 4 {
		t.Errorf("peak = (%v, %d), want (3.47, 4)", r.PeakSpeedup, r.PeakThreads)
	}
	if r.RecordedAt.IsZero() {
		t.Error("recorded_at not parsed")
	}
}

func TestListNewestFirst(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	spec := config.Default()
	first := testReduction()
	second := testReduction()
	second.BaselineSeconds = 99.0

	if err := db.Record(first, spec, sysinfo.Info{}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := db.Record(second, spec, sysinfo.Info{}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	runs, err := db.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].BaselineSeconds != 99.0 {
		t.Errorf("newest run should be first, got baseline %v", runs[0].BaselineSeconds)
	}
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := db.Record(testReduction(), config.Default(), sysinfo.Info{}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()

	runs, err := db2.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
