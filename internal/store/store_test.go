package store

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "timings.dat"))
}

func TestStatusMissingFile(t *testing.T) {
	s := tempStore(t)

	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != StatusNotStarted {
		t.Errorf("status = %v, want not started", status)
	}
}

func TestStatusHeaderOnly(t *testing.T) {
	s := tempStore(t)
	if err := s.WriteHeader("benchmark timings", "rmax = 10", "trial threads seconds"); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != StatusNotStarted {
		t.Errorf("header-only store should be not started, got %v", status)
	}
}

func TestStatusWithData(t *testing.T) {
	s := tempStore(t)
	if err := s.WriteHeader("timings"); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if err := s.Append(1, 16, 2.5); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != StatusComplete {
		t.Errorf("store with data should be complete, got %v", status)
	}
}

func TestRoundTrip(t *testing.T) {
	s := tempStore(t)
	if err := s.WriteHeader("benchmark timings", "rmax = 10.0000", "     trial    threads      seconds"); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	want := []Sample{
		{TrialIndex: 1, ThreadCount: 16, ElapsedSeconds: 1.2345678},
		{TrialIndex: 2, ThreadCount: 16, ElapsedSeconds: 1.25},
		{TrialIndex: 1, ThreadCount: 8, ElapsedSeconds: 2.75},
		{TrialIndex: 1, ThreadCount: 1, ElapsedSeconds: 19.5},
	}
	for _, smp := range want {
		if err := s.Append(smp.TrialIndex, smp.ThreadCount, smp.ElapsedSeconds); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d samples, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i].TrialIndex != want[i].TrialIndex {
			t.Errorf("sample %d trial = %d, want %d", i, got[i].TrialIndex, want[i].TrialIndex)
		}
		if got[i].ThreadCount != want[i].ThreadCount {
			t.Errorf("sample %d threads = %d, want %d", i, got[i].ThreadCount, want[i].ThreadCount)
		}
		// Elapsed time is stored with 4 significant digits.
		rel := math.Abs(got[i].ElapsedSeconds-want[i].ElapsedSeconds) / want[i].ElapsedSeconds
		if rel > 1e-3 {
			t.Errorf("sample %d elapsed = %v, want %v within formatting precision", i, got[i].ElapsedSeconds, want[i].ElapsedSeconds)
		}
	}
}

func TestRowFormat(t *testing.T) {
	s := tempStore(t)
	if err := s.Append(3, 12, 4.5678912); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}

	want := "         3         12        4.568\n"
	if string(data) != want {
		t.Errorf("row = %q, want %q", string(data), want)
	}
}

func TestLoadAllMalformedRowFatal(t *testing.T) {
	s := tempStore(t)
	content := "# header\n         1          4        1.5\nthis is not a row\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0644); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	_, err := s.LoadAll()
	if err == nil {
		t.Fatal("expected error for malformed row")
	}
	if !errors.Is(err, ErrMalformedRow) {
		t.Errorf("error = %v, want ErrMalformedRow", err)
	}
}

func TestLoadAllRejectsPartialRow(t *testing.T) {
	s := tempStore(t)
	for _, bad := range []string{
		"1 4\n",           // too few fields
		"1 4 1.5 extra\n", // too many fields
		"x 4 1.5\n",       // non-integer trial
		"1 y 1.5\n",       // non-integer threads
		"1 4 z\n",         // non-numeric elapsed
	} {
		if err := os.WriteFile(s.Path(), []byte(bad), 0644); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
		if _, err := s.LoadAll(); !errors.Is(err, ErrMalformedRow) {
			t.Errorf("row %q: error = %v, want ErrMalformedRow", strings.TrimSpace(bad), err)
		}
	}
}

func TestWriteHeaderTruncates(t *testing.T) {
	s := tempStore(t)
	if err := s.Append(1, 2, 3.0); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.WriteHeader("fresh run"); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	samples, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("expected empty store after header rewrite, got %d samples", len(samples))
	}
}
