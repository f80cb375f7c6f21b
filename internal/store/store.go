// Package store persists raw timing samples in an append-only text log.
//
// The log is the harness's unit of resumability: once it contains at least
// one data row, collection is considered complete and is skipped entirely on
// re-runs. A partially written log (killed sweep) is still well-formed row by
// row because every append is flushed to disk before returning; the operator
// restarts from scratch by deleting the file.
//
// Format: free-form '# '-prefixed comment header followed by fixed-width data
// rows of (trial index, thread count, elapsed seconds).
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedRow reports a data row that does not parse as the expected
// 3-field record. The store is either well-formed or the run is aborted;
// rows are never silently skipped.
var ErrMalformedRow = errors.New("malformed sample row")

// CollectionStatus reports whether the store already holds collected data.
type CollectionStatus int

const (
	// StatusNotStarted means the log is absent or holds no data rows.
	StatusNotStarted CollectionStatus = iota
	// StatusComplete means the log holds at least one data row and
	// collection must not run again.
	StatusComplete
)

func (s CollectionStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Sample is one timing measurement, immutable once written.
type Sample struct {
	TrialIndex     int
	ThreadCount    int
	ElapsedSeconds float64
}

// Store is a handle to the sample log at a fixed path. It is passed
// explicitly to the runner and the reducer; there is no ambient global path.
type Store struct {
	path string
}

// Open returns a store handle for path. The file is not created until the
// header or the first sample is written.
func Open(path string) *Store {
	return &Store{path: path}
}

// Path returns the log file location.
func (s *Store) Path() string {
	return s.path
}

// Status inspects the log. A file containing only comments or blank lines
// counts as not started, so a sweep killed right after the header is written
// restarts cleanly.
func (s *Store) Status() (CollectionStatus, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return StatusNotStarted, nil
	}
	if err != nil {
		return StatusNotStarted, fmt.Errorf("failed to inspect sample store: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return StatusComplete, nil
	}
	if err := scanner.Err(); err != nil {
		return StatusNotStarted, fmt.Errorf("failed to inspect sample store: %w", err)
	}
	return StatusNotStarted, nil
}

// WriteHeader truncates the log and writes a comment block. Each line is
// prefixed with "# "; callers pass free-form annotation lines followed by
// the column-layout line.
func (s *Store) WriteHeader(lines ...string) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create sample store: %w", err)
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintf(f, "# %s\n", line); err != nil {
			return fmt.Errorf("failed to write sample store header: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync sample store: %w", err)
	}
	return nil
}

// Append writes one fixed-width data row and flushes it to disk before
// returning, so a sweep killed mid-run leaves every completed trial on disk.
func (s *Store) Append(trialIndex, threadCount int, elapsedSeconds float64) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open sample store for append: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%10d %10d %12.4g\n", trialIndex, threadCount, elapsedSeconds); err != nil {
		return fmt.Errorf("failed to append sample: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync sample store: %w", err)
	}
	return nil
}

// LoadAll parses every data row in insertion order. Comment and blank lines
// are skipped; any other line that fails to parse is fatal.
func (s *Store) LoadAll() ([]Sample, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample store: %w", err)
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sample, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedRow, s.path, lineno, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sample store: %w", err)
	}

	return samples, nil
}

func parseRow(line string) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Sample{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	trial, err := strconv.Atoi(fields[0])
	if err != nil {
		return Sample{}, fmt.Errorf("bad trial index %q: %v", fields[0], err)
	}
	threads, err := strconv.Atoi(fields[1])
	if err != nil {
		return Sample{}, fmt.Errorf("bad thread count %q: %v", fields[1], err)
	}
	elapsed, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Sample{}, fmt.Errorf("bad elapsed seconds %q: %v", fields[2], err)
	}

	return Sample{TrialIndex: trial, ThreadCount: threads, ElapsedSeconds: elapsed}, nil
}
