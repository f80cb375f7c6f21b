// Package binfile reads the radial bin-edge tables consumed by the
// pair-counting workload.
//
// A bin-edge file is a whitespace-delimited two-column numeric table of
// (rmin, rmax) rows. Lines starting with '#' and blank lines are ignored.
// The harness itself only cares about the outermost edge, which is used to
// annotate the sample store header and the generated reports.
package binfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Bin is one radial bin with inner and outer edges.
type Bin struct {
	RMin float64
	RMax float64
}

// Table is an ordered list of radial bins.
type Table struct {
	Bins []Bin
}

// ReadTable parses the bin-edge file at path.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bin-edge file: %w", err)
	}
	defer f.Close()

	table := &Table{}
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("bin-edge file %s line %d: expected 2 columns, got %d", path, lineno, len(fields))
		}

		rmin, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bin-edge file %s line %d: bad rmin %q: %w", path, lineno, fields[0], err)
		}
		rmax, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bin-edge file %s line %d: bad rmax %q: %w", path, lineno, fields[1], err)
		}

		table.Bins = append(table.Bins, Bin{RMin: rmin, RMax: rmax})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bin-edge file: %w", err)
	}

	if len(table.Bins) == 0 {
		return nil, fmt.Errorf("bin-edge file %s contains no bins", path)
	}

	return table, nil
}

// MaxOuterEdge returns the largest rmax in the table.
func (t *Table) MaxOuterEdge() float64 {
	max := t.Bins[0].RMax
	for _, b := range t.Bins[1:] {
		if b.RMax > max {
			max = b.RMax
		}
	}
	return max
}
