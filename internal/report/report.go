// Package report turns a reduced benchmark into its user-facing outputs:
// the speedup plot, terminal summary and graphs, and CSV/JSON/markdown
// exports for external analysis.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/stats"
	"github.com/mbuckley/pairscale/internal/sysinfo"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// PlotFile is the name of the rendered speedup chart inside the output dir.
const PlotFile = "speedup.png"

// Generate writes all report outputs into outputDir and prints the terminal
// summary and graphs.
func Generate(red *stats.Reduction, spec *config.BenchSpec, info sysinfo.Info, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := WriteCSV(red, filepath.Join(outputDir, "results.csv")); err != nil {
		return err
	}
	if err := WriteJSON(red, spec, info, filepath.Join(outputDir, "results.json")); err != nil {
		return err
	}
	if err := WriteMarkdown(red, spec, info, filepath.Join(outputDir, "REPORT.md")); err != nil {
		return err
	}
	if err := EmitPlot(red, filepath.Join(outputDir, PlotFile)); err != nil {
		return err
	}

	PrintSummary(red)
	PrintSpeedupGraph(red)
	PrintScalingEfficiency(red)

	fmt.Printf("Results written to %s (results.csv, results.json, REPORT.md, %s)\n", outputDir, PlotFile)
	return nil
}

// WriteCSV exports the per-thread-count statistics for external tooling.
func WriteCSV(red *stats.Reduction, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"threads", "median_time_s", "mad_time_s", "median_speedup", "mad_speedup"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range red.ThreadCounts {
		row := []string{
			strconv.Itoa(red.ThreadCounts[i]),
			fmt.Sprintf("%.6g", red.MedianTimes[i]),
			fmt.Sprintf("%.6g", red.MADTimes[i]),
			fmt.Sprintf("%.6g", red.MedianSpeedups[i]),
			fmt.Sprintf("%.6g", red.MADSpeedups[i]),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// jsonReport is the complete machine-readable result.
type jsonReport struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Spec            *config.BenchSpec `json:"spec"`
	SystemInfo      sysinfo.Info      `json:"system_info"`
	BaselineSeconds float64           `json:"baseline_seconds"`
	ThreadCounts    []int             `json:"thread_counts"`
	MedianTimes     []float64         `json:"median_times_s"`
	MADTimes        []float64         `json:"mad_times_s"`
	MedianSpeedups  []float64         `json:"median_speedups"`
	MADSpeedups     []float64         `json:"mad_speedups"`
}

// WriteJSON exports the reduction plus run metadata.
func WriteJSON(red *stats.Reduction, spec *config.BenchSpec, info sysinfo.Info, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{
		GeneratedAt:     time.Now().UTC(),
		Spec:            spec,
		SystemInfo:      info,
		BaselineSeconds: red.BaselineSeconds,
		ThreadCounts:    red.ThreadCounts,
		MedianTimes:     red.MedianTimes,
		MADTimes:        red.MADTimes,
		MedianSpeedups:  red.MedianSpeedups,
		MADSpeedups:     red.MADSpeedups,
	}); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// WriteMarkdown generates the human-readable report with result tables.
func WriteMarkdown(red *stats.Reduction, spec *config.BenchSpec, info sysinfo.Info, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Pair-counting thread scaling\n\n")
	fmt.Fprintf(f, "**Generated:** %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintf(f, "## System\n\n")
	fmt.Fprintf(f, "- **OS:** %s/%s\n", info.OS, info.Arch)
	fmt.Fprintf(f, "- **CPUs:** %d\n", info.CPUs)
	fmt.Fprintf(f, "- **Go:** %s\n", info.GoVersion)
	if info.Hostname != "" {
		fmt.Fprintf(f, "- **Host:** %s\n", info.Hostname)
	}
	if info.GitCommit != "" {
		fmt.Fprintf(f, "- **Commit:** %s\n", info.GitCommit)
	}
	fmt.Fprintf(f, "\n")

	fmt.Fprintf(f, "## Configuration\n\n")
	fmt.Fprintf(f, "- **Command:** `%s`\n", spec.CommandTemplate)
	fmt.Fprintf(f, "- **Bin edges:** %s\n", spec.BinfilePath)
	fmt.Fprintf(f, "- **Threads:** %d..%d\n", spec.MinThreads, spec.MaxThreads)
	fmt.Fprintf(f, "- **Trials per setting:** %d\n", spec.TrialsPerSetting)
	fmt.Fprintf(f, "- **Baseline:** %.4g s median at 1 thread\n", red.BaselineSeconds)
	fmt.Fprintf(f, "\n")

	fmt.Fprintf(f, "## Results\n\n")
	fmt.Fprintf(f, "| Threads | Median time (s) | MAD (s) | Speedup | Speedup MAD |\n")
	fmt.Fprintf(f, "|---------|-----------------|---------|---------|-------------|\n")
	for i, threads := range red.ThreadCounts {
		fmt.Fprintf(f, "| %d | %.4g | %.4g | %.3f | %.3f |\n",
			threads, red.MedianTimes[i], red.MADTimes[i], red.MedianSpeedups[i], red.MADSpeedups[i])
	}
	fmt.Fprintf(f, "\n")

	fmt.Fprintf(f, "## Methodology\n\n")
	fmt.Fprintf(f, "Each thread count is measured %d times with the workload invoked\n", spec.TrialsPerSetting)
	fmt.Fprintf(f, "sequentially, highest thread count first. Central tendency and spread\n")
	fmt.Fprintf(f, "are the median and the raw median absolute deviation, so single slow\n")
	fmt.Fprintf(f, "trials do not skew the curve. Speedup is the single-thread median\n")
	fmt.Fprintf(f, "divided by each trial's elapsed time.\n\n")
	fmt.Fprintf(f, "See `results.csv` for the reduced arrays and `%s` for the chart.\n", PlotFile)

	return nil
}

// PrintSummary prints the per-thread-count table to the terminal.
func PrintSummary(red *stats.Reduction) {
	fmt.Printf("\n%s\n", headingStyle.Render("Benchmark summary"))
	fmt.Printf("baseline: %.4g s (median at 1 thread)\n\n", red.BaselineSeconds)

	fmt.Printf("%-10s %-16s %-12s %-10s %-12s\n", "threads", "median time (s)", "MAD (s)", "speedup", "speedup MAD")
	for i, threads := range red.ThreadCounts {
		fmt.Printf("%-10d %-16.4g %-12.4g %-10.3f %-12.3f\n",
			threads, red.MedianTimes[i], red.MADTimes[i], red.MedianSpeedups[i], red.MADSpeedups[i])
	}

	peakSpeedup, peakThreads := red.PeakSpeedup()
	fmt.Printf("\npeak speedup: %.2fx at %d threads\n", peakSpeedup, peakThreads)
}
