package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/report"
	"github.com/mbuckley/pairscale/internal/stats"
	"github.com/mbuckley/pairscale/internal/store"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the speedup curve as a PNG chart",
	Long: `Reduce the sample store and render the speedup curve: measured median
speedup with MAD error bars against the ideal linear-scaling diagonal,
on a square chart with both axes fixed to [0, 16].`,
	RunE: runPlot,
}

func init() {
	addSpecFlags(plotCmd)
	plotCmd.Flags().StringP("output", "o", "", "plot file path (default <output_dir>/"+report.PlotFile+")")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd)
	if err != nil {
		return err
	}

	samples, err := store.Open(spec.StorePath).LoadAll()
	if err != nil {
		return err
	}

	red, err := stats.Reduce(samples, spec)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = filepath.Join(spec.OutputDir, report.PlotFile)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := report.EmitPlot(red, path); err != nil {
		return err
	}
	fmt.Printf("Plot written to %s\n", path)

	report.PrintSpeedupGraph(red)
	return nil
}
