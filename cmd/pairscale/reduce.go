package main

import (
	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/report"
	"github.com/mbuckley/pairscale/internal/stats"
	"github.com/mbuckley/pairscale/internal/store"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Compute median/MAD statistics and the speedup curve",
	Long: `Load every sample from the store, group by thread count, and compute
the median and median absolute deviation of the raw times and of the
speedup relative to the single-thread baseline.

Reduction is all-or-nothing: a missing baseline or a thread count with
fewer than two samples aborts without producing any statistics.`,
	RunE: runReduce,
}

func init() {
	addSpecFlags(reduceCmd)
	reduceCmd.Flags().Bool("graph", false, "also print the ASCII speedup graph")
	rootCmd.AddCommand(reduceCmd)
}

func runReduce(cmd *cobra.Command, args []string) error {
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

	report.PrintSummary(red)
	if graph, _ := cmd.Flags().GetBool("graph"); graph {
		report.PrintSpeedupGraph(red)
		report.PrintScalingEfficiency(red)
	}
	return nil
}
