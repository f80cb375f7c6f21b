package main

import (
	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/runner"
	"github.com/mbuckley/pairscale/internal/store"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the thread-count sweep and record raw timings",
	Long: `Run the workload for every thread count from max-threads down to
min-threads, timing each of the configured trials and appending the results
to the sample store.

Thread counts are swept in descending order so the highest-contention
configuration runs first on a cold machine. If the store already contains
data, collection is skipped entirely; delete the store file to re-measure.`,
	RunE: runCollect,
}

func init() {
	addSpecFlags(collectCmd)
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd)
	if err != nil {
		return err
	}

	st := store.Open(spec.StorePath)
	return runner.New(spec, st).Run(cmd.Context())
}
