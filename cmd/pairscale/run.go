package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/history"
	"github.com/mbuckley/pairscale/internal/report"
	"github.com/mbuckley/pairscale/internal/runner"
	"github.com/mbuckley/pairscale/internal/stats"
	"github.com/mbuckley/pairscale/internal/store"
	"github.com/mbuckley/pairscale/internal/sysinfo"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect, reduce, and report in one pass",
	Long: `Run the full pipeline: collect timing samples (skipped if the store
already holds data), reduce them to median/MAD speedup statistics,
generate the reports and the speedup plot, and record the run summary
in the history database.`,
	RunE: runAll,
}

func init() {
	addSpecFlags(runCmd)
	runCmd.Flags().Bool("no-history", false, "skip recording the run in the history database")
	rootCmd.AddCommand(runCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd)
	if err != nil {
		return err
	}

	st := store.Open(spec.StorePath)
	if err := runner.New(spec, st).Run(cmd.Context()); err != nil {
		return err
	}

	samples, err := st.LoadAll()
	if err != nil {
		return err
	}

	red, err := stats.Reduce(samples, spec)
	if err != nil {
		return err
	}

	info := sysinfo.Capture()
	if err := report.Generate(red, spec, info, spec.OutputDir); err != nil {
		return err
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		if err := recordHistory(red, spec, info); err != nil {
			// History is bookkeeping, not a result; a failure here must
			// not discard an otherwise completed benchmark.
			slog.Warn("failed to record run history", "err", err)
		}
	}

	return nil
}

func recordHistory(red *stats.Reduction, spec *config.BenchSpec, info sysinfo.Info) error {
	db, err := history.Open(spec.HistoryPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Record(red, spec, info)
}
