// pairscale measures how an external pair-counting program scales with
// worker threads: it sweeps thread counts, times repeated invocations,
// reduces the samples into robust speedup statistics, and plots the curve.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/logging"
)

var (
	flagConfig  string
	flagLogFile string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pairscale",
	Short: "Benchmark thread scaling of a pair-counting workload",
	Long: `pairscale drives repeated timed invocations of an external pair-counting
program across a sweep of thread counts, persists the raw timings in an
append-only log, and reduces them into median/MAD speedup statistics and
a speedup plot.

Collection is idempotent: once the sample log holds data, re-running the
sweep is a no-op. Delete the log to measure from scratch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(flagLogFile, flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write diagnostics to this rotated log file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// loadSpec reads the benchmark spec and applies any sweep-override flags the
// command registered via addSpecFlags.
func loadSpec(cmd *cobra.Command) (*config.BenchSpec, error) {
	spec, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		spec.StorePath, _ = flags.GetString("store")
	}
	if flags.Changed("min-threads") {
		spec.MinThreads, _ = flags.GetInt("min-threads")
	}
	if flags.Changed("max-threads") {
		spec.MaxThreads, _ = flags.GetInt("max-threads")
	}
	if flags.Changed("trials") {
		spec.TrialsPerSetting, _ = flags.GetInt("trials")
	}
	if flags.Changed("strict") {
		spec.StrictWorkload, _ = flags.GetBool("strict")
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// addSpecFlags registers the per-command sweep overrides consumed by
// loadSpec.
func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "sample store path override")
	cmd.Flags().Int("min-threads", 0, "lowest thread count in the sweep")
	cmd.Flags().Int("max-threads", 0, "highest thread count in the sweep")
	cmd.Flags().Int("trials", 0, "trials per thread count")
	cmd.Flags().Bool("strict", false, "treat a failed workload invocation as fatal")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
