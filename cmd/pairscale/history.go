package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past benchmark runs",
	Long: `List the summaries of past completed runs recorded in the history
database, newest first.`,
	RunE: runHistory,
}

func init() {
	addSpecFlags(historyCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd)
	if err != nil {
		return err
	}

	db, err := history.Open(spec.HistoryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tHOST\tCOMMIT\tTHREADS\tTRIALS\tBASELINE\tPEAK")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d..%d\t%d\t%.4gs\t%.2fx @ %d\n",
			r.RecordedAt.Local().Format(time.DateTime),
			r.Hostname,
			r.GitCommit,
			r.MinThreads, r.MaxThreads,
			r.TrialsPerSetting,
			r.BaselineSeconds,
			r.PeakSpeedup, r.PeakThreads,
		)
	}
	return w.Flush()
}
