package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection status of the sample store",
	Long: `Report whether the sample store has been collected and how many samples
it holds. With --watch, follow a collection running in another terminal
and print progress as rows are appended.`,
	RunE: runStatus,
}

func init() {
	addSpecFlags(statusCmd)
	statusCmd.Flags().BoolP("watch", "w", false, "follow collection progress until the sweep completes")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(cmd)
	if err != nil {
		return err
	}

	st := store.Open(spec.StorePath)
	if err := printStatus(st, spec); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchStore(cmd.Context(), st, spec)
	}
	return nil
}

func printStatus(st *store.Store, spec *config.BenchSpec) error {
	status, err := st.Status()
	if err != nil {
		return err
	}

	fmt.Printf("store: %s\n", st.Path())
	fmt.Printf("status: %s\n", status)

	if status == store.StatusComplete {
		samples, err := st.LoadAll()
		if err != nil {
			return err
		}
		fmt.Printf("samples: %d of %d expected\n", len(samples), spec.TotalInvocations())
	}
	return nil
}

// watchStore follows the sample log until it holds the full sweep or the
// context is canceled. The store directory is watched rather than the file
// itself so a collection that creates the file after the watch starts is
// still picked up.
func watchStore(ctx context.Context, st *store.Store, spec *config.BenchSpec) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(st.Path())
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	total := spec.TotalInvocations()
	lastCount := -1

	report := func() (done bool, err error) {
		status, err := st.Status()
		if err != nil {
			return false, err
		}
		if status == store.StatusNotStarted {
			return false, nil
		}
		samples, err := st.LoadAll()
		if err != nil {
			// A row may be mid-write; wait for the next event.
			return false, nil
		}
		if len(samples) != lastCount {
			lastCount = len(samples)
			fmt.Printf("collected %d/%d samples\n", len(samples), total)
		}
		return len(samples) >= total, nil
	}

	if done, err := report(); err != nil || done {
		return err
	}

	target := filepath.Clean(st.Path())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if done, err := report(); err != nil || done {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}
