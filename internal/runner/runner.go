// Package runner drives the thread-count sweep: it repeatedly invokes the
// external pair-counting workload, times each invocation, and appends the
// raw samples to the store.
//
// The harness itself is strictly sequential. Concurrency is the property
// being measured, so trials never overlap; each invocation is a blocking
// call with no timeout.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mbuckley/pairscale/internal/binfile"
	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/store"
)

// Invoker runs one workload command line to completion. Implementations
// must block until the process exits; the runner measures wall-clock time
// around the call.
type Invoker interface {
	Invoke(ctx context.Context, argv []string) error
}

// ExecInvoker runs the workload via os/exec with stdout and stderr
// discarded. Only the elapsed time is observed, never the output.
type ExecInvoker struct{}

// Invoke runs argv synchronously.
func (ExecInvoker) Invoke(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.Run()
}

// WorkloadError reports a failed workload invocation in strict mode.
type WorkloadError struct {
	Argv     []string
	ExitCode int
	Err      error
}

func (e *WorkloadError) Error() string {
	return fmt.Sprintf("workload %q failed with exit code %d: %v", strings.Join(e.Argv, " "), e.ExitCode, e.Err)
}

func (e *WorkloadError) Unwrap() error {
	return e.Err
}

// Runner executes the sweep for one benchmark spec against one store.
type Runner struct {
	spec    *config.BenchSpec
	store   *store.Store
	invoker Invoker
}

// New returns a runner using the real process invoker.
func New(spec *config.BenchSpec, st *store.Store) *Runner {
	return NewWithInvoker(spec, st, ExecInvoker{})
}

// NewWithInvoker returns a runner with a custom workload invoker.
func NewWithInvoker(spec *config.BenchSpec, st *store.Store, inv Invoker) *Runner {
	return &Runner{spec: spec, store: st, invoker: inv}
}

// Run collects the full sample set. If the store already holds data the call
// returns immediately without invoking the workload: collection is
// all-or-nothing, never merged or extended.
//
// Thread counts are swept in descending order so that the highest-contention
// configuration runs first, while the machine is still cold and any resource
// exhaustion surfaces early. Within each thread count, trials run 1..N.
func (r *Runner) Run(ctx context.Context) error {
	status, err := r.store.Status()
	if err != nil {
		return err
	}
	if status == store.StatusComplete {
		slog.Info("sample store already collected, skipping sweep", "store", r.store.Path())
		return nil
	}

	table, err := binfile.ReadTable(r.spec.BinfilePath)
	if err != nil {
		return err
	}

	if err := r.writeHeader(table.MaxOuterEdge()); err != nil {
		return err
	}

	total := r.spec.TotalInvocations()
	done := 0
	sweepStart := time.Now()
	fmt.Printf("Collecting %d samples (%d thread counts x %d trials)\n", total, r.spec.ThreadSettings(), r.spec.TrialsPerSetting)

	for threads := r.spec.MaxThreads; threads >= r.spec.MinThreads; threads-- {
		for trial := 1; trial <= r.spec.TrialsPerSetting; trial++ {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("sweep interrupted: %w", err)
			}

			elapsed, err := r.invokeOnce(ctx, threads)
			if err != nil {
				return err
			}

			if err := r.store.Append(trial, threads, elapsed); err != nil {
				return err
			}

			done++
			fmt.Printf("  [%3d/%d] threads=%-3d trial %d/%d: %.3fs\n", done, total, threads, trial, r.spec.TrialsPerSetting, elapsed)
		}
	}

	fmt.Printf("Collection complete in %v: %s\n", time.Since(sweepStart).Round(time.Millisecond), r.store.Path())
	return nil
}

func (r *Runner) writeHeader(rmax float64) error {
	return r.store.WriteHeader(
		"pairscale timing samples",
		fmt.Sprintf("command: %s", r.spec.CommandTemplate),
		fmt.Sprintf("binfile: %s", r.spec.BinfilePath),
		fmt.Sprintf("rmax = %.4f", rmax),
		fmt.Sprintf("%8s %10s %12s", "trial", "threads", "seconds"),
	)
}

// invokeOnce runs the workload at the given thread count and returns the
// wall-clock elapsed seconds. In lenient mode a failed invocation is still
// timed and recorded; strict mode turns it into a fatal WorkloadError.
func (r *Runner) invokeOnce(ctx context.Context, threads int) (float64, error) {
	argv := ExpandTemplate(r.spec.CommandTemplate, r.spec.BinfilePath, threads)

	start := time.Now()
	err := r.invoker.Invoke(ctx, argv)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if r.spec.StrictWorkload {
			return 0, &WorkloadError{Argv: argv, ExitCode: exitCode(err), Err: err}
		}
		slog.Warn("workload invocation failed, recording elapsed time anyway",
			"threads", threads, "elapsed_s", elapsed, "err", err)
	}
	return elapsed, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ExpandTemplate splits template on whitespace and substitutes the
// {binfile} and {threads} placeholders in each token, so placeholders may
// appear embedded in flags like --bins={binfile}.
func ExpandTemplate(template, binfilePath string, threads int) []string {
	tokens := strings.Fields(template)
	argv := make([]string, len(tokens))
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, "{binfile}", binfilePath)
		tok = strings.ReplaceAll(tok, "{threads}", strconv.Itoa(threads))
		argv[i] = tok
	}
	return argv
}
