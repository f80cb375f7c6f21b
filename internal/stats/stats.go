// Package stats reduces raw timing samples into robust per-thread-count
// statistics and a speedup curve normalized to the single-thread baseline.
//
// Central tendency and spread use the median and the raw median absolute
// deviation (no normal-consistency scaling), so a single hiccup trial does
// not drag the curve. The reduction is a pure function of the sample set.
package stats

import (
	"errors"
	"fmt"

	mstats "github.com/aclements/go-moremath/stats"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/store"
)

var (
	// ErrBaselineMissing means the sample set has no thread_count==1 rows,
	// so speedup ratios cannot be normalized.
	ErrBaselineMissing = errors.New("no single-thread baseline samples")

	// ErrInsufficientSamples means some required thread count has fewer
	// than 2 samples; MAD is undefined on a single point and all output
	// arrays are positionally aligned, so the whole reduction aborts.
	ErrInsufficientSamples = errors.New("insufficient samples for thread count")
)

// Reduction holds the per-thread-count statistics as parallel slices indexed
// by threadCount - MinThreads.
type Reduction struct {
	// BaselineSeconds is the median elapsed time at thread count 1.
	BaselineSeconds float64

	ThreadCounts   []int
	MedianTimes    []float64
	MADTimes       []float64
	MedianSpeedups []float64
	MADSpeedups    []float64
}

// Len returns the number of thread-count buckets.
func (r *Reduction) Len() int {
	return len(r.ThreadCounts)
}

// PeakSpeedup returns the largest median speedup and its thread count.
func (r *Reduction) PeakSpeedup() (speedup float64, threads int) {
	for i, s := range r.MedianSpeedups {
		if s > speedup {
			speedup = s
			threads = r.ThreadCounts[i]
		}
	}
	return speedup, threads
}

// Reduce partitions samples by thread count and computes median/MAD of the
// raw elapsed time and of the speedup ratio baseline/time for every thread
// count in [spec.MinThreads, spec.MaxThreads].
func Reduce(samples []store.Sample, spec *config.BenchSpec) (*Reduction, error) {
	byThreads := make(map[int][]float64)
	for _, smp := range samples {
		byThreads[smp.ThreadCount] = append(byThreads[smp.ThreadCount], smp.ElapsedSeconds)
	}

	baselineTimes := byThreads[1]
	if len(baselineTimes) == 0 {
		return nil, ErrBaselineMissing
	}
	baseline := median(baselineTimes)

	n := spec.MaxThreads - spec.MinThreads + 1
	red := &Reduction{
		BaselineSeconds: baseline,
		ThreadCounts:    make([]int, 0, n),
		MedianTimes:     make([]float64, 0, n),
		MADTimes:        make([]float64, 0, n),
		MedianSpeedups:  make([]float64, 0, n),
		MADSpeedups:     make([]float64, 0, n),
	}

	for threads := spec.MinThreads; threads <= spec.MaxThreads; threads++ {
		times := byThreads[threads]
		if len(times) <= 1 {
			return nil, fmt.Errorf("%w: %d threads has %d samples, need at least 2", ErrInsufficientSamples, threads, len(times))
		}

		ratios := make([]float64, len(times))
		for i, t := range times {
			ratios[i] = baseline / t
		}

		red.ThreadCounts = append(red.ThreadCounts, threads)
		red.MedianTimes = append(red.MedianTimes, median(times))
		red.MADTimes = append(red.MADTimes, mad(times))
		red.MedianSpeedups = append(red.MedianSpeedups, median(ratios))
		red.MADSpeedups = append(red.MADSpeedups, mad(ratios))
	}

	return red, nil
}

// median computes the conventional even/odd-count median: the middle value
// for odd counts, the mean of the two middle values for even counts.
func median(xs []float64) float64 {
	samp := mstats.Sample{Xs: append([]float64(nil), xs...)}
	samp.Sort()
	return samp.Quantile(0.5)
}

// mad computes the raw median absolute deviation, without the
// normal-consistent scaling constant.
func mad(xs []float64) float64 {
	m := median(xs)
	devs := make([]float64, len(xs))
	for i, x := range xs {
		d := x - m
		if d < 0 {
			d = -d
		}
		devs[i] = d
	}
	return median(devs)
}
