package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mbuckley/pairscale/internal/stats"
)

// axisMax is the fixed upper bound of both plot axes. The sweep tops out at
// 16 threads, so ideal speedup never leaves the frame.
const axisMax = 16

// speedupData adapts a reduction to the plotter interfaces: XY points for
// the measured median speedup plus symmetric Y error bars from the MAD.
type speedupData struct {
	plotter.XYs
	plotter.YErrors
}

func newSpeedupData(red *stats.Reduction) speedupData {
	n := red.Len()
	data := speedupData{
		XYs:     make(plotter.XYs, n),
		YErrors: make(plotter.YErrors, n),
	}
	for i := 0; i < n; i++ {
		data.XYs[i].X = float64(red.ThreadCounts[i])
		data.XYs[i].Y = red.MedianSpeedups[i]
		data.YErrors[i].Low = red.MADSpeedups[i]
		data.YErrors[i].High = red.MADSpeedups[i]
	}
	return data
}

// EmitPlot renders the speedup curve to a square PNG at path: an error-bar
// series for the measured speedup and a dashed diagonal for ideal linear
// scaling, both axes fixed to [0, 16].
func EmitPlot(red *stats.Reduction, path string) error {
	p := plot.New()
	p.Title.Text = "Pair counting speedup"
	p.X.Label.Text = "threads"
	p.Y.Label.Text = "speedup"

	data := newSpeedupData(red)

	scatter, err := plotter.NewScatter(data)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}

	bars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return fmt.Errorf("failed to build error bars: %w", err)
	}

	ideal := plotter.NewFunction(func(x float64) float64 { return x })
	ideal.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(ideal, bars, scatter)
	p.Legend.Add("measured", scatter)
	p.Legend.Add("ideal", ideal)
	p.Legend.Top = true

	p.X.Min, p.X.Max = 0, axisMax
	p.Y.Min, p.Y.Max = 0, axisMax

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
