package report

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mbuckley/pairscale/internal/stats"
)

// PrintSpeedupGraph prints an ASCII bar chart of median speedup per thread
// count, scaled to the terminal width.
func PrintSpeedupGraph(red *stats.Reduction) {
	fmt.Printf("\n")
	fmt.Printf("Speedup vs thread count\n")
	fmt.Printf("%s\n", strings.Repeat("-", 70))

	maxSpeedup := 0.0
	for _, s := range red.MedianSpeedups {
		if s > maxSpeedup {
			maxSpeedup = s
		}
	}
	if maxSpeedup <= 0 {
		fmt.Printf("(no positive speedups to plot)\n")
		return
	}

	graphWidth := terminalWidth() - 30
	if graphWidth < 20 {
		graphWidth = 20
	}

	for i, threads := range red.ThreadCounts {
		bar := int(red.MedianSpeedups[i] / maxSpeedup * float64(graphWidth))
		fmt.Printf("%3d threads: %s %.2fx ± %.2f\n",
			threads, strings.Repeat("█", bar), red.MedianSpeedups[i], red.MADSpeedups[i])
	}
	fmt.Printf("\n")
}

// PrintScalingEfficiency prints how close each thread count gets to ideal
// linear scaling.
func PrintScalingEfficiency(red *stats.Reduction) {
	fmt.Printf("Scaling efficiency (measured / ideal)\n")
	fmt.Printf("%s\n", strings.Repeat("-", 70))

	for i, threads := range red.ThreadCounts {
		efficiency := red.MedianSpeedups[i] / float64(threads) * 100
		fmt.Printf("%3d threads: %.1f%%\n", threads, efficiency)
	}
	fmt.Printf("\n")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
