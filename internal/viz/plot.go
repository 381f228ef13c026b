package viz

import "github.com/guptarohit/asciigraph"

// Plot renders a time series as an ASCII graph with a caption.
func Plot(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
