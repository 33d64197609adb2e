package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/coolsim/internal/cooling"
)

type PlotOptions struct {
	Width, Height int
	Title         string
	TimeLabel     string
	TempLabel     string
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Width:     80,
		Height:    15,
		Title:     "Newton's Law of Cooling",
		TimeLabel: "Time (minutes)",
		TempLabel: "Temperature",
	}
}

// Plot draws the temperature curve and a flat series at the ambient
// temperature. An empty curve renders as an empty string.
func Plot(curve []cooling.Point, ambient float64, opts PlotOptions) string {
	if len(curve) == 0 {
		return ""
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 15
	}

	temps := make([]float64, len(curve))
	ref := make([]float64, len(curve))
	for i, p := range curve {
		temps[i] = p.Temperature
		ref[i] = ambient
	}

	caption := opts.Title
	if opts.TimeLabel != "" {
		caption = fmt.Sprintf("%s  [x: %s %g..%g]", caption, opts.TimeLabel, curve[0].Time, curve[len(curve)-1].Time)
	}

	return asciigraph.PlotMany([][]float64{temps, ref},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.OrangeRed, asciigraph.SteelBlue),
		asciigraph.SeriesLegends(opts.TempLabel, fmt.Sprintf("Ambient (%g)", ambient)),
	)
}
