package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/coolsim/internal/cooling"
)

type SVGOptions struct {
	Width, Height int
	Title         string
	XLabel        string
	YLabel        string
	Stroke        string
	AmbientStroke string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:         640,
		Height:        400,
		Title:         "Newton's Law of Cooling",
		XLabel:        "Time (minutes)",
		YLabel:        "Temperature",
		Stroke:        "#ff6b35",
		AmbientStroke: "#4a90d9",
	}
}

const svgMargin = 50

// CurveToSVG renders the sampled curve with a dashed horizontal line at the
// ambient temperature. Fewer than two points yields an empty string.
func CurveToSVG(curve []cooling.Point, ambient float64, opts SVGOptions) string {
	if len(curve) < 2 {
		return ""
	}
	def := DefaultSVGOptions()
	if opts.Width <= 2*svgMargin {
		opts.Width = def.Width
	}
	if opts.Height <= 2*svgMargin {
		opts.Height = def.Height
	}
	if opts.Stroke == "" {
		opts.Stroke = def.Stroke
	}
	if opts.AmbientStroke == "" {
		opts.AmbientStroke = def.AmbientStroke
	}

	minX, maxX := curve[0].Time, curve[0].Time
	minY, maxY := ambient, ambient
	for _, p := range curve {
		minX = min(minX, p.Time)
		maxX = max(maxX, p.Time)
		minY = min(minY, p.Temperature)
		maxY = max(maxY, p.Temperature)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	plotW := float64(opts.Width - 2*svgMargin)
	plotH := float64(opts.Height - 2*svgMargin)
	px := func(x float64) float64 { return svgMargin + (x-minX)/rangeX*plotW }
	py := func(y float64) float64 { return svgMargin + plotH - (y-minY)/rangeY*plotH }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, opts.Width, opts.Height, opts.Width, opts.Height))

	// axes
	sb.WriteString(fmt.Sprintf(`<g stroke="#333333" stroke-width="1">
<line x1="%d" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%d" y1="%d" x2="%d" y2="%.1f"/>
</g>
`, svgMargin, svgMargin+plotH, svgMargin+plotW, svgMargin+plotH,
		svgMargin, svgMargin, svgMargin, svgMargin+plotH))

	ay := py(ambient)
	sb.WriteString(fmt.Sprintf(`<line class="ambient" x1="%d" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1" stroke-dasharray="6,4"/>
`, svgMargin, ay, svgMargin+plotW, ay, opts.AmbientStroke))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="11" text-anchor="end" fill="%s">Ambient (%g)</text>
`, svgMargin+plotW, ay-4, opts.AmbientStroke, ambient))

	sb.WriteString(fmt.Sprintf(`<path class="curve" fill="none" stroke="%s" stroke-width="2" d="M`, opts.Stroke))
	for i, p := range curve {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(p.Time), py(p.Temperature)))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(p.Time), py(p.Temperature)))
		}
	}
	sb.WriteString("\"/>\n")

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%g</text>
<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%g</text>
`, px(minX), svgMargin+plotH+15, minX, px(maxX), svgMargin+plotH+15, maxX))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="16" text-anchor="middle">%s</text>
`, opts.Width/2, svgMargin/2, html.EscapeString(opts.Title)))
	}
	if opts.XLabel != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12" text-anchor="middle">%s</text>
`, opts.Width/2, opts.Height-10, html.EscapeString(opts.XLabel)))
	}
	if opts.YLabel != "" {
		sb.WriteString(fmt.Sprintf(`<text x="15" y="%d" font-size="12" text-anchor="middle" transform="rotate(-90 15 %d)">%s</text>
`, opts.Height/2, opts.Height/2, html.EscapeString(opts.YLabel)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
