package plot

import (
	"github.com/impulsehq/impulse/pkg/core"
	"github.com/samber/lo"
)

// DefaultSeriesColor is used wherever an impulse has no explicit color.
// ResolveColor is the single source of truth for it; series, legend and
// axis colors must all agree.
const DefaultSeriesColor = "#0066cc"

// ResolveColor returns the impulse color, falling back to the default
func ResolveColor(impulse core.Impulse) string {
	if impulse.Color == "" {
		return DefaultSeriesColor
	}
	return impulse.Color
}

// Stroke holds per-series line styling
type Stroke struct {
	Widths []int  `json:"width"`
	Curve  string `json:"curve"`
}

// Markers holds per-series point styling
type Markers struct {
	Sizes []int `json:"size"`
}

// Options is the derived, renderer-agnostic display configuration for one
// chart: per-series stroke widths, marker sizes and axis colors, in impulse
// order
type Options struct {
	Stroke   Stroke   `json:"stroke"`
	Markers  Markers  `json:"markers"`
	Colors   []string `json:"colors"`
	Duration bool     `json:"duration"`
}

// BuildOptions derives the display options for a chart. Dots draw with no
// stroke and visible markers; lines the other way around.
func BuildOptions(chart core.Chart) Options {
	impulses := chart.ValidImpulses()

	return Options{
		Stroke: Stroke{
			Widths: lo.Map(impulses, func(impulse core.Impulse, _ int) int {
				if impulse.DisplayType == core.DisplayTypeDots {
					return 0
				}
				return 2
			}),
			Curve: "straight",
		},
		Markers: Markers{
			Sizes: lo.Map(impulses, func(impulse core.Impulse, _ int) int {
				if impulse.DisplayType == core.DisplayTypeDots {
					return 4
				}
				return 0
			}),
		},
		Colors: lo.Map(impulses, func(impulse core.Impulse, _ int) string {
			return ResolveColor(impulse)
		}),
		Duration: chart.Duration,
	}
}

// LegendEntry is one legend row
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend builds the legend rows for a chart, one per impulse in display
// order. Duplicate expressions produce duplicate rows.
func Legend(impulses []core.Impulse) []LegendEntry {
	return lo.Map(impulses, func(impulse core.Impulse, _ int) LegendEntry {
		return LegendEntry{
			Label: impulse.Expression,
			Color: ResolveColor(impulse),
		}
	})
}
