// Package plot turns raw per-impulse datapoint collections into normalized,
// render-ready series plus the derived display options, and serves them to
// the browser chart widget.
package plot

import (
	"sort"

	"github.com/impulsehq/impulse/pkg/core"
)

// Data is the renderer-agnostic description of one chart's plottable state
type Data struct {
	Series  []core.Series `json:"series"`
	HasData bool          `json:"has_data"`
}

// Transform builds one series per impulse, in impulse order.
//
// The data service does not guarantee point order, so each series is sorted
// by timestamp ascending; the sort is stable, ties keep their incoming
// relative order. Points without a timestamp are unusable and dropped, never
// coerced to zero. HasData reports whether at least one impulse had a
// non-empty raw collection, counted before the null-timestamp filter.
func Transform(impulses []core.Impulse, dataByExpression map[string][]core.Datapoint) Data {
	result := Data{
		Series: make([]core.Series, 0, len(impulses)),
	}

	for _, impulse := range impulses {
		raw := dataByExpression[impulse.Expression]
		if len(raw) > 0 {
			result.HasData = true
		}

		sorted := make([]core.Datapoint, len(raw))
		copy(sorted, raw)
		sort.SliceStable(sorted, func(i, j int) bool {
			return timestampOrZero(sorted[i]) < timestampOrZero(sorted[j])
		})

		points := make([]core.Point, 0, len(sorted))
		for _, datapoint := range sorted {
			if datapoint.Timestamp == nil {
				continue
			}

			dimensions := datapoint.Dimensions
			if dimensions == nil {
				dimensions = map[string]any{}
			}

			points = append(points, core.Point{
				X:          *datapoint.Timestamp,
				Y:          datapoint.Value,
				Dimensions: dimensions,
			})
		}

		result.Series = append(result.Series, core.Series{
			Name:   impulse.Expression,
			Points: points,
			Color:  ResolveColor(impulse),
			Kind:   renderKind(impulse),
		})
	}

	return result
}

func renderKind(impulse core.Impulse) core.RenderKind {
	if impulse.DisplayType == core.DisplayTypeDots {
		return core.RenderKindScatter
	}
	return core.RenderKindLine
}

func timestampOrZero(datapoint core.Datapoint) int64 {
	if datapoint.Timestamp == nil {
		return 0
	}
	return *datapoint.Timestamp
}
