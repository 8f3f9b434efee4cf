package core

// Datapoint is one timestamped, dimensioned numeric observation as returned
// by the metric data service. The timestamp is nullable on the wire; points
// without one are unusable and must be dropped, never defaulted to zero.
type Datapoint struct {
	Timestamp  *int64         `json:"timestamp"`
	Value      float64        `json:"value"`
	Dimensions map[string]any `json:"dimensions,omitempty"`
}

// RenderKind tells the chart widget how to draw a series
type RenderKind string

const (
	RenderKindLine    RenderKind = "line"
	RenderKindScatter RenderKind = "scatter"
)

// Point is a single plot-ready observation
type Point struct {
	X          int64          `json:"x"`
	Y          float64        `json:"y"`
	Dimensions map[string]any `json:"dimensions"`
}

// Series is the normalized, sorted, render-ready form of an impulse's
// datapoints. It is always rebuilt from a chart and freshly fetched
// datapoints, never persisted.
type Series struct {
	Name   string     `json:"name"`
	Points []Point    `json:"data"`
	Color  string     `json:"color"`
	Kind   RenderKind `json:"type"`
}
