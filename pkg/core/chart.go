package core

import (
	"strings"
	"time"
)

// DisplayType selects how an impulse is drawn on the chart
type DisplayType string

const (
	DisplayTypeLine DisplayType = "line"
	DisplayTypeDots DisplayType = "dots"
)

// Impulse is one metric series inside a chart, plus its display styling.
// Identity is positional within the chart; the expression is the lookup
// key into the data service.
type Impulse struct {
	Expression  string      `json:"impulse_expression"`
	Color       string      `json:"color,omitempty"`
	DisplayType DisplayType `json:"displayType,omitempty"`
}

// IsValid reports whether the impulse has a usable expression
func (i Impulse) IsValid() bool {
	return strings.TrimSpace(i.Expression) != ""
}

// Chart is a named, persisted collection of impulses to visualize together.
// ID is immutable once created; impulse order is display order and is
// preserved across persistence round-trips.
type Chart struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Impulses    []Impulse `json:"impulses"`
	Duration    bool      `json:"duration,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
	UpdatedAt   int64     `json:"updatedAt"`
}

// ValidImpulses returns the chart impulses with blank expressions removed,
// keeping the original order
func (c Chart) ValidImpulses() []Impulse {
	impulses := make([]Impulse, 0, len(c.Impulses))
	for _, impulse := range c.Impulses {
		if impulse.IsValid() {
			impulses = append(impulses, impulse)
		}
	}
	return impulses
}

// Touch refreshes the chart update timestamp
func (c *Chart) Touch(now time.Time) {
	c.UpdatedAt = now.UnixMilli()
}
