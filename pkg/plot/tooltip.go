package plot

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	tooltipTimeLayout = "Jan 02, 15:04:05"
	tooltipMissing    = "N/A"
	tooltipNoDims     = "(no dimensions)"
)

// Tooltip is the display payload for one hovered point
type Tooltip struct {
	Series     string   `json:"series"`
	Time       string   `json:"time"`
	Value      string   `json:"value"`
	Dimensions []string `json:"dimensions"`
}

// RenderTooltip formats a resolved point for display. Dimension keys are
// listed in lexicographic order so the output is deterministic regardless
// of map insertion order; an empty dimension set renders as a placeholder.
// When asDuration is set the value goes through the duration formatter.
func RenderTooltip(series string, x *int64, y *float64, dimensions map[string]any, asDuration bool) Tooltip {
	tooltip := Tooltip{
		Series: series,
		Time:   tooltipMissing,
		Value:  tooltipMissing,
	}

	if x != nil {
		tooltip.Time = time.UnixMilli(*x).Format(tooltipTimeLayout)
	}

	if y != nil {
		if asDuration {
			tooltip.Value = FormatMillis(y)
		} else {
			tooltip.Value = strconv.FormatFloat(*y, 'f', -1, 64)
		}
	}

	if len(dimensions) == 0 {
		tooltip.Dimensions = []string{tooltipNoDims}
		return tooltip
	}

	keys := make([]string, 0, len(dimensions))
	for key := range dimensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		tooltip.Dimensions = append(tooltip.Dimensions, fmt.Sprintf("%s: %v", key, dimensions[key]))
	}

	return tooltip
}
