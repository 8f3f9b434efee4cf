package plot

import (
	"fmt"
	"math"
	"strings"
)

// FormatMillis renders a millisecond count as a compact human duration,
// e.g. "1h 2m", "-1m 5s", "0ms". Only non-zero components are emitted, in
// h m s ms order, with no day rollover. A nil or NaN input renders as the
// empty string.
//
// The formatter is display-only: it is applied to axis labels and tooltip
// values of duration-valued charts and never alters the underlying numbers.
func FormatMillis(ms *float64) string {
	if ms == nil || math.IsNaN(*ms) {
		return ""
	}

	prefix := ""
	if *ms < 0 {
		prefix = "-"
	}

	total := int64(math.Abs(*ms))
	millis := total % 1000
	totalSeconds := total / 1000
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60

	parts := make([]string, 0, 4)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	if millis > 0 {
		parts = append(parts, fmt.Sprintf("%dms", millis))
	}

	if len(parts) == 0 {
		return "0ms"
	}

	return prefix + strings.Join(parts, " ")
}
