package ladder

import (
	"fmt"
	"strings"
)

// Variant selects how negative durations are rendered.
type Variant string

const (
	// Daily renders the magnitude, so formatting is symmetric around zero.
	Daily Variant = "daily"
	// Night renders a negative value as time past midnight.
	Night Variant = "night"
)

const lessThanMinute = "less than 1 minute"

// Format renders seconds as "<H> hour(s) <M> minute(s)", dropping zero
// components. Minutes are truncated, not rounded. Negative input depends on
// the variant; any other variant renders it as under a minute.
func Format(seconds int64, variant Variant) string {
	hours := floorDiv(seconds, secondsPerHour)
	minutes := floorMod(seconds, secondsPerHour) / secondsPerMinute

	var parts []string

	switch {
	case seconds > 0:
		parts = appendUnits(parts, hours, minutes, "hour(s)", "minute(s)")
	case seconds < 0 && variant == Daily:
		abs := -seconds
		parts = appendUnits(parts, abs/secondsPerHour, (abs%secondsPerHour)/secondsPerMinute, "hour(s)", "minute(s)")
	case seconds < 0 && variant == Night:
		// Night units carry their own spelling.
		parts = appendUnits(parts, hours+24, minutes, "hours(s)", "minutes(s)")
	}

	if len(parts) == 0 {
		return lessThanMinute
	}

	return strings.Join(parts, " ")
}

func appendUnits(parts []string, hours, minutes int64, hourUnit, minuteUnit string) []string {
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, hourUnit))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, minuteUnit))
	}

	return parts
}
