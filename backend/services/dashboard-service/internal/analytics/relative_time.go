package analytics

import (
	"fmt"
	"time"
)

// RelativeTime renders how long ago t was, measured from now. Units are
// truncated, never rounded; times in the future read as "Just now".
func RelativeTime(t, now time.Time) string {
	mins := int64(now.Sub(t) / time.Minute)
	hours := mins / 60
	days := hours / 24

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%d min ago", mins)
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
}

func plural(n int64, unit string) string {
	if n > 1 {
		return unit + "s"
	}
	return unit
}
