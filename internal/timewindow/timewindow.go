package timewindow

import "time"

// Duration labels offered by the dashboard selector.
var durations = map[string]int64{
	"15m": 15 * 60,
	"1h":  60 * 60,
	"1d":  24 * 60 * 60,
	"7d":  7 * 24 * 60 * 60,
}

const defaultSeconds = 24 * 60 * 60

// now is swapped out in tests.
var now = time.Now

// Resolve converts a duration label into absolute epoch bounds ending at the
// current time. Unrecognized labels fall back to one day.
func Resolve(label string) (start, end int64) {
	end = now().Unix()
	seconds, ok := durations[label]
	if !ok {
		seconds = defaultSeconds
	}
	return end - seconds, end
}

// Interval picks the insights sampling interval for a time window.
func Interval(start, end int64) int {
	switch d := end - start; {
	case d <= 15*60:
		return 60
	case d <= 60*60:
		return 300
	case d <= 24*60*60:
		return 600
	default:
		return 3600
	}
}
