package alertpanel

import "strconv"

type durationUnit struct {
	name    string
	seconds int64
}

// Largest unit first. Months and weeks are intentionally not used.
var durationUnits = []durationUnit{
	{"year", 31536000},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// Humanize renders a millisecond duration as its largest non-zero unit, e.g.
// "3 days" or "1 minute". Durations under a second, and negative ones, are
// "just now".
func Humanize(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	remaining := ms / 1000
	for _, unit := range durationUnits {
		n := remaining / unit.seconds
		remaining %= unit.seconds
		if n == 0 {
			continue
		}
		s := strconv.FormatInt(n, 10) + " " + unit.name
		if n > 1 {
			s += "s"
		}
		return s
	}
	return "just now"
}
