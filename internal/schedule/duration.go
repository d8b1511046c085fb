package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultDurationMins is used whenever a duration string carries no
	// usable signal.
	DefaultDurationMins = 120
	nightActivityMins   = 180
)

var digitsRe = regexp.MustCompile(`\d+`)

// ParseDuration converts a free-text duration ("2-3 hours", "45 minutes",
// "Night Activity") into minutes. It is total: malformed or empty input
// yields DefaultDurationMins.
func ParseDuration(s string) int {
	s = strings.ToLower(s)
	if strings.Contains(s, "night activity") {
		return nightActivityMins
	}

	matches := digitsRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return DefaultDurationMins
	}

	sum := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			return DefaultDurationMins
		}
		sum += n
	}
	avg := float64(sum) / float64(len(matches))

	switch {
	case strings.Contains(s, "hour"):
		return int(avg * 60)
	case strings.Contains(s, "minute"):
		return int(avg)
	default:
		return DefaultDurationMins
	}
}
