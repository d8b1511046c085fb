package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)`)

// ParseClock converts a 12-hour time like "09:00 AM" back to minutes from
// midnight. Unparseable input yields 0.
func ParseClock(s string) int {
	m := clockRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	switch {
	case m[3] == "PM" && hour != 12:
		hour += 12
	case m[3] == "AM" && hour == 12:
		hour = 0
	}
	return hour*60 + minute
}
