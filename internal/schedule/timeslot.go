package schedule

import (
	"strings"

	"trip-planner/internal/place"
)

// Priorities order activities within a day: morning first, night last.
const (
	PriorityMorning   = 0
	PriorityAfternoon = 1
	PriorityBeach     = 2
	PriorityEvening   = 3
	PriorityNight     = 4
)

// Slot is an activity's admissible time window, in minutes from midnight.
// LatestEnd may exceed 1440 for slots that run past midnight.
type Slot struct {
	Priority      int
	EarliestStart int
	LatestEnd     int
}

var (
	nightCategories   = []string{"casino", "nightlife"}
	nightNames        = []string{"club", "casino", "party", "tito", "lpk"}
	nightTimes        = []string{"09:00 pm", "10:00 pm", "11:00 pm"}
	morningCategories = []string{"trek", "wildlife", "nature"}
	morningNames      = []string{"trek", "wildlife", "bird", "yoga"}
	morningTimes      = []string{"06:00 am", "07:00 am", "08:00 am"}
	waterNames        = []string{"scuba", "parasailing", "kayaking", "jet ski", "surfing"}
	eveningNames      = []string{"restaurant", "dining", "cruise", "cultural show"}
	eveningTimes      = []string{"06:00 pm", "07:00 pm", "08:00 pm"}
)

// ClassifySlot maps a place to its priority bucket and time window. Rules
// are evaluated in fixed precedence order; the first match wins.
func ClassifySlot(p place.Place) Slot {
	category := strings.ToLower(p.Category)
	name := strings.ToLower(p.Name)
	bestTime := strings.ToLower(p.BestTime)

	if containsAny(category, nightCategories) ||
		containsAny(name, nightNames) ||
		strings.Contains(bestTime, "night") ||
		containsAny(bestTime, nightTimes) {
		return Slot{PriorityNight, 21 * 60, 27 * 60} // 9 PM - 3 AM
	}

	if containsAny(category, morningCategories) ||
		strings.Contains(bestTime, "morning") ||
		containsAny(bestTime, morningTimes) ||
		containsAny(name, morningNames) {
		return Slot{PriorityMorning, 6 * 60, 11 * 60} // 6 AM - 11 AM
	}

	if strings.Contains(category, "beach") || strings.Contains(name, "beach") ||
		strings.Contains(bestTime, "sunset") {
		return Slot{PriorityBeach, 16 * 60, 18 * 60} // 4 PM - 6 PM, hard close
	}

	if strings.Contains(category, "water sports") || containsAny(name, waterNames) {
		return Slot{PriorityAfternoon, 10 * 60, 17 * 60} // 10 AM - 5 PM
	}

	if strings.Contains(category, "restaurant") || strings.Contains(category, "dining") ||
		containsAny(name, eveningNames) ||
		containsAny(bestTime, eveningTimes) {
		return Slot{PriorityEvening, 18 * 60, 21 * 60} // 6 PM - 9 PM
	}

	// Museums, forts, shopping and everything unmatched.
	return Slot{PriorityAfternoon, 11 * 60, 16 * 60} // 11 AM - 4 PM
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
