package schedule

import (
	"fmt"
	"sort"

	"trip-planner/internal/place"
)

const (
	dayStartMins     = 8 * 60 // every day's clock opens at 8:00 AM
	dailyCapMins     = 360    // activity time per day, travel excluded
	travelBufferMins = 45
)

// ScheduledActivity is a place pinned to a concrete time of day. The
// travel buffer is informational; it never counts against the daily cap.
type ScheduledActivity struct {
	place.Place
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	TravelTimeFromPrev int    `json:"travel_time_from_prev_mins"`
}

// ItineraryDay holds one day's activities. Day numbers are 1-indexed and
// contiguous; days that received no activity are still present, empty.
type ItineraryDay struct {
	DayNumber        int                 `json:"day"`
	Activities       []ScheduledActivity `json:"activities"`
	TotalDurationMin int                 `json:"total_duration_mins"`
}

// Itinerary is a complete day-by-day plan for a chat.
type Itinerary struct {
	ChatID    string         `json:"chat_id"`
	NumPeople int            `json:"num_people"`
	Days      []ItineraryDay `json:"days"`
}

type candidate struct {
	place    place.Place
	slot     Slot
	duration int
}

// Build produces a conflict-free, time-window-respecting itinerary from a
// flat candidate list (cart counts already expanded). It always emits
// exactly numDays days. Candidates that fit no day are returned in the
// dropped list instead of appearing in the itinerary; callers should
// surface that list rather than assume every cart item was placed.
func Build(chatID string, places []place.Place, numDays, numPeople int) (Itinerary, []string) {
	it := Itinerary{ChatID: chatID, NumPeople: numPeople}
	for d := 1; d <= numDays; d++ {
		it.Days = append(it.Days, ItineraryDay{DayNumber: d, Activities: []ScheduledActivity{}})
	}
	if numDays < 1 {
		it.Days = []ItineraryDay{}
		return it, nil
	}

	candidates := make([]candidate, 0, len(places))
	for _, p := range places {
		candidates = append(candidates, candidate{
			place:    p,
			slot:     ClassifySlot(p),
			duration: ParseDuration(p.Duration),
		})
	}

	// Morning before night, same-region activities clustered. The sort is
	// stable so equal candidates keep their input order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].slot.Priority != candidates[j].slot.Priority {
			return candidates[i].slot.Priority < candidates[j].slot.Priority
		}
		return candidates[i].place.Region < candidates[j].place.Region
	})

	clocks := make([]int, numDays)
	for i := range clocks {
		clocks[i] = dayStartMins
	}

	var dropped []string
	currentDay := 0

	for _, c := range candidates {
		placedDay := -1
		start := 0

		// Scan days once, starting at the rotating index and wrapping.
		for offset := 0; offset < numDays; offset++ {
			d := (currentDay + offset) % numDays

			if it.Days[d].TotalDurationMin+c.duration > dailyCapMins {
				continue
			}

			currTime := clocks[d]
			if currTime < c.slot.EarliestStart {
				// Idle time before a window opens is free.
				currTime = c.slot.EarliestStart
			}
			// Night activities may run past their window's end.
			if c.slot.Priority != PriorityNight && currTime+c.duration > c.slot.LatestEnd {
				continue
			}

			placedDay = d
			start = currTime
			break
		}

		if placedDay == -1 {
			dropped = append(dropped, c.place.Name)
			continue
		}

		travel := 0
		if len(it.Days[placedDay].Activities) > 0 {
			travel = travelBufferMins
		}

		it.Days[placedDay].Activities = append(it.Days[placedDay].Activities, ScheduledActivity{
			Place:              c.place,
			StartTime:          FormatClock(start),
			EndTime:            FormatClock(start + c.duration),
			TravelTimeFromPrev: travel,
		})
		it.Days[placedDay].TotalDurationMin += c.duration
		clocks[placedDay] = start + c.duration + travel

		// Round-robin: the next candidate starts scanning at the next day.
		currentDay = (placedDay + 1) % numDays
	}

	return it, dropped
}

// FormatClock renders minutes-from-midnight in 12-hour hh:mm AM/PM
// notation. Values past 1440 wrap onto the next day's clock face.
func FormatClock(mins int) string {
	h := (mins / 60) % 24
	m := mins % 60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	display := h
	switch {
	case h == 0:
		display = 12
	case h > 12:
		display = h - 12
	}
	return fmt.Sprintf("%02d:%02d %s", display, m, period)
}
