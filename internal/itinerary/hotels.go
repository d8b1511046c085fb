package itinerary

import (
	"fmt"
	"sort"
	"strings"
)

// Hotel is a hotel candidate from the chat's cart. Hotels come from a
// separate catalog, so they arrive in the request rather than resolving
// against the activity catalog.
type Hotel struct {
	HotelID     string `json:"hotel_id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Stars       int    `json:"stars"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// HotelAssignment is a selected hotel pinned to a contiguous day range,
// with a human-readable justification.
type HotelAssignment struct {
	Hotel
	Reason             string `json:"reason"`
	RecommendedForDays []int  `json:"recommended_for_days"`
}

type scoredHotel struct {
	hotel   Hotel
	score   int
	reasons []string
}

// AssignHotels scores each hotel with a simple weighted rule, picks 1, 2,
// or 3 hotels depending on trip length, and splits the day range across
// them contiguously. No hotels in means an empty assignment out; there is
// no failure mode.
func AssignHotels(hotels []Hotel, numDays int) []HotelAssignment {
	if len(hotels) == 0 || numDays < 1 {
		return []HotelAssignment{}
	}

	scored := make([]scoredHotel, 0, len(hotels))
	for _, h := range hotels {
		s := scoredHotel{hotel: h}

		if h.Stars >= 4 {
			s.score += 30
			s.reasons = append(s.reasons, fmt.Sprintf("%d-star quality", h.Stars))
		} else if h.Stars >= 3 {
			s.score += 20
		}

		switch {
		case h.Price >= 2000 && h.Price <= 8000:
			s.score += 20
			s.reasons = append(s.reasons, "good value")
		case h.Price < 2000:
			s.score += 10
			s.reasons = append(s.reasons, "budget-friendly")
		case h.Price > 10000:
			s.score -= 10
		}

		if h.Description != "" {
			s.score += 10
		}

		scored = append(scored, s)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	needed := hotelsNeeded(numDays)
	if needed > len(scored) {
		needed = len(scored)
	}
	selected := scored[:needed]
	ranges := partitionDays(numDays, needed)

	assignments := make([]HotelAssignment, 0, needed)
	for i, s := range selected {
		days := ranges[i]
		assignments = append(assignments, HotelAssignment{
			Hotel:              s.hotel,
			Reason:             buildReason(i, needed, numDays, days, s.reasons),
			RecommendedForDays: days,
		})
	}
	return assignments
}

func hotelsNeeded(numDays int) int {
	switch {
	case numDays <= 3:
		return 1
	case numDays <= 6:
		return 2
	default:
		return 3
	}
}

// partitionDays splits 1..numDays into n contiguous ranges of near-equal
// length. The last range absorbs any remainder so every day is covered.
func partitionDays(numDays, n int) [][]int {
	ranges := make([][]int, n)
	per := numDays / n
	day := 1
	for i := 0; i < n; i++ {
		end := day + per - 1
		if i == n-1 {
			end = numDays
		}
		for d := day; d <= end; d++ {
			ranges[i] = append(ranges[i], d)
		}
		day = end + 1
	}
	return ranges
}

func buildReason(idx, selected, numDays int, days []int, reasons []string) string {
	var text string
	switch {
	case selected == 1:
		text = fmt.Sprintf("Best choice for your %d-day trip", numDays)
	case selected == 2 && idx == 0:
		text = fmt.Sprintf("Recommended for first half of trip (Days %d-%d)", days[0], days[len(days)-1])
	case selected == 2:
		text = fmt.Sprintf("Recommended for second half of trip (Days %d-%d)", days[0], days[len(days)-1])
	default:
		text = fmt.Sprintf("Recommended for Days %d-%d", days[0], days[len(days)-1])
	}
	if len(reasons) > 0 {
		text += " - " + strings.Join(reasons, ", ")
	}
	return text
}
