package place

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// rawPlace mirrors one entry of the catalog JSON file before validation.
type rawPlace struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	FullText       string   `json:"full_text"`
	SuggestedHours string   `json:"suggested_hours"`
	Category       string   `json:"category"`
	BestTime       string   `json:"best_time"`
	Lat            *float64 `json:"lat"`
	Lon            *float64 `json:"lon"`
}

// Catalog is the read-only set of places the planner knows about. It is
// loaded once at startup and shared by every chat session.
type Catalog struct {
	places []Place
	byName map[string]int
	texts  []string
}

// Load reads the catalog JSON file ({"places": [...]}) and validates every
// entry at the boundary so the rest of the system only sees complete Place
// values.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var doc struct {
		Places []rawPlace `json:"places"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	c := &Catalog{byName: make(map[string]int)}
	for i, rp := range doc.Places {
		if strings.TrimSpace(rp.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		if _, dup := c.byName[rp.Name]; dup {
			return nil, fmt.Errorf("catalog entry %d duplicates name %q", i, rp.Name)
		}

		duration := rp.SuggestedHours
		if duration == "" {
			duration = "2 hours"
		}
		category := rp.Category
		if category == "" {
			category = "General"
		}
		bestTime := rp.BestTime
		if bestTime == "" {
			bestTime = "Flexible"
		}

		combined := rp.Name + " " + rp.Description + " " + rp.FullText

		c.byName[rp.Name] = len(c.places)
		c.places = append(c.places, Place{
			Name:     rp.Name,
			Duration: duration,
			Category: category,
			Region:   inferRegion(combined),
			Lat:      rp.Lat,
			Lon:      rp.Lon,
			BestTime: bestTime,
		})
		c.texts = append(c.texts, combined)
	}

	return c, nil
}

// ByName looks a place up by its catalog name. The second return value is
// false for unknown names.
func (c *Catalog) ByName(name string) (Place, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Place{}, false
	}
	return c.places[idx], true
}

// All returns every place in catalog order.
func (c *Catalog) All() []Place {
	out := make([]Place, len(c.places))
	copy(out, c.places)
	return out
}

// Text returns the combined descriptive text for the named place, used to
// build its embedding.
func (c *Catalog) Text(name string) (string, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return "", false
	}
	return c.texts[idx], true
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int { return len(c.places) }

func inferRegion(text string) string {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "north goa"):
		return RegionNorth
	case strings.Contains(text, "south goa"):
		return RegionSouth
	case strings.Contains(text, "central goa"), strings.Contains(text, "panaji"):
		return RegionCentral
	default:
		return RegionUnknown
	}
}
