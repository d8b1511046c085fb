package place

// Place is the canonical description of a point of interest loaded from the
// catalog. Instances are immutable after loading; Score is only populated on
// search results.
type Place struct {
	Name     string   `json:"name"`
	Duration string   `json:"duration"`
	Category string   `json:"category"`
	Region   string   `json:"region"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	BestTime string   `json:"best_time"`
	Score    float64  `json:"score,omitempty"`
}

// Regions used for grouping activities. Anything the catalog text does not
// mention falls into RegionUnknown.
const (
	RegionNorth   = "North"
	RegionSouth   = "South"
	RegionCentral = "Central"
	RegionUnknown = "Unknown"
)
