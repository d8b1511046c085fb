package place

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing catalog fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `{
	  "places": [
	    {
	      "name": "Baga Beach",
	      "description": "Popular beach in North Goa",
	      "suggested_hours": "2-3 hours",
	      "category": "Beach",
	      "best_time": "Sunset",
	      "lat": 15.56,
	      "lon": 73.75
	    },
	    {
	      "name": "Mystery Spot",
	      "description": "",
	      "full_text": "A place near Panaji"
	    }
	  ]
	}`)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}

	t.Run("FullEntry", func(t *testing.T) {
		p, ok := cat.ByName("Baga Beach")
		if !ok {
			t.Fatal("Baga Beach not found")
		}
		if p.Duration != "2-3 hours" || p.Category != "Beach" || p.BestTime != "Sunset" {
			t.Errorf("unexpected place: %+v", p)
		}
		if p.Region != RegionNorth {
			t.Errorf("region = %q, want %q", p.Region, RegionNorth)
		}
		if p.Lat == nil || *p.Lat != 15.56 {
			t.Errorf("lat = %v, want 15.56", p.Lat)
		}
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		p, ok := cat.ByName("Mystery Spot")
		if !ok {
			t.Fatal("Mystery Spot not found")
		}
		if p.Duration != "2 hours" {
			t.Errorf("duration = %q, want default", p.Duration)
		}
		if p.Category != "General" {
			t.Errorf("category = %q, want default", p.Category)
		}
		if p.BestTime != "Flexible" {
			t.Errorf("best time = %q, want default", p.BestTime)
		}
		if p.Region != RegionCentral {
			t.Errorf("region = %q, want %q (inferred from full_text)", p.Region, RegionCentral)
		}
		if p.Lat != nil || p.Lon != nil {
			t.Errorf("coordinates should stay nil when absent, got %v/%v", p.Lat, p.Lon)
		}
	})

	t.Run("Text", func(t *testing.T) {
		text, ok := cat.Text("Mystery Spot")
		if !ok {
			t.Fatal("Text lookup failed")
		}
		if text != "Mystery Spot  A place near Panaji" {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("UnknownName", func(t *testing.T) {
		if _, ok := cat.ByName("Atlantis"); ok {
			t.Error("ByName returned a place for an unknown name")
		}
	})
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"MissingName", `{"places": [{"description": "nameless"}]}`},
		{"BlankName", `{"places": [{"name": "   "}]}`},
		{"DuplicateName", `{"places": [{"name": "Baga Beach"}, {"name": "Baga Beach"}]}`},
		{"InvalidJSON", `{"places": [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeCatalog(t, tc.body)); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}

func TestInferRegion(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"A beach in NORTH GOA", RegionNorth},
		{"Palolem in south goa", RegionSouth},
		{"Church near Panaji", RegionCentral},
		{"somewhere in central goa", RegionCentral},
		{"no location hints", RegionUnknown},
	}
	for _, tc := range cases {
		if got := inferRegion(tc.text); got != tc.want {
			t.Errorf("inferRegion(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	path := writeCatalog(t, `{"places": [{"name": "Baga Beach"}]}`)
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	all := cat.All()
	all[0].Name = "Mutated"
	if p, _ := cat.ByName("Baga Beach"); p.Name != "Baga Beach" {
		t.Error("mutating All() result leaked into the catalog")
	}
}
