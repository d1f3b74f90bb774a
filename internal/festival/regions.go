package festival

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/regions.yaml
var regionData []byte

// Region is one top-level administrative region. Label is the short form used
// throughout the UI; Name is the substring matched against festival locations.
// The coordinates anchor weather lookups for the region.
type Region struct {
	Label     string  `yaml:"label"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

var (
	regions       []Region
	regionByLabel map[string]Region
)

func init() {
	var doc struct {
		Regions []Region `yaml:"regions"`
	}
	if err := yaml.Unmarshal(regionData, &doc); err != nil {
		panic(fmt.Sprintf("festival: invalid embedded region data: %v", err))
	}
	regions = doc.Regions
	regionByLabel = make(map[string]Region, len(regions))
	for _, r := range regions {
		regionByLabel[r.Label] = r
	}
}

// Regions returns all known regions in catalog order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionByLabel looks a region up by its short label.
func RegionByLabel(label string) (Region, bool) {
	r, ok := regionByLabel[label]
	return r, ok
}

// regionMatchName returns the location substring matched for a filter label.
// Unknown labels match themselves, so full names also work as filter values.
func regionMatchName(label string) string {
	if r, ok := regionByLabel[label]; ok {
		return r.Name
	}
	return label
}
