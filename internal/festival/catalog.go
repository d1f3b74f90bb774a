// Package festival serves the bundled festival dataset: lookup by identifier
// and the filter combinations offered by the browse screen.
package festival

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/festory/festory/internal/store"
)

//go:embed data/festivals.json
var festivalData []byte

// Duration filter values offered by the browse screen.
const (
	DurationSingleDay = "당일"
	DurationShort     = "단기(2~3일)"
	DurationLong      = "장기(3~5일)"
)

// freeKeyword marks a festival as free when it appears in the name, the
// description, or the address.
const freeKeyword = "무료"

// Filter narrows the catalog listing. Zero values leave a dimension
// unfiltered.
type Filter struct {
	// Keyword is matched case-insensitively against the festival name.
	Keyword string
	// Regions holds short region labels; a festival matches when its location
	// contains any of their full names.
	Regions []string
	// Duration is one of the Duration constants.
	Duration string
	// Free selects free (true) or paid (false) festivals when non-nil.
	Free *bool
	// IncludesWeekend keeps only festivals running over a Saturday or Sunday.
	IncludesWeekend bool
}

// Catalog is the read-only festival dataset.
type Catalog struct {
	festivals []store.Festival
	byPSeq    map[int64]store.Festival
}

// NewCatalog parses the embedded dataset.
func NewCatalog() (*Catalog, error) {
	var festivals []store.Festival
	if err := json.Unmarshal(festivalData, &festivals); err != nil {
		return nil, fmt.Errorf("festival: parse embedded dataset: %w", err)
	}
	byPSeq := make(map[int64]store.Festival, len(festivals))
	for _, f := range festivals {
		byPSeq[f.PSeq] = f
	}
	return &Catalog{festivals: festivals, byPSeq: byPSeq}, nil
}

// All returns every festival in dataset order.
func (c *Catalog) All() []store.Festival {
	out := make([]store.Festival, len(c.festivals))
	copy(out, c.festivals)
	return out
}

// Get looks a festival up by its identifier.
func (c *Catalog) Get(pSeq int64) (store.Festival, bool) {
	f, ok := c.byPSeq[pSeq]
	return f, ok
}

// List returns the festivals matching the filter, in dataset order.
func (c *Catalog) List(filter Filter) []store.Festival {
	matched := make([]store.Festival, 0, len(c.festivals))
	for _, f := range c.festivals {
		if matches(f, filter) {
			matched = append(matched, f)
		}
	}
	return matched
}

func matches(f store.Festival, filter Filter) bool {
	if filter.Keyword != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(filter.Keyword)) {
		return false
	}
	if len(filter.Regions) > 0 && !matchesRegion(f, filter.Regions) {
		return false
	}
	if filter.Duration != "" && !matchesDuration(f, filter.Duration) {
		return false
	}
	if filter.Free != nil && isFree(f) != *filter.Free {
		return false
	}
	if filter.IncludesWeekend {
		start, end, ok := EventRange(f)
		if !ok || !includesWeekend(start, end) {
			return false
		}
	}
	return true
}

// matchesRegion checks the festival location, falling back from region to
// venue to road address, against the full name of each filter label.
func matchesRegion(f store.Festival, labels []string) bool {
	location := f.Region
	if location == "" {
		location = f.Venue
	}
	if location == "" {
		location = f.RoadAddress
	}
	for _, label := range labels {
		if strings.Contains(location, regionMatchName(label)) {
			return true
		}
	}
	return false
}

func matchesDuration(f store.Festival, duration string) bool {
	days := DurationDays(f)
	if days == 0 {
		return false
	}
	switch duration {
	case DurationSingleDay:
		return days <= 1
	case DurationShort:
		return days >= 2 && days <= 3
	case DurationLong:
		return days >= 3 && days <= 5
	}
	return true
}

func isFree(f store.Festival) bool {
	return strings.Contains(f.RoadAddress, freeKeyword) ||
		strings.Contains(f.Description, freeKeyword) ||
		strings.Contains(f.Name, freeKeyword)
}
