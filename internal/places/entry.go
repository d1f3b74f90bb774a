package places

import "github.com/festory/festory/internal/store"

// typeLabels maps the provider's place types to the Korean category labels
// shown on schedule cards. The first matching type wins.
var typeLabels = []struct {
	placeType string
	label     string
}{
	{"restaurant", "맛집"},
	{"cafe", "카페"},
	{"tourist_attraction", "관광명소"},
	{"lodging", "숙소"},
	{"park", "공원"},
	{"museum", "박물관"},
	{"art_gallery", "미술관"},
	{"shopping_mall", "쇼핑"},
	{"amusement_park", "놀이공원"},
}

const defaultTypeLabel = "장소"

// TypeLabel returns the display category for a set of provider place types.
func TypeLabel(types []string) string {
	for _, candidate := range typeLabels {
		for _, placeType := range types {
			if placeType == candidate.placeType {
				return candidate.label
			}
		}
	}
	return defaultTypeLabel
}

// ToPlaceEntry converts a search result into the store's place variant. The
// photo URL is resolved by the caller since it embeds the API key.
func ToPlaceEntry(result Result, photoURL string) store.PlaceEntry {
	return store.PlaceEntry{
		PlaceID:   result.PlaceID,
		Name:      result.Name,
		TypeLabel: TypeLabel(result.Types),
		Address:   result.Address,
		Rating:    result.Rating,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		PhotoURL:  photoURL,
	}
}
