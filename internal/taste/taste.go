// Package taste derives a festival taste profile from the recorded taste-test
// answers.
package taste

import (
	"github.com/festory/festory/internal/store"
)

// Result describes a derived taste profile.
type Result struct {
	Type        store.TasteType `json:"typeNumber"`
	Label       string          `json:"type"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// profileImage illustrates the taste result card. The profiles currently share
// one portrait.
const profileImage = "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400&h=400&fit=crop"

var results = map[store.TasteType]Result{
	store.TasteTypeExplorer: {
		Type:        store.TasteTypeExplorer,
		Label:       "#신체험_탐험가",
		Description: "새로운 경험과 감각적 풍요로움을 추구하는 당신, 일몰 아래 화려한 퍼포먼스가 어우러진 페스티벌이 가장 완벽한 휴식이 됩니다.",
		Image:       profileImage,
	},
	store.TasteTypePartyer: {
		Type:        store.TasteTypePartyer,
		Label:       "#열정_파티러버",
		Description: "활기차고 에너지 넘치는 축제를 사랑하는 당신, 신나는 음악과 불꽃쇼가 가득한 페스티벌에서 진정한 즐거움을 찾습니다.",
		Image:       profileImage,
	},
	store.TasteTypeArtist: {
		Type:        store.TasteTypeArtist,
		Label:       "#감성_아티스트",
		Description: "현대적이고 세련된 분위기를 즐기는 당신, 도시적 감성과 예술이 어우러진 페스티벌에서 영감을 받습니다.",
		Image:       profileImage,
	},
}

// Derive maps recorded answers to a taste profile. The first answer decides
// the type: option 1 is the explorer, option 2 the partyer, anything else the
// artist. No answers fall back to the explorer profile.
func Derive(answers []store.TasteAnswer) Result {
	if len(answers) == 0 {
		return results[store.TasteTypeExplorer]
	}
	switch answers[0].FirstOptionID() {
	case 1:
		return results[store.TasteTypeExplorer]
	case 2:
		return results[store.TasteTypePartyer]
	default:
		return results[store.TasteTypeArtist]
	}
}

// ByType returns the profile for an already derived type, falling back to the
// explorer profile for unknown values.
func ByType(t store.TasteType) Result {
	if r, ok := results[t]; ok {
		return r
	}
	return results[store.TasteTypeExplorer]
}

// matchRates are the presentation percentages attached to the top recommended
// festivals, in rank order.
var matchRates = []int{98, 92, 87}

// Recommendation pairs a festival with its presented match rate.
type Recommendation struct {
	Festival  store.Festival `json:"festival"`
	MatchRate int            `json:"matchRate"`
}

// Recommend returns up to three festivals annotated with descending match
// rates. Ranks beyond the known rates fall back to 85.
func Recommend(festivals []store.Festival) []Recommendation {
	limit := min(len(festivals), 3)
	out := make([]Recommendation, 0, limit)
	for i := 0; i < limit; i++ {
		rate := 85
		if i < len(matchRates) {
			rate = matchRates[i]
		}
		out = append(out, Recommendation{Festival: festivals[i], MatchRate: rate})
	}
	return out
}
