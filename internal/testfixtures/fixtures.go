package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/festory/festory/internal/store"
)

var (
	festivalCounter uint64
	tripCounter     uint64
	placeCounter    uint64
)

var referenceTime = time.Date(2025, time.May, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Festival fixtures ---------------------------

// FestivalOption configures a generated festival fixture.
type FestivalOption func(*store.Festival)

// NewFestivalFixture returns a deterministic festival record with optional
// overrides. PSeq values start at 1001 and increase per call.
func NewFestivalFixture(opts ...FestivalOption) store.Festival {
	idx := atomic.AddUint64(&festivalCounter, 1)
	start := referenceTime.AddDate(0, 0, int(idx))
	festival := store.Festival{
		PSeq:      int64(1000 + idx),
		Name:      fmt.Sprintf("축제 %03d", idx),
		Region:    "서울특별시",
		Venue:     fmt.Sprintf("행사장 %03d", idx),
		StartDate: start.Format("2006-01-02"),
		EndDate:   start.AddDate(0, 0, 2).Format("2006-01-02"),
		Latitude:  37.5665,
		Longitude: 126.978,
	}
	for _, opt := range opts {
		opt(&festival)
	}
	return festival
}

// WithFestivalPSeq overrides the generated festival identifier.
func WithFestivalPSeq(pSeq int64) FestivalOption {
	return func(f *store.Festival) {
		f.PSeq = pSeq
	}
}

// WithFestivalName overrides the generated festival name.
func WithFestivalName(name string) FestivalOption {
	return func(f *store.Festival) {
		f.Name = name
	}
}

// WithFestivalRegion overrides the generated region.
func WithFestivalRegion(region string) FestivalOption {
	return func(f *store.Festival) {
		f.Region = region
	}
}

// WithFestivalDates sets the start and end dates (YYYY-MM-DD).
func WithFestivalDates(start, end string) FestivalOption {
	return func(f *store.Festival) {
		f.StartDate = start
		f.EndDate = end
	}
}

// WithFestivalLegacyDate sets the free-form legacy date string and clears the
// structured dates.
func WithFestivalLegacyDate(date string) FestivalOption {
	return func(f *store.Festival) {
		f.LegacyDate = date
		f.StartDate = ""
		f.EndDate = ""
	}
}

// WithFestivalDescription overrides the generated description.
func WithFestivalDescription(description string) FestivalOption {
	return func(f *store.Festival) {
		f.Description = description
	}
}

// ----------------------------- Trip fixtures -----------------------------

// TripOption configures a generated trip fixture.
type TripOption func(*store.Trip)

// NewTripFixture returns a deterministic trip with optional overrides. Trip
// ids mimic production ids: milliseconds derived from the reference time.
func NewTripFixture(opts ...TripOption) store.Trip {
	idx := atomic.AddUint64(&tripCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	start := referenceTime.AddDate(0, 1, 0)
	end := start.AddDate(0, 0, 2)
	trip := store.Trip{
		ID:        created.UnixMilli(),
		Name:      fmt.Sprintf("여행 %03d", idx),
		Region:    "부산광역시",
		Start:     start.Format("2006-01-02"),
		End:       end.Format("2006-01-02"),
		CreatedAt: created,
	}
	trip.Display = store.DisplayRange(trip.Start, trip.End)
	for _, opt := range opts {
		opt(&trip)
	}
	return trip
}

// WithTripID overrides the generated trip identifier.
func WithTripID(id int64) TripOption {
	return func(t *store.Trip) {
		t.ID = id
	}
}

// WithTripName overrides the generated trip name.
func WithTripName(name string) TripOption {
	return func(t *store.Trip) {
		t.Name = name
	}
}

// WithTripRegion overrides the generated region.
func WithTripRegion(region string) TripOption {
	return func(t *store.Trip) {
		t.Region = region
	}
}

// WithTripDates sets the trip boundaries (YYYY-MM-DD) and recomputes the
// display string.
func WithTripDates(start, end string) TripOption {
	return func(t *store.Trip) {
		t.Start = start
		t.End = end
		t.Display = store.DisplayRange(start, end)
	}
}

// ----------------------------- Place fixtures ----------------------------

// PlaceOption configures a generated place fixture.
type PlaceOption func(*store.PlaceEntry)

// NewPlaceFixture returns a deterministic place-search result with optional
// overrides.
func NewPlaceFixture(opts ...PlaceOption) store.PlaceEntry {
	idx := atomic.AddUint64(&placeCounter, 1)
	place := store.PlaceEntry{
		PlaceID:   fmt.Sprintf("ChIJ%08d", idx),
		Name:      fmt.Sprintf("맛집 %03d", idx),
		TypeLabel: "음식점",
		Address:   "서울특별시 중구 세종대로 110",
		Rating:    4.3,
		Latitude:  37.5663,
		Longitude: 126.9779,
	}
	for _, opt := range opts {
		opt(&place)
	}
	return place
}

// WithPlaceID overrides the generated place identifier.
func WithPlaceID(id string) PlaceOption {
	return func(p *store.PlaceEntry) {
		p.PlaceID = id
	}
}

// WithPlaceName overrides the generated place name.
func WithPlaceName(name string) PlaceOption {
	return func(p *store.PlaceEntry) {
		p.Name = name
	}
}

// WithPlaceTypeLabel overrides the generated type label.
func WithPlaceTypeLabel(label string) PlaceOption {
	return func(p *store.PlaceEntry) {
		p.TypeLabel = label
	}
}
