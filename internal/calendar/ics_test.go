package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/festory/festory/internal/store"
)

func TestExportTrip(t *testing.T) {
	t.Parallel()

	trip := store.Trip{
		ID:      1746198245000,
		Name:    "서울 여행",
		Region:  "서울",
		Start:   "2025-05-02",
		End:     "2025-05-04",
		Display: store.DisplayRange("2025-05-02", "2025-05-04"),
	}
	days := map[int][]store.ScheduleEntry{
		0: {store.NewFestivalEntry(store.Festival{
			PSeq:  1001,
			Name:  "서울 뮤직 페스티벌",
			Venue: "한강공원",
		})},
		2: {store.NewPlaceEntry(store.PlaceEntry{
			PlaceID:   "ChIJ00000001",
			Name:      "광장시장",
			TypeLabel: "맛집",
			Address:   "서울 종로구",
		})},
	}

	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	feed, err := ExportTrip(trip, days, now)
	if err != nil {
		t.Fatalf("ExportTrip failed: %v", err)
	}

	if !strings.Contains(feed, "BEGIN:VCALENDAR") || !strings.Contains(feed, "END:VCALENDAR") {
		t.Fatalf("expected calendar envelope, got:\n%s", feed)
	}
	if got := strings.Count(feed, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected two events, got %d:\n%s", got, feed)
	}
	if !strings.Contains(feed, "trip-1746198245000-day-0-1001@festory") {
		t.Fatalf("expected festival uid in feed:\n%s", feed)
	}
	if !strings.Contains(feed, "trip-1746198245000-day-2-place_ChIJ00000001@festory") {
		t.Fatalf("expected place uid in feed:\n%s", feed)
	}
	// Day 0 runs 05-02 with an exclusive DTEND on 05-03.
	if !strings.Contains(feed, "DTSTART;VALUE=DATE:20250502") {
		t.Fatalf("expected all-day start for day 0:\n%s", feed)
	}
	if !strings.Contains(feed, "DTEND;VALUE=DATE:20250503") {
		t.Fatalf("expected exclusive all-day end for day 0:\n%s", feed)
	}
}

func TestExportTrip_SkipsUnresolvableDays(t *testing.T) {
	t.Parallel()

	trip := store.Trip{ID: 1, Name: "broken", Start: "not-a-date", End: "not-a-date"}
	days := map[int][]store.ScheduleEntry{
		0: {store.NewFestivalEntry(store.Festival{PSeq: 1, Name: "x"})},
	}

	feed, err := ExportTrip(trip, days, time.Now())
	if err != nil {
		t.Fatalf("ExportTrip failed: %v", err)
	}
	if strings.Contains(feed, "BEGIN:VEVENT") {
		t.Fatalf("expected no events for unresolvable days:\n%s", feed)
	}
}
