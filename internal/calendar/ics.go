package calendar

import (
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/festory/festory/internal/store"
)

// ExportTrip renders a trip's per-day schedule as an iCalendar feed with one
// all-day VEVENT per entry. Days whose date cannot be derived from the trip
// boundaries are skipped.
func ExportTrip(trip store.Trip, days map[int][]store.ScheduleEntry, now time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(trip.Name)
	cal.SetXWRCalDesc(trip.Display)

	offsets := make([]int, 0, len(days))
	for day := range days {
		offsets = append(offsets, day)
	}
	sort.Ints(offsets)

	for _, day := range offsets {
		date, err := trip.DayDate(day)
		if err != nil {
			continue
		}
		for _, entry := range days[day] {
			uid := fmt.Sprintf("trip-%d-day-%d-%s@festory", trip.ID, day, entry.ID())
			event := cal.AddEvent(uid)
			event.SetDtStampTime(now)
			event.SetAllDayStartAt(date)
			// DTEND is exclusive for all-day events.
			event.SetAllDayEndAt(date.AddDate(0, 0, 1))
			event.SetSummary(entry.Name())
			switch entry.Kind {
			case store.EntryKindFestival:
				if entry.Festival != nil {
					if entry.Festival.Description != "" {
						event.SetDescription(entry.Festival.Description)
					}
					location := entry.Festival.Venue
					if location == "" {
						location = entry.Festival.RoadAddress
					}
					if location != "" {
						event.SetLocation(location)
					}
				}
			case store.EntryKindPlace:
				if entry.Place != nil {
					if entry.Place.TypeLabel != "" {
						event.SetDescription(entry.Place.TypeLabel)
					}
					if entry.Place.Address != "" {
						event.SetLocation(entry.Place.Address)
					}
				}
			}
		}
	}

	return cal.Serialize(), nil
}
