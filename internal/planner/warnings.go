// Package planner inspects trips and their day schedules for inconsistencies.
// The store itself accepts any trip id and day offset, so these warnings are
// the only integrity signal surfaced to the user.
package planner

import (
	"sort"

	"github.com/festory/festory/internal/festival"
	"github.com/festory/festory/internal/store"
)

// WarningType describes the kind of inconsistency detected in a schedule.
type WarningType string

const (
	// WarningTypeDanglingTrip indicates a schedule bucket whose trip no
	// longer exists.
	WarningTypeDanglingTrip WarningType = "dangling_trip"
	// WarningTypeDayOutOfRange indicates a day offset beyond the trip's
	// duration.
	WarningTypeDayOutOfRange WarningType = "day_out_of_range"
	// WarningTypeDuplicateEntry indicates the same entry planned on more than
	// one day of a trip.
	WarningTypeDuplicateEntry WarningType = "duplicate_entry"
	// WarningTypeOutsideFestivalPeriod indicates a festival planned on a day
	// it is not running.
	WarningTypeOutsideFestivalPeriod WarningType = "outside_festival_period"
)

// Warning details one inconsistency that callers can present to users.
type Warning struct {
	Type    WarningType `json:"type"`
	TripID  int64       `json:"tripId"`
	Day     int         `json:"day"`
	EntryID string      `json:"entryId,omitempty"`
	Detail  string      `json:"detail"`
}

// Inspect checks every schedule bucket in the state and returns the detected
// warnings ordered by trip, day, and entry.
func Inspect(state store.State) []Warning {
	var warnings []Warning
	for tripID, days := range state.Schedules {
		trip, ok := state.TripByID(tripID)
		if !ok {
			warnings = append(warnings, Warning{
				Type:   WarningTypeDanglingTrip,
				TripID: tripID,
				Day:    -1,
				Detail: "일정이 존재하지 않는 여행을 가리키고 있습니다",
			})
			continue
		}
		warnings = append(warnings, inspectTrip(trip, days)...)
	}
	sort.Slice(warnings, func(i, j int) bool {
		a, b := warnings[i], warnings[j]
		if a.TripID != b.TripID {
			return a.TripID < b.TripID
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.EntryID < b.EntryID
	})
	return warnings
}

// InspectTrip checks a single trip's schedule buckets.
func InspectTrip(state store.State, tripID int64) []Warning {
	trip, ok := state.TripByID(tripID)
	if !ok {
		if _, has := state.Schedules[tripID]; has {
			return []Warning{{
				Type:   WarningTypeDanglingTrip,
				TripID: tripID,
				Day:    -1,
				Detail: "일정이 존재하지 않는 여행을 가리키고 있습니다",
			}}
		}
		return nil
	}
	return inspectTrip(trip, state.Schedules[trip.ID])
}

func inspectTrip(trip store.Trip, days map[int][]store.ScheduleEntry) []Warning {
	var warnings []Warning
	duration := trip.DurationDays()
	seen := map[string]int{}

	dayOffsets := make([]int, 0, len(days))
	for day := range days {
		dayOffsets = append(dayOffsets, day)
	}
	sort.Ints(dayOffsets)

	for _, day := range dayOffsets {
		if duration > 0 && (day < 0 || day >= duration) {
			warnings = append(warnings, Warning{
				Type:   WarningTypeDayOutOfRange,
				TripID: trip.ID,
				Day:    day,
				Detail: "여행 기간을 벗어난 날짜의 일정입니다",
			})
		}
		for _, entry := range days[day] {
			id := entry.ID()
			if firstDay, dup := seen[id]; dup && firstDay != day {
				warnings = append(warnings, Warning{
					Type:    WarningTypeDuplicateEntry,
					TripID:  trip.ID,
					Day:     day,
					EntryID: id,
					Detail:  "같은 항목이 다른 날짜에도 담겨 있습니다",
				})
			} else {
				seen[id] = day
			}
			if w, ok := checkFestivalPeriod(trip, day, entry); ok {
				warnings = append(warnings, w)
			}
		}
	}
	return warnings
}

// checkFestivalPeriod flags festival entries planned outside their running
// period. Place entries and festivals without a parsable period are skipped.
func checkFestivalPeriod(trip store.Trip, day int, entry store.ScheduleEntry) (Warning, bool) {
	if entry.Kind != store.EntryKindFestival || entry.Festival == nil {
		return Warning{}, false
	}
	start, end, ok := festival.EventRange(*entry.Festival)
	if !ok {
		return Warning{}, false
	}
	date, err := trip.DayDate(day)
	if err != nil {
		return Warning{}, false
	}
	if date.Before(start) || !date.Before(end) {
		return Warning{
			Type:    WarningTypeOutsideFestivalPeriod,
			TripID:  trip.ID,
			Day:     day,
			EntryID: entry.ID(),
			Detail:  "축제 기간이 아닌 날짜에 계획된 축제입니다",
		}, true
	}
	return Warning{}, false
}
