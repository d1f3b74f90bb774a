package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// LoginMethod identifies how the current profile was authenticated.
type LoginMethod string

const (
	LoginMethodNone   LoginMethod = ""
	LoginMethodLocal  LoginMethod = "local"
	LoginMethodGoogle LoginMethod = "google"
	LoginMethodKakao  LoginMethod = "kakao"
	LoginMethodNaver  LoginMethod = "naver"
)

// Valid reports whether the method belongs to the closed set of supported providers.
func (m LoginMethod) Valid() bool {
	switch m {
	case LoginMethodNone, LoginMethodLocal, LoginMethodGoogle, LoginMethodKakao, LoginMethodNaver:
		return true
	}
	return false
}

// Profile holds the displayed attributes of the signed-in user.
type Profile struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Festival is a read-only record sourced from the bundled dataset. Field tags
// mirror the dataset's column names; records are never created or mutated at
// runtime, only referenced by PSeq.
type Festival struct {
	PSeq        int64   `json:"pSeq"`
	Name        string  `json:"fstvlNm"`
	Description string  `json:"ministry_description,omitempty"`
	StartDate   string  `json:"fstvlStartDate,omitempty"`
	EndDate     string  `json:"fstvlEndDate,omitempty"`
	LegacyDate  string  `json:"ministry_date,omitempty"`
	Region      string  `json:"ministry_region,omitempty"`
	Venue       string  `json:"opar,omitempty"`
	RoadAddress string  `json:"rdnmadr,omitempty"`
	ImageURL    string  `json:"ministry_image_url,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

// EntryID returns the schedule identifier for the festival.
func (f Festival) EntryID() string {
	return strconv.FormatInt(f.PSeq, 10)
}

// PlaceEntry is a pseudo-festival synthesized from a place-search result so
// that arbitrary places can share a schedule day with festivals.
type PlaceEntry struct {
	PlaceID   string  `json:"placeId"`
	Name      string  `json:"name"`
	TypeLabel string  `json:"typeLabel,omitempty"`
	Address   string  `json:"address,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	PhotoURL  string  `json:"photoUrl,omitempty"`
}

// placeEntryIDPrefix distinguishes synthesized place entries from festival
// identifiers inside a schedule day.
const placeEntryIDPrefix = "place_"

// EntryID returns the prefixed schedule identifier for the place.
func (p PlaceEntry) EntryID() string {
	return placeEntryIDPrefix + p.PlaceID
}

// EntryKind discriminates the schedule entry union.
type EntryKind string

const (
	EntryKindFestival EntryKind = "festival"
	EntryKindPlace    EntryKind = "place"
)

// ScheduleEntry is a tagged union: exactly one of Festival or Place is set,
// selected by Kind.
type ScheduleEntry struct {
	Kind     EntryKind
	Festival *Festival
	Place    *PlaceEntry
}

// NewFestivalEntry wraps a festival as a schedule entry.
func NewFestivalEntry(f Festival) ScheduleEntry {
	return ScheduleEntry{Kind: EntryKindFestival, Festival: &f}
}

// NewPlaceEntry wraps a synthesized place as a schedule entry.
func NewPlaceEntry(p PlaceEntry) ScheduleEntry {
	return ScheduleEntry{Kind: EntryKindPlace, Place: &p}
}

// ID returns the identifier used for removal and de-duplication.
func (e ScheduleEntry) ID() string {
	switch e.Kind {
	case EntryKindFestival:
		if e.Festival != nil {
			return e.Festival.EntryID()
		}
	case EntryKindPlace:
		if e.Place != nil {
			return e.Place.EntryID()
		}
	}
	return ""
}

// Name returns the display name of whichever variant is populated.
func (e ScheduleEntry) Name() string {
	switch e.Kind {
	case EntryKindFestival:
		if e.Festival != nil {
			return e.Festival.Name
		}
	case EntryKindPlace:
		if e.Place != nil {
			return e.Place.Name
		}
	}
	return ""
}

type scheduleEntryJSON struct {
	Kind     EntryKind   `json:"kind"`
	Festival *Festival   `json:"festival,omitempty"`
	Place    *PlaceEntry `json:"place,omitempty"`
}

// MarshalJSON encodes the union with an explicit discriminator.
func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(scheduleEntryJSON{Kind: e.Kind, Festival: e.Festival, Place: e.Place})
}

// UnmarshalJSON decodes the union and rejects entries whose discriminator does
// not match the populated variant.
func (e *ScheduleEntry) UnmarshalJSON(data []byte) error {
	var raw scheduleEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case EntryKindFestival:
		if raw.Festival == nil {
			return fmt.Errorf("store: festival entry missing festival payload")
		}
	case EntryKindPlace:
		if raw.Place == nil {
			return fmt.Errorf("store: place entry missing place payload")
		}
	default:
		return fmt.Errorf("store: unknown schedule entry kind %q", raw.Kind)
	}
	e.Kind = raw.Kind
	e.Festival = raw.Festival
	e.Place = raw.Place
	return nil
}

// TravelDates captures a selected date range together with its precomputed
// display string (YYYY.MM.DD ~ YYYY.MM.DD).
type TravelDates struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Display string `json:"display"`
}

// Trip is a user-defined travel plan. Start and End are inclusive YYYY-MM-DD
// date strings; the caller is responsible for Start <= End.
type Trip struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Display   string    `json:"display"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// tripDateLayout is the wire format for trip boundary dates.
const tripDateLayout = "2006-01-02"

// DurationDays returns the inclusive day count of the trip, or zero when the
// boundary dates do not parse.
func (t Trip) DurationDays() int {
	start, err := time.Parse(tripDateLayout, t.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(tripDateLayout, t.End)
	if err != nil {
		return 0
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// DayDate returns the date of the zero-based day offset within the trip.
func (t Trip) DayDate(day int) (time.Time, error) {
	start, err := time.Parse(tripDateLayout, t.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: trip %d has invalid start date %q: %w", t.ID, t.Start, err)
	}
	return start.AddDate(0, 0, day), nil
}

// DisplayRange formats the display string used across the UI for a date range.
func DisplayRange(start, end string) string {
	dotted := func(s string) string {
		t, err := time.Parse(tripDateLayout, s)
		if err != nil {
			return s
		}
		return t.Format("2006.01.02")
	}
	return dotted(start) + " ~ " + dotted(end)
}

// TripPatch carries the optional fields merged by UpdateTrip. Nil fields are
// left untouched.
type TripPatch struct {
	Name    *string
	Region  *string
	Start   *string
	End     *string
	Display *string
}

// TasteAnswer is one recorded taste-test response.
type TasteAnswer struct {
	QuestionIndex int      `json:"questionIndex"`
	OptionIDs     []int    `json:"optionIds"`
	Question      string   `json:"question,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// FirstOptionID returns the leading selected option, or zero when none was
// recorded.
func (a TasteAnswer) FirstOptionID() int {
	if len(a.OptionIDs) == 0 {
		return 0
	}
	return a.OptionIDs[0]
}

// TasteType is the derived categorical festival taste. Zero means not yet
// derived.
type TasteType int

const (
	TasteTypeNone     TasteType = 0
	TasteTypeExplorer TasteType = 1
	TasteTypePartyer  TasteType = 2
	TasteTypeArtist   TasteType = 3
)

// Schedule maps a trip identifier to zero-based day offsets, each holding the
// ordered entries assigned to that day.
type Schedule map[int64]map[int][]ScheduleEntry

// State is the complete in-memory store state. The persisted subset is defined
// by Snapshot; State itself may grow transient fields without affecting the
// storage layout.
type State struct {
	User              *Profile
	LoginUser         string
	LoginMethod       LoginMethod
	GoogleAccessToken string
	KakaoAuthCode     string

	SelectedFestivalPSeq int64
	SelectedTravelDates  *TravelDates

	LikedFestivals         []Festival
	SavedCalendarFestivals []Festival

	TasteAnswers []TasteAnswer
	TasteType    TasteType

	Trips         []Trip
	CurrentTripID int64
	EditingTripID int64
	Schedules     Schedule
}

// CurrentTrip returns the trip referenced by the active pointer.
func (s State) CurrentTrip() (Trip, bool) {
	return s.TripByID(s.CurrentTripID)
}

// TripByID looks a trip up by identifier.
func (s State) TripByID(id int64) (Trip, bool) {
	for _, trip := range s.Trips {
		if trip.ID == id {
			return trip, true
		}
	}
	return Trip{}, false
}

// IsLiked reports membership of the liked set.
func (s State) IsLiked(pSeq int64) bool {
	return containsFestival(s.LikedFestivals, pSeq)
}

// IsCalendarSaved reports membership of the saved calendar set.
func (s State) IsCalendarSaved(pSeq int64) bool {
	return containsFestival(s.SavedCalendarFestivals, pSeq)
}

func containsFestival(list []Festival, pSeq int64) bool {
	for _, f := range list {
		if f.PSeq == pSeq {
			return true
		}
	}
	return false
}

// DayEntries returns the entries assigned to a trip day, nil when the bucket
// was never materialized.
func (s State) DayEntries(tripID int64, day int) []ScheduleEntry {
	days, ok := s.Schedules[tripID]
	if !ok {
		return nil
	}
	return days[day]
}
