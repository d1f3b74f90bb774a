package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotNamespace keys the persisted snapshot row. A single profile owns a
// single row under this namespace.
const SnapshotNamespace = "festory-storage"

// SnapshotVersion is the current layout version written by EncodeSnapshot.
const SnapshotVersion = 1

// ErrUnsupportedSnapshotVersion is returned when a stored snapshot carries a
// version this build does not understand. Callers fall back to the zero state.
var ErrUnsupportedSnapshotVersion = errors.New("store: unsupported snapshot version")

// Snapshot is the persisted subset of State, including the OAuth session
// material so a restart resumes the provider session.
type Snapshot struct {
	User                 *Profile      `json:"user"`
	LoginUser            string        `json:"loginUser"`
	LoginMethod          LoginMethod   `json:"loginType"`
	GoogleAccessToken    string        `json:"googleAccessToken,omitempty"`
	KakaoAuthCode        string        `json:"kakaoAuthCode,omitempty"`
	SelectedFestivalPSeq int64         `json:"selectedFestivalPSeq,omitempty"`
	SelectedTravelDates  *TravelDates  `json:"selectedTravelDates,omitempty"`
	LikedFestivals       []Festival    `json:"likedFestivals"`
	SavedCalendar        []Festival    `json:"savedCalendarFestivals"`
	TasteAnswers         []TasteAnswer `json:"tasteTestAnswers"`
	TasteType            TasteType     `json:"tasteType,omitempty"`
	Trips                []Trip        `json:"trips"`
	CurrentTripID        int64         `json:"currentTripId,omitempty"`
	EditingTripID        int64         `json:"editingTripId,omitempty"`
	Schedules            Schedule      `json:"tripSchedules"`
}

type snapshotEnvelope struct {
	Version int      `json:"version"`
	State   Snapshot `json:"state"`
}

// SnapshotOf extracts the persisted subset from a state.
func SnapshotOf(s State) Snapshot {
	return Snapshot{
		User:                 s.User,
		LoginUser:            s.LoginUser,
		LoginMethod:          s.LoginMethod,
		GoogleAccessToken:    s.GoogleAccessToken,
		KakaoAuthCode:        s.KakaoAuthCode,
		SelectedFestivalPSeq: s.SelectedFestivalPSeq,
		SelectedTravelDates:  s.SelectedTravelDates,
		LikedFestivals:       s.LikedFestivals,
		SavedCalendar:        s.SavedCalendarFestivals,
		TasteAnswers:         s.TasteAnswers,
		TasteType:            s.TasteType,
		Trips:                s.Trips,
		CurrentTripID:        s.CurrentTripID,
		EditingTripID:        s.EditingTripID,
		Schedules:            s.Schedules,
	}
}

// Apply merges the snapshot into a zero state.
func (snap Snapshot) Apply() State {
	return State{
		User:                   snap.User,
		LoginUser:              snap.LoginUser,
		LoginMethod:            snap.LoginMethod,
		GoogleAccessToken:      snap.GoogleAccessToken,
		KakaoAuthCode:          snap.KakaoAuthCode,
		SelectedFestivalPSeq:   snap.SelectedFestivalPSeq,
		SelectedTravelDates:    snap.SelectedTravelDates,
		LikedFestivals:         snap.LikedFestivals,
		SavedCalendarFestivals: snap.SavedCalendar,
		TasteAnswers:           snap.TasteAnswers,
		TasteType:              snap.TasteType,
		Trips:                  snap.Trips,
		CurrentTripID:          snap.CurrentTripID,
		EditingTripID:          snap.EditingTripID,
		Schedules:              snap.Schedules,
	}
}

// EncodeSnapshot serializes a snapshot inside a versioned envelope.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snapshotEnvelope{Version: SnapshotVersion, State: snap})
	if err != nil {
		return nil, fmt.Errorf("store: encode snapshot: %w", err)
	}
	return payload, nil
}

// DecodeSnapshot parses a versioned envelope produced by EncodeSnapshot.
func DecodeSnapshot(payload []byte) (Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Snapshot{}, fmt.Errorf("store: decode snapshot: %w", err)
	}
	if env.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedSnapshotVersion, env.Version)
	}
	return env.State, nil
}
