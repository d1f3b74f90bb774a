package store_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/festory/festory/internal/store"
	"github.com/festory/festory/internal/testfixtures"
)

func TestSnapshotCodec(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the persisted subset", func(t *testing.T) {
		t.Parallel()

		festival := testfixtures.NewFestivalFixture()
		trip := testfixtures.NewTripFixture()
		snap := store.Snapshot{
			User:              &store.Profile{Nickname: "하나", Email: "hana@example.com"},
			LoginUser:         "hana",
			LoginMethod:       store.LoginMethodLocal,
			GoogleAccessToken: "ya29.stored",
			KakaoAuthCode:     "kakao-code",
			LikedFestivals:    []store.Festival{festival},
			TasteAnswers:      []store.TasteAnswer{{QuestionIndex: 0, OptionIDs: []int{2}}},
			TasteType:         store.TasteTypePartyer,
			Trips:             []store.Trip{trip},
			CurrentTripID:     trip.ID,
			Schedules: store.Schedule{
				trip.ID: {
					0: {store.NewFestivalEntry(festival)},
					1: {store.NewPlaceEntry(testfixtures.NewPlaceFixture())},
				},
			},
		}

		payload, err := store.EncodeSnapshot(snap)
		if err != nil {
			t.Fatalf("EncodeSnapshot failed: %v", err)
		}
		decoded, err := store.DecodeSnapshot(payload)
		if err != nil {
			t.Fatalf("DecodeSnapshot failed: %v", err)
		}

		if decoded.User == nil || decoded.User.Nickname != "하나" {
			t.Fatalf("unexpected user: %#v", decoded.User)
		}
		if decoded.LoginMethod != store.LoginMethodLocal {
			t.Fatalf("unexpected login method: %q", decoded.LoginMethod)
		}
		if decoded.GoogleAccessToken != "ya29.stored" || decoded.KakaoAuthCode != "kakao-code" {
			t.Fatalf("expected session tokens preserved, got %q %q", decoded.GoogleAccessToken, decoded.KakaoAuthCode)
		}
		if len(decoded.Schedules[trip.ID][0]) != 1 || decoded.Schedules[trip.ID][0][0].Kind != store.EntryKindFestival {
			t.Fatalf("unexpected schedule: %#v", decoded.Schedules)
		}
		if decoded.Schedules[trip.ID][1][0].Kind != store.EntryKindPlace {
			t.Fatalf("expected place entry preserved, got %#v", decoded.Schedules[trip.ID][1][0])
		}
	})

	t.Run("stamps the current version on encoded payloads", func(t *testing.T) {
		t.Parallel()

		payload, err := store.EncodeSnapshot(store.Snapshot{})
		if err != nil {
			t.Fatalf("EncodeSnapshot failed: %v", err)
		}
		var env struct {
			Version int `json:"version"`
		}
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("failed to parse envelope: %v", err)
		}
		if env.Version != store.SnapshotVersion {
			t.Fatalf("expected version %d, got %d", store.SnapshotVersion, env.Version)
		}
	})

	t.Run("rejects unknown versions", func(t *testing.T) {
		t.Parallel()

		_, err := store.DecodeSnapshot([]byte(`{"version":99,"state":{}}`))
		if !errors.Is(err, store.ErrUnsupportedSnapshotVersion) {
			t.Fatalf("expected ErrUnsupportedSnapshotVersion, got %v", err)
		}
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		t.Parallel()

		if _, err := store.DecodeSnapshot([]byte("not json")); err == nil {
			t.Fatal("expected decode error")
		}
	})
}

func TestScheduleEntryJSON(t *testing.T) {
	t.Parallel()

	t.Run("prefixes place entry ids", func(t *testing.T) {
		t.Parallel()

		place := testfixtures.NewPlaceFixture(testfixtures.WithPlaceID("xyz"))
		entry := store.NewPlaceEntry(place)
		if entry.ID() != "place_xyz" {
			t.Fatalf("unexpected entry id: %q", entry.ID())
		}
	})

	t.Run("rejects entries whose payload contradicts the discriminator", func(t *testing.T) {
		t.Parallel()

		var entry store.ScheduleEntry
		err := json.Unmarshal([]byte(`{"kind":"festival"}`), &entry)
		if err == nil || !strings.Contains(err.Error(), "missing festival payload") {
			t.Fatalf("expected missing payload error, got %v", err)
		}
	})

	t.Run("rejects unknown discriminators", func(t *testing.T) {
		t.Parallel()

		var entry store.ScheduleEntry
		if err := json.Unmarshal([]byte(`{"kind":"hotel"}`), &entry); err == nil {
			t.Fatal("expected unknown kind error")
		}
	})
}
