package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/festory/festory/internal/store"
	"github.com/festory/festory/internal/testfixtures"
)

func TestToggleLikedFestival(t *testing.T) {
	t.Parallel()

	t.Run("adds a festival missing from the liked set", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		festival := testfixtures.NewFestivalFixture()

		liked, err := s.ToggleLikedFestival(ctx, festival)
		if err != nil {
			t.Fatalf("ToggleLikedFestival failed: %v", err)
		}
		if !liked {
			t.Fatal("expected festival to be liked after first toggle")
		}
		if !s.State().IsLiked(festival.PSeq) {
			t.Fatal("expected liked set to contain the festival")
		}
	})

	t.Run("removes a festival already in the liked set", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		festival := testfixtures.NewFestivalFixture()

		if _, err := s.ToggleLikedFestival(ctx, festival); err != nil {
			t.Fatalf("first toggle failed: %v", err)
		}
		liked, err := s.ToggleLikedFestival(ctx, festival)
		if err != nil {
			t.Fatalf("second toggle failed: %v", err)
		}
		if liked {
			t.Fatal("expected festival to be removed after second toggle")
		}
		if state := s.State(); len(state.LikedFestivals) != 0 {
			t.Fatalf("expected empty liked set, got %#v", state.LikedFestivals)
		}
	})

	t.Run("matches by identifier even when other fields differ", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		festival := testfixtures.NewFestivalFixture(testfixtures.WithFestivalPSeq(42))

		if _, err := s.ToggleLikedFestival(ctx, festival); err != nil {
			t.Fatalf("first toggle failed: %v", err)
		}
		renamed := festival
		renamed.Name = "다른 이름"
		liked, err := s.ToggleLikedFestival(ctx, renamed)
		if err != nil {
			t.Fatalf("second toggle failed: %v", err)
		}
		if liked {
			t.Fatal("expected toggle to remove the record with the same pSeq")
		}
	})

	t.Run("keeps liked and calendar sets independent", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		festival := testfixtures.NewFestivalFixture()

		if _, err := s.ToggleLikedFestival(ctx, festival); err != nil {
			t.Fatalf("ToggleLikedFestival failed: %v", err)
		}
		state := s.State()
		if state.IsCalendarSaved(festival.PSeq) {
			t.Fatal("liking a festival must not touch the calendar set")
		}

		if _, err := s.ToggleCalendarFestival(ctx, festival); err != nil {
			t.Fatalf("ToggleCalendarFestival failed: %v", err)
		}
		if _, err := s.ToggleLikedFestival(ctx, festival); err != nil {
			t.Fatalf("ToggleLikedFestival failed: %v", err)
		}
		state = s.State()
		if state.IsLiked(festival.PSeq) {
			t.Fatal("expected festival removed from liked set")
		}
		if !state.IsCalendarSaved(festival.PSeq) {
			t.Fatal("expected festival to stay in the calendar set")
		}
	})
}

func TestTrips(t *testing.T) {
	t.Parallel()

	t.Run("derives the trip id from the clock in milliseconds", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		clock := testfixtures.NewClock(time.Time{})
		s := testfixtures.NewStoreFactory(testfixtures.WithClock(clock)).NewStore()

		trip, err := s.AddTrip(ctx, "봄 여행", "부산광역시", "2025-05-02", "2025-05-04")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
		if trip.ID != clock.Now().UnixMilli() {
			t.Fatalf("expected trip id %d, got %d", clock.Now().UnixMilli(), trip.ID)
		}
		if trip.Display != "2025.05.02 ~ 2025.05.04" {
			t.Fatalf("unexpected display range: %q", trip.Display)
		}
		if got := s.State().CurrentTripID; got != trip.ID {
			t.Fatalf("expected new trip to become current, got %d", got)
		}
	})

	t.Run("updates merge only the provided fields", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		clock := testfixtures.NewClock(time.Time{})
		s := testfixtures.NewStoreFactory(testfixtures.WithClock(clock)).NewStore()

		trip, err := s.AddTrip(ctx, "봄 여행", "부산광역시", "2025-05-02", "2025-05-04")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}

		name := "가을 여행"
		end := "2025-05-06"
		updated, found, err := s.UpdateTrip(ctx, trip.ID, store.TripPatch{Name: &name, End: &end})
		if err != nil {
			t.Fatalf("UpdateTrip failed: %v", err)
		}
		if !found {
			t.Fatal("expected the trip to be found")
		}
		if updated.Name != name || updated.Region != trip.Region {
			t.Fatalf("unexpected merge result: %#v", updated)
		}
		if updated.Display != "2025.05.02 ~ 2025.05.06" {
			t.Fatalf("expected display recomputed, got %q", updated.Display)
		}
	})

	t.Run("treats updates of unknown trips as no-ops", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		name := "없는 여행"
		_, found, err := s.UpdateTrip(ctx, 12345, store.TripPatch{Name: &name})
		if err != nil {
			t.Fatalf("UpdateTrip failed: %v", err)
		}
		if found {
			t.Fatal("expected unknown trip to report not found")
		}
	})

	t.Run("reassigns the current pointer when the current trip is deleted", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		clock := testfixtures.NewClock(time.Time{})
		s := testfixtures.NewStoreFactory(testfixtures.WithClock(clock)).NewStore()

		first, err := s.AddTrip(ctx, "첫번째", "서울특별시", "2025-05-02", "2025-05-03")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
		clock.Advance(time.Second)
		second, err := s.AddTrip(ctx, "두번째", "부산광역시", "2025-06-01", "2025-06-03")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}

		if err := s.DeleteTrip(ctx, second.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		state := s.State()
		if state.CurrentTripID != first.ID {
			t.Fatalf("expected current pointer moved to %d, got %d", first.ID, state.CurrentTripID)
		}

		if err := s.DeleteTrip(ctx, first.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		state = s.State()
		if state.CurrentTripID != 0 {
			t.Fatalf("expected current pointer cleared, got %d", state.CurrentTripID)
		}
		if len(state.Trips) != 0 {
			t.Fatalf("expected no trips, got %#v", state.Trips)
		}
	})

	t.Run("deletes schedule buckets together with the trip", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		clock := testfixtures.NewClock(time.Time{})
		s := testfixtures.NewStoreFactory(testfixtures.WithClock(clock)).NewStore()

		trip, err := s.AddTrip(ctx, "여행", "제주특별자치도", "2025-05-02", "2025-05-04")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
		entry := store.NewFestivalEntry(testfixtures.NewFestivalFixture())
		if err := s.AddScheduleEntry(ctx, trip.ID, 0, entry); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}

		if err := s.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if entries := s.State().DayEntries(trip.ID, 0); entries != nil {
			t.Fatalf("expected schedule bucket removed, got %#v", entries)
		}
	})

	t.Run("clears the editing pointer when the edited trip is deleted", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		trip, err := s.AddTrip(ctx, "여행", "강원특별자치도", "2025-05-02", "2025-05-03")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
		if err := s.SetEditingTrip(ctx, trip.ID); err != nil {
			t.Fatalf("SetEditingTrip failed: %v", err)
		}
		if err := s.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if got := s.State().EditingTripID; got != 0 {
			t.Fatalf("expected editing pointer cleared, got %d", got)
		}
	})
}

func TestScheduleEntries(t *testing.T) {
	t.Parallel()

	t.Run("materializes day buckets lazily and preserves order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		festival := store.NewFestivalEntry(testfixtures.NewFestivalFixture())
		place := store.NewPlaceEntry(testfixtures.NewPlaceFixture())

		if err := s.AddScheduleEntry(ctx, 777, 2, festival); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}
		if err := s.AddScheduleEntry(ctx, 777, 2, place); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}

		entries := s.State().DayEntries(777, 2)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Kind != store.EntryKindFestival || entries[1].Kind != store.EntryKindPlace {
			t.Fatalf("unexpected entry order: %#v", entries)
		}
	})

	t.Run("ignores duplicate entry ids within a day", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		entry := store.NewFestivalEntry(testfixtures.NewFestivalFixture())

		if err := s.AddScheduleEntry(ctx, 1, 0, entry); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}
		if err := s.AddScheduleEntry(ctx, 1, 0, entry); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}
		if entries := s.State().DayEntries(1, 0); len(entries) != 1 {
			t.Fatalf("expected single entry, got %d", len(entries))
		}
	})

	t.Run("removes entries by id and drops empty buckets", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		place := testfixtures.NewPlaceFixture(testfixtures.WithPlaceID("abc"))
		entry := store.NewPlaceEntry(place)

		if err := s.AddScheduleEntry(ctx, 5, 1, entry); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}
		if err := s.RemoveScheduleEntry(ctx, 5, 1, "place_abc"); err != nil {
			t.Fatalf("RemoveScheduleEntry failed: %v", err)
		}
		state := s.State()
		if entries := state.DayEntries(5, 1); entries != nil {
			t.Fatalf("expected bucket removed, got %#v", entries)
		}
		if _, ok := state.Schedules[5]; ok {
			t.Fatal("expected trip bucket removed once empty")
		}
	})

	t.Run("ignores removals for unknown buckets and ids", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		if err := s.RemoveScheduleEntry(ctx, 9, 0, "missing"); err != nil {
			t.Fatalf("RemoveScheduleEntry failed: %v", err)
		}
	})
}

func TestSessionState(t *testing.T) {
	t.Parallel()

	t.Run("rejects login methods outside the supported set", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		err := s.SetLogin(ctx, "hana", store.LoginMethod("github"))
		if !errors.Is(err, store.ErrInvalidLoginMethod) {
			t.Fatalf("expected ErrInvalidLoginMethod, got %v", err)
		}
	})

	t.Run("records and clears the login identity", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		if err := s.SetLogin(ctx, "hana", store.LoginMethodKakao); err != nil {
			t.Fatalf("SetLogin failed: %v", err)
		}
		state := s.State()
		if state.LoginUser != "hana" || state.LoginMethod != store.LoginMethodKakao {
			t.Fatalf("unexpected login state: %#v", state)
		}

		if err := s.ClearLogin(ctx); err != nil {
			t.Fatalf("ClearLogin failed: %v", err)
		}
		state = s.State()
		if state.LoginUser != "" || state.LoginMethod != store.LoginMethodNone {
			t.Fatalf("expected login cleared, got %#v", state)
		}
	})

	t.Run("resets everything on ClearAll", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		if err := s.SetUser(ctx, store.Profile{Nickname: "하나"}); err != nil {
			t.Fatalf("SetUser failed: %v", err)
		}
		if err := s.SetGoogleAccessToken(ctx, "token"); err != nil {
			t.Fatalf("SetGoogleAccessToken failed: %v", err)
		}
		if _, err := s.AddTrip(ctx, "여행", "서울특별시", "2025-05-02", "2025-05-03"); err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
		if _, err := s.ToggleLikedFestival(ctx, testfixtures.NewFestivalFixture()); err != nil {
			t.Fatalf("ToggleLikedFestival failed: %v", err)
		}

		if err := s.ClearAll(ctx); err != nil {
			t.Fatalf("ClearAll failed: %v", err)
		}
		state := s.State()
		if state.User != nil || state.GoogleAccessToken != "" || len(state.Trips) != 0 || len(state.LikedFestivals) != 0 {
			t.Fatalf("expected zero state, got %#v", state)
		}
		if state.CurrentTripID != 0 || len(state.Schedules) != 0 {
			t.Fatalf("expected pointers and schedules cleared, got %#v", state)
		}
	})
}

func TestPersistence(t *testing.T) {
	t.Parallel()

	t.Run("writes a snapshot on every mutation", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := testfixtures.NewMemorySnapshotRepository()
		s := testfixtures.NewStoreFactory(testfixtures.WithSnapshots(repo)).NewStore()

		if err := s.SetSelectedFestival(ctx, 42); err != nil {
			t.Fatalf("SetSelectedFestival failed: %v", err)
		}
		if repo.SaveCount != 1 {
			t.Fatalf("expected one snapshot write, got %d", repo.SaveCount)
		}
		record, err := repo.GetSnapshot(ctx, store.SnapshotNamespace)
		if err != nil {
			t.Fatalf("GetSnapshot failed: %v", err)
		}
		snap, err := store.DecodeSnapshot(record.Payload)
		if err != nil {
			t.Fatalf("DecodeSnapshot failed: %v", err)
		}
		if snap.SelectedFestivalPSeq != 42 {
			t.Fatalf("unexpected snapshot: %#v", snap)
		}
	})

	t.Run("rolls the mutation back when persistence fails", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := testfixtures.NewMemorySnapshotRepository()
		s := testfixtures.NewStoreFactory(testfixtures.WithSnapshots(repo)).NewStore()

		repo.SaveErr = errors.New("disk full")
		if _, err := s.ToggleLikedFestival(ctx, testfixtures.NewFestivalFixture()); err == nil {
			t.Fatal("expected mutation to fail")
		}
		if state := s.State(); len(state.LikedFestivals) != 0 {
			t.Fatalf("expected mutation rolled back, got %#v", state.LikedFestivals)
		}
	})

	t.Run("rolling back a failed mutation leaves a concurrent commit intact", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := testfixtures.NewMemorySnapshotRepository()
		s := testfixtures.NewStoreFactory(testfixtures.WithSnapshots(repo)).NewStore()

		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		repo.SaveHook = func() error {
			var failing bool
			once.Do(func() {
				failing = true
				close(started)
				<-release
			})
			if failing {
				return errors.New("disk full")
			}
			return nil
		}

		selectErr := make(chan error, 1)
		go func() { selectErr <- s.SetSelectedFestival(ctx, 42) }()
		<-started

		tripErr := make(chan error, 1)
		go func() {
			_, err := s.AddTrip(ctx, "부산 여행", "부산광역시", "2025-06-10", "2025-06-12")
			tripErr <- err
		}()
		close(release)

		if err := <-selectErr; err == nil {
			t.Fatal("expected the blocked mutation to fail")
		}
		if err := <-tripErr; err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}

		state := s.State()
		if len(state.Trips) != 1 {
			t.Fatalf("expected the committed trip to survive the rollback, got %#v", state.Trips)
		}
		if state.SelectedFestivalPSeq != 0 {
			t.Fatalf("expected the failed selection rolled back, got %d", state.SelectedFestivalPSeq)
		}

		record, err := repo.GetSnapshot(ctx, store.SnapshotNamespace)
		if err != nil {
			t.Fatalf("GetSnapshot failed: %v", err)
		}
		snap, err := store.DecodeSnapshot(record.Payload)
		if err != nil {
			t.Fatalf("DecodeSnapshot failed: %v", err)
		}
		if len(snap.Trips) != 1 {
			t.Fatalf("expected the committed trip in the durable snapshot, got %#v", snap.Trips)
		}
	})

	t.Run("rehydrates state from a stored snapshot", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := testfixtures.NewMemorySnapshotRepository()
		clock := testfixtures.NewClock(time.Time{})
		factory := testfixtures.NewStoreFactory(testfixtures.WithSnapshots(repo), testfixtures.WithClock(clock))

		first := factory.NewStore()
		trip, err := first.AddTrip(ctx, "여행", "전라남도", "2025-05-02", "2025-05-04")
		if err != nil {
			t.Fatalf("AddTrip failed: %v", err)
		}
		if err := first.AddScheduleEntry(ctx, trip.ID, 1, store.NewPlaceEntry(testfixtures.NewPlaceFixture())); err != nil {
			t.Fatalf("AddScheduleEntry failed: %v", err)
		}
		if err := first.SetGoogleAccessToken(ctx, "ya29.stored"); err != nil {
			t.Fatalf("SetGoogleAccessToken failed: %v", err)
		}
		if err := first.SetKakaoAuthCode(ctx, "kakao-code"); err != nil {
			t.Fatalf("SetKakaoAuthCode failed: %v", err)
		}

		second := factory.NewStore()
		if err := second.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		state := second.State()
		if len(state.Trips) != 1 || state.Trips[0].ID != trip.ID {
			t.Fatalf("expected trip restored, got %#v", state.Trips)
		}
		if len(state.DayEntries(trip.ID, 1)) != 1 {
			t.Fatalf("expected schedule restored, got %#v", state.Schedules)
		}
		if state.GoogleAccessToken != "ya29.stored" {
			t.Fatalf("expected Google token restored, got %q", state.GoogleAccessToken)
		}
		if state.KakaoAuthCode != "kakao-code" {
			t.Fatalf("expected Kakao code restored, got %q", state.KakaoAuthCode)
		}
	})

	t.Run("starts from the zero state when no snapshot exists", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()
		if err := s.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if state := s.State(); state.User != nil || len(state.Trips) != 0 {
			t.Fatalf("expected zero state, got %#v", state)
		}
	})
}

func TestObservers(t *testing.T) {
	t.Parallel()

	t.Run("notifies subscribers after each committed mutation", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := testfixtures.NewStoreFactory().NewStore()

		var seen []int
		id := s.Subscribe(func(state store.State) {
			seen = append(seen, len(state.LikedFestivals))
		})

		if _, err := s.ToggleLikedFestival(ctx, testfixtures.NewFestivalFixture()); err != nil {
			t.Fatalf("ToggleLikedFestival failed: %v", err)
		}
		if len(seen) != 1 || seen[0] != 1 {
			t.Fatalf("expected one notification with one liked festival, got %v", seen)
		}

		s.Unsubscribe(id)
		if _, err := s.ToggleLikedFestival(ctx, testfixtures.NewFestivalFixture()); err != nil {
			t.Fatalf("ToggleLikedFestival failed: %v", err)
		}
		if len(seen) != 1 {
			t.Fatalf("expected no notification after unsubscribe, got %v", seen)
		}
	})

	t.Run("skips notification when persistence rejects the mutation", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		repo := testfixtures.NewMemorySnapshotRepository()
		s := testfixtures.NewStoreFactory(testfixtures.WithSnapshots(repo)).NewStore()

		notified := false
		s.Subscribe(func(store.State) { notified = true })

		repo.SaveErr = errors.New("disk full")
		if err := s.SetKakaoAuthCode(ctx, "code"); err == nil {
			t.Fatal("expected mutation to fail")
		}
		if notified {
			t.Fatal("expected no notification for a failed mutation")
		}
	})
}
