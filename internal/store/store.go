package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/festory/festory/internal/persistence"
)

// ErrInvalidLoginMethod is returned by SetLogin for a provider outside the
// supported set.
var ErrInvalidLoginMethod = errors.New("store: invalid login method")

// SnapshotRepository persists the serialized store snapshot. SaveSnapshot
// replaces the row for the namespace; GetSnapshot returns
// persistence.ErrNotFound when no snapshot was ever written.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, record persistence.SnapshotRecord) error
	GetSnapshot(ctx context.Context, namespace string) (persistence.SnapshotRecord, error)
}

// Observer receives a deep copy of the state after every committed mutation.
// Observers run synchronously on the mutating goroutine and must not call back
// into the store.
type Observer func(State)

// Store is the single mutable state container of the application. All reads
// and writes go through its methods; every committed mutation is written
// through to the snapshot repository before observers are notified.
type Store struct {
	mu        sync.Mutex
	state     State
	repo      SnapshotRepository
	now       func() time.Time
	logger    *slog.Logger
	observers map[string]Observer
}

// New builds a store around the given snapshot repository. The clock and
// logger fall back to time.Now and the default slog logger when nil.
func New(repo SnapshotRepository, now func() time.Time, logger *slog.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:     State{Schedules: Schedule{}},
		repo:      repo,
		now:       now,
		logger:    logger,
		observers: map[string]Observer{},
	}
}

// Load rehydrates the store from the persisted snapshot. A missing snapshot
// and an unsupported snapshot version both leave the zero state in place.
func (s *Store) Load(ctx context.Context) error {
	record, err := s.repo.GetSnapshot(ctx, SnapshotNamespace)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("store: load snapshot: %w", err)
	}
	snap, err := DecodeSnapshot(record.Payload)
	if err != nil {
		if errors.Is(err, ErrUnsupportedSnapshotVersion) {
			s.logger.WarnContext(ctx, "discarding snapshot with unsupported version", slog.String("error", err.Error()))
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.state = snap.Apply()
	if s.state.Schedules == nil {
		s.state.Schedules = Schedule{}
	}
	s.mu.Unlock()
	return nil
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Subscribe registers an observer and returns its subscription id.
func (s *Store) Subscribe(fn Observer) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.observers[id] = fn
	return id
}

// Unsubscribe removes a previously registered observer. Unknown ids are
// ignored.
func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
}

// mutate applies fn to the state, persists the resulting snapshot and notifies
// observers. The lock is held across persistence so concurrent mutations apply
// and persist in the same order and a rollback only ever reverts its own
// mutation. Observers are called after the lock is released.
func (s *Store) mutate(ctx context.Context, operation string, fn func(*State)) error {
	s.mu.Lock()
	previous := cloneState(s.state)
	fn(&s.state)

	payload, err := EncodeSnapshot(SnapshotOf(s.state))
	if err == nil {
		err = s.repo.SaveSnapshot(ctx, persistence.SnapshotRecord{
			Namespace: SnapshotNamespace,
			Payload:   payload,
			UpdatedAt: s.now(),
		})
	}
	if err != nil {
		s.state = previous
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "store mutation not persisted",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return fmt.Errorf("store: %s: %w", operation, err)
	}

	committed := cloneState(s.state)
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()
	for _, fn := range observers {
		fn(cloneState(committed))
	}
	return nil
}

// SetUser replaces the signed-in profile.
func (s *Store) SetUser(ctx context.Context, profile Profile) error {
	return s.mutate(ctx, "set_user", func(st *State) {
		st.User = &profile
	})
}

// ClearUser drops the signed-in profile.
func (s *Store) ClearUser(ctx context.Context) error {
	return s.mutate(ctx, "clear_user", func(st *State) {
		st.User = nil
	})
}

// SetLogin records the authenticated account name and its provider.
func (s *Store) SetLogin(ctx context.Context, loginUser string, method LoginMethod) error {
	if !method.Valid() || method == LoginMethodNone {
		return fmt.Errorf("%w: %q", ErrInvalidLoginMethod, method)
	}
	return s.mutate(ctx, "set_login", func(st *State) {
		st.LoginUser = loginUser
		st.LoginMethod = method
	})
}

// ClearLogin drops the authenticated account name and provider.
func (s *Store) ClearLogin(ctx context.Context) error {
	return s.mutate(ctx, "clear_login", func(st *State) {
		st.LoginUser = ""
		st.LoginMethod = LoginMethodNone
	})
}

// SetGoogleAccessToken stores the short-lived Google OAuth access token. An
// empty token clears it.
func (s *Store) SetGoogleAccessToken(ctx context.Context, token string) error {
	return s.mutate(ctx, "set_google_access_token", func(st *State) {
		st.GoogleAccessToken = token
	})
}

// SetKakaoAuthCode stores the one-shot Kakao authorization code. An empty code
// clears it.
func (s *Store) SetKakaoAuthCode(ctx context.Context, code string) error {
	return s.mutate(ctx, "set_kakao_auth_code", func(st *State) {
		st.KakaoAuthCode = code
	})
}

// SetSelectedFestival records the festival the user is inspecting. Zero clears
// the selection.
func (s *Store) SetSelectedFestival(ctx context.Context, pSeq int64) error {
	return s.mutate(ctx, "set_selected_festival", func(st *State) {
		st.SelectedFestivalPSeq = pSeq
	})
}

// SetSelectedTravelDates records the date range picked during planning.
func (s *Store) SetSelectedTravelDates(ctx context.Context, dates *TravelDates) error {
	return s.mutate(ctx, "set_selected_travel_dates", func(st *State) {
		st.SelectedTravelDates = dates
	})
}

// ToggleLikedFestival adds the festival to the liked set when absent and
// removes it when present, matching by PSeq. It reports whether the festival
// is liked after the call.
func (s *Store) ToggleLikedFestival(ctx context.Context, festival Festival) (bool, error) {
	var liked bool
	err := s.mutate(ctx, "toggle_liked_festival", func(st *State) {
		st.LikedFestivals, liked = toggleFestival(st.LikedFestivals, festival)
	})
	return liked, err
}

// ToggleCalendarFestival adds or removes the festival from the saved calendar
// set, matching by PSeq. It reports whether the festival is saved after the
// call.
func (s *Store) ToggleCalendarFestival(ctx context.Context, festival Festival) (bool, error) {
	var saved bool
	err := s.mutate(ctx, "toggle_calendar_festival", func(st *State) {
		st.SavedCalendarFestivals, saved = toggleFestival(st.SavedCalendarFestivals, festival)
	})
	return saved, err
}

func toggleFestival(list []Festival, festival Festival) ([]Festival, bool) {
	for i, f := range list {
		if f.PSeq == festival.PSeq {
			return append(list[:i:i], list[i+1:]...), false
		}
	}
	return append(list, festival), true
}

// AddTasteAnswer appends one taste-test response.
func (s *Store) AddTasteAnswer(ctx context.Context, answer TasteAnswer) error {
	return s.mutate(ctx, "add_taste_answer", func(st *State) {
		st.TasteAnswers = append(st.TasteAnswers, answer)
	})
}

// ClearTasteAnswers drops all recorded taste-test responses.
func (s *Store) ClearTasteAnswers(ctx context.Context) error {
	return s.mutate(ctx, "clear_taste_answers", func(st *State) {
		st.TasteAnswers = nil
	})
}

// SetTasteType records the derived taste category.
func (s *Store) SetTasteType(ctx context.Context, tasteType TasteType) error {
	return s.mutate(ctx, "set_taste_type", func(st *State) {
		st.TasteType = tasteType
	})
}

// ClearTasteType drops the derived taste category.
func (s *Store) ClearTasteType(ctx context.Context) error {
	return s.mutate(ctx, "clear_taste_type", func(st *State) {
		st.TasteType = TasteTypeNone
	})
}

// AddTrip creates a trip identified by the current clock in milliseconds and
// makes it the current trip.
func (s *Store) AddTrip(ctx context.Context, name, region, start, end string) (Trip, error) {
	now := s.now()
	trip := Trip{
		ID:        now.UnixMilli(),
		Name:      name,
		Region:    region,
		Start:     start,
		End:       end,
		Display:   DisplayRange(start, end),
		CreatedAt: now,
	}
	err := s.mutate(ctx, "add_trip", func(st *State) {
		st.Trips = append(st.Trips, trip)
		st.CurrentTripID = trip.ID
	})
	if err != nil {
		return Trip{}, err
	}
	return trip, nil
}

// UpdateTrip merges non-nil patch fields into the trip. An unknown id is a
// no-op; the second return value reports whether a trip was updated.
func (s *Store) UpdateTrip(ctx context.Context, id int64, patch TripPatch) (Trip, bool, error) {
	var (
		updated Trip
		found   bool
	)
	err := s.mutate(ctx, "update_trip", func(st *State) {
		for i := range st.Trips {
			if st.Trips[i].ID != id {
				continue
			}
			trip := &st.Trips[i]
			if patch.Name != nil {
				trip.Name = *patch.Name
			}
			if patch.Region != nil {
				trip.Region = *patch.Region
			}
			if patch.Start != nil {
				trip.Start = *patch.Start
			}
			if patch.End != nil {
				trip.End = *patch.End
			}
			if patch.Display != nil {
				trip.Display = *patch.Display
			} else if patch.Start != nil || patch.End != nil {
				trip.Display = DisplayRange(trip.Start, trip.End)
			}
			trip.UpdatedAt = s.now()
			updated = *trip
			found = true
			return
		}
	})
	if err != nil {
		return Trip{}, false, err
	}
	return updated, found, nil
}

// DeleteTrip removes the trip and its schedule buckets. When the deleted trip
// was current, the first remaining trip becomes current; the editing pointer
// is cleared when it referenced the deleted trip.
func (s *Store) DeleteTrip(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete_trip", func(st *State) {
		rest := st.Trips[:0:0]
		for _, trip := range st.Trips {
			if trip.ID != id {
				rest = append(rest, trip)
			}
		}
		st.Trips = rest
		delete(st.Schedules, id)
		if st.CurrentTripID == id {
			st.CurrentTripID = 0
			if len(rest) > 0 {
				st.CurrentTripID = rest[0].ID
			}
		}
		if st.EditingTripID == id {
			st.EditingTripID = 0
		}
	})
}

// SetCurrentTrip moves the current-trip pointer. Zero clears it. The target
// trip is not required to exist.
func (s *Store) SetCurrentTrip(ctx context.Context, id int64) error {
	return s.mutate(ctx, "set_current_trip", func(st *State) {
		st.CurrentTripID = id
	})
}

// SetEditingTrip moves the editing-trip pointer. Zero clears it.
func (s *Store) SetEditingTrip(ctx context.Context, id int64) error {
	return s.mutate(ctx, "set_editing_trip", func(st *State) {
		st.EditingTripID = id
	})
}

// AddScheduleEntry appends the entry to the trip day, materializing the bucket
// on first use. An entry with the same id already present on that day is left
// in place. Neither the trip nor the day offset is validated.
func (s *Store) AddScheduleEntry(ctx context.Context, tripID int64, day int, entry ScheduleEntry) error {
	return s.mutate(ctx, "add_schedule_entry", func(st *State) {
		if st.Schedules == nil {
			st.Schedules = Schedule{}
		}
		days, ok := st.Schedules[tripID]
		if !ok {
			days = map[int][]ScheduleEntry{}
			st.Schedules[tripID] = days
		}
		for _, existing := range days[day] {
			if existing.ID() == entry.ID() {
				return
			}
		}
		days[day] = append(days[day], entry)
	})
}

// RemoveScheduleEntry removes the entry with the given id from the trip day.
// A missing bucket or id is a no-op.
func (s *Store) RemoveScheduleEntry(ctx context.Context, tripID int64, day int, entryID string) error {
	return s.mutate(ctx, "remove_schedule_entry", func(st *State) {
		days, ok := st.Schedules[tripID]
		if !ok {
			return
		}
		entries := days[day]
		kept := entries[:0:0]
		for _, entry := range entries {
			if entry.ID() != entryID {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(days, day)
			if len(days) == 0 {
				delete(st.Schedules, tripID)
			}
			return
		}
		days[day] = kept
	})
}

// ClearAll resets the store to its zero state. Used on logout.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.mutate(ctx, "clear_all", func(st *State) {
		*st = State{Schedules: Schedule{}}
	})
}

func cloneState(s State) State {
	out := s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	if s.SelectedTravelDates != nil {
		dates := *s.SelectedTravelDates
		out.SelectedTravelDates = &dates
	}
	out.LikedFestivals = append([]Festival(nil), s.LikedFestivals...)
	out.SavedCalendarFestivals = append([]Festival(nil), s.SavedCalendarFestivals...)
	out.TasteAnswers = cloneAnswers(s.TasteAnswers)
	out.Trips = append([]Trip(nil), s.Trips...)
	out.Schedules = cloneSchedule(s.Schedules)
	return out
}

func cloneAnswers(answers []TasteAnswer) []TasteAnswer {
	if answers == nil {
		return nil
	}
	out := make([]TasteAnswer, len(answers))
	for i, a := range answers {
		a.OptionIDs = append([]int(nil), a.OptionIDs...)
		a.Tags = append([]string(nil), a.Tags...)
		out[i] = a
	}
	return out
}

func cloneSchedule(schedule Schedule) Schedule {
	out := make(Schedule, len(schedule))
	for tripID, days := range schedule {
		copied := make(map[int][]ScheduleEntry, len(days))
		for day, entries := range days {
			copied[day] = append([]ScheduleEntry(nil), entries...)
		}
		out[tripID] = copied
	}
	return out
}
