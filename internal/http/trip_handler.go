package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/calendar"
	"github.com/festory/festory/internal/planner"
	"github.com/festory/festory/internal/store"
)

type TripHandler struct {
	store     *store.Store
	catalog   festivalCatalog
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

func NewTripHandler(st *store.Store, catalog festivalCatalog, now func() time.Time, logger *slog.Logger) *TripHandler {
	base := defaultLogger(logger)
	if now == nil {
		now = time.Now
	}
	return &TripHandler{store: st, catalog: catalog, now: now, responder: newResponder(base), logger: base}
}

func (h *TripHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TripHandler", operation, attrs...)
}

type listTripsResponse struct {
	Trips         []store.Trip `json:"trips"`
	CurrentTripID int64        `json:"currentTripId"`
	EditingTripID int64        `json:"editingTripId,omitempty"`
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	state := h.store.State()
	h.log(r.Context(), "List").With("result_count", len(state.Trips)).InfoContext(r.Context(), "trips listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTripsResponse{
		Trips:         state.Trips,
		CurrentTripID: state.CurrentTripID,
		EditingTripID: state.EditingTripID,
	})
}

type createTripRequest struct {
	Name   string `json:"name" validate:"required"`
	Region string `json:"region" validate:"required"`
	Start  string `json:"start" validate:"required,datetime=2006-01-02"`
	End    string `json:"end" validate:"required,datetime=2006-01-02"`
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode trip request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "trip_name", req.Name)
	trip, err := h.store.AddTrip(r.Context(), req.Name, req.Region, req.Start, req.End)
	if err != nil {
		logger.ErrorContext(r.Context(), "trip creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("trip_id", trip.ID).InfoContext(r.Context(), "trip created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, trip)
}

type updateTripRequest struct {
	Name   *string `json:"name,omitempty"`
	Region *string `json:"region,omitempty"`
	Start  *string `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End    *string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tripID, ok := TripIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTripID)
		return
	}

	var req updateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "trip_id", tripID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode trip update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "trip_id", tripID)
	trip, found, err := h.store.UpdateTrip(r.Context(), tripID, store.TripPatch{
		Name:   req.Name,
		Region: req.Region,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "trip update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !found {
		logger.WarnContext(r.Context(), "trip not found")
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "여행을 찾을 수 없습니다."})
		return
	}

	logger.InfoContext(r.Context(), "trip updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, trip)
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tripID, ok := TripIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTripID)
		return
	}

	logger := h.log(r.Context(), "Delete", "trip_id", tripID)
	if err := h.store.DeleteTrip(r.Context(), tripID); err != nil {
		logger.ErrorContext(r.Context(), "trip delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "trip deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type tripPointerRequest struct {
	TripID int64 `json:"tripId"`
}

func (h *TripHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	h.setPointer(w, r, "SetCurrent", h.storeSetCurrent)
}

func (h *TripHandler) SetEditing(w http.ResponseWriter, r *http.Request) {
	h.setPointer(w, r, "SetEditing", h.storeSetEditing)
}

func (h *TripHandler) storeSetCurrent(ctx context.Context, id int64) error {
	return h.store.SetCurrentTrip(ctx, id)
}

func (h *TripHandler) storeSetEditing(ctx context.Context, id int64) error {
	return h.store.SetEditingTrip(ctx, id)
}

func (h *TripHandler) setPointer(w http.ResponseWriter, r *http.Request, operation string, set func(context.Context, int64) error) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req tripPointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode pointer request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), operation, "trip_id", req.TripID)
	if err := set(r.Context(), req.TripID); err != nil {
		logger.ErrorContext(r.Context(), "pointer update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "pointer updated")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type addEntryRequest struct {
	Kind       store.EntryKind  `json:"kind" validate:"required,oneof=festival place"`
	FestivalID int64            `json:"festivalId,omitempty"`
	Place      *placeEntryInput `json:"place,omitempty"`
}

type placeEntryInput struct {
	PlaceID   string  `json:"placeId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	TypeLabel string  `json:"typeLabel,omitempty"`
	Address   string  `json:"address,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	PhotoURL  string  `json:"photoUrl,omitempty"`
}

type entryResponse struct {
	Entry store.ScheduleEntry `json:"entry"`
}

func (h *TripHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tripID, okTrip := TripIDFromContext(r.Context())
	day, okDay := DayFromContext(r.Context())
	if !okTrip {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTripID)
		return
	}
	if !okDay {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}

	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "AddEntry", "trip_id", tripID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode entry request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "AddEntry", "trip_id", tripID, "day", day, "kind", string(req.Kind))

	var entry store.ScheduleEntry
	switch req.Kind {
	case store.EntryKindFestival:
		if h.catalog == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		f, found := h.catalog.Get(req.FestivalID)
		if !found {
			logger.WarnContext(r.Context(), "festival not found", "festival_id", req.FestivalID)
			h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "축제를 찾을 수 없습니다."})
			return
		}
		entry = store.NewFestivalEntry(f)
	case store.EntryKindPlace:
		if req.Place == nil {
			h.responder.handleServiceError(r.Context(), w, &application.ValidationError{
				FieldErrors: map[string]string{"place": "장소 정보가 없습니다."},
			})
			return
		}
		if err := validateRequest(*req.Place); err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		entry = store.NewPlaceEntry(store.PlaceEntry{
			PlaceID:   req.Place.PlaceID,
			Name:      req.Place.Name,
			TypeLabel: req.Place.TypeLabel,
			Address:   req.Place.Address,
			Rating:    req.Place.Rating,
			Latitude:  req.Place.Latitude,
			Longitude: req.Place.Longitude,
			PhotoURL:  req.Place.PhotoURL,
		})
	}

	if err := h.store.AddScheduleEntry(r.Context(), tripID, day, entry); err != nil {
		logger.ErrorContext(r.Context(), "entry add failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("entry_id", entry.ID()).InfoContext(r.Context(), "entry added")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, entryResponse{Entry: entry})
}

func (h *TripHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tripID, okTrip := TripIDFromContext(r.Context())
	day, okDay := DayFromContext(r.Context())
	entryID, okEntry := EntryIDFromContext(r.Context())
	if !okTrip {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTripID)
		return
	}
	if !okDay {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}
	if !okEntry || entryID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	logger := h.log(r.Context(), "RemoveEntry", "trip_id", tripID, "day", day, "entry_id", entryID)
	if err := h.store.RemoveScheduleEntry(r.Context(), tripID, day, entryID); err != nil {
		logger.ErrorContext(r.Context(), "entry removal failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "entry removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type scheduleResponse struct {
	Trip     store.Trip                    `json:"trip"`
	Days     map[int][]store.ScheduleEntry `json:"days"`
	Warnings []planner.Warning             `json:"warnings"`
}

func (h *TripHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tripID, ok := TripIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTripID)
		return
	}

	logger := h.log(r.Context(), "Schedule", "trip_id", tripID)
	state := h.store.State()
	trip, found := state.TripByID(tripID)
	if !found {
		logger.WarnContext(r.Context(), "trip not found")
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "여행을 찾을 수 없습니다."})
		return
	}

	days := state.Schedules[tripID]
	if days == nil {
		days = map[int][]store.ScheduleEntry{}
	}
	warnings := planner.InspectTrip(state, tripID)

	logger.With("warning_count", len(warnings)).InfoContext(r.Context(), "schedule fetched")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{
		Trip:     trip,
		Days:     days,
		Warnings: warnings,
	})
}

func (h *TripHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tripID, ok := TripIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTripID)
		return
	}

	logger := h.log(r.Context(), "ExportICS", "trip_id", tripID)
	state := h.store.State()
	trip, found := state.TripByID(tripID)
	if !found {
		logger.WarnContext(r.Context(), "trip not found")
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "여행을 찾을 수 없습니다."})
		return
	}

	feed, err := calendar.ExportTrip(trip, state.Schedules[tripID], h.now())
	if err != nil {
		logger.ErrorContext(r.Context(), "ics export failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "ics exported")
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trip.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write ics body", "error", err)
	}
}
