package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/calendar"
	"github.com/festory/festory/internal/store"
)

type calendarInserter interface {
	InsertEvent(ctx context.Context, token string, event calendar.Event) (calendar.Event, error)
}

type googleTokenClearer interface {
	ClearGoogleToken(ctx context.Context) error
}

// CollectionHandler serves the liked and saved-calendar festival sets. Saving
// a festival to the calendar set also writes it to the external calendar when
// a Google token is present; the local toggle is kept either way.
type CollectionHandler struct {
	store     *store.Store
	catalog   festivalCatalog
	calendar  calendarInserter
	tokens    googleTokenClearer
	responder responder
	logger    *slog.Logger
}

func NewCollectionHandler(st *store.Store, catalog festivalCatalog, inserter calendarInserter, tokens googleTokenClearer, logger *slog.Logger) *CollectionHandler {
	base := defaultLogger(logger)
	return &CollectionHandler{
		store:     st,
		catalog:   catalog,
		calendar:  inserter,
		tokens:    tokens,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *CollectionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CollectionHandler", operation, attrs...)
}

type toggleResponse struct {
	Liked *bool  `json:"liked,omitempty"`
	Saved *bool  `json:"saved,omitempty"`
	Event string `json:"eventId,omitempty"`
}

type festivalListResponse struct {
	Festivals []store.Festival `json:"festivals"`
}

func (h *CollectionHandler) lookupFestival(w http.ResponseWriter, r *http.Request) (store.Festival, bool) {
	pSeq, ok := FestivalIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFestivalID)
		return store.Festival{}, false
	}
	f, found := h.catalog.Get(pSeq)
	if !found {
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "축제를 찾을 수 없습니다."})
		return store.Festival{}, false
	}
	return f, true
}

func (h *CollectionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	f, ok := h.lookupFestival(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "ToggleLike", "festival_id", f.PSeq)
	liked, err := h.store.ToggleLikedFestival(r.Context(), f)
	if err != nil {
		logger.ErrorContext(r.Context(), "like toggle failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("liked", liked).InfoContext(r.Context(), "like toggled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toggleResponse{Liked: &liked})
}

func (h *CollectionHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	state := h.store.State()
	h.log(r.Context(), "ListLikes").With("result_count", len(state.LikedFestivals)).InfoContext(r.Context(), "likes listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, festivalListResponse{Festivals: state.LikedFestivals})
}

func (h *CollectionHandler) ToggleCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	f, ok := h.lookupFestival(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "ToggleCalendar", "festival_id", f.PSeq)
	saved, err := h.store.ToggleCalendarFestival(r.Context(), f)
	if err != nil {
		logger.ErrorContext(r.Context(), "calendar toggle failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := toggleResponse{Saved: &saved}
	if saved && h.calendar != nil {
		if token := h.store.State().GoogleAccessToken; token != "" {
			event, buildErr := calendar.EventForFestival(f)
			if buildErr != nil {
				logger.WarnContext(r.Context(), "festival has no calendar period", "error", buildErr)
			} else {
				stored, insertErr := h.calendar.InsertEvent(r.Context(), token, event)
				switch {
				case insertErr == nil:
					response.Event = stored.ID
				case errors.Is(insertErr, calendar.ErrTokenExpired):
					if h.tokens != nil {
						if clearErr := h.tokens.ClearGoogleToken(r.Context()); clearErr != nil {
							logger.ErrorContext(r.Context(), "failed to clear expired token", "error", clearErr)
						}
					}
					logger.WarnContext(r.Context(), "google token expired during calendar save")
					h.responder.handleServiceError(r.Context(), w, insertErr)
					return
				default:
					logger.ErrorContext(r.Context(), "calendar insert failed", "error", insertErr)
					h.responder.handleServiceError(r.Context(), w, insertErr)
					return
				}
			}
		}
	}

	logger.With("saved", saved).InfoContext(r.Context(), "calendar save toggled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *CollectionHandler) ListCalendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	state := h.store.State()
	h.log(r.Context(), "ListCalendar").With("result_count", len(state.SavedCalendarFestivals)).InfoContext(r.Context(), "calendar festivals listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, festivalListResponse{Festivals: state.SavedCalendarFestivals})
}
