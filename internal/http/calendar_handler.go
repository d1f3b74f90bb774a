package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/festory/festory/internal/calendar"
	"github.com/festory/festory/internal/store"
)

type calendarProvider interface {
	ListEvents(ctx context.Context, token string, from, to time.Time) ([]calendar.Event, error)
	UpdateEvent(ctx context.Context, token string, event calendar.Event) (calendar.Event, error)
	DeleteEvent(ctx context.Context, token, eventID string) error
}

// CalendarHandler proxies event reads and writes to the external calendar
// using the stored Google token. A missing or expired token answers 401 so the
// client can re-authenticate; expiry also drops the stored token.
type CalendarHandler struct {
	store     *store.Store
	provider  calendarProvider
	tokens    googleTokenClearer
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(st *store.Store, provider calendarProvider, tokens googleTokenClearer, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{
		store:     st,
		provider:  provider,
		tokens:    tokens,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

func (h *CalendarHandler) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := h.store.State().GoogleAccessToken
	if token == "" {
		h.responder.handleServiceError(r.Context(), w, calendar.ErrTokenExpired)
		return "", false
	}
	return token, true
}

func (h *CalendarHandler) handleProviderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, calendar.ErrTokenExpired) {
		if h.tokens != nil {
			if clearErr := h.tokens.ClearGoogleToken(r.Context()); clearErr != nil {
				logger.ErrorContext(r.Context(), "failed to clear expired token", "error", clearErr)
			}
		}
		logger.WarnContext(r.Context(), "google token expired during calendar request")
	} else {
		logger.ErrorContext(r.Context(), "calendar provider request failed", "error", err)
	}
	h.responder.handleServiceError(r.Context(), w, err)
}

type eventListResponse struct {
	Events []calendar.Event `json:"events"`
}

func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil || h.provider == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	from, fromErr := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	to, toErr := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if fromErr != nil || toErr != nil || to.Before(from) {
		h.log(r.Context(), "ListEvents", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid event range",
			"from", r.URL.Query().Get("from"), "to", r.URL.Query().Get("to"))
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDateRange)
		return
	}

	token, ok := h.token(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "ListEvents")
	events, err := h.provider.ListEvents(r.Context(), token, from, to.AddDate(0, 0, 1))
	if err != nil {
		h.handleProviderError(w, r, logger, err)
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}

	logger.With("result_count", len(events)).InfoContext(r.Context(), "calendar events listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventListResponse{Events: events})
}

type updateEventRequest struct {
	Summary     string `json:"summary" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Start       string `json:"start" validate:"required,datetime=2006-01-02"`
	End         string `json:"end" validate:"required,datetime=2006-01-02"`
}

func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil || h.provider == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateEvent", "event_id", eventID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	start, _ := time.Parse("2006-01-02", req.Start)
	end, _ := time.Parse("2006-01-02", req.End)

	token, ok := h.token(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "UpdateEvent", "event_id", eventID)
	stored, err := h.provider.UpdateEvent(r.Context(), token, calendar.Event{
		ID:          eventID,
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       start,
		End:         end,
		AllDay:      true,
	})
	if err != nil {
		h.handleProviderError(w, r, logger, err)
		return
	}

	logger.InfoContext(r.Context(), "calendar event updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, stored)
}

func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil || h.provider == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "DeleteEvent", "event_id", eventID)
	if err := h.provider.DeleteEvent(r.Context(), token, eventID); err != nil {
		h.handleProviderError(w, r, logger, err)
		return
	}

	logger.InfoContext(r.Context(), "calendar event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
