package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/places"
	"github.com/festory/festory/internal/store"
)

type placeSearcher interface {
	SearchNearby(ctx context.Context, lat, lon float64, radiusMeters int, keyword string) ([]places.Result, error)
	PhotoURL(reference string, maxWidth int) string
}

type PlaceHandler struct {
	places    placeSearcher
	responder responder
	logger    *slog.Logger
}

func NewPlaceHandler(searcher placeSearcher, logger *slog.Logger) *PlaceHandler {
	base := defaultLogger(logger)
	return &PlaceHandler{places: searcher, responder: newResponder(base), logger: base}
}

func (h *PlaceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PlaceHandler", operation, attrs...)
}

type searchPlacesResponse struct {
	Places []store.PlaceEntry `json:"places"`
}

func (h *PlaceHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.places == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(query.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCoordinates)
		return
	}
	radius := 0
	if raw := query.Get("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCoordinates)
			return
		}
		radius = parsed
	}
	keyword := query.Get("keyword")

	logger := h.log(r.Context(), "Search", "keyword", keyword)
	results, err := h.places.SearchNearby(r.Context(), lat, lon, radius, keyword)
	if err != nil {
		logger.ErrorContext(r.Context(), "place search failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	entries := make([]store.PlaceEntry, 0, len(results))
	for _, result := range results {
		photoURL := ""
		if result.PhotoReference != "" {
			photoURL = h.places.PhotoURL(result.PhotoReference, 0)
		}
		entries = append(entries, places.ToPlaceEntry(result, photoURL))
	}

	logger.With("result_count", len(entries)).InfoContext(r.Context(), "places searched")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, searchPlacesResponse{Places: entries})
}
