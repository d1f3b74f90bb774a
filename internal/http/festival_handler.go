package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/festory/festory/internal/festival"
	"github.com/festory/festory/internal/store"
)

type festivalCatalog interface {
	All() []store.Festival
	Get(pSeq int64) (store.Festival, bool)
	List(filter festival.Filter) []store.Festival
}

type FestivalHandler struct {
	catalog   festivalCatalog
	store     *store.Store
	responder responder
	logger    *slog.Logger
}

func NewFestivalHandler(catalog festivalCatalog, st *store.Store, logger *slog.Logger) *FestivalHandler {
	base := defaultLogger(logger)
	return &FestivalHandler{catalog: catalog, store: st, responder: newResponder(base), logger: base}
}

func (h *FestivalHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FestivalHandler", operation, attrs...)
}

type festivalDTO struct {
	store.Festival
	Liked         bool `json:"liked"`
	CalendarSaved bool `json:"calendarSaved"`
}

type listFestivalsResponse struct {
	Festivals []festivalDTO `json:"festivals"`
	Total     int           `json:"total"`
}

func filterFromQuery(r *http.Request) festival.Filter {
	query := r.URL.Query()
	filter := festival.Filter{
		Keyword:  strings.TrimSpace(query.Get("keyword")),
		Duration: strings.TrimSpace(query.Get("duration")),
	}
	for _, region := range query["region"] {
		for _, label := range strings.Split(region, ",") {
			if label = strings.TrimSpace(label); label != "" {
				filter.Regions = append(filter.Regions, label)
			}
		}
	}
	if freeValue := query.Get("free"); freeValue != "" {
		free := freeValue == "true"
		filter.Free = &free
	}
	if query.Get("weekend") == "true" {
		filter.IncludesWeekend = true
	}
	return filter
}

func (h *FestivalHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter := filterFromQuery(r)
	logger := h.log(r.Context(), "List",
		"keyword", filter.Keyword,
		"regions", strings.Join(filter.Regions, ","),
		"duration", filter.Duration,
	)

	festivals := h.catalog.List(filter)
	state := h.state()

	dtos := make([]festivalDTO, 0, len(festivals))
	for _, f := range festivals {
		dtos = append(dtos, festivalDTO{
			Festival:      f,
			Liked:         state.IsLiked(f.PSeq),
			CalendarSaved: state.IsCalendarSaved(f.PSeq),
		})
	}

	logger.With("result_count", len(dtos)).InfoContext(r.Context(), "festivals listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listFestivalsResponse{Festivals: dtos, Total: len(dtos)})
}

func (h *FestivalHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	pSeq, ok := FestivalIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFestivalID)
		return
	}

	logger := h.log(r.Context(), "Get", "festival_id", pSeq)
	f, found := h.catalog.Get(pSeq)
	if !found {
		logger.WarnContext(r.Context(), "festival not found")
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "축제를 찾을 수 없습니다."})
		return
	}

	state := h.state()
	logger.InfoContext(r.Context(), "festival fetched")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, festivalDTO{
		Festival:      f,
		Liked:         state.IsLiked(f.PSeq),
		CalendarSaved: state.IsCalendarSaved(f.PSeq),
	})
}

func (h *FestivalHandler) state() store.State {
	if h.store == nil {
		return store.State{}
	}
	return h.store.State()
}

func parseFestivalID(raw string) (int64, bool) {
	pSeq, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || pSeq <= 0 {
		return 0, false
	}
	return pSeq, true
}
