package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/weather"
)

type weatherService interface {
	CurrentByRegion(ctx context.Context, label string) (weather.Report, error)
}

type WeatherHandler struct {
	weather   weatherService
	responder responder
	logger    *slog.Logger
}

func NewWeatherHandler(service weatherService, logger *slog.Logger) *WeatherHandler {
	base := defaultLogger(logger)
	return &WeatherHandler{weather: service, responder: newResponder(base), logger: base}
}

func (h *WeatherHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "WeatherHandler", operation, attrs...)
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.weather == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	region := r.URL.Query().Get("region")
	if region == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingRegion)
		return
	}

	logger := h.log(r.Context(), "Current", "region", region)
	report, err := h.weather.CurrentByRegion(r.Context(), region)
	if err != nil {
		logger.ErrorContext(r.Context(), "weather lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "weather fetched")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, report)
}
