package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/store"
	"github.com/festory/festory/internal/taste"
)

type TasteHandler struct {
	store     *store.Store
	catalog   festivalCatalog
	responder responder
	logger    *slog.Logger
}

func NewTasteHandler(st *store.Store, catalog festivalCatalog, logger *slog.Logger) *TasteHandler {
	base := defaultLogger(logger)
	return &TasteHandler{store: st, catalog: catalog, responder: newResponder(base), logger: base}
}

func (h *TasteHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TasteHandler", operation, attrs...)
}

type tasteAnswerRequest struct {
	QuestionIndex int      `json:"questionIndex" validate:"gte=0"`
	OptionIDs     []int    `json:"optionIds" validate:"required,min=1"`
	Question      string   `json:"question,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

func (h *TasteHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req tasteAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "AddAnswer", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode taste answer", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "AddAnswer", "question_index", req.QuestionIndex)
	answer := store.TasteAnswer{
		QuestionIndex: req.QuestionIndex,
		OptionIDs:     req.OptionIDs,
		Question:      req.Question,
		Tags:          req.Tags,
	}
	if err := h.store.AddTasteAnswer(r.Context(), answer); err != nil {
		logger.ErrorContext(r.Context(), "taste answer rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "taste answer recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, answer)
}

func (h *TasteHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Reset")
	if err := h.store.ClearTasteAnswers(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "taste reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if err := h.store.ClearTasteType(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "taste reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "taste answers cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type tasteResultResponse struct {
	Result          taste.Result           `json:"result"`
	Recommendations []taste.Recommendation `json:"recommendations"`
}

func (h *TasteHandler) Result(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Result")
	state := h.store.State()
	result := taste.Derive(state.TasteAnswers)
	if err := h.store.SetTasteType(r.Context(), result.Type); err != nil {
		logger.ErrorContext(r.Context(), "taste type persist failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var recommendations []taste.Recommendation
	if h.catalog != nil {
		recommendations = taste.Recommend(h.catalog.All())
	}

	logger.With("taste_type", int(result.Type), "result_count", len(recommendations)).InfoContext(r.Context(), "taste result derived")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, tasteResultResponse{
		Result:          result,
		Recommendations: recommendations,
	})
}
