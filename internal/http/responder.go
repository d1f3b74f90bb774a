package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/calendar"
	"github.com/festory/festory/internal/store"
	"github.com/festory/festory/internal/weather"
)

var (
	errBadRequestBody    = errors.New("요청 형식이 올바르지 않습니다.")
	errInvalidTripID     = errors.New("여행 ID가 올바르지 않습니다.")
	errInvalidDay        = errors.New("여행 일차가 올바르지 않습니다.")
	errInvalidEntryID    = errors.New("일정 항목 ID가 올바르지 않습니다.")
	errInvalidFestivalID = errors.New("축제 ID가 올바르지 않습니다.")
	errInvalidEventID    = errors.New("일정 ID가 올바르지 않습니다.")
	errInvalidDateRange  = errors.New("조회 기간이 올바르지 않습니다.")
	errMissingRegion     = errors.New("지역을 지정해주세요.")

	errInvalidCoordinates = errors.New("좌표 값이 올바르지 않습니다.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "아이디 또는 비밀번호가 올바르지 않습니다.",
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "AUTH_ALREADY_EXISTS",
			Message:   "이미 가입된 계정입니다.",
		})
	case errors.Is(err, application.ErrInvalidStateToken):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_STATE",
			Message:   "인증 요청이 만료되었거나 위조되었습니다. 다시 시도해주세요.",
		})
	case errors.Is(err, calendar.ErrTokenExpired):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "TOKEN_EXPIRED",
			Message:   "구글 인증이 만료되었습니다. 다시 로그인해주세요.",
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Message: "이 작업을 수행할 권한이 없습니다."})
	case errors.Is(err, application.ErrNotFound), errors.Is(err, weather.ErrUnknownRegion):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "요청한 리소스를 찾을 수 없습니다."})
	case errors.Is(err, store.ErrInvalidLoginMethod):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{Message: "지원하지 않는 로그인 방식입니다."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "입력 내용을 확인해주세요.",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "서버 내부 오류가 발생했습니다."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "요청 내용이 올바르지 않습니다."
	case http.StatusUnauthorized:
		return "인증이 필요합니다."
	case http.StatusForbidden:
		return "이 작업을 수행할 권한이 없습니다."
	case http.StatusNotFound:
		return "요청한 리소스를 찾을 수 없습니다."
	case http.StatusConflict:
		return "요청이 리소스의 현재 상태와 충돌합니다."
	case http.StatusUnprocessableEntity:
		return "입력 내용을 확인해주세요."
	default:
		return "서버 내부 오류가 발생했습니다."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
