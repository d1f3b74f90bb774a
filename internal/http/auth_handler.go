package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/festory/festory/internal/application"
	"github.com/festory/festory/internal/store"
)

type authService interface {
	Signup(ctx context.Context, params application.SignupParams) error
	Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error)
	Logout(ctx context.Context) error
	KakaoAuthorization(ctx context.Context) (application.KakaoAuthorization, error)
	CompleteKakaoLogin(ctx context.Context, code, state string) error
	SetGoogleToken(ctx context.Context, token string) error
}

type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

type signupRequest struct {
	Account  string `json:"account" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname" validate:"required"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Signup", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode signup request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Signup", "account", strings.TrimSpace(strings.ToLower(req.Account)))
	if err := h.service.Signup(r.Context(), application.SignupParams{
		Account:  req.Account,
		Password: req.Password,
		Nickname: req.Nickname,
	}); err != nil {
		logger.ErrorContext(r.Context(), "signup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "account registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, messageResponse{Message: "회원가입이 완료되었습니다."})
}

type loginRequest struct {
	Account  string `json:"account" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Account string        `json:"account"`
	Profile store.Profile `json:"profile"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Login", "account", strings.TrimSpace(strings.ToLower(req.Account)))
	result, err := h.service.Login(r.Context(), application.LoginParams{Account: req.Account, Password: req.Password})
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "login succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{Account: result.Account, Profile: result.Profile})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Logout")
	if err := h.service.Logout(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "logout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "logged out")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type kakaoURLResponse struct {
	URL string `json:"url"`
}

func (h *AuthHandler) KakaoURL(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "KakaoURL")
	auth, err := h.service.KakaoAuthorization(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "authorize url build failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "authorize url issued")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, kakaoURLResponse{URL: auth.URL})
}

func (h *AuthHandler) KakaoCallback(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	logger := h.log(r.Context(), "KakaoCallback", "code_provided", code != "")
	if err := h.service.CompleteKakaoLogin(r.Context(), code, state); err != nil {
		logger.ErrorContext(r.Context(), "kakao callback rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "kakao authorization code accepted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "카카오 인증이 완료되었습니다."})
}

type googleTokenRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

func (h *AuthHandler) GoogleToken(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req googleTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "GoogleToken", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode token request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "GoogleToken")
	if err := h.service.SetGoogleToken(r.Context(), req.AccessToken); err != nil {
		logger.ErrorContext(r.Context(), "google token update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "google token stored")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type messageResponse struct {
	Message string `json:"message"`
}
