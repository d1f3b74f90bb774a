package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/festory/festory/internal/persistence"
	"github.com/festory/festory/internal/store"
)

const defaultKakaoAuthorizeURL = "https://kauth.kakao.com/oauth/authorize"

// ProfileStore exposes the store mutations the auth flows perform.
type ProfileStore interface {
	SetUser(ctx context.Context, profile store.Profile) error
	SetLogin(ctx context.Context, loginUser string, method store.LoginMethod) error
	SetGoogleAccessToken(ctx context.Context, token string) error
	SetKakaoAuthCode(ctx context.Context, code string) error
	ClearAll(ctx context.Context) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// PasswordHasher derives a stored hash from a cleartext password.
type PasswordHasher func(password string, params Argon2idParams) (string, error)

// AuthConfig carries the OAuth and credential settings of the auth service.
type AuthConfig struct {
	StateSecret       []byte
	StateTTL          time.Duration
	KakaoClientID     string
	KakaoRedirectURI  string
	KakaoAuthorizeURL string
}

// AuthService coordinates local signup/login and the OAuth hand-off flows.
type AuthService struct {
	credentials    persistence.CredentialRepository
	profile        ProfileStore
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	stateSecret    []byte
	stateTTL       time.Duration
	kakaoClientID  string
	kakaoRedirect  string
	kakaoAuthorize string
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials persistence.CredentialRepository, profile ProfileStore, cfg AuthConfig, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(credentials, profile, cfg, now, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials persistence.CredentialRepository, profile ProfileStore, cfg AuthConfig, now func() time.Time, logger *slog.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if cfg.KakaoAuthorizeURL == "" {
		cfg.KakaoAuthorizeURL = defaultKakaoAuthorizeURL
	}
	return &AuthService{
		credentials:    credentials,
		profile:        profile,
		hashPassword:   CreatePasswordHash,
		verifyPassword: VerifyPassword,
		stateSecret:    cfg.StateSecret,
		stateTTL:       cfg.StateTTL,
		kakaoClientID:  cfg.KakaoClientID,
		kakaoRedirect:  cfg.KakaoRedirectURI,
		kakaoAuthorize: cfg.KakaoAuthorizeURL,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Signup registers a local account with an argon2id password hash.
func (s *AuthService) Signup(ctx context.Context, params SignupParams) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.credentials == nil {
		return fmt.Errorf("credential repository not configured")
	}

	account := strings.TrimSpace(strings.ToLower(params.Account))
	nickname := strings.TrimSpace(params.Nickname)

	logger := s.loggerWith(ctx, "Signup", "account", account)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "signup failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "account registered")
	}()

	vErr := &ValidationError{}
	if account == "" {
		vErr.add("account", "계정을 입력해주세요.")
	}
	if len(params.Password) < 8 {
		vErr.add("password", "비밀번호는 8자 이상이어야 합니다.")
	}
	if nickname == "" {
		vErr.add("nickname", "닉네임을 입력해주세요.")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(params.Password, DefaultArgon2idParams)
	if err != nil {
		return
	}

	now := s.now()
	err = s.credentials.CreateCredential(ctx, persistence.Credential{
		Account:      account,
		PasswordHash: hash,
		Nickname:     nickname,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, persistence.ErrDuplicate) {
		err = ErrAlreadyExists
	}
	return
}

// Login verifies a local credential and activates its profile in the store.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (result LoginResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential repository not configured")
		return
	}
	if s.profile == nil {
		err = fmt.Errorf("profile store not configured")
		return
	}

	account := strings.TrimSpace(strings.ToLower(params.Account))

	logger := s.loggerWith(ctx, "Login", "account", account)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	if account == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	var credential persistence.Credential
	credential, err = s.credentials.GetCredential(ctx, account)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if err = s.verifyPassword(credential.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	if err = s.profile.SetLogin(ctx, credential.Account, store.LoginMethodLocal); err != nil {
		return
	}
	profile := store.Profile{Nickname: credential.Nickname, Email: credential.Account}
	if err = s.profile.SetUser(ctx, profile); err != nil {
		return
	}

	result = LoginResult{Account: credential.Account, Profile: profile}
	return
}

// Logout resets the whole store state.
func (s *AuthService) Logout(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.profile == nil {
		return fmt.Errorf("profile store not configured")
	}

	logger := s.loggerWith(ctx, "Logout")
	if err := s.profile.ClearAll(ctx); err != nil {
		logger.ErrorContext(ctx, "logout failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "logged out")
	return nil
}

// KakaoAuthorization builds the Kakao authorize redirect carrying a freshly
// signed state token.
func (s *AuthService) KakaoAuthorization(ctx context.Context) (result KakaoAuthorization, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if len(s.stateSecret) == 0 {
		err = fmt.Errorf("state secret not configured")
		return
	}

	logger := s.loggerWith(ctx, "KakaoAuthorization")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authorize url build failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authorize url issued")
	}()

	var state string
	state, err = s.issueStateToken()
	if err != nil {
		return
	}

	query := url.Values{}
	query.Set("client_id", s.kakaoClientID)
	query.Set("redirect_uri", s.kakaoRedirect)
	query.Set("response_type", "code")
	query.Set("state", state)

	result = KakaoAuthorization{
		URL:   s.kakaoAuthorize + "?" + query.Encode(),
		State: state,
	}
	return
}

// CompleteKakaoLogin verifies the returned state token and stashes the
// one-shot authorization code for the token exchange.
func (s *AuthService) CompleteKakaoLogin(ctx context.Context, code, state string) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.profile == nil {
		return fmt.Errorf("profile store not configured")
	}

	logger := s.loggerWith(ctx, "CompleteKakaoLogin", "code_provided", code != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "kakao callback rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "kakao authorization code stored")
	}()

	if err = s.verifyStateToken(state); err != nil {
		return
	}

	if strings.TrimSpace(code) == "" {
		vErr := &ValidationError{}
		vErr.add("code", "인가 코드가 없습니다.")
		err = vErr
		return
	}

	return s.profile.SetKakaoAuthCode(ctx, code)
}

// SetGoogleToken stores the Google access token obtained on the client.
func (s *AuthService) SetGoogleToken(ctx context.Context, token string) (err error) {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.profile == nil {
		return fmt.Errorf("profile store not configured")
	}

	logger := s.loggerWith(ctx, "SetGoogleToken", "token_provided", token != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "google token update failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	if strings.TrimSpace(token) == "" {
		vErr := &ValidationError{}
		vErr.add("token", "액세스 토큰이 없습니다.")
		err = vErr
		return
	}

	return s.profile.SetGoogleAccessToken(ctx, token)
}

// ClearGoogleToken drops the stored Google access token, typically after the
// calendar provider rejected it.
func (s *AuthService) ClearGoogleToken(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	if s.profile == nil {
		return fmt.Errorf("profile store not configured")
	}
	return s.profile.SetGoogleAccessToken(ctx, "")
}

func (s *AuthService) issueStateToken() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.stateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.stateSecret)
	if err != nil {
		return "", fmt.Errorf("sign state token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) verifyStateToken(state string) error {
	if strings.TrimSpace(state) == "" {
		return ErrInvalidStateToken
	}
	parsed, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return s.stateSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidStateToken
	}
	return nil
}
