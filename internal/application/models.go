package application

import "github.com/festory/festory/internal/store"

// SignupParams captures a local account registration request.
type SignupParams struct {
	Account  string
	Password string
	Nickname string
}

// LoginParams captures a local login request.
type LoginParams struct {
	Account  string
	Password string
}

// LoginResult carries the profile activated by a successful login.
type LoginResult struct {
	Account string
	Profile store.Profile
}

// KakaoAuthorization is the redirect target plus the signed state token that
// must come back on the callback.
type KakaoAuthorization struct {
	URL   string
	State string
}
