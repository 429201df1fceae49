// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/digitals-cl/linkd/internal/config"
)

const pendingCookieName = "login_pending"

// PendingLogin correlates the request-code and verify steps of the login
// flow without the client having to resubmit the email.
type PendingLogin struct {
	Email  string
	Master bool
}

// PendingCodec signs the short-lived pending-login cookie. The cookie is a
// convenience, not a credential: it carries no role and grants no access.
type PendingCodec struct {
	codec        *securecookie.SecureCookie
	cookieSecure bool
	maxAge       time.Duration
}

func newPendingCodec(cfg *config.AuthConfig) *PendingCodec {
	// Derive a dedicated hash key so the session secret is not reused
	// verbatim across signing contexts.
	key := sha256.Sum256([]byte("pending-login:" + cfg.SessionSecret))

	maxAge := cfg.CodeTTL()
	codec := securecookie.New(key[:], nil)
	codec.MaxAge(int(maxAge.Seconds()))

	return &PendingCodec{
		codec:        codec,
		cookieSecure: cfg.CookieSecure,
		maxAge:       maxAge,
	}
}

// Encode wraps a pending login into a signed cookie with the same lifetime
// as the one-time code.
func (p *PendingCodec) Encode(pending PendingLogin) (*http.Cookie, error) {
	value, err := p.codec.Encode(pendingCookieName, pending)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     pendingCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(p.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   p.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Decode reads the pending login from a request, if present and valid.
func (p *PendingCodec) Decode(r *http.Request) (*PendingLogin, error) {
	cookie, err := r.Cookie(pendingCookieName)
	if err != nil {
		return nil, err
	}
	var pending PendingLogin
	if err := p.codec.Decode(pendingCookieName, cookie.Value, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// Clear returns a cookie that removes the pending login.
func (p *PendingCodec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     pendingCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
