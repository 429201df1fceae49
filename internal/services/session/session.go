// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package session mints and verifies the signed admin session cookie. Tokens
// are self-contained: validity is determined entirely by the HMAC signature
// and the embedded expiry, never by server-side state.
package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/services/auth"
)

const issuer = "linkd"

// ErrInvalidSession indicates the token failed validation for any reason:
// bad signature, expired, malformed, or missing required claims.
var ErrInvalidSession = errors.New("invalid session")

// Claims is the session token payload.
type Claims struct {
	Role      auth.Role `json:"role"`
	CompanyID string    `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// Email returns the authenticated identity.
func (c *Claims) Email() string {
	return c.Subject
}

// Grant rebuilds the role grant carried by the session.
func (c *Claims) Grant() auth.Grant {
	return auth.Grant{Role: c.Role, CompanyID: c.CompanyID}
}

// Manager signs and verifies session tokens and shapes them into cookies.
type Manager struct { //nolint:govet // fieldalignment: readability over optimization
	secret       []byte
	cookieName   string
	cookieSecure bool
	ttl          time.Duration
	pending      *PendingCodec
}

// NewManager creates a session manager from the auth configuration.
func NewManager(cfg *config.AuthConfig) (*Manager, error) {
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret is required")
	}
	return &Manager{
		secret:       []byte(cfg.SessionSecret),
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		ttl:          cfg.SessionTTL(),
		pending:      newPendingCodec(cfg),
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Pending returns the codec for the short-lived pending-login cookie.
func (m *Manager) Pending() *PendingCodec {
	return m.pending
}

// Issue mints a signed session token for the identity and grant and wraps it
// in an HTTP-only cookie covering the whole site.
func (m *Manager) Issue(email string, grant auth.Grant) (*http.Cookie, error) {
	token, err := m.Sign(email, grant, m.ttl)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Sign creates a signed token with an explicit lifetime.
func (m *Manager) Sign(email string, grant auth.Grant, ttl time.Duration) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errors.New("email is required")
	}
	if !grant.Role.Valid() {
		return "", errors.New("role is required")
	}

	now := time.Now()
	claims := Claims{
		Role:      grant.Role,
		CompanyID: grant.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the token signature, expiry and required claims. A
// structurally valid but expired token is rejected here regardless of the
// cookie's own TTL.
func (m *Manager) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSession
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if strings.TrimSpace(claims.Subject) == "" || !claims.Role.Valid() {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Destroy returns a cookie that overwrites the session with an already
// expired value. There is no server-side revocation list: a previously
// issued token that escapes the cookie remains valid until its embedded
// expiry passes.
func (m *Manager) Destroy() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
