// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitals-cl/linkd/internal/i18n"
	"github.com/digitals-cl/linkd/internal/services/auth"
	"github.com/digitals-cl/linkd/internal/services/session"
)

// AuthHandlers contains handlers for the login flow.
type AuthHandlers struct {
	auth     *auth.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(authService *auth.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		auth:     authService,
		sessions: sessions,
	}
}

// RequestCodeRequest is the request body for requesting a login code.
type RequestCodeRequest struct {
	Email string `json:"email" form:"email"`
}

// RequestCode gates the email against the admin role sources and dispatches
// a one-time code. The code itself is never returned outside debug mode.
func (h *AuthHandlers) RequestCode(c echo.Context) error {
	var req RequestCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": i18n.T(c.Request().Context(), "missing_fields")})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": i18n.T(c.Request().Context(), "missing_fields")})
	}

	challenge, err := h.auth.RequestCode(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": i18n.T(c.Request().Context(), "access_denied")})
		}
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	pending, err := h.sessions.Pending().Encode(session.PendingLogin{
		Email:  challenge.Email,
		Master: challenge.Master,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	c.SetCookie(pending)

	resp := map[string]any{
		"status": "sent",
		"email":  challenge.Email,
	}
	if challenge.Master {
		resp["master"] = true
	}
	if challenge.DebugCode != "" {
		resp["debug_code"] = challenge.DebugCode
	}
	return c.JSON(http.StatusOK, resp)
}

// VerifyRequest is the request body for verifying a login code. The email
// may be omitted when the pending-login cookie from the request step is
// present.
type VerifyRequest struct {
	Email string `json:"email" form:"email"`
	Code  string `json:"code" form:"code"`
}

// Verify validates the submitted code, resolves the caller's role and sets
// the signed session cookie. Invalid and expired codes are reported
// distinctly; an invalid break-glass passphrase is indistinguishable from an
// invalid code.
func (h *AuthHandlers) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": i18n.T(ctx, "missing_fields")})
	}
	if req.Email == "" {
		if pending, err := h.sessions.Pending().Decode(c.Request()); err == nil {
			req.Email = pending.Email
		}
	}
	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": i18n.T(ctx, "missing_fields")})
	}

	grant, err := h.auth.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCode):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": i18n.T(ctx, "invalid_code")})
		case errors.Is(err, auth.ErrExpiredCode):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": i18n.T(ctx, "expired_code")})
		case errors.Is(err, auth.ErrAccessDenied):
			return c.JSON(http.StatusForbidden, map[string]string{"error": i18n.T(ctx, "access_denied")})
		}
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	cookie, err := h.sessions.Issue(req.Email, grant)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	c.SetCookie(cookie)
	c.SetCookie(h.sessions.Pending().Clear())

	return c.JSON(http.StatusOK, map[string]any{
		"role":       grant.Role,
		"company_id": grant.CompanyID,
		"redirect":   grant.HomePath(),
	})
}

// Logout overwrites the session cookie with an expired value.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Destroy())
	return c.JSON(http.StatusOK, map[string]string{"redirect": "/login"})
}
