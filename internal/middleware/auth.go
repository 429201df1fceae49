// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package middleware gates the admin area behind the signed session cookie.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/digitals-cl/linkd/internal/services/auth"
	"github.com/digitals-cl/linkd/internal/services/session"
)

const (
	// AdminRoot is the admin area prefix the gate covers.
	AdminRoot = "/admin"
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"

	claimsContextKey = "session_claims"
)

// companyPathPattern extracts the tenant id embedded in an admin path.
var companyPathPattern = regexp.MustCompile(`^/admin/company/([^/]+)`)

// AdminGate verifies the session cookie on every admin request and enforces
// tenant isolation. Failures never surface as errors: unauthenticated
// requests are redirected to the login page, and cross-tenant requests are
// silently redirected to the caller's own dashboard so other tenants' ids
// are never confirmed.
func AdminGate(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessions.CookieName())
			if err != nil {
				return c.Redirect(http.StatusFound, LoginPath)
			}

			claims, err := sessions.Verify(cookie.Value)
			if err != nil {
				return c.Redirect(http.StatusFound, LoginPath)
			}

			if claims.Role == auth.RoleSuperAdmin {
				c.Set(claimsContextKey, claims)
				return next(c)
			}

			// Company admins are confined to their own company subtree.
			path := c.Request().URL.Path
			if path == AdminRoot || path == AdminRoot+"/" {
				return redirectHome(c, claims)
			}

			if match := companyPathPattern.FindStringSubmatch(path); match != nil {
				if match[1] != claims.CompanyID {
					return redirectHome(c, claims)
				}
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

func redirectHome(c echo.Context, claims *session.Claims) error {
	if claims.CompanyID == "" {
		return c.Redirect(http.StatusFound, LoginPath)
	}
	return c.Redirect(http.StatusFound, AdminRoot+"/company/"+claims.CompanyID)
}

// CurrentSession returns the verified claims the gate stored on the context,
// or nil outside the admin area.
func CurrentSession(c echo.Context) *session.Claims {
	if claims, ok := c.Get(claimsContextKey).(*session.Claims); ok {
		return claims
	}
	return nil
}
