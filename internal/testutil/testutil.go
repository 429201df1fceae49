// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/database"
	"github.com/digitals-cl/linkd/internal/models"
	"github.com/digitals-cl/linkd/internal/repository"
)

// TestSessionSecret is a fixed signing secret for tests.
const TestSessionSecret = "test-session-secret-0123456789abcdef"

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewAuthConfig returns an auth configuration with production defaults.
func NewAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		SessionSecret: TestSessionSecret,
		CookieName:    "admin_session",
		SessionHours:  24,
		CodeMinutes:   10,
	}
}

// NewTestCompany creates a company in the database.
func NewTestCompany(t *testing.T, repo *repository.Repository, name, ownerEmail string) *models.Company {
	t.Helper()
	company := &models.Company{
		Name:       name,
		Slug:       name,
		OwnerEmail: ownerEmail,
	}
	require.NoError(t, repo.CreateCompany(context.Background(), company))
	return company
}

// NewTestEmployee creates an employee in the database.
func NewTestEmployee(t *testing.T, repo *repository.Repository, companyID, name, email string, isAdmin bool) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		IsAdmin:   isAdmin,
	}
	require.NoError(t, repo.CreateEmployee(context.Background(), employee))
	return employee
}

// NewTestSuperAdmin registers a super admin in the database.
func NewTestSuperAdmin(t *testing.T, repo *repository.Repository, email string) *models.SuperAdmin {
	t.Helper()
	admin, err := repo.UpsertSuperAdmin(context.Background(), email)
	require.NoError(t, err)
	return admin
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
