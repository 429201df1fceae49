// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitals-cl/linkd/internal/middleware"
	"github.com/digitals-cl/linkd/internal/repository"
)

// AdminHandlers serves the gated admin area.
type AdminHandlers struct {
	repo *repository.Repository
}

// NewAdmin creates a new AdminHandlers instance.
func NewAdmin(repo *repository.Repository) *AdminHandlers {
	return &AdminHandlers{repo: repo}
}

// CompanyList returns all companies. Only super admins reach this handler;
// company admins are redirected to their own dashboard by the gate.
func (h *AdminHandlers) CompanyList(c echo.Context) error {
	companies, err := h.repo.ListCompanies(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, map[string]any{"companies": companies})
}

// CompanyDashboard returns one company and its employees.
func (h *AdminHandlers) CompanyDashboard(c echo.Context) error {
	id := c.Param("id")

	company, err := h.repo.GetCompanyByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	employees, err := h.repo.ListEmployeesByCompany(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"company":   company,
		"employees": employees,
	})
}

// Me echoes the verified session claims.
func (h *AdminHandlers) Me(c echo.Context) error {
	claims := middleware.CurrentSession(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"email":      claims.Email(),
		"role":       claims.Role,
		"company_id": claims.CompanyID,
	})
}
