// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers of the admin service.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitals-cl/linkd/internal/repository"
)

// Handlers contains handlers that only need repository access.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
