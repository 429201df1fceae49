// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package server wires the service together and runs the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/database"
	"github.com/digitals-cl/linkd/internal/handlers"
	"github.com/digitals-cl/linkd/internal/i18n"
	mw "github.com/digitals-cl/linkd/internal/middleware"
	"github.com/digitals-cl/linkd/internal/repository"
	"github.com/digitals-cl/linkd/internal/services/auth"
	"github.com/digitals-cl/linkd/internal/services/email"
	"github.com/digitals-cl/linkd/internal/services/session"
)

const codeSweepInterval = time.Hour

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)

	// Mail
	mailer, err := email.NewService(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to create mail service: %w", err)
	}
	if cfg.SMTP.Configured() {
		if pingErr := mailer.Ping(ctx); pingErr != nil {
			slog.Warn("SMTP connection check failed", "error", pingErr)
		}
	} else {
		slog.Warn("SMTP not configured, login codes will not be emailed")
	}

	// Auth
	breakGlass, err := auth.NewBreakGlass(cfg.Auth.MasterEmail, cfg.Auth.MasterPassHash)
	if err != nil {
		return fmt.Errorf("failed to configure break-glass credential: %w", err)
	}
	if breakGlass != nil {
		slog.Warn("break-glass super admin enabled", "email", cfg.Auth.MasterEmail)
	}
	authService := auth.NewService(repo, mailer, breakGlass, cfg.Auth.CodeTTL(), cfg.Auth.DebugCodes)

	sessions, err := session.NewManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, repo, authService, sessions)

	// Background sweep of expired codes. Enforcement never depends on it;
	// expired codes are rejected on use regardless.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepExpiredCodes(sweepCtx, repo)

	return startWithGracefulShutdown(ctx, e, cfg)
}

func setupRoutes(e *echo.Echo, repo *repository.Repository, authService *auth.Service, sessions *session.Manager) {
	h := handlers.New(repo)
	authHandler := handlers.NewAuth(authService, sessions)
	adminHandler := handlers.NewAdmin(repo)

	e.GET("/health", h.Health)

	authGroup := e.Group("/auth")
	authGroup.POST("/request-code", authHandler.RequestCode)
	authGroup.POST("/verify", authHandler.Verify)
	authGroup.POST("/logout", authHandler.Logout)

	admin := e.Group(mw.AdminRoot, mw.AdminGate(sessions))
	admin.GET("", adminHandler.CompanyList)
	admin.GET("/me", adminHandler.Me)
	admin.GET("/company/:id", adminHandler.CompanyDashboard)
}

func sweepExpiredCodes(ctx context.Context, repo *repository.Repository) {
	ticker := time.NewTicker(codeSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpiredCodes(ctx, time.Now())
			if err != nil {
				slog.Error("failed to sweep expired codes", "error", err)
				continue
			}
			if removed > 0 {
				slog.Debug("swept expired login codes", "removed", removed)
			}
		}
	}
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
