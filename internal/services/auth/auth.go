// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package auth implements the one-time-code login flow: code issuance,
// verification and role resolution.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/digitals-cl/linkd/internal/repository"
)

var (
	// ErrAccessDenied means the identifier matches no admin role source.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidCode means the submitted code (or break-glass passphrase)
	// does not match.
	ErrInvalidCode = errors.New("invalid code")
	// ErrExpiredCode means a matching code exists but is past its expiry.
	ErrExpiredCode = errors.New("code expired")
)

// Sender dispatches a login code to an identifier. Implemented by the email
// service.
type Sender interface {
	SendLoginCode(ctx context.Context, email, code string, ttl time.Duration) error
}

// Service implements code issuance and verification.
type Service struct { //nolint:govet // fieldalignment: readability over optimization
	repo       *repository.Repository
	sender     Sender
	breakGlass BreakGlass // nil when disabled
	codeTTL    time.Duration
	debugCodes bool
}

// NewService creates the auth service. breakGlass may be nil.
func NewService(repo *repository.Repository, sender Sender, breakGlass BreakGlass, codeTTL time.Duration, debugCodes bool) *Service {
	return &Service{
		repo:       repo,
		sender:     sender,
		breakGlass: breakGlass,
		codeTTL:    codeTTL,
		debugCodes: debugCodes,
	}
}

// Challenge is the result of a successful code request. The code itself is
// only surfaced when debug codes are enabled.
type Challenge struct {
	Email     string
	Master    bool   // break-glass identity, no code was issued
	DebugCode string // raw code, empty outside debug mode
}

// RequestCode gates the identifier against the role sources, issues a fresh
// 6-digit code replacing any outstanding one, and dispatches it by email.
// Dispatch failure does not invalidate the stored code.
func (s *Service) RequestCode(ctx context.Context, email string) (*Challenge, error) {
	// The break-glass identity may not exist in any directory table, so it
	// is checked before any lookup. No code is issued for it.
	if s.breakGlass != nil && s.breakGlass.Matches(email) {
		return &Challenge{Email: email, Master: true}, nil
	}

	if _, err := s.ResolveRole(ctx, email); err != nil {
		if errors.Is(err, ErrAccessDenied) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generating login code: %w", err)
	}

	expiresAt := time.Now().Add(s.codeTTL)
	if err := s.repo.PutCode(ctx, email, code, expiresAt); err != nil {
		return nil, fmt.Errorf("storing login code: %w", err)
	}

	if s.debugCodes {
		slog.Info("login code issued", "email", email, "code", code)
	}

	if err := s.sender.SendLoginCode(ctx, email, code, s.codeTTL); err != nil {
		// The stored code stays valid for out-of-band delivery.
		slog.Error("failed to send login code", "email", email, "error", err)
	}

	challenge := &Challenge{Email: email}
	if s.debugCodes {
		challenge.DebugCode = code
	}
	return challenge, nil
}

// VerifyCode validates a submitted code and resolves the caller's role. A
// valid code is consumed on first use; replaying it fails with
// ErrInvalidCode. For the break-glass identity the code is the passphrase,
// and a mismatch is indistinguishable from an invalid code.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (Grant, error) {
	if s.breakGlass != nil && s.breakGlass.Matches(email) {
		if !s.breakGlass.Authenticate(email, code) {
			return Grant{}, ErrInvalidCode
		}
		return Grant{Role: RoleSuperAdmin}, nil
	}

	err := s.repo.ConsumeCode(ctx, email, code, time.Now())
	switch {
	case errors.Is(err, repository.ErrCodeNotFound):
		return Grant{}, ErrInvalidCode
	case errors.Is(err, repository.ErrCodeExpired):
		return Grant{}, ErrExpiredCode
	case err != nil:
		return Grant{}, err
	}

	grant, err := s.ResolveRole(ctx, email)
	if err != nil {
		// The role source disappeared between issuance and verification.
		// Deny the session rather than minting one without a role.
		return Grant{}, err
	}
	return grant, nil
}

// ResolveRole determines the role for an identifier. Priority order, first
// match wins: break-glass identity, super admin registry, admin-flagged
// employee, company owner email.
func (s *Service) ResolveRole(ctx context.Context, email string) (Grant, error) {
	if s.breakGlass != nil && s.breakGlass.Matches(email) {
		return Grant{Role: RoleSuperAdmin}, nil
	}

	if _, err := s.repo.FindSuperAdminByEmail(ctx, email); err == nil {
		return Grant{Role: RoleSuperAdmin}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Grant{}, err
	}

	if employee, err := s.repo.FindAdminEmployeeByEmail(ctx, email); err == nil {
		return Grant{Role: RoleCompanyAdmin, CompanyID: employee.CompanyID}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Grant{}, err
	}

	if company, err := s.repo.FindCompanyByOwnerEmail(ctx, email); err == nil {
		return Grant{Role: RoleCompanyAdmin, CompanyID: company.ID}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Grant{}, err
	}

	return Grant{}, ErrAccessDenied
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
