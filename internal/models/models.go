// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package models defines the database records the admin service works with.
package models

import "time"

// SuperAdmin is an identity with unconditional access to the whole admin area.
type SuperAdmin struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Company is a tenant. Its optional owner email grants implicit admin access.
type Company struct { //nolint:govet // fieldalignment: readability over optimization
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Slug       string    `db:"slug" json:"slug"`
	OwnerEmail string    `db:"owner_email" json:"owner_email,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Employee belongs to exactly one company. The is_admin flag makes the
// employee an admin of that company.
type Employee struct { //nolint:govet // fieldalignment: readability over optimization
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email,omitempty"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// VerificationCode is one outstanding login attempt. At most one valid code
// exists per identifier; issuing a new one replaces older rows.
type VerificationCode struct { //nolint:govet // fieldalignment: readability over optimization
	ID         int64     `db:"id" json:"id"`
	Identifier string    `db:"identifier" json:"identifier"`
	Code       string    `db:"code" json:"-"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
