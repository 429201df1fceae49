// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/digitals-cl/linkd/internal/models"
)

var (
	// ErrCodeNotFound is returned when no code matches the identifier and
	// submitted value.
	ErrCodeNotFound = errors.New("verification code not found")
	// ErrCodeExpired is returned when the matching code is past its expiry.
	// The expired row is deleted as a side effect.
	ErrCodeExpired = errors.New("verification code expired")
)

// PutCode stores a fresh code for the identifier, replacing any previously
// stored codes in the same transaction so at most one valid code exists per
// identifier.
func (r *Repository) PutCode(ctx context.Context, identifier, code string, expiresAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE identifier = ?`, identifier); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO verification_codes (identifier, code, expires_at) VALUES (?, ?, ?)`,
		identifier, code, expiresAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetCode retrieves the code matching exactly identifier and code.
func (r *Repository) GetCode(ctx context.Context, identifier, code string) (*models.VerificationCode, error) {
	var record models.VerificationCode
	err := r.db.GetContext(ctx, &record,
		`SELECT * FROM verification_codes WHERE identifier = ? AND code = ?`, identifier, code)
	if err != nil {
		return nil, wrapError(err)
	}
	return &record, nil
}

// ConsumeCode atomically validates and consumes a code. On success every code
// stored for the identifier is removed, so a replay fails with
// ErrCodeNotFound. An expired match is deleted and reported as
// ErrCodeExpired. The targeted delete is the gating step: of two concurrent
// calls with the same valid code, exactly one observes an affected row.
func (r *Repository) ConsumeCode(ctx context.Context, identifier, code string, now time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var record models.VerificationCode
	err = tx.GetContext(ctx, &record,
		`SELECT * FROM verification_codes WHERE identifier = ? AND code = ?`, identifier, code)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}

	if record.Expired(now) {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM verification_codes WHERE identifier = ? AND code = ?`,
			identifier, code); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		return ErrCodeExpired
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE identifier = ? AND code = ?`, identifier, code)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Lost the race against a concurrent consumer.
		return ErrCodeNotFound
	}

	// Drop any stale codes left over for this identifier.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE identifier = ?`, identifier); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteCodesForIdentifier removes all codes stored for an identifier.
func (r *Repository) DeleteCodesForIdentifier(ctx context.Context, identifier string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE identifier = ?`, identifier)
	return err
}

// DeleteExpiredCodes removes codes past their expiry. Expired codes are
// rejected on use regardless; this is housekeeping only.
func (r *Repository) DeleteExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
