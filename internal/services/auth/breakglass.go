// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BreakGlass authenticates a fixed operational super admin by passphrase
// instead of a one-time code. The identity may not exist in any directory
// table, so callers must consult it before any database lookup.
//
// This is a reduced-security path: a static shared secret with no rotation
// and no lockout. It is disabled unless explicitly provisioned through
// configuration.
type BreakGlass interface {
	// Matches reports whether the email is the break-glass identity.
	Matches(email string) bool
	// Authenticate checks the passphrase for the break-glass identity.
	Authenticate(email, passphrase string) bool
}

type bcryptBreakGlass struct {
	email string
	hash  []byte
}

// NewBreakGlass builds a break-glass credential from an identity and a
// bcrypt passphrase hash. Returns nil when no identity is configured.
func NewBreakGlass(email, passphraseHash string) (BreakGlass, error) {
	if email == "" {
		return nil, nil
	}
	if passphraseHash == "" {
		return nil, fmt.Errorf("break-glass identity %q has no passphrase hash", email)
	}
	// Reject malformed hashes at startup rather than on first login.
	if _, err := bcrypt.Cost([]byte(passphraseHash)); err != nil {
		return nil, fmt.Errorf("invalid break-glass passphrase hash: %w", err)
	}
	return &bcryptBreakGlass{email: email, hash: []byte(passphraseHash)}, nil
}

func (b *bcryptBreakGlass) Matches(email string) bool {
	return email == b.email
}

func (b *bcryptBreakGlass) Authenticate(email, passphrase string) bool {
	if email != b.email {
		return false
	}
	return bcrypt.CompareHashAndPassword(b.hash, []byte(passphrase)) == nil
}
