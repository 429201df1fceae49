// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitals-cl/linkd/internal/repository"
	"github.com/digitals-cl/linkd/internal/testutil"
)

func TestPutCodeAndGetCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "123456", expiresAt))

	record, err := repo.GetCode(ctx, "admin@acme.test", "123456")
	require.NoError(t, err)
	assert.Equal(t, "admin@acme.test", record.Identifier)
	assert.Equal(t, "123456", record.Code)
	assert.WithinDuration(t, expiresAt, record.ExpiresAt, time.Second)
}

func TestGetCode_WrongCode(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "123456", time.Now().Add(10*time.Minute)))

	_, err := repo.GetCode(ctx, "admin@acme.test", "654321")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPutCode_ReplacesPreviousCodes(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "111111", expiresAt))
	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "222222", expiresAt))

	// The stale code was invalidated by the reissue.
	err := repo.ConsumeCode(ctx, "admin@acme.test", "111111", time.Now())
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	// The fresh code works.
	require.NoError(t, repo.ConsumeCode(ctx, "admin@acme.test", "222222", time.Now()))
}

func TestPutCode_IsolatedPerIdentifier(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.PutCode(ctx, "a@acme.test", "111111", expiresAt))
	require.NoError(t, repo.PutCode(ctx, "b@acme.test", "222222", expiresAt))

	// Reissuing for one identifier leaves the other untouched.
	require.NoError(t, repo.PutCode(ctx, "a@acme.test", "333333", expiresAt))
	require.NoError(t, repo.ConsumeCode(ctx, "b@acme.test", "222222", time.Now()))
}

func TestConsumeCode_SingleUse(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "123456", time.Now().Add(10*time.Minute)))

	require.NoError(t, repo.ConsumeCode(ctx, "admin@acme.test", "123456", time.Now()))

	// Replay fails with not-found, not expired.
	err := repo.ConsumeCode(ctx, "admin@acme.test", "123456", time.Now())
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)
}

func TestConsumeCode_Expired(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "123456", time.Now().Add(-time.Minute)))

	err := repo.ConsumeCode(ctx, "admin@acme.test", "123456", time.Now())
	assert.ErrorIs(t, err, repository.ErrCodeExpired)

	// The expired record was deleted, so a retry is indistinguishable from
	// a code that never existed.
	err = repo.ConsumeCode(ctx, "admin@acme.test", "123456", time.Now())
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)
}

func TestConsumeCode_UnknownIdentifier(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.ConsumeCode(context.Background(), "nobody@acme.test", "123456", time.Now())
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)
}

func TestDeleteCodesForIdentifier(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCode(ctx, "admin@acme.test", "123456", time.Now().Add(10*time.Minute)))
	require.NoError(t, repo.DeleteCodesForIdentifier(ctx, "admin@acme.test"))

	err := repo.ConsumeCode(ctx, "admin@acme.test", "123456", time.Now())
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)
}

func TestDeleteExpiredCodes(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.PutCode(ctx, "stale@acme.test", "111111", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.PutCode(ctx, "fresh@acme.test", "222222", time.Now().Add(10*time.Minute)))

	removed, err := repo.DeleteExpiredCodes(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// The fresh code survived the sweep.
	_, err = repo.GetCode(ctx, "fresh@acme.test", "222222")
	require.NoError(t, err)
}
