// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitals-cl/linkd/internal/repository"
	"github.com/digitals-cl/linkd/internal/testutil"
)

func TestUpsertSuperAdmin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	admin, err := repo.UpsertSuperAdmin(ctx, "root@linkd.app")
	require.NoError(t, err)
	assert.Equal(t, "root@linkd.app", admin.Email)
	assert.NotEmpty(t, admin.ID)

	// Idempotent: a second upsert keeps the original record.
	again, err := repo.UpsertSuperAdmin(ctx, "root@linkd.app")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

func TestFindSuperAdminByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.FindSuperAdminByEmail(context.Background(), "nobody@linkd.app")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindAdminEmployeeByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	company := testutil.NewTestCompany(t, repo, "acme", "")
	testutil.NewTestEmployee(t, repo, company.ID, "Ada", "ada@acme.test", true)

	employee, err := repo.FindAdminEmployeeByEmail(ctx, "ada@acme.test")
	require.NoError(t, err)
	assert.Equal(t, company.ID, employee.CompanyID)
	assert.True(t, employee.IsAdmin)
}

func TestFindAdminEmployeeByEmail_NonAdminNeverMatches(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	company := testutil.NewTestCompany(t, repo, "acme", "")
	testutil.NewTestEmployee(t, repo, company.ID, "Bob", "bob@acme.test", false)

	_, err := repo.FindAdminEmployeeByEmail(ctx, "bob@acme.test")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindCompanyByOwnerEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	company := testutil.NewTestCompany(t, repo, "acme", "owner@acme.test")

	found, err := repo.FindCompanyByOwnerEmail(ctx, "owner@acme.test")
	require.NoError(t, err)
	assert.Equal(t, company.ID, found.ID)

	_, err = repo.FindCompanyByOwnerEmail(ctx, "stranger@acme.test")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListCompaniesAndEmployees(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	acme := testutil.NewTestCompany(t, repo, "acme", "")
	beta := testutil.NewTestCompany(t, repo, "beta", "")
	testutil.NewTestEmployee(t, repo, acme.ID, "Ada", "ada@acme.test", true)
	testutil.NewTestEmployee(t, repo, acme.ID, "Bob", "bob@acme.test", false)

	companies, err := repo.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	employees, err := repo.ListEmployeesByCompany(ctx, acme.ID)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	employees, err = repo.ListEmployeesByCompany(ctx, beta.ID)
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestSetEmployeeAdmin(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	company := testutil.NewTestCompany(t, repo, "acme", "")
	employee := testutil.NewTestEmployee(t, repo, company.ID, "Bob", "bob@acme.test", false)

	require.NoError(t, repo.SetEmployeeAdmin(ctx, employee.ID, true))

	promoted, err := repo.FindAdminEmployeeByEmail(ctx, "bob@acme.test")
	require.NoError(t, err)
	assert.Equal(t, employee.ID, promoted.ID)
}
