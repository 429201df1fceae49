// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitals-cl/linkd/internal/services/auth"
	"github.com/digitals-cl/linkd/internal/testutil"
)

func TestResolveRole_PriorityChain(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, &captureSender{}, nil, 10*time.Minute, false)
	ctx := context.Background()

	company := testutil.NewTestCompany(t, repo, "acme", "both@acme.test")
	testutil.NewTestEmployee(t, repo, company.ID, "Ada", "both@acme.test", true)
	testutil.NewTestSuperAdmin(t, repo, "both@acme.test")

	// Registered in all three sources: the super admin registry wins.
	grant, err := svc.ResolveRole(ctx, "both@acme.test")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, grant.Role)
	assert.Empty(t, grant.CompanyID)
}

func TestResolveRole_AdminEmployeeBeforeOwner(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, &captureSender{}, nil, 10*time.Minute, false)
	ctx := context.Background()

	// The same email is an admin employee of one company and the owner of
	// another. The employee match takes priority.
	employer := testutil.NewTestCompany(t, repo, "employer", "")
	testutil.NewTestCompany(t, repo, "owned", "dual@acme.test")
	testutil.NewTestEmployee(t, repo, employer.ID, "Dual", "dual@acme.test", true)

	grant, err := svc.ResolveRole(ctx, "dual@acme.test")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCompanyAdmin, grant.Role)
	assert.Equal(t, employer.ID, grant.CompanyID)
}

func TestResolveRole_OwnerEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, &captureSender{}, nil, 10*time.Minute, false)

	company := testutil.NewTestCompany(t, repo, "acme", "owner@acme.test")

	grant, err := svc.ResolveRole(context.Background(), "owner@acme.test")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCompanyAdmin, grant.Role)
	assert.Equal(t, company.ID, grant.CompanyID)
}

func TestResolveRole_NoMatch(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo, &captureSender{}, nil, 10*time.Minute, false)

	_, err := svc.ResolveRole(context.Background(), "stranger@acme.test")
	assert.ErrorIs(t, err, auth.ErrAccessDenied)
}

func TestGrantHomePath(t *testing.T) {
	assert.Equal(t, "/admin", auth.Grant{Role: auth.RoleSuperAdmin}.HomePath())
	assert.Equal(t, "/admin/company/acme-id", auth.Grant{Role: auth.RoleCompanyAdmin, CompanyID: "acme-id"}.HomePath())

	// A company admin without a company has nowhere to go but the login page.
	assert.Equal(t, "/login", auth.Grant{Role: auth.RoleCompanyAdmin}.HomePath())
	assert.Equal(t, "/login", auth.Grant{}.HomePath())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, auth.RoleSuperAdmin.Valid())
	assert.True(t, auth.RoleCompanyAdmin.Valid())
	assert.False(t, auth.Role("").Valid())
	assert.False(t, auth.Role("EMPLOYEE").Valid())
}
