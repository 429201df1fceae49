// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitals-cl/linkd/internal/services/auth"
	"github.com/digitals-cl/linkd/internal/testutil"
)

func (a *testApp) superAdminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	cookie, err := a.sessions.Issue("root@digitals.cl", auth.Grant{Role: auth.RoleSuperAdmin})
	require.NoError(t, err)
	return cookie
}

func TestCompanyList(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestCompany(t, app.repo, "acme", "owner@acme.test")
	testutil.NewTestCompany(t, app.repo, "globex", "")

	rec := app.get("/admin", app.superAdminCookie(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Companies []struct {
			Name string `json:"name"`
		} `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Companies, 2)
}

func TestCompanyDashboard(t *testing.T) {
	app := newTestApp(t)
	acme := testutil.NewTestCompany(t, app.repo, "acme", "owner@acme.test")
	testutil.NewTestEmployee(t, app.repo, acme.ID, "Zara Moon", "zara@acme.test", true)
	testutil.NewTestEmployee(t, app.repo, acme.ID, "Orion Vega", "orion@acme.test", false)

	rec := app.get("/admin/company/"+acme.ID, app.superAdminCookie(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Company struct {
			ID string `json:"id"`
		} `json:"company"`
		Employees []struct {
			Email string `json:"email"`
		} `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, acme.ID, resp.Company.ID)
	assert.Len(t, resp.Employees, 2)
}

func TestCompanyDashboard_NotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/admin/company/no-such-company", app.superAdminCookie(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	acme := testutil.NewTestCompany(t, app.repo, "acme", "owner@acme.test")

	cookie, err := app.sessions.Issue("owner@acme.test", auth.Grant{
		Role:      auth.RoleCompanyAdmin,
		CompanyID: acme.ID,
	})
	require.NoError(t, err)

	rec := app.get("/admin/me", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Email     string `json:"email"`
		Role      string `json:"role"`
		CompanyID string `json:"company_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "owner@acme.test", resp.Email)
	assert.Equal(t, "COMPANY_ADMIN", resp.Role)
	assert.Equal(t, acme.ID, resp.CompanyID)
}
