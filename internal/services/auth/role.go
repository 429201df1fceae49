// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package auth

// Role is a closed set of admin roles.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleCompanyAdmin Role = "COMPANY_ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin:
		return true
	}
	return false
}

// Grant is the outcome of role resolution: a role plus the company the
// identity is scoped to. CompanyID is empty for super admins.
type Grant struct {
	Role      Role   `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
}

// HomePath returns the admin area entry point for the grant.
func (g Grant) HomePath() string {
	switch g.Role {
	case RoleSuperAdmin:
		return "/admin"
	case RoleCompanyAdmin:
		if g.CompanyID != "" {
			return "/admin/company/" + g.CompanyID
		}
	}
	return "/login"
}
