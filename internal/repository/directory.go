// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/digitals-cl/linkd/internal/models"
)

// FindSuperAdminByEmail looks up the super admin registry.
func (r *Repository) FindSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error) {
	var admin models.SuperAdmin
	err := r.db.GetContext(ctx, &admin, `SELECT * FROM super_admins WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &admin, nil
}

// UpsertSuperAdmin registers an email as super admin. Idempotent.
func (r *Repository) UpsertSuperAdmin(ctx context.Context, email string) (*models.SuperAdmin, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO super_admins (id, email) VALUES (?, ?) ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), email)
	if err != nil {
		return nil, err
	}
	return r.FindSuperAdminByEmail(ctx, email)
}

// FindAdminEmployeeByEmail returns the admin-flagged employee with the given
// email, if any. Non-admin employees never match.
func (r *Repository) FindAdminEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.GetContext(ctx, &employee,
		`SELECT * FROM employees WHERE email = ? AND is_admin = 1 LIMIT 1`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &employee, nil
}

// FindCompanyByOwnerEmail returns the company owned by the given email, if any.
func (r *Repository) FindCompanyByOwnerEmail(ctx context.Context, email string) (*models.Company, error) {
	var company models.Company
	err := r.db.GetContext(ctx, &company,
		`SELECT * FROM companies WHERE owner_email = ? LIMIT 1`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &company, nil
}

// GetCompanyByID retrieves a company by its id.
func (r *Repository) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	err := r.db.GetContext(ctx, &company, `SELECT * FROM companies WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &company, nil
}

// ListCompanies returns all companies ordered by name.
func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.SelectContext(ctx, &companies, `SELECT * FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// CreateCompany inserts a company. An empty ID is replaced with a fresh UUID.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, slug, owner_email) VALUES (?, ?, ?, ?)`,
		company.ID, company.Name, company.Slug, company.OwnerEmail)
	return err
}

// ListEmployeesByCompany returns a company's employees ordered by name.
func (r *Repository) ListEmployeesByCompany(ctx context.Context, companyID string) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.SelectContext(ctx, &employees,
		`SELECT * FROM employees WHERE company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// CreateEmployee inserts an employee. An empty ID is replaced with a fresh UUID.
func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (id, company_id, name, email, is_admin) VALUES (?, ?, ?, ?, ?)`,
		employee.ID, employee.CompanyID, employee.Name, employee.Email, employee.IsAdmin)
	return err
}

// SetEmployeeAdmin sets or clears the admin flag for an employee.
func (r *Repository) SetEmployeeAdmin(ctx context.Context, id string, isAdmin bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE employees SET is_admin = ? WHERE id = ?`, isAdmin, id)
	return err
}
