// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/database"
	"github.com/digitals-cl/linkd/internal/models"
	"github.com/digitals-cl/linkd/internal/repository"
)

// createSuperAdmin registers an email in the super admin registry. Replaces
// the web bootstrap endpoint the platform used to carry around.
func createSuperAdmin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.Args().First()
	if email == "" {
		return fmt.Errorf("usage: create-super-admin <email>")
	}

	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.New(db)
	admin, err := repo.UpsertSuperAdmin(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to register super admin: %w", err)
	}

	fmt.Printf("super admin registered: %s (%s)\n", admin.Email, admin.ID)
	return nil
}

// seed creates the demo tenant used for local testing.
func seed(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.New(db)

	company := &models.Company{
		ID:         "galactic-gourmet-id", // constant id for repeatability
		Name:       "Galactic Gourmet",
		Slug:       "galactic-gourmet",
		OwnerEmail: "owner@galactic.com",
	}
	if err := repo.CreateCompany(ctx, company); err != nil {
		return fmt.Errorf("failed to create demo company: %w", err)
	}

	employees := []models.Employee{
		{CompanyID: company.ID, Name: "Zara Moon", Email: "zara@galactic.com", IsAdmin: true},
		{CompanyID: company.ID, Name: "Orion Vega", Email: "orion@galactic.com"},
		{CompanyID: company.ID, Name: "Luna Stellar", Email: "luna@galactic.com"},
	}
	for i := range employees {
		if err := repo.CreateEmployee(ctx, &employees[i]); err != nil {
			return fmt.Errorf("failed to create demo employee %s: %w", employees[i].Name, err)
		}
	}

	fmt.Printf("seeded company %s with %d employees\n", company.Name, len(employees))
	return nil
}
