// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/server"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "linkd",
		Usage:   "LINKD admin access service",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:      "create-super-admin",
				Usage:     "Register an email in the super admin registry",
				ArgsUsage: "<email>",
				Flags:     config.Flags(),
				Action:    createSuperAdmin,
			},
			{
				Name:   "seed",
				Usage:  "Seed a demo company with employees for local testing",
				Flags:  config.Flags(),
				Action: seed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
