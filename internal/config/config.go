// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package config holds the runtime configuration for the LINKD admin service.
package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	From     string
	FromName string
	Username string
	Password string
	TLS      bool
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical for config structs
	SessionSecret  string // HMAC secret for session tokens
	CookieName     string // session cookie name
	CookieSecure   bool   // HTTPS-only cookie
	SessionHours   int    // session token lifetime
	CodeMinutes    int    // one-time code lifetime
	DebugCodes     bool   // surface generated codes to the caller (local testing only)
	MasterEmail    string // break-glass identity, disabled when empty
	MasterPassHash string // bcrypt hash of the break-glass passphrase
}

// SessionTTL returns the session lifetime as a duration.
func (c *AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}

// CodeTTL returns the one-time code lifetime as a duration.
func (c *AuthConfig) CodeTTL() time.Duration {
	return time.Duration(c.CodeMinutes) * time.Minute
}

// Configured reports whether SMTP delivery is set up.
func (c *SMTPConfig) Configured() bool {
	return c.Host != ""
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Auth: AuthConfig{
			SessionSecret:  cmd.String("session-secret"),
			CookieName:     cmd.String("cookie-name"),
			CookieSecure:   cmd.Bool("cookie-secure"),
			SessionHours:   int(cmd.Int("session-duration")),
			CodeMinutes:    int(cmd.Int("code-duration")),
			DebugCodes:     cmd.Bool("debug-codes"),
			MasterEmail:    cmd.String("master-email"),
			MasterPassHash: cmd.String("master-passphrase-hash"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}
	if !cmd.IsSet("cookie-secure") {
		cfg.Auth.CookieSecure = strings.HasPrefix(cfg.Server.BaseURL, "https://")
	}

	return cfg
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("session secret is required (set SESSION_SECRET or auth.session_secret)")
	}
	if c.Auth.SessionHours <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	if c.Auth.CodeMinutes <= 0 {
		return fmt.Errorf("code duration must be positive")
	}
	if c.Auth.MasterEmail != "" && c.Auth.MasterPassHash == "" {
		return fmt.Errorf("master-passphrase-hash is required when master-email is set")
	}
	return nil
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	if port == 80 {
		return fmt.Sprintf("http://%s", host)
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/linkd.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host (email delivery disabled when empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Value:   "noreply@linkd.app",
			Usage:   "Sender address for login code emails",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "LINKD",
			Usage:   "Sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USER"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASS"), toml.TOML("smtp.password", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP delivery",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-secret",
			Usage:   "Secret key for signing session tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_SECRET"), toml.TOML("auth.session_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "cookie-name",
			Value:   "admin_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_NAME"), toml.TOML("auth.cookie_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "cookie-secure",
			Usage:   "HTTPS-only session cookie (defaults from base URL scheme)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_SECURE"), toml.TOML("auth.cookie_secure", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-duration",
			Value:   24,
			Usage:   "Session lifetime in hours",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_DURATION"), toml.TOML("auth.session_duration", configFile)),
		},
		&cli.IntFlag{
			Name:    "code-duration",
			Value:   10,
			Usage:   "One-time code lifetime in minutes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CODE_DURATION"), toml.TOML("auth.code_duration", configFile)),
		},
		&cli.BoolFlag{
			Name:    "debug-codes",
			Usage:   "Return generated login codes to the caller (local testing only)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DEBUG_CODES"), toml.TOML("auth.debug_codes", configFile)),
		},
		&cli.StringFlag{
			Name:    "master-email",
			Usage:   "Break-glass super admin identity (disabled when empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MASTER_EMAIL"), toml.TOML("auth.master_email", configFile)),
		},
		&cli.StringFlag{
			Name:    "master-passphrase-hash",
			Usage:   "Bcrypt hash of the break-glass passphrase",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MASTER_PASSPHRASE_HASH"), toml.TOML("auth.master_passphrase_hash", configFile)),
		},
	}
}
