// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

// Package email delivers login codes over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/i18n"
)

// Service sends login code emails via SMTP using go-mail. When SMTP is not
// configured the service logs and drops outgoing mail instead of failing,
// so codes stay usable through debug delivery.
type Service struct {
	cfg *config.SMTPConfig
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Configured() && cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &Service{cfg: cfg}, nil
}

// SendLoginCode sends the one-time code to the recipient.
func (s *Service) SendLoginCode(ctx context.Context, toEmail, code string, ttl time.Duration) error {
	if !s.cfg.Configured() {
		slog.Warn("SMTP not configured, login code email not sent", "email", toEmail)
		return nil
	}

	minutes := int(ttl.Minutes())
	subject := i18n.T(ctx, "login_code_subject")
	text := i18n.TData(ctx, "login_code_body", map[string]any{
		"Code":    code,
		"Minutes": minutes,
	})
	html := renderHTMLBody(ctx, code, minutes)

	return s.send(toEmail, subject, text, html)
}

// Ping verifies the SMTP connection without sending anything.
func (s *Service) Ping(ctx context.Context) error {
	if !s.cfg.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("dialing SMTP server: %w", err)
	}
	return client.Close()
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, text, html string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	client, err := s.client()
	if err != nil {
		return err
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

func (s *Service) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Use implicit TLS (SSL) for port 465, STARTTLS for others.
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}
	return client, nil
}

// renderHTMLBody builds the branded code-box mail body.
func renderHTMLBody(ctx context.Context, code string, minutes int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<div style="background-color: #f9f9f9; border-radius: 8px; padding: 30px; border: 1px solid #e0e0e0;">`)
	b.WriteString(`<div style="text-align: center; margin-bottom: 20px;"><h1 style="color: #007bff; margin: 0;">LINKD</h1></div>`)
	b.WriteString(`<p style="text-align: center;">` + i18n.T(ctx, "login_code_intro") + `</p>`)
	b.WriteString(`<div style="background-color: #fff; border: 2px solid #007bff; border-radius: 8px; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #007bff; margin: 20px 0;">` + code + `</div>`)
	b.WriteString(`<p style="color: #666; font-size: 14px; text-align: center; margin-top: 20px;">` + i18n.TData(ctx, "login_code_expiry", map[string]any{"Minutes": minutes}) + `</p>`)
	b.WriteString(`<p style="text-align: center; margin-top: 20px;">` + i18n.T(ctx, "login_code_ignore") + `</p>`)
	b.WriteString(`<div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0; color: #999; font-size: 12px;"><p>` + i18n.T(ctx, "login_code_footer") + `</p></div>`)
	b.WriteString(`</div></body></html>`)
	return b.String()
}
