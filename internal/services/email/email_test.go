// Copyright 2025 Digitals CL
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitals-cl/linkd/internal/config"
	"github.com/digitals-cl/linkd/internal/i18n"
)

func TestNewService_RequiresFromWhenConfigured(t *testing.T) {
	_, err := NewService(&config.SMTPConfig{Host: "smtp.example.com", Port: 587})
	assert.Error(t, err)
}

func TestSendLoginCode_DroppedWhenUnconfigured(t *testing.T) {
	require.NoError(t, i18n.Init())

	svc, err := NewService(&config.SMTPConfig{})
	require.NoError(t, err)

	// No SMTP server is reachable in tests; the unconfigured service must
	// drop the mail without erroring so debug code delivery still works.
	err = svc.SendLoginCode(context.Background(), "owner@acme.test", "123456", 10*time.Minute)
	assert.NoError(t, err)
}

func TestPing_FailsWhenUnconfigured(t *testing.T) {
	svc, err := NewService(&config.SMTPConfig{})
	require.NoError(t, err)

	assert.Error(t, svc.Ping(context.Background()))
}

func TestRenderHTMLBody(t *testing.T) {
	require.NoError(t, i18n.Init())

	body := renderHTMLBody(context.Background(), "482913", 10)
	assert.Contains(t, body, "482913")
	assert.Contains(t, body, "LINKD")
	assert.Contains(t, body, "10")
}
