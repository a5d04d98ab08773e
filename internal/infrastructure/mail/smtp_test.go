package mail

import (
	"context"
	"errors"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"bootcamp-directory/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	date := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	msg := string(buildMessage(mail.Address{Name: "DevCamper", Address: "noreply@devcamper.io"}, "jane@example.com", "Password reset token", "hello", date))

	assert.True(t, strings.HasPrefix(msg, "From: \"DevCamper\" <noreply@devcamper.io>\r\n"))
	assert.Contains(t, msg, "To: jane@example.com\r\n")
	assert.Contains(t, msg, "Subject: Password reset token\r\n")
	assert.Contains(t, msg, "Date: Wed, 04 Mar 2026 05:06:07 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nhello\r\n"))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(&config.SMTPConfig{
		Host:      "smtp.mailtrap.io",
		Port:      2525,
		User:      "user",
		Password:  "pass",
		FromEmail: "noreply@devcamper.io",
		FromName:  "DevCamper",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, _ []byte) error {
		gotAddr, gotFrom, gotTo = addr, from, to
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "jane@example.com", "s", "b"))
	assert.Equal(t, "smtp.mailtrap.io:2525", gotAddr)
	assert.Equal(t, "noreply@devcamper.io", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)

	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 try later") }
	assert.ErrorContains(t, m.Send(context.Background(), "jane@example.com", "s", "b"), "421")
}
