package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSMTPSender(t *testing.T) *SMTPSender {
	t.Helper()

	s, err := NewSMTPSender(SMTPConfig{
		Host: "smtp.example.test",
		Port: 587,
		User: "mailer",
		From: "bookings@sparkle.test",
	})
	require.NoError(t, err)
	return s
}

func TestSMTPSender_MessageEncodesHeaders(t *testing.T) {
	s := testSMTPSender(t)

	msg, err := s.message("dana@example.com", "Reminder: Café Clean tomorrow", "See you at 9:00 AM.")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "=?UTF-8?q?")
	assert.NotContains(t, raw, "Subject: Reminder: Café")
	assert.Contains(t, raw, "<dana@example.com>")
}

func TestSMTPSender_RejectsBadRecipient(t *testing.T) {
	s := testSMTPSender(t)

	_, err := s.message("not an address", "Booking received", "body")
	assert.Error(t, err)
}

func TestSMTPSender_HonoursContext(t *testing.T) {
	s := testSMTPSender(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SendEmail(ctx, "dana@example.com", "Booking received", "body")
	assert.Error(t, err)
}
