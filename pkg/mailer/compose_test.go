package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_PasswordReset(t *testing.T) {
	subject, text, err := Compose(EmailJob{
		To:       "jane@example.com",
		Template: JobPasswordReset,
		Data:     map[string]any{"name": "Jane", "resetUrl": "http://shop.test/reset?token=abc", "expiresAt": "10:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Reset your password", subject)
	assert.Contains(t, text, "Hello Jane")
	assert.Contains(t, text, "http://shop.test/reset?token=abc")
}

func TestCompose_OrderConfirmation(t *testing.T) {
	subject, text, err := Compose(EmailJob{
		Template: JobOrderConfirmation,
		Data:     map[string]any{"orderNumber": "ORD-20240101-ABCDEF12", "totalAmount": "120.50"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Order confirmation ORD-20240101-ABCDEF12", subject)
	assert.Contains(t, text, "120.50")
}

func TestCompose_Plain(t *testing.T) {
	_, _, err := Compose(EmailJob{Subject: "hi"})
	assert.Error(t, err)

	subject, text, err := Compose(EmailJob{Subject: "hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hi", subject)
	assert.Equal(t, "body", text)
}

func TestCompose_Unknown(t *testing.T) {
	_, _, err := Compose(EmailJob{Template: "welcome"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
