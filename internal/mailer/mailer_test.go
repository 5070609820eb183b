package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := Message{
		From:    "AgeBack <postmaster@mg.example.com>",
		To:      "anna@example.com",
		Subject: "Добро пожаловать!",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	}

	t.Run("Should render both alternatives", func(t *testing.T) {
		raw := string(buildMessage(msg, "b0und"))

		assert.Contains(t, raw, "To: anna@example.com\r\n")
		assert.Contains(t, raw, `multipart/alternative; boundary="b0und"`)
		assert.Contains(t, raw, "--b0und\r\nContent-Type: text/plain")
		assert.Contains(t, raw, "--b0und\r\nContent-Type: text/html")
		assert.True(t, strings.HasSuffix(raw, "--b0und--\r\n"))
		assert.NotContains(t, raw, "Добро", "subject must be encoded")
	})

	t.Run("Should render html only without text", func(t *testing.T) {
		htmlOnly := msg
		htmlOnly.Text = ""
		raw := string(buildMessage(htmlOnly, "b0und"))

		assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>Hi</p>")
		assert.NotContains(t, raw, "multipart")
	})
}

func TestEnvelopeAddress(t *testing.T) {
	addr, err := envelopeAddress("AgeBack Coach <postmaster@mg.example.com>")
	require.NoError(t, err)
	assert.Equal(t, "postmaster@mg.example.com", addr)

	_, err = envelopeAddress("not an address")
	assert.Error(t, err)
}

func TestSendValidatesMessage(t *testing.T) {
	s := NewSMTPSender("localhost", 2525, "", "")

	_, err := s.Send(context.Background(), Message{From: "a@example.com", Subject: "x"})
	assert.ErrorContains(t, err, "recipient")
}
