package email

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehr/internal/platform/config"
)

func TestBuildMessagePlain(t *testing.T) {
	raw, err := buildMessage(Message{From: "hr@example.com", To: "a@example.com", Subject: "Hello", Body: "Body text"})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", msg.Header.Get("To"))
	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "Body text", string(body))
}

func TestBuildMessageWithAttachment(t *testing.T) {
	raw, err := buildMessage(Message{
		From:        "hr@example.com",
		To:          "a@example.com",
		Subject:     "Payslip",
		Body:        "Attached.",
		Attachments: []Attachment{{Filename: "payslip.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3 test")}},
	})
	require.NoError(t, err)

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	first, err := reader.NextPart()
	require.NoError(t, err)
	text, err := io.ReadAll(first)
	require.NoError(t, err)
	assert.Equal(t, "Attached.", string(text))

	second, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "payslip.pdf", second.FileName())
	assert.Equal(t, "application/pdf", second.Header.Get("Content-Type"))
}

func TestNoopMailerRequiresRecipient(t *testing.T) {
	mailer := New(config.Config{})
	assert.ErrorIs(t, mailer.Send(context.Background(), Message{}), ErrNoRecipient)
	assert.NoError(t, mailer.Send(context.Background(), Message{To: "a@example.com"}))
}
