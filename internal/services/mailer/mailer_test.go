package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetMessageEscapesLink(t *testing.T) {
	msg := PasswordResetMessage("a@example.com", "http://x/reset-password?token=a&b=<c>")

	assert.Equal(t, "a@example.com", msg.To)
	assert.Contains(t, msg.HTML, "token=a&amp;b=&lt;c&gt;")
	assert.NotContains(t, msg.HTML, "<c>")
}

func TestInviteMessage(t *testing.T) {
	msg := InviteMessage("coach@example.com", "http://x/invite/abc")

	assert.Equal(t, "coach@example.com", msg.To)
	assert.Contains(t, msg.HTML, `href="http://x/invite/abc"`)
}

func TestLogSenderWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := sender.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"to":"a@example.com"`)
	assert.Contains(t, buf.String(), `"subject":"Hi"`)
	assert.NotContains(t, buf.String(), "body", "body stays out of info logs")
}

func TestLogSenderBodyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := NewLogSender(logger).Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", HTML: "token-abc"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), `"body":"token-abc"`)
}
