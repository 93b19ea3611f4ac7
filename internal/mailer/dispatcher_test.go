package mailer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/events"
)

// capturingMailer records deliveries instead of sending them.
type capturingMailer struct {
	mu   sync.Mutex
	sent []capturedMail
}

type capturedMail struct {
	to       string
	name     string
	resetURL string
}

func (m *capturingMailer) SendPasswordReset(_ context.Context, to, name, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{to: to, name: name, resetURL: resetURL})
	return nil
}

func (m *capturingMailer) deliveries() []capturedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]capturedMail, len(m.sent))
	copy(out, m.sent)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestDispatcherDeliversPasswordResetMail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewGoChannelBus(logger)
	captured := &capturingMailer{}

	dispatcher := NewDispatcher(bus, captured, logger)
	require.NoError(t, dispatcher.Start(context.Background()))
	defer dispatcher.Stop()

	publisher := events.NewEventPublisher(bus, logger)
	event, err := events.NewEvent(events.EventPasswordResetRequested, events.PasswordResetRequested{
		UserID:   "u1",
		Email:    "student@example.com",
		Name:     "Student",
		ResetURL: "http://localhost:5173/reset-password/token123",
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), events.TopicEmailNotifications, event))

	waitFor(t, func() bool { return len(captured.deliveries()) == 1 })

	mail := captured.deliveries()[0]
	assert.Equal(t, "student@example.com", mail.to)
	assert.Equal(t, "Student", mail.name)
	assert.Equal(t, "http://localhost:5173/reset-password/token123", mail.resetURL)
}

func TestDispatcherSkipsUnknownEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewGoChannelBus(logger)
	captured := &capturingMailer{}

	dispatcher := NewDispatcher(bus, captured, logger)
	require.NoError(t, dispatcher.Start(context.Background()))
	defer dispatcher.Stop()

	publisher := events.NewEventPublisher(bus, logger)

	unknown, err := events.NewEvent("auth.unknown_event", map[string]string{})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), events.TopicEmailNotifications, unknown))

	// A known event after the unknown one proves the subscription survived.
	known, err := events.NewEvent(events.EventPasswordResetRequested, events.PasswordResetRequested{Email: "student@example.com"})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), events.TopicEmailNotifications, known))

	waitFor(t, func() bool { return len(captured.deliveries()) == 1 })
	assert.Equal(t, "student@example.com", captured.deliveries()[0].to)
}

func TestPasswordResetBodyContainsLink(t *testing.T) {
	body := passwordResetBody("Student", "http://localhost:5173/reset-password/token123")

	assert.Contains(t, body, "Hola Student")
	assert.Contains(t, body, `href="http://localhost:5173/reset-password/token123"`)
}

func TestLogMailerNeverFails(t *testing.T) {
	m := NewLogMailer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, m.SendPasswordReset(context.Background(), "a@b.co", "A", "http://reset"))
}
