package mailer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ISTS-2025/project-repository-service/internal/events"
)

// Dispatcher consumes notification events and hands them to the mailer.
// Messages are acked even when delivery fails; mail is best effort and a
// poisoned message must not wedge the subscription.
type Dispatcher struct {
	subscriber message.Subscriber
	mailer     Mailer
	logger     *slog.Logger

	cancel context.CancelFunc
	done   sync.WaitGroup
}

func NewDispatcher(subscriber message.Subscriber, mailer Mailer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		subscriber: subscriber,
		mailer:     mailer,
		logger:     logger,
	}
}

// Start subscribes to the email topic and processes events until Stop.
func (d *Dispatcher) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	messages, err := d.subscriber.Subscribe(runCtx, events.TopicEmailNotifications)
	if err != nil {
		cancel()
		return err
	}

	d.done.Add(1)
	go func() {
		defer d.done.Done()
		for msg := range messages {
			d.handle(runCtx, msg)
			msg.Ack()
		}
	}()

	d.logger.Info("mail dispatcher started", "topic", events.TopicEmailNotifications)
	return nil
}

// Stop cancels the subscription and waits for in-flight handling.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.done.Wait()
}

func (d *Dispatcher) handle(ctx context.Context, msg *message.Message) {
	var event events.Event
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		d.logger.Error("failed to decode notification event", "message_id", msg.UUID, "error", err)
		return
	}

	switch event.Type {
	case events.EventPasswordResetRequested:
		var data events.PasswordResetRequested
		if err := json.Unmarshal(event.Data, &data); err != nil {
			d.logger.Error("failed to decode password reset event", "event_id", event.ID, "error", err)
			return
		}
		if err := d.mailer.SendPasswordReset(ctx, data.Email, data.Name, data.ResetURL); err != nil {
			d.logger.Error("failed to deliver password reset mail", "event_id", event.ID, "error", err)
		}
	default:
		d.logger.Warn("unhandled notification event", "event_type", event.Type, "event_id", event.ID)
	}
}
