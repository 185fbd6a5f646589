package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/constante/apiserver/types"
)

const publishTimeout = 5 * time.Second

// Publisher sends a payload to a named channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Notifier publishes domain events. A nil Notifier drops every event.
// Publishing never fails the caller; errors are logged.
type Notifier struct {
	publisher Publisher
	channel   string
	logger    *slog.Logger
}

func NewNotifier(publisher Publisher, channel string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{publisher: publisher, channel: channel, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, event types.Event) {
	if n == nil || n.publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.logger.ErrorContext(ctx, "encode event", "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	id, err := n.publisher.Publish(ctx, n.channel, data, map[string]string{"type": string(event.Type)})
	if err != nil {
		n.logger.WarnContext(ctx, "publish event failed",
			"type", event.Type,
			"channel", n.channel,
			"habit_id", event.HabitID,
			"error", err,
		)
		return
	}
	n.logger.DebugContext(ctx, "event published", "type", event.Type, "message_id", id)
}
