package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"bizbay/internal/infra/obs"
)

// Broker is satisfied by the kafka producer. Publishing is best-effort: the
// gateway never fails a user request because an audit event could not be sent.
type Broker interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

const (
	TopicChat     = "chat.events"
	TopicListings = "listing.events"

	TypeMessageSent     = "message.sent"
	TypeServiceCreated  = "service.created"
	TypeServiceVerified = "service.verified"
)

// Event is the audit envelope published for gateway-observed mutations.
type Event struct {
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Detail     any       `json:"detail,omitempty"`
}

// Publisher wraps a Broker with topic prefixing and logging.
type Publisher struct {
	Broker      Broker
	TopicPrefix string
	Logger      *slog.Logger
}

// Emit publishes the event, keyed by subject so per-conversation and
// per-listing ordering holds within a partition.
func (p *Publisher) Emit(ctx context.Context, topic string, ev Event) {
	if p == nil || p.Broker == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if ev.RequestID == "" {
		ev.RequestID = obs.RequestIDFromContext(ctx)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Error("event encode failed", "type", ev.Type, "error", err)
		}
		return
	}
	if err := p.Broker.Publish(ctx, p.TopicPrefix+topic, ev.Subject, payload, map[string]string{"type": ev.Type}); err != nil {
		if p.Logger != nil {
			p.Logger.Warn("event publish failed", "type", ev.Type, "topic", p.TopicPrefix+topic, "error", err)
		}
	}
}
