package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"gymhub/internal/capacity"
	"gymhub/internal/logger"
	"gymhub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Broadcaster delivers an event to local subscribers of a topic.
type Broadcaster interface {
	Broadcast(topic string, ev capacity.Event)
}

// Publisher announces capacity changes to every API instance. Without redis
// it only reaches clients of this instance.
type Publisher struct {
	rdb     redis.UniversalClient
	channel string
	local   Broadcaster
}

func NewPublisher(rdb redis.UniversalClient, channel string, local Broadcaster) *Publisher {
	return &Publisher{rdb: rdb, channel: channel, local: local}
}

// PublishCapacity sends ev on the capacity channel. If redis rejects it the
// event still reaches this instance's clients and the error is returned.
func (p *Publisher) PublishCapacity(ctx context.Context, ev capacity.Event) error {
	if p.rdb == nil {
		fanout(p.local, ev)
		metrics.RecordCapacityEvent(string(ev.EventType), "local")
		return nil
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode capacity event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		logger.Error("capacity publish failed, delivering locally", "appointment_id", ev.AppointmentID, "error", err)
		fanout(p.local, ev)
		metrics.RecordCapacityEvent(string(ev.EventType), "local")
		return fmt.Errorf("failed to publish capacity event: %w", err)
	}
	metrics.RecordCapacityEvent(string(ev.EventType), "redis")
	return nil
}

// fanout delivers ev on the appointment topic and the catch-all topic.
func fanout(b Broadcaster, ev capacity.Event) {
	if b == nil {
		return
	}
	b.Broadcast(capacity.TopicFor(ev.AppointmentID), ev)
	b.Broadcast(capacity.TopicAll, ev)
}
