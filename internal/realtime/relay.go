package realtime

import (
	"context"
	"encoding/json"

	"gymhub/internal/capacity"
	"gymhub/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Relay forwards capacity events from the redis channel to the local hub.
type Relay struct {
	rdb     redis.UniversalClient
	channel string
	local   Broadcaster
}

func NewRelay(rdb redis.UniversalClient, channel string, local Broadcaster) *Relay {
	return &Relay{rdb: rdb, channel: channel, local: local}
}

// Run blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	logger.Info("capacity relay subscribed", "channel", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(msg.Payload)
		}
	}
}

func (r *Relay) handle(payload string) {
	var ev capacity.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		logger.Error("dropping malformed capacity event", "error", err)
		return
	}
	if ev.AppointmentID <= 0 {
		logger.Debug("dropping capacity event without appointment id")
		return
	}
	fanout(r.local, ev)
}
