package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/kanban-api/internal/api/metrics"
	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

// channelPrefix namespaces every kanban channel; subscribers listen with a
// "kanban.*" pattern subscription.
const channelPrefix = "kanban."

const defaultPublishTimeout = 5 * time.Second

// EventPublisher serializes domain events and broadcasts them on a named
// channel. Delivery is fire-and-forget: transport failures are logged and
// counted, never propagated, so a dropped notification can never roll back
// or fail the committed mutation that produced it.
type EventPublisher struct {
	broadcaster ports.Broadcaster
	timeout     time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

func NewEventPublisher(broadcaster ports.Broadcaster, timeout time.Duration, log zerolog.Logger) *EventPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &EventPublisher{
		broadcaster: broadcaster,
		timeout:     timeout,
		log:         log,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for event timestamps. Tests only.
func (p *EventPublisher) WithClock(now func() time.Time) *EventPublisher {
	p.now = now
	return p
}

// Publish builds an event with a fresh id and broadcasts it on
// "kanban.<lowercased event type>". The subscriber count reported by the
// transport is informational and only logged.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, data, metadata map[string]any) {
	event := domain.NewEvent(eventType, p.now(), data, metadata)
	channel := Channel(eventType)

	payload, err := json.Marshal(event)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		p.log.Error().Err(err).Str("event_type", eventType).Msg("failed to serialize event")
		return
	}

	// The mutation is already committed by the time we get here, so the
	// publish deadline is detached from the request's cancellation.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	subscribers, err := p.broadcaster.Send(sendCtx, channel, payload)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		p.log.Error().Err(err).
			Str("event_id", event.EventID).
			Str("event_type", eventType).
			Str("channel", channel).
			Msg("event publication failed")
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(eventType, "ok").Inc()
	p.log.Info().
		Str("event_id", event.EventID).
		Str("event_type", eventType).
		Str("channel", channel).
		Int64("subscribers", subscribers).
		Msg("event published")
}

// Channel derives the broadcast channel name for an event type.
func Channel(eventType string) string {
	return channelPrefix + strings.ToLower(eventType)
}
