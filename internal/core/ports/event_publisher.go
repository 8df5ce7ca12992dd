package ports

import "context"

// Broadcaster is the pub/sub transport collaborator. Send returns the number
// of subscribers that received the message when the transport reports it;
// the count is informational only.
type Broadcaster interface {
	Send(ctx context.Context, channel string, payload []byte) (int64, error)
}

// EventPublisher announces committed mutations to external subscribers.
// Publish never returns an error: delivery is best-effort and transport
// failures are logged and swallowed so they can never fail an already
// committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data, metadata map[string]any)
}
