package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type job struct {
	eventType string
	data      map[string]any
	metadata  map[string]any
}

// Dispatcher decouples event publication from the request path: Publish
// enqueues and returns immediately, and a fixed set of workers performs the
// actual broadcasts. Events are sharded by event type, so events of the same
// type reach the transport in the order they were enqueued.
//
// Dispatcher implements ports.EventPublisher by wrapping another publisher,
// so services never block on the transport.
type Dispatcher struct {
	workers   []chan job
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers. If
// numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan job, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish enqueues an event for broadcast. When a worker's buffer is full
// the event is dropped rather than blocking the caller; delivery is
// best-effort either way.
func (d *Dispatcher) Publish(_ context.Context, eventType string, data, metadata map[string]any) {
	j := job{eventType: eventType, data: data, metadata: metadata}
	select {
	case d.workers[d.shardIndex(eventType)] <- j:
	default:
		d.log.Warn().Str("event_type", eventType).Msg("publish queue full, event dropped")
	}
}

// shardIndex maps an event type deterministically to a worker index.
func (d *Dispatcher) shardIndex(eventType string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(eventType))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			d.publisher.Publish(ctx, j.eventType, j.data, j.metadata)
		}
	}
}
