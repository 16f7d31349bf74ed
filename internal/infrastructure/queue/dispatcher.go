package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/wastemap/platform-api/internal/api/metrics"
	"github.com/wastemap/platform-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans report events out to a fixed set of workers using
// consistent hashing on the report id, so events for one report are always
// published in order. It implements ports.Notifier: Notify never blocks the
// caller beyond channel capacity and delivery failures are logged, not
// returned.
type Dispatcher struct {
	workers   []chan ports.ReportEvent
	publisher ports.Publisher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher ports.Publisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.ReportEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReportEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify sends an event to the worker responsible for its report id.
func (d *Dispatcher) Notify(event ports.ReportEvent) {
	d.workers[d.shardIndex(event.ReportID)] <- event
}

// shardIndex maps a report id deterministically to a worker index.
func (d *Dispatcher) shardIndex(reportID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(reportID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReportEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.publisher.Publish(ctx, event); err != nil {
				metrics.EventsPublishedTotal.WithLabelValues(event.Type, "error").Inc()
				d.log.Error().Err(err).
					Str("report_id", event.ReportID).
					Str("event_type", event.Type).
					Int("worker_id", id).
					Msg("event publish failed")
				continue
			}
			metrics.EventsPublishedTotal.WithLabelValues(event.Type, "ok").Inc()
		}
	}
}
