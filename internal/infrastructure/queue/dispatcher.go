package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/authuser/accounts/internal/api/metrics"
	"github.com/authuser/accounts/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes account events to a fixed set of workers using consistent
// hashing on the normalized email, so events for one account are recorded in
// the order they were published.
type Dispatcher struct {
	workers []chan ports.AccountEventInput
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AccountEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AccountEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands event to the worker responsible for its email. It never
// blocks the request path: when that worker's channel is full the event is
// dropped and counted.
func (d *Dispatcher) Publish(event ports.AccountEventInput) {
	idx := d.shardIndex(event.Email)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.EventsDroppedTotal.Inc()
		d.log.Warn().
			Str("type", event.Type).
			Int("worker_id", idx).
			Msg("account event dropped, dispatcher saturated")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToUpper(strings.TrimSpace(email))))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AccountEventInput) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.service.Process(ctx, event)
			result := "ok"
			if err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("type", event.Type).
					Int("worker_id", id).
					Msg("account event processing failed")
			}
			metrics.EventProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}
