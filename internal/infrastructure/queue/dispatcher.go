package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadflow/crm-api/internal/api/metrics"
	"github.com/leadflow/crm-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes lead events to a fixed set of workers using consistent
// hashing on the lead id, so events for one lead are recorded in order.
type Dispatcher struct {
	workers  []chan ports.LeadEvent
	recorder ports.ActivityRecorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.ActivityRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.LeadEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LeadEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an event to the worker responsible for its lead. It never
// blocks a request: when the worker's buffer is full the event is dropped.
func (d *Dispatcher) Publish(event ports.LeadEvent) {
	idx := d.shardIndex(event.LeadID)
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityEventsErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("lead_id", event.LeadID).
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a lead id deterministically to a worker index.
func (d *Dispatcher) shardIndex(leadID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(leadID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.LeadEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, event)
		}
	}
}

// drain records whatever is still buffered after shutdown was requested, on a
// fresh context so the writes are not cancelled with the server.
func (d *Dispatcher) drain(id int, ch <-chan ports.LeadEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event ports.LeadEvent) {
	start := time.Now()
	if err := d.recorder.Record(ctx, event); err != nil {
		metrics.ActivityEventsErrorsTotal.WithLabelValues("record_failed").Inc()
		d.log.Error().Err(err).
			Str("lead_id", event.LeadID).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("activity recording failed")
		return
	}
	metrics.ActivityEventsProcessedTotal.WithLabelValues(string(event.Kind)).Inc()
	metrics.ActivityProcessingDuration.WithLabelValues(string(event.Kind)).Observe(time.Since(start).Seconds())
}
