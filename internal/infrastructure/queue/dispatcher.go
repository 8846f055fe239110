package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/api/metrics"
	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultTimeout = 10 * time.Second
	channelBuffer  = 256
)

var _ ports.NotificationQueue = (*Dispatcher)(nil)

// Dispatcher delivers user confirmation events to the backend from a fixed set
// of workers, sharded by email so events for one identity stay ordered.
type Dispatcher struct {
	workers  []chan domain.UserConfirmedEvent
	notifier ports.BackendNotifier
	timeout  time.Duration
	log      zerolog.Logger
	wg       sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	cancel  context.CancelFunc
	pending atomic.Int64
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers. Each
// delivery is bounded by timeout. Zero values fall back to defaults.
func NewDispatcher(numWorkers int, timeout time.Duration, notifier ports.BackendNotifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	d := &Dispatcher{
		workers:  make([]chan domain.UserConfirmedEvent, numWorkers),
		notifier: notifier,
		timeout:  timeout,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.UserConfirmedEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Shutdown has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown stops accepting events and lets the workers deliver what is still
// queued. When ctx expires first the workers are cancelled and the number of
// undelivered events is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) int {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if d.cancel != nil {
			d.cancel()
		}
		<-done
	}

	lost := int(d.pending.Load())
	if lost > 0 {
		metrics.BackendNotificationsTotal.WithLabelValues("dropped").Add(float64(lost))
		d.log.Warn().Int("dropped", lost).Msg("notification queue not drained before shutdown deadline")
	}
	return lost
}

// Enqueue hands the event to the worker responsible for its email. It never
// blocks; a full worker channel or a stopped dispatcher drops the event and
// reports false.
func (d *Dispatcher) Enqueue(event domain.UserConfirmedEvent) bool {
	idx := d.shardIndex(event.Email)
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.BackendNotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("email", event.Email).Msg("notification queue stopped, event dropped")
		return false
	}
	d.pending.Add(1)
	select {
	case d.workers[idx] <- event:
		metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		d.pending.Add(-1)
		metrics.BackendNotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("email", event.Email).Int("worker_id", idx).Msg("notification queue full, event dropped")
		return false
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.UserConfirmedEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok || ctx.Err() != nil {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, event)
			d.pending.Add(-1)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, event domain.UserConfirmedEvent) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.notifier.NotifyUserConfirmed(ctx, event)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendNotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("email", event.Email).
			Int("worker_id", id).
			Msg("backend notification failed")
		return
	}
	metrics.BackendNotificationsTotal.WithLabelValues("delivered").Inc()
}
