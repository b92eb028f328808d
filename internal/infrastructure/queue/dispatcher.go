package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/api/metrics"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	dedupScope     = "invoice"
	jobTimeout     = 30 * time.Second
)

// OnceGuard deduplicates jobs across retries and instances.
type OnceGuard interface {
	FirstSeen(ctx context.Context, scope, id string) (bool, error)
	Forget(ctx context.Context, scope, id string) error
}

// Dispatcher hands checked-out reservations to a fixed set of invoice
// workers. Jobs are sharded by reservation id so one reservation is never
// invoiced by two workers at once.
type Dispatcher struct {
	workers   []chan *domain.Reservation
	generator ports.InvoiceGenerator
	guard     OnceGuard
	log       zerolog.Logger
	wg        sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. guard may be nil.
func NewDispatcher(numWorkers int, generator ports.InvoiceGenerator, guard OnceGuard, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan *domain.Reservation, numWorkers),
		generator: generator,
		guard:     guard,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.Reservation, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after Shutdown, once their queue is empty.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Shutdown stops accepting jobs and waits for the workers to finish what is
// already queued. It returns ctx.Err() if ctx ends first; cancelling the
// context given to Start then abandons the rest.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
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
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyCheckout enqueues an invoice job without blocking. A full shard
// drops the job and logs it; the checkout itself already succeeded.
func (d *Dispatcher) NotifyCheckout(r *domain.Reservation) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.InvoiceJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Error().Str("reservation_id", r.ID).Msg("dispatcher shut down, invoice job dropped")
		return
	}

	idx := d.shardIndex(r.ID)
	job := *r
	select {
	case d.workers[idx] <- &job:
		metrics.InvoiceQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.InvoiceJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Error().Str("reservation_id", r.ID).Int("worker_id", idx).Msg("invoice queue full, job dropped")
	}
}

// shardIndex maps a reservation id deterministically to a worker index.
func (d *Dispatcher) shardIndex(reservationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(reservationID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.Reservation) {
	defer d.wg.Done()
	depth := metrics.InvoiceQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.process(ctx, id, res)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, res *domain.Reservation) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	log := d.log.With().Str("reservation_id", res.ID).Int("worker_id", workerID).Logger()

	if d.guard != nil {
		first, err := d.guard.FirstSeen(ctx, dedupScope, res.ID)
		if err != nil {
			// Without the guard we may double-invoice; generating anyway is
			// preferred over never invoicing.
			log.Warn().Err(err).Msg("invoice dedup unavailable")
		} else if !first {
			metrics.InvoiceJobsTotal.WithLabelValues("duplicate").Inc()
			log.Info().Msg("invoice already generated, skipping")
			return
		}
	}

	if err := d.generator.Generate(ctx, res); err != nil {
		metrics.InvoiceJobsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("invoice generation failed")
		if d.guard != nil {
			if ferr := d.guard.Forget(ctx, dedupScope, res.ID); ferr != nil {
				log.Warn().Err(ferr).Msg("clear invoice dedup mark")
			}
		}
		return
	}
	metrics.InvoiceJobsTotal.WithLabelValues("generated").Inc()
	metrics.InvoiceDuration.Observe(time.Since(start).Seconds())
}
