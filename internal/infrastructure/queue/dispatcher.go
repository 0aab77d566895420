// Package queue delivers assistant replies off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Hooks lets callers observe the dispatcher without it depending on a
// metrics backend. Nil fields are skipped.
type Hooks struct {
	QueueDepth func(workerID string, depth int)
	Processed  func(elapsed time.Duration, err error)
}

// Dispatcher routes reply requests to a fixed set of workers using consistent
// hashing on the child id, so replies for one child are written in the order
// their questions were asked.
type Dispatcher struct {
	workers []chan ports.ReplyRequest
	stopped chan struct{}
	stop    sync.Once
	replier ports.Replier
	delay   time.Duration
	hooks   Hooks
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers. Each
// reply is written delay after it is dequeued. If numWorkers <= 0,
// defaultWorkers is used.
func NewDispatcher(numWorkers int, delay time.Duration, replier ports.Replier, hooks Hooks, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReplyRequest, numWorkers),
		stopped: make(chan struct{}),
		replier: replier,
		delay:   delay,
		hooks:   hooks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReplyRequest, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// requests still queued at that point are dropped.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.stop.Do(func() { close(d.stopped) })
	}()
}

// Enqueue sends a request to the worker responsible for its child. It never
// blocks: the request is dropped once the dispatcher has stopped or when the
// worker's buffer is full.
func (d *Dispatcher) Enqueue(req ports.ReplyRequest) {
	select {
	case <-d.stopped:
		d.log.Warn().Str("child_id", req.ChildID).Msg("dispatcher stopped, reply dropped")
		return
	default:
	}

	i := d.shardIndex(req.ChildID)
	select {
	case d.workers[i] <- req:
		d.reportDepth(i)
	default:
		d.log.Warn().Str("child_id", req.ChildID).Int("worker_id", i).Msg("reply queue full, reply dropped")
	}
}

// shardIndex maps a child id deterministically to a worker index.
func (d *Dispatcher) shardIndex(childID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(childID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReplyRequest) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-ch:
			if !ok {
				return
			}
			d.reportDepth(id)
			d.handle(ctx, id, req)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, id int, req ports.ReplyRequest) {
	start := time.Now()

	if d.delay > 0 {
		t := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}

	err := d.replier.Reply(ctx, req)
	if d.hooks.Processed != nil {
		d.hooks.Processed(time.Since(start), err)
	}
	if err != nil {
		d.log.Error().Err(err).
			Str("child_id", req.ChildID).
			Int("worker_id", id).
			Msg("assistant reply failed")
	}
}

func (d *Dispatcher) reportDepth(i int) {
	if d.hooks.QueueDepth != nil {
		d.hooks.QueueDepth(strconv.Itoa(i), len(d.workers[i]))
	}
}
