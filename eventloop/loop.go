package eventloop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/logger"
)

// Task is a unit of work. ctx is cancelled when the loop shuts down.
type Task func(ctx context.Context)

// Stats is a point-in-time view of a Loop.
type Stats struct {
	Workers   int   `json:"workers"`
	Idle      int   `json:"idle"`
	Queued    int   `json:"queued"`
	Completed int64 `json:"completed"`
	Panics    int64 `json:"panics"`
	Rejected  int64 `json:"rejected"`
}

// Loop runs tasks on a pool of worker goroutines.
type Loop struct {
	cfg    Config
	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	tasks  chan Task

	mu      sync.Mutex
	workers int
	// pending counts tasks accepted by Submit that have not finished,
	// queued or running. Every pending task beyond the worker count gets a
	// new worker until MaxWorkers is reached.
	pending int
	closed  bool
	wg      sync.WaitGroup

	completed atomic.Int64
	panics    atomic.Int64
	rejected  atomic.Int64
}

// New creates a Loop. No goroutines start until the first Submit.
func New(cfg Config, log *logger.Logger) *Loop {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		cfg:    cfg,
		log:    log.WithComponent(cfg.Name),
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(chan Task, cfg.QueueSize),
	}
}

// Context is cancelled when Shutdown begins.
func (l *Loop) Context() context.Context { return l.ctx }

// Submit enqueues task without blocking.
func (l *Loop) Submit(task Task) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errors.Shutdown().WithDetail("loop", l.cfg.Name)
	}

	select {
	case l.tasks <- task:
	default:
		l.rejected.Add(1)
		return errors.QueueFull(l.cfg.Name)
	}

	l.pending++
	if l.pending > l.workers && l.workers < l.cfg.MaxWorkers {
		l.workers++
		l.wg.Add(1)
		go l.worker()
	}
	return nil
}

func (l *Loop) worker() {
	defer l.wg.Done()

	timer := time.NewTimer(l.cfg.IdleTimeout)
	defer timer.Stop()

	for {
		select {
		case task := <-l.tasks:
			l.run(task)
			timer.Reset(l.cfg.IdleTimeout)

		case <-timer.C:
			l.mu.Lock()
			if len(l.tasks) > 0 {
				l.mu.Unlock()
				timer.Reset(l.cfg.IdleTimeout)
				continue
			}
			l.workers--
			l.mu.Unlock()
			return

		case <-l.ctx.Done():
			l.drain()
			l.mu.Lock()
			l.workers--
			l.mu.Unlock()
			return
		}
	}
}

// drain runs whatever is still queued. Submit refuses new work once the
// loop is closed, so the queue only shrinks.
func (l *Loop) drain() {
	for {
		select {
		case task := <-l.tasks:
			l.run(task)
		default:
			return
		}
	}
}

func (l *Loop) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			l.panics.Add(1)
			l.log.Errorf(fmt.Errorf("panic: %v", r), "task panicked")
		}
		l.completed.Add(1)
		l.mu.Lock()
		l.pending--
		l.mu.Unlock()
	}()
	task(l.ctx)
}

// Shutdown stops accepting tasks, cancels the task context and waits for
// workers to exit or ctx to expire. Only the first call does anything.
func (l *Loop) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.log.Debug("event loop stopped", logger.Fields("completed", l.completed.Load()))
		return nil
	case <-ctx.Done():
		return errors.Timeout("event loop shutdown", ctx.Err()).WithDetail("loop", l.cfg.Name)
	}
}

// Closed reports whether Shutdown has been called.
func (l *Loop) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Stats returns current counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	s := Stats{Workers: l.workers, Idle: max(l.workers-l.pending, 0), Queued: len(l.tasks)}
	l.mu.Unlock()
	s.Completed = l.completed.Load()
	s.Panics = l.panics.Load()
	s.Rejected = l.rejected.Load()
	return s
}

// MaxWorkers returns the configured worker cap.
func (l *Loop) MaxWorkers() int { return l.cfg.MaxWorkers }
