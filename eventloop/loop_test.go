package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/kbukum/asynchttp/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func shutdown(t *testing.T, l *Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.MaxWorkers < 8 {
		t.Errorf("expected at least 8 workers, got %d", cfg.MaxWorkers)
	}
	if cfg.QueueSize != 1024 {
		t.Errorf("expected queue 1024, got %d", cfg.QueueSize)
	}
	if cfg.IdleTimeout != 30*time.Second {
		t.Errorf("expected 30s idle, got %v", cfg.IdleTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_ValidateRejectsZero(t *testing.T) {
	cfg := Config{Name: "x"}
	err := cfg.Validate()
	if !errors.IsConfiguration(err) {
		t.Errorf("expected CONFIGURATION error, got %v", err)
	}
}

func TestLoop_RunsTasks(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 4}, nil)
	defer shutdown(t, l)

	var wg sync.WaitGroup
	var count atomic.Int32
	for i := 0; i < 100; i++ {
		wg.Add(1)
		if err := l.Submit(func(context.Context) {
			defer wg.Done()
			count.Add(1)
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()

	if count.Load() != 100 {
		t.Errorf("expected 100 runs, got %d", count.Load())
	}
	if s := l.Stats(); s.Workers > 4 {
		t.Errorf("worker cap exceeded: %d", s.Workers)
	}
}

func TestLoop_ConcurrencyCap(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 2, QueueSize: 16}, nil)
	defer shutdown(t, l)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		l.Submit(func(context.Context) {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()

	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak.Load())
	}
}

func TestLoop_ReadyTaskNotBlockedBehindBusyWorker(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 8}, nil)
	defer shutdown(t, l)

	// Park one warm worker so the next task is handed to it directly.
	warm := make(chan struct{})
	l.Submit(func(context.Context) { close(warm) })
	<-warm

	for i := 0; i < 200; i++ {
		deadline := time.Now().Add(2 * time.Second)
		for l.Stats().Idle < 1 {
			if time.Now().After(deadline) {
				t.Fatalf("no idle worker: %+v", l.Stats())
			}
			time.Sleep(time.Millisecond)
		}

		release := make(chan struct{})
		ran := make(chan struct{})
		if err := l.Submit(func(context.Context) { <-release }); err != nil {
			t.Fatalf("submit blocking task: %v", err)
		}
		if err := l.Submit(func(context.Context) { close(ran) }); err != nil {
			t.Fatalf("submit ready task: %v", err)
		}
		select {
		case <-ran:
		case <-time.After(time.Second):
			close(release)
			t.Fatalf("iteration %d: ready task waited behind a blocked one: %+v", i, l.Stats())
		}
		close(release)
	}
	if s := l.Stats(); s.Workers > 8 {
		t.Errorf("worker cap exceeded: %d", s.Workers)
	}
}

func TestLoop_StatsTrackPending(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 2, QueueSize: 8}, nil)
	defer shutdown(t, l)

	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(2)
	for i := 0; i < 2; i++ {
		l.Submit(func(context.Context) {
			started.Done()
			<-release
		})
	}
	started.Wait()
	l.Submit(func(context.Context) {})

	s := l.Stats()
	if s.Workers != 2 || s.Idle != 0 || s.Queued != 1 {
		t.Errorf("unexpected stats with two busy workers: %+v", s)
	}
	close(release)
}

func TestLoop_QueueFull(t *testing.T) {
	l := New(Config{Name: "tiny", MaxWorkers: 1, QueueSize: 1}, nil)
	defer shutdown(t, l)

	started := make(chan struct{})
	release := make(chan struct{})
	l.Submit(func(context.Context) {
		close(started)
		<-release
	})
	<-started

	if err := l.Submit(func(context.Context) {}); err != nil {
		t.Fatalf("queued submit should succeed: %v", err)
	}
	err := l.Submit(func(context.Context) {})
	if !errors.IsCode(err, errors.ErrCodeQueueFull) {
		t.Errorf("expected QUEUE_FULL, got %v", err)
	}
	if l.Stats().Rejected != 1 {
		t.Errorf("expected 1 rejection, got %d", l.Stats().Rejected)
	}
	close(release)
}

func TestLoop_PanicIsolation(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 1}, nil)
	defer shutdown(t, l)

	l.Submit(func(context.Context) { panic("boom") })
	done := make(chan struct{})
	l.Submit(func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task after panic did not run")
	}
	if l.Stats().Panics != 1 {
		t.Errorf("expected 1 panic, got %d", l.Stats().Panics)
	}
}

func TestLoop_IdleWorkersExit(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 4, IdleTimeout: 20 * time.Millisecond}, nil)
	defer shutdown(t, l)

	done := make(chan struct{})
	l.Submit(func(context.Context) { close(done) })
	<-done

	deadline := time.Now().Add(2 * time.Second)
	for l.Stats().Workers != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("workers did not exit: %+v", l.Stats())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A fresh submit respawns a worker.
	again := make(chan struct{})
	if err := l.Submit(func(context.Context) { close(again) }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	select {
	case <-again:
	case <-time.After(2 * time.Second):
		t.Fatal("task after idle exit did not run")
	}
}

func TestLoop_ShutdownCancelsAndDrains(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 1, QueueSize: 8}, nil)

	started := make(chan struct{})
	l.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	<-started

	var drained atomic.Int32
	for i := 0; i < 3; i++ {
		l.Submit(func(ctx context.Context) {
			if ctx.Err() != nil {
				drained.Add(1)
			}
		})
	}

	shutdown(t, l)

	if drained.Load() != 3 {
		t.Errorf("expected 3 queued tasks to run with a cancelled context, got %d", drained.Load())
	}
	if err := l.Submit(func(context.Context) {}); !errors.IsShutdown(err) {
		t.Errorf("expected shutdown error, got %v", err)
	}
	if !l.Closed() {
		t.Error("expected closed")
	}
}

func TestLoop_ShutdownIdempotent(t *testing.T) {
	l := New(Config{Name: "test"}, nil)
	shutdown(t, l)
	shutdown(t, l)
}

func TestLoop_ShutdownDeadline(t *testing.T) {
	l := New(Config{Name: "test", MaxWorkers: 1}, nil)
	release := make(chan struct{})
	started := make(chan struct{})
	l.Submit(func(context.Context) {
		close(started)
		<-release
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Shutdown(ctx)
	if !errors.IsCode(err, errors.ErrCodeTimeout) {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
	close(release)
	l.wg.Wait()
}
