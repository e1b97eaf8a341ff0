package shell

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a handle to a repeating callback.
type Task interface {
	// Stop cancels the task. Safe to call more than once.
	Stop()
}

// Scheduler runs repeating callbacks on the same executor that delivers
// input events, so callbacks never interleave with each other.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// ErrLoopClosed is returned when work is posted after Run has returned.
var ErrLoopClosed = errors.New("loop closed")

// Loop is a single-goroutine executor. Every func posted to it runs to
// completion before the next one starts, in FIFO order.
type Loop struct {
	clock clockwork.Clock
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop whose timers are driven by clock.
func NewLoop(clock clockwork.Clock, queueSize int) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Loop{
		clock: clock,
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post enqueues fn. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every implements Scheduler. Ticks are forwarded into the queue by a helper
// goroutine; whether the task is still live is checked on the loop itself,
// so a tick that was already queued when Stop ran is dropped.
func (l *Loop) Every(interval time.Duration, fn func()) Task {
	t := &loopTask{quit: make(chan struct{})}
	ticker := l.clock.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				select {
				case l.queue <- func() {
					if !t.stopped.Load() {
						fn()
					}
				}:
				case <-t.quit:
					return
				case <-l.done:
					return
				}
			case <-t.quit:
				return
			case <-l.done:
				return
			}
		}
	}()
	return t
}

type loopTask struct {
	stopped atomic.Bool
	quit    chan struct{}
	once    sync.Once
}

func (t *loopTask) Stop() {
	t.stopped.Store(true)
	t.once.Do(func() { close(t.quit) })
}
