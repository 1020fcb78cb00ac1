package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Rebuilder coalesces repeated requests to rebuild an identity's root MUC
// into a single run, resolving spec §9's Open Question #1: rather than the
// original's ad hoc "don't rebuild more than once every 5 seconds" timer,
// any number of Trigger calls arriving while a rebuild is in flight (or
// scheduled) collapse into exactly one further run.
type Rebuilder struct {
	fn      func(context.Context) error
	cooloff time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	running bool
	pending bool
	lastRun time.Time
}

// NewRebuilder builds a Rebuilder that calls fn to recompute and publish the
// root MUC. cooloff is the minimum gap enforced between the end of one run
// and the start of the next; a Trigger arriving inside the cooloff window
// that follows a run schedules a single pending run instead of firing fn
// again immediately.
func NewRebuilder(fn func(context.Context) error, cooloff time.Duration, log *slog.Logger) *Rebuilder {
	if log == nil {
		log = slog.Default()
	}
	return &Rebuilder{fn: fn, cooloff: cooloff, log: log}
}

// Trigger requests a rebuild. If no rebuild is currently running or
// scheduled, it starts one in a new goroutine immediately. If a rebuild is
// already running, this call marks a single pending follow-up rebuild and
// returns without blocking; any further Trigger calls before that follow-up
// starts are absorbed into the same pending flag.
func (r *Rebuilder) Trigger(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.pending = true
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.runLoop(ctx)
}

func (r *Rebuilder) runLoop(ctx context.Context) {
	for {
		r.mu.Lock()
		wait := r.cooloff - time.Since(r.lastRun)
		r.mu.Unlock()
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				r.mu.Lock()
				r.running = false
				r.pending = false
				r.mu.Unlock()
				return
			}
		}

		if err := r.fn(ctx); err != nil {
			r.log.Warn("identity: root MUC rebuild failed", "error", err)
		}

		r.mu.Lock()
		r.lastRun = time.Now()
		again := r.pending
		r.pending = false
		if !again {
			r.running = false
		}
		r.mu.Unlock()

		if !again {
			return
		}
	}
}
