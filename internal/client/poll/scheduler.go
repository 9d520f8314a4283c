// Package poll schedules periodic refresh callbacks for the dashboard views.
//
// Each view gets its own handle and goroutine, so one view's backend
// slowness cannot starve another's cadence. The scheduler never fires an
// immediate first tick; callers invoke the callback once by hand before
// starting, to avoid an initial empty-state flash.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/bennieslab/threatwatch/internal/logging"
)

// Visibility reports whether the display surface is currently visible.
// While it reports false, due ticks are skipped — dropped, never queued.
type Visibility func() bool

// Scheduler owns a set of polling handles and stops them all on teardown.
type Scheduler struct {
	mu      sync.Mutex
	visible Visibility
	log     logging.Logger
	handles map[*Handle]struct{}
}

// Handle identifies one running polling loop.
type Handle struct {
	name string
	stop chan struct{}
	once sync.Once
}

// Stop terminates the loop. Safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// NewScheduler constructs a Scheduler that treats the surface as always
// visible until SetVisibility installs a hook.
func NewScheduler(log logging.Logger) *Scheduler {
	return &Scheduler{
		visible: func() bool { return true },
		log:     log,
		handles: make(map[*Handle]struct{}),
	}
}

// SetVisibility installs the visibility hook consulted before every tick.
func (s *Scheduler) SetVisibility(fn Visibility) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.visible = fn
	s.mu.Unlock()
}

func (s *Scheduler) visibleNow() bool {
	s.mu.Lock()
	fn := s.visible
	s.mu.Unlock()
	return fn()
}

// Start launches a polling loop that runs fn every interval until the
// handle is stopped, the scheduler is torn down, or ctx is cancelled.
//
// A due tick is skipped when the visibility hook reports not-visible. The
// loop does not guard against fn from tick N still running when tick N+1
// fires; slow callbacks should bound their own work via ctx.
func (s *Scheduler) Start(ctx context.Context, name string, interval time.Duration, fn func(ctx context.Context)) *Handle {
	h := &Handle{name: name, stop: make(chan struct{})}

	s.mu.Lock()
	s.handles[h] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.forget(h)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.visibleNow() {
					s.log.Debug(ctx, "tick skipped, surface not visible", "view", name)
					continue
				}
				fn(ctx)
			case <-h.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return h
}

func (s *Scheduler) forget(h *Handle) {
	s.mu.Lock()
	delete(s.handles, h)
	s.mu.Unlock()
}

// StopAll stops every active handle. The scheduler holds no state afterwards
// and can be reused.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	active := make([]*Handle, 0, len(s.handles))
	for h := range s.handles {
		active = append(active, h)
	}
	s.mu.Unlock()

	for _, h := range active {
		h.Stop()
	}
}

// Active reports the number of running handles.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}
