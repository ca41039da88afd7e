package storage

import (
	"os"
	"sync"
	"time"

	"pdf-tools-server/internal/domain"
)

// Reaper deletes scheduled paths once their deadline passes. It replaces
// per-request timers with one background sweep, so a release is never lost
// to a dropped goroutine.
type Reaper struct {
	logger   domain.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	stop    chan struct{}
	stopped sync.WaitGroup
}

// NewReaper creates a reaper sweeping at the given interval
func NewReaper(interval time.Duration, logger domain.Logger) *Reaper {
	return &Reaper{
		logger:   logger,
		interval: interval,
		pending:  make(map[string]time.Time),
		stop:     make(chan struct{}),
	}
}

// Schedule marks path for deletion at deadline. Re-scheduling an already
// pending path keeps the later deadline.
func (r *Reaper) Schedule(path string, deadline time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.pending[path]; ok && existing.After(deadline) {
		return
	}
	r.pending[path] = deadline
}

// Start runs the background sweep until Stop is called
func (r *Reaper) Start() {
	r.stopped.Add(1)
	go func() {
		defer r.stopped.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				r.sweep(now)
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep and deletes everything still pending. Scratch state
// is ephemeral, so shutdown does not wait out remaining deadlines.
func (r *Reaper) Stop() {
	close(r.stop)
	r.stopped.Wait()
	r.sweep(time.Time{})
}

// Pending reports how many paths await deletion
func (r *Reaper) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// sweep deletes every entry whose deadline is at or before now. A zero now
// deletes everything.
func (r *Reaper) sweep(now time.Time) {
	r.mu.Lock()
	var due []string
	for path, deadline := range r.pending {
		if now.IsZero() || !deadline.After(now) {
			due = append(due, path)
			delete(r.pending, path)
		}
	}
	r.mu.Unlock()

	for _, path := range due {
		if err := os.RemoveAll(path); err != nil {
			r.logger.Warn("Failed to delete expired artifact", "path", path, "error", err)
			continue
		}
		r.logger.Debug("Deleted expired artifact", "path", path)
	}
}
