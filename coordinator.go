package adtpulse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultPollInterval matches the portal's own refresh cadence.
const DefaultPollInterval = 3 * time.Second

// ErrUpdateFailed wraps a failed poll cycle after setup completed. The last
// good snapshot stays published; dependents only mark themselves stale.
var ErrUpdateFailed = errors.New("update failed")

type subscriber struct {
	id int
	fn func()
}

// Coordinator owns the current Snapshot and the poll loop that refreshes it.
// Listeners are notified synchronously once per completed cycle, success or
// failure.
type Coordinator struct {
	service  Service
	interval time.Duration

	// serializes poll cycles; scheduled ticks skip instead of queueing
	pollMu sync.Mutex

	dataMu      sync.RWMutex
	snapshot    *Snapshot
	lastSuccess bool

	subMu  sync.Mutex
	subs   []subscriber
	nextID int

	stopOnce sync.Once
	done     chan struct{}
}

func NewCoordinator(service Service, interval time.Duration) *Coordinator {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Coordinator{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Data returns the last good snapshot, nil before the first successful poll.
// Snapshots are replaced wholesale, so the returned value never changes
// under the caller.
func (c *Coordinator) Data() *Snapshot {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return c.snapshot
}

// LastUpdateSuccess reports whether the most recent poll cycle succeeded.
func (c *Coordinator) LastUpdateSuccess() bool {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return c.lastSuccess
}

// Subscribe registers a listener invoked once per completed poll cycle and
// returns its unsubscribe func.
func (c *Coordinator) Subscribe(fn func()) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Refresh runs exactly one poll cycle, waiting for any in-flight poll to
// finish first.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()
	return c.poll(ctx)
}

func (c *Coordinator) poll(ctx context.Context) error {
	if c.stopped() {
		return nil
	}
	snap, err := c.service.FetchSnapshot(ctx)
	if c.stopped() {
		// torn down mid-flight, discard the result
		return nil
	}

	c.dataMu.Lock()
	if err == nil {
		c.snapshot = snap
	}
	c.lastSuccess = err == nil
	c.dataMu.Unlock()

	c.notify()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	return nil
}

func (c *Coordinator) notify() {
	c.subMu.Lock()
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()
	for _, sub := range subs {
		sub.fn()
	}
}

// Start schedules periodic refreshes until the context is canceled or Stop
// is called. A tick that arrives while a poll is still in flight is skipped,
// so at most one poll runs at a time.
func (c *Coordinator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-ticker.C:
				if !c.pollMu.TryLock() {
					log.Debug("poll already in flight, skipping tick")
					continue
				}
				if err := c.poll(ctx); err != nil {
					log.Error("could not refresh", "err", err)
				}
				c.pollMu.Unlock()
			}
		}
	}()
}

func (c *Coordinator) stopped() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Stop cancels the recurring poll and releases all listener registrations.
// An in-flight poll is left to finish its remote call, but its result is
// discarded.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.subMu.Lock()
		c.subs = nil
		c.subMu.Unlock()
	})
}
