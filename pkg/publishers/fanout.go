package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Adda-Baaj/testrail-gateway/pkg/testrail"
)

// DefaultDeliveryTimeout bounds a single event delivery across all publishers.
const DefaultDeliveryTimeout = 10 * time.Second

// Fanout dispatches events to all configured publishers.
type Fanout struct {
	publishers []Publisher
	log        Logger
	timeout    time.Duration

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// FanoutOption customizes a Fanout.
type FanoutOption func(*Fanout)

// WithDeliveryTimeout overrides DefaultDeliveryTimeout. Non-positive values are ignored.
func WithDeliveryTimeout(d time.Duration) FanoutOption {
	return func(f *Fanout) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFanout builds a dispatcher that fans out events across publishers.
func NewFanout(pubs []Publisher, log Logger, opts ...FanoutOption) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	f := &Fanout{publishers: cp, log: ensureLogger(log), timeout: DefaultDeliveryTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Publish forwards the event to every registered publisher.
// It returns the number of publishers that successfully handled the event.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Observe queues write exchanges for delivery and returns immediately, so the
// API call that produced the exchange never waits on a publisher. Delivery is
// bounded by the fanout timeout; failures are logged and never reach the caller.
func (f *Fanout) Observe(ctx context.Context, ex testrail.Exchange) {
	if f == nil || len(f.publishers) == 0 || !ex.Write() {
		return
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.log.WarnObj("exchange event dropped after shutdown", "publish_dropped", ex.Path)
		return
	}
	f.pending.Add(1)
	f.mu.Unlock()

	evt := NewEvent(ex)
	go func() {
		defer f.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()

		if _, err := f.Publish(ctx, evt); err != nil {
			f.log.WarnObj("exchange event delivery failed", "publish_error", map[string]any{
				"operation": ex.Operation,
				"path":      ex.Path,
				"error":     err.Error(),
			})
		}
	}()
}

// Close waits for queued deliveries to finish, or for ctx to end, and then
// releases publishers holding connections. Events observed after Close are dropped.
func (f *Fanout) Close(ctx context.Context) error {
	if f == nil {
		return nil
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		f.pending.Wait()
		close(drained)
	}()

	var errs []error
	select {
	case <-drained:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("drain publishers: %w", ctx.Err()))
	}

	for _, p := range f.publishers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s publisher[%s] close: %w", p.Type(), p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}
