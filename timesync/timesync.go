// Package timesync estimates the offset between the local clock and the
// server's, so that viewers can replay a shared schedule roughly in phase.
// The result is advisory: a stale or failed sync never blocks a caller.
package timesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Source reports the server's current time.
type Source interface {
	ServerTime(ctx context.Context) (time.Time, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (time.Time, error)

func (f SourceFunc) ServerTime(ctx context.Context) (time.Time, error) { return f(ctx) }

// Clock is local time corrected by the last measured offset.
type Clock struct {
	src Source
	log zerolog.Logger
	now func() time.Time

	mu     sync.RWMutex
	offset time.Duration
	synced bool
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the local clock.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// WithLogger sets the logger used by Run.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Clock) { c.log = l }
}

func New(src Source, opts ...Option) *Clock {
	c := &Clock{src: src, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sync takes one measurement. The round trip is assumed symmetric, so the
// server's reading is taken to be half a round trip old on arrival.
func (c *Clock) Sync(ctx context.Context) (time.Duration, error) {
	t0 := c.now()
	server, err := c.src.ServerTime(ctx)
	if err != nil {
		return 0, fmt.Errorf("timesync: fetch server time: %w", err)
	}
	t1 := c.now()

	offset := server.Add(t1.Sub(t0) / 2).Sub(t1)

	c.mu.Lock()
	c.offset = offset
	c.synced = true
	c.mu.Unlock()

	return offset, nil
}

// Offset returns the last measured offset and whether any sync succeeded.
func (c *Clock) Offset() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset, c.synced
}

// Now is local time plus the current offset.
func (c *Clock) Now() time.Time {
	offset, _ := c.Offset()
	return c.now().Add(offset)
}

// Run syncs immediately and then every interval until ctx is done. Failed
// rounds are logged and keep the previous offset.
func (c *Clock) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if offset, err := c.Sync(ctx); err != nil {
			c.log.Warn().Err(err).Msg("time sync failed, keeping previous offset")
		} else {
			c.log.Debug().Dur("offset", offset).Msg("time synced")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
