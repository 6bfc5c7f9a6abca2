// Package sweeper retires messages that have been on the wall long enough.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Parser accepts standard 5-field expressions and descriptors like "@every 1m".
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Store is the slice of the message repository the sweep needs.
type Store interface {
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Sweeper struct {
	store  Store
	maxAge time.Duration
	log    zerolog.Logger
	now    func() time.Time
	cron   *cron.Cron
}

type Option func(*Sweeper)

func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Sweeper) { s.log = log }
}

// New schedules a sweep of messages older than maxAge. Nothing runs until
// Start is called.
func New(store Store, schedule string, maxAge time.Duration, opts ...Option) (*Sweeper, error) {
	s := &Sweeper{
		store:  store,
		maxAge: maxAge,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := cronLogger{s.log}
	s.cron = cron.New(
		cron.WithParser(Parser),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("sweeper: parse schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce deactivates every message created before now minus maxAge and
// returns how many were retired.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.maxAge)
	n, err := s.store.DeactivateOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeper: deactivate before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return n, nil
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("deactivated", n).Msg("sweep finished")
	}
}

// cronLogger routes cron's own logging into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
