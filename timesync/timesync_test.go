package timesync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (f *fakeClock) now() time.Time {
	cur := f.t
	f.t = f.t.Add(f.step)
	return cur
}

func TestSync_Offset(t *testing.T) {
	local := &fakeClock{t: time.UnixMilli(1_000_000), step: 200 * time.Millisecond}
	server := time.UnixMilli(1_005_000)

	c := New(SourceFunc(func(context.Context) (time.Time, error) {
		return server, nil
	}), WithNow(local.now))

	// T0 = 1_000_000, T1 = 1_000_200, so offset = S + 100 - T1 = 4_900ms.
	offset, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4900*time.Millisecond, offset)

	got, ok := c.Offset()
	assert.True(t, ok)
	assert.Equal(t, offset, got)
}

func TestSync_FailureKeepsOffset(t *testing.T) {
	fail := false
	c := New(SourceFunc(func(context.Context) (time.Time, error) {
		if fail {
			return time.Time{}, errors.New("boom")
		}
		return time.UnixMilli(2_000), nil
	}), WithNow(func() time.Time { return time.UnixMilli(1_000) }))

	_, err := c.Sync(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = c.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timesync:")

	offset, ok := c.Offset()
	assert.True(t, ok)
	assert.Equal(t, time.Second, offset)
}

func TestNow_AppliesOffset(t *testing.T) {
	c := New(SourceFunc(func(context.Context) (time.Time, error) {
		return time.UnixMilli(10_000), nil
	}), WithNow(func() time.Time { return time.UnixMilli(4_000) }))

	assert.True(t, time.UnixMilli(4_000).Equal(c.Now()), "unsynced clock is local time")

	_, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, time.UnixMilli(10_000).Equal(c.Now()))
}

func TestRun_ResyncsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	c := New(SourceFunc(func(context.Context) (time.Time, error) {
		calls.Add(1)
		return time.Now(), nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
