package display

import (
	"cmp"
	"slices"
	"time"
)

// Entry is a slot of a shared schedule: the message goes up ShowTime into
// every cycle.
type Entry struct {
	Message
	ShowTime time.Duration
}

// Cycle replays a server schedule. Viewers feeding it synced time see the
// same entries come due at roughly the same moment.
type Cycle struct {
	entries []Entry
	length  time.Duration
	last    time.Duration
	started bool
}

// NewCycle builds a replay of entries over a cycle of the given length.
func NewCycle(entries []Entry, length time.Duration) *Cycle {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(a.ShowTime, b.ShowTime)
	})
	return &Cycle{entries: sorted, length: length}
}

// Resume carries the position of prev into c when both replay a cycle of
// the same length, so entries crossed between the two are not lost.
func (c *Cycle) Resume(prev *Cycle) {
	if prev == nil || !prev.started || prev.length != c.length {
		return
	}
	c.last = prev.last
	c.started = true
}

// Len is the number of scheduled entries.
func (c *Cycle) Len() int { return len(c.entries) }

// Position maps an absolute time onto the cycle.
func (c *Cycle) Position(now time.Time) time.Duration {
	if c.length <= 0 {
		return 0
	}
	ms := c.length.Milliseconds()
	if ms <= 0 {
		return 0
	}
	pos := now.UnixMilli() % ms
	if pos < 0 {
		pos += ms
	}
	return time.Duration(pos) * time.Millisecond
}

// Due returns the entries whose show time was crossed since the previous
// call, i.e. those in (previous position, current position]. The first call
// only anchors the position and returns the entries due exactly now.
func (c *Cycle) Due(now time.Time) []Entry {
	if c.length <= 0 || len(c.entries) == 0 {
		return nil
	}

	pos := c.Position(now)
	if !c.started {
		c.started = true
		c.last = pos
		return c.between(pos, pos, true)
	}

	prev := c.last
	c.last = pos

	switch {
	case pos == prev:
		return nil
	case pos > prev:
		return c.between(prev, pos, false)
	default:
		// wrapped around the end of the cycle
		due := c.between(prev, c.length, false)
		return append(due, c.between(0, pos, true)...)
	}
}

func (c *Cycle) between(from, to time.Duration, inclusiveFrom bool) []Entry {
	var out []Entry
	for _, e := range c.entries {
		after := e.ShowTime > from || (inclusiveFrom && e.ShowTime == from)
		if after && e.ShowTime <= to {
			out = append(out, e)
		}
	}
	return out
}
