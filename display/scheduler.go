package display

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/simshi01/thansgiving-day/app/duration"
)

const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 3 * time.Second
)

// Message is a backlog item.
type Message struct {
	ID   string
	Text string
	// Duration is how long the bubble stays up. Zero means derive it from
	// the text length.
	Duration time.Duration
}

func (m Message) lifetime() time.Duration {
	if m.Duration > 0 {
		return m.Duration
	}
	return duration.ToDuration(duration.ForText(m.Text))
}

// Bubble is one showing of a message. The same message gets a new RenderID
// every time it comes back around.
type Bubble struct {
	Message
	RenderID  string
	Slot      int
	Box       Rect
	ShownAt   time.Time
	ExpiresAt time.Time
	Example   bool
}

type entry struct {
	Message
	live bool
}

// Options tune a Scheduler. The hold between admissions is drawn from
// [MinDelay, MaxDelay]; zero delays admit as soon as a slot frees up. A nil
// Rand is seeded from the runtime.
type Options struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Rand     *rand.Rand
}

// Scheduler keeps a bounded set of bubbles on screen and cycles the backlog
// through it. Everything happens in Tick, Push, Remove and Load, which must
// be called from a single goroutine.
type Scheduler struct {
	viewport Viewport
	profile  Profile
	rng      *rand.Rand
	minDelay time.Duration
	maxDelay time.Duration

	backlog []entry
	cursor  int

	fallback     []Message
	fallbackNext int

	visible   []Bubble
	holdUntil time.Time
}

// NewScheduler returns an empty scheduler for the given viewport.
func NewScheduler(v Viewport, opts Options) *Scheduler {
	s := &Scheduler{
		rng:      opts.Rand,
		minDelay: opts.MinDelay,
		maxDelay: opts.MaxDelay,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.minDelay < 0 {
		s.minDelay = 0
	}
	if s.maxDelay < s.minDelay {
		s.maxDelay = s.minDelay
	}
	s.Resize(v)
	return s
}

// Resize refreshes the viewport. When the new tier allows fewer bubbles
// than are up, the ones closest to expiry are taken down and returned.
func (s *Scheduler) Resize(v Viewport) []Bubble {
	s.viewport = v
	s.profile = Classify(v)

	over := len(s.visible) - s.profile.Cap
	if over <= 0 {
		return nil
	}
	slices.SortStableFunc(s.visible, func(a, b Bubble) int {
		return a.ExpiresAt.Compare(b.ExpiresAt)
	})
	evicted := slices.Clone(s.visible[:over])
	s.visible = slices.Delete(s.visible, 0, over)
	return evicted
}

// Profile returns the tier profile in effect.
func (s *Scheduler) Profile() Profile { return s.profile }

// Visible returns a copy of the bubbles on screen.
func (s *Scheduler) Visible() []Bubble { return slices.Clone(s.visible) }

// Backlog returns the ids in rotation order.
func (s *Scheduler) Backlog() []string {
	ids := make([]string, len(s.backlog))
	for i, e := range s.backlog {
		ids[i] = e.ID
	}
	return ids
}

// SetFallback installs example texts shown while the backlog is empty.
func (s *Scheduler) SetFallback(texts []string) {
	s.fallback = s.fallback[:0]
	for i, t := range texts {
		s.fallback = append(s.fallback, Message{ID: fmt.Sprintf("example-%d", i), Text: t})
	}
	s.fallbackNext = 0
}

// Tick expires finished bubbles and admits new ones while there is room and
// the admission hold has passed.
func (s *Scheduler) Tick(now time.Time) (shown, expired []Bubble) {
	kept := s.visible[:0]
	for _, b := range s.visible {
		if now.Before(b.ExpiresAt) {
			kept = append(kept, b)
			continue
		}
		expired = append(expired, b)
	}
	s.visible = kept

	if len(expired) > 0 {
		if hold := now.Add(s.delay()); hold.After(s.holdUntil) {
			s.holdUntil = hold
		}
	}

	for len(s.visible) < s.profile.Cap && !now.Before(s.holdUntil) {
		msg, slot, example, ok := s.nextCandidate()
		if !ok {
			break
		}
		shown = append(shown, s.show(msg, slot, example, now))
		s.holdUntil = now.Add(s.delay())
	}

	return shown, expired
}

// Push adds a live message. It is shown right away, ahead of the rotation,
// when a slot is free. Ids already in the backlog are ignored.
func (s *Scheduler) Push(msg Message, now time.Time) (Bubble, bool) {
	if s.indexOf(msg.ID) >= 0 {
		return Bubble{}, false
	}
	s.backlog = append(s.backlog, entry{Message: msg, live: true})

	if len(s.visible) >= s.profile.Cap || s.isVisible(msg.ID) {
		return Bubble{}, false
	}
	return s.show(msg, len(s.backlog)-1, false, now), true
}

// Show puts msg on screen outside of the rotation if a slot is free and it
// is not already up.
func (s *Scheduler) Show(msg Message, now time.Time) (Bubble, bool) {
	if len(s.visible) >= s.profile.Cap || s.isVisible(msg.ID) {
		return Bubble{}, false
	}
	return s.show(msg, -1, false, now), true
}

// Remove drops id from the backlog and takes down any bubble showing it.
func (s *Scheduler) Remove(id string) []Bubble {
	if i := s.indexOf(id); i >= 0 {
		s.backlog = slices.Delete(s.backlog, i, i+1)
		if i < s.cursor {
			s.cursor--
		}
		if s.cursor >= len(s.backlog) {
			s.cursor = 0
		}
	}

	var removed []Bubble
	s.visible = slices.DeleteFunc(s.visible, func(b Bubble) bool {
		if b.ID == id {
			removed = append(removed, b)
			return true
		}
		return false
	})
	return removed
}

// Load replaces the backlog with a fresh listing. Messages pushed live since
// the previous Load survive when the listing does not have them yet.
func (s *Scheduler) Load(msgs []Message) {
	next := make([]entry, 0, len(msgs))
	seen := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		next = append(next, entry{Message: m})
	}
	for _, e := range s.backlog {
		if e.live && !seen[e.ID] {
			seen[e.ID] = true
			next = append(next, entry{Message: e.Message})
		}
	}

	s.backlog = next
	if s.cursor >= len(s.backlog) {
		s.cursor = 0
	}
}

func (s *Scheduler) nextCandidate() (Message, int, bool, bool) {
	if len(s.backlog) == 0 {
		for range len(s.fallback) {
			m := s.fallback[s.fallbackNext]
			s.fallbackNext = (s.fallbackNext + 1) % len(s.fallback)
			if !s.isVisible(m.ID) {
				return m, -1, true, true
			}
		}
		return Message{}, 0, false, false
	}

	for range len(s.backlog) {
		i := s.cursor
		s.cursor = (s.cursor + 1) % len(s.backlog)
		if !s.isVisible(s.backlog[i].ID) {
			return s.backlog[i].Message, i, false, true
		}
	}
	return Message{}, 0, false, false
}

func (s *Scheduler) show(msg Message, slot int, example bool, now time.Time) Bubble {
	occupied := make([]Rect, len(s.visible))
	for i, b := range s.visible {
		occupied[i] = b.Box
	}
	w, h := Footprint(msg.Text, s.profile)
	box, _ := place(s.rng, s.viewport, w, h, occupied)

	b := Bubble{
		Message:   msg,
		RenderID:  uuid.NewString(),
		Slot:      slot,
		Box:       box,
		ShownAt:   now,
		ExpiresAt: now.Add(msg.lifetime()),
		Example:   example,
	}
	s.visible = append(s.visible, b)
	return b
}

func (s *Scheduler) delay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rng.Int64N(int64(span)+1))
}

func (s *Scheduler) indexOf(id string) int {
	return slices.IndexFunc(s.backlog, func(e entry) bool { return e.ID == id })
}

func (s *Scheduler) isVisible(id string) bool {
	return slices.ContainsFunc(s.visible, func(b Bubble) bool { return b.ID == id })
}
