// Package viewer is a terminal client for the wall: it follows the server
// and keeps a rotating set of gratitude bubbles on screen.
package viewer

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/duration"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/simshi01/thansgiving-day/display"
)

// Wall couples a display scheduler with the feed from the server. In
// rotation mode it cycles through the listed backlog; in cycle mode it
// replays the shared server schedule.
type Wall struct {
	mode     string
	sched    *display.Scheduler
	cycle    *display.Cycle
	fallback []string
	log      zerolog.Logger
}

func NewWall(mode string, v display.Viewport, opts display.Options, fallback []string, log zerolog.Logger) *Wall {
	w := &Wall{
		mode:     mode,
		sched:    display.NewScheduler(v, opts),
		fallback: fallback,
		log:      log,
	}
	w.sched.SetFallback(fallback)
	return w
}

func (w *Wall) Mode() string { return w.mode }

func (w *Wall) Resize(v display.Viewport) []display.Bubble { return w.sched.Resize(v) }

func (w *Wall) Visible() []display.Bubble { return w.sched.Visible() }

func (w *Wall) Profile() display.Profile { return w.sched.Profile() }

// Reload replaces the rotation backlog with a fresh listing.
func (w *Wall) Reload(msgs []models.JsonMessage) {
	out := make([]display.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toDisplay(m))
	}
	w.sched.Load(out)
}

// SetSchedule swaps in a new server schedule. Examples only fill the
// screen while the schedule is empty.
func (w *Wall) SetSchedule(s models.ScheduleResponse) {
	entries := make([]display.Entry, 0, len(s.Schedule))
	for _, e := range s.Schedule {
		entries = append(entries, display.Entry{
			Message: display.Message{
				ID:       e.ID,
				Text:     e.Text,
				Duration: duration.ToDuration(duration.Seconds(float64(e.Duration) / 1000)),
			},
			ShowTime: time.Duration(e.ShowTime) * time.Millisecond,
		})
	}
	next := display.NewCycle(entries, time.Duration(s.CycleDuration)*time.Millisecond)
	next.Resume(w.cycle)
	w.cycle = next
	if w.cycle.Len() > 0 {
		w.sched.SetFallback(nil)
	} else {
		w.sched.SetFallback(w.fallback)
	}
}

// Tick advances the wall to now.
func (w *Wall) Tick(now time.Time) (shown, expired []display.Bubble) {
	shown, expired = w.sched.Tick(now)
	if w.mode != config.ModeCycle || w.cycle == nil {
		return shown, expired
	}
	for _, e := range w.cycle.Due(now) {
		if b, ok := w.sched.Show(e.Message, now); ok {
			shown = append(shown, b)
		}
	}
	return shown, expired
}

// Apply folds a server event into the wall and reports what appeared or
// was taken down because of it.
func (w *Wall) Apply(ev models.Event, now time.Time) (shown, removed []display.Bubble) {
	switch ev.Event {
	case models.EventMessageNew:
		var m models.JsonMessage
		if err := json.Unmarshal(ev.Data, &m); err != nil || m.ID == "" {
			w.log.Debug().Err(err).Msg("bad message:new payload")
			return nil, nil
		}
		if b, ok := w.admit(toDisplay(m), now); ok {
			shown = append(shown, b)
		}
	case models.EventMessageDeleted:
		var p models.DeletedPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.ID == "" {
			w.log.Debug().Err(err).Msg("bad message:deleted payload")
			return nil, nil
		}
		removed = w.sched.Remove(p.ID)
	case models.EventSyncResponse:
		var p models.SyncPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			w.log.Debug().Err(err).Msg("bad sync:response payload")
			return nil, nil
		}
		for _, m := range p.Messages {
			if b, ok := w.admit(toDisplay(m), now); ok {
				shown = append(shown, b)
			}
		}
	case models.EventSyncError, models.EventMessageError:
		w.log.Warn().Str("data", string(ev.Data)).Str("event", ev.Event).Msg("server reported an error")
	}
	return shown, removed
}

func (w *Wall) admit(m display.Message, now time.Time) (display.Bubble, bool) {
	if w.mode == config.ModeCycle {
		return w.sched.Show(m, now)
	}
	return w.sched.Push(m, now)
}

func toDisplay(m models.JsonMessage) display.Message {
	return display.Message{
		ID:       m.ID,
		Text:     m.Text,
		Duration: duration.ToDuration(duration.Seconds(m.Duration)),
	}
}
