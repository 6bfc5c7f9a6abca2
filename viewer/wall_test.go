package viewer

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/simshi01/thansgiving-day/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var desktop = display.Viewport{Width: 1280, Height: 800}

func newTestWall(mode string, fallback ...string) *Wall {
	return NewWall(mode, desktop, display.Options{Rand: rand.New(rand.NewPCG(1, 2))}, fallback, zerolog.Nop())
}

func event(t *testing.T, name string, data interface{}) models.Event {
	t.Helper()
	ev, err := models.NewEvent(name, data)
	require.NoError(t, err)
	return ev
}

func visibleIDs(w *Wall) []string {
	var ids []string
	for _, b := range w.Visible() {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestWall_RotationReload(t *testing.T) {
	w := newTestWall(config.ModeRotation, "пример")
	now := time.Now()

	w.Reload([]models.JsonMessage{
		{ID: "a", Text: "Спасибо маме", Duration: 4},
		{ID: "b", Text: "Спасибо папе", Duration: 20},
	})
	shown, _ := w.Tick(now)

	require.Len(t, shown, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, visibleIDs(w))
	for _, b := range shown {
		assert.False(t, b.Example)
	}
	// durations are clamped on the way in
	assert.Equal(t, 10*time.Second, shown[1].ExpiresAt.Sub(shown[1].ShownAt))
}

func TestWall_FallbackWhileEmpty(t *testing.T) {
	w := newTestWall(config.ModeRotation, "один", "два")
	shown, _ := w.Tick(time.Now())

	require.Len(t, shown, 2)
	assert.True(t, shown[0].Example)
}

func TestWall_ApplyEvents(t *testing.T) {
	w := newTestWall(config.ModeRotation)
	now := time.Now()
	x := 1

	shown, _ := w.Apply(event(t, models.EventMessageNew, models.JsonMessage{
		ID: "live", Text: "Спасибо за всё", PositionX: &x, PositionY: &x, Duration: 5,
	}), now)
	require.Len(t, shown, 1)
	assert.Equal(t, "live", shown[0].ID)

	_, removed := w.Apply(event(t, models.EventMessageDeleted, models.DeletedPayload{ID: "live"}), now)
	require.Len(t, removed, 1)
	assert.Empty(t, w.Visible())

	shown, _ = w.Apply(event(t, models.EventSyncResponse, models.SyncPayload{Messages: []models.JsonMessage{
		{ID: "s1", Text: "Раз", Duration: 4},
		{ID: "s2", Text: "Два", Duration: 4},
	}}), now)
	assert.Len(t, shown, 2)
}

func TestWall_ApplyIgnoresGarbage(t *testing.T) {
	w := newTestWall(config.ModeRotation)
	now := time.Now()

	for _, ev := range []models.Event{
		{Event: models.EventMessageNew, Data: json.RawMessage(`"nope"`)},
		{Event: models.EventMessageNew, Data: json.RawMessage(`{}`)},
		{Event: models.EventMessageDeleted},
		{Event: models.EventSyncError, Data: json.RawMessage(`{"error":"x"}`)},
		{Event: "unknown"},
	} {
		shown, removed := w.Apply(ev, now)
		assert.Empty(t, shown, ev.Event)
		assert.Empty(t, removed, ev.Event)
	}
}

func TestWall_CycleReplaysSchedule(t *testing.T) {
	w := newTestWall(config.ModeCycle, "пример")
	w.SetSchedule(models.ScheduleResponse{
		Schedule: []models.ScheduleEntry{
			{ID: "a", Text: "Первое", Duration: 4000, ShowTime: 0},
			{ID: "b", Text: "Второе", Duration: 4000, ShowTime: 5000, Position: 1},
		},
		TotalMessages: 2,
		CycleDuration: 10000,
	})

	start := time.UnixMilli(10000 * 176424480)
	shown, _ := w.Tick(start)
	require.Len(t, shown, 1)
	assert.Equal(t, "a", shown[0].ID)

	shown, expired := w.Tick(start.Add(5 * time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, "a", expired[0].ID)
	require.Len(t, shown, 1)
	assert.Equal(t, "b", shown[0].ID)
}

func TestWall_CycleLiveMessagesShowOnce(t *testing.T) {
	w := newTestWall(config.ModeCycle)
	w.SetSchedule(models.ScheduleResponse{Schedule: []models.ScheduleEntry{{ID: "a", Text: "x", Duration: 4000}}, CycleDuration: 5000})
	now := time.Now()

	shown, _ := w.Apply(event(t, models.EventMessageNew, models.JsonMessage{ID: "live", Text: "Спасибо", Duration: 3}), now)
	require.Len(t, shown, 1)

	// not added to a rotation: once it expires nothing brings it back
	_, expired := w.Tick(now.Add(3 * time.Second))
	require.Len(t, expired, 1)
	assert.NotContains(t, visibleIDs(w), "live")
}

func TestWall_CycleEmptyScheduleUsesFallback(t *testing.T) {
	w := newTestWall(config.ModeCycle, "один")
	w.SetSchedule(models.ScheduleResponse{Schedule: []models.ScheduleEntry{}})

	shown, _ := w.Tick(time.Now())
	require.Len(t, shown, 1)
	assert.True(t, shown[0].Example)
}

func TestWall_CycleReloadKeepsPosition(t *testing.T) {
	w := newTestWall(config.ModeCycle)
	schedule := models.ScheduleResponse{
		Schedule:      []models.ScheduleEntry{{ID: "a", Text: "Первое", Duration: 4000, ShowTime: 5000}},
		TotalMessages: 1,
		CycleDuration: 10000,
	}
	start := time.UnixMilli(10000 * 176424480)

	w.SetSchedule(schedule)
	shown, _ := w.Tick(start.Add(4900 * time.Millisecond))
	require.Empty(t, shown)

	w.SetSchedule(schedule)
	shown, _ = w.Tick(start.Add(5100 * time.Millisecond))
	require.Len(t, shown, 1)
	assert.Equal(t, "a", shown[0].ID)
}

func TestWall_CycleClampsScheduleDurations(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want time.Duration
	}{
		{"too long", 60000, 10 * time.Second},
		{"too short", 500, 3 * time.Second},
		{"in range", 4000, 4 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWall(config.ModeCycle)
			w.SetSchedule(models.ScheduleResponse{
				Schedule:      []models.ScheduleEntry{{ID: "a", Text: "Первое", Duration: tt.ms, ShowTime: 0}},
				TotalMessages: 1,
				CycleDuration: 10000,
			})

			shown, _ := w.Tick(time.UnixMilli(10000 * 176424480))
			require.Len(t, shown, 1)
			assert.Equal(t, tt.want, shown[0].ExpiresAt.Sub(shown[0].ShownAt))
		})
	}
}
