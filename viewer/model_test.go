package viewer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/simshi01/thansgiving-day/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	messages []models.JsonMessage
	schedule models.ScheduleResponse
	err      error
}

func (f *fakeFeed) Messages(context.Context, int) ([]models.JsonMessage, error) {
	return f.messages, f.err
}

func (f *fakeFeed) Schedule(context.Context) (models.ScheduleResponse, error) {
	return f.schedule, f.err
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_LoadAndTick(t *testing.T) {
	now := time.Date(2025, 11, 27, 12, 0, 0, 0, time.UTC)
	feed := &fakeFeed{messages: []models.JsonMessage{{ID: "a", Text: "Спасибо маме", Duration: 4}}}
	m := NewModel(newTestWall(config.ModeRotation), feed, nil, func() time.Time { return now }, time.Minute)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, display.Desktop, m.wall.Profile().Tier)

	m, _ = update(t, m, fetch(context.Background(), feed, config.ModeRotation))
	assert.Equal(t, "1 messages", m.status)

	m, cmd := update(t, m, tickMsg(now))
	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Len(t, m.wall.Visible(), 1)
	assert.Contains(t, m.View(), "Спасибо")
}

func TestModel_LoadErrorKeepsState(t *testing.T) {
	feed := &fakeFeed{messages: []models.JsonMessage{{ID: "a", Text: "Спасибо", Duration: 4}}}
	m := NewModel(newTestWall(config.ModeRotation), feed, nil, nil, 0)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, fetch(context.Background(), feed, config.ModeRotation))

	m, _ = update(t, m, loadedMsg{err: errors.New("viewer: GET /messages: 500")})
	m, _ = update(t, m, tickMsg(time.Now()))

	assert.Len(t, m.wall.Visible(), 1)
	assert.Contains(t, m.View(), "500")
}

func TestModel_CycleLoad(t *testing.T) {
	feed := &fakeFeed{schedule: models.ScheduleResponse{
		Schedule:      []models.ScheduleEntry{{ID: "a", Text: "x", Duration: 4000}},
		TotalMessages: 1,
		CycleDuration: 5000,
	}}
	m := NewModel(newTestWall(config.ModeCycle), feed, nil, nil, 0)

	m, _ = update(t, m, fetch(context.Background(), feed, config.ModeCycle))
	assert.Equal(t, "1 scheduled", m.status)
}

func TestModel_Events(t *testing.T) {
	events := make(chan models.Event, 1)
	m := NewModel(newTestWall(config.ModeRotation), &fakeFeed{}, events, nil, 0)

	m, cmd := update(t, m, eventMsg(event(t, models.EventMessageNew, models.JsonMessage{ID: "live", Text: "Спасибо"})))
	require.NotNil(t, cmd)
	assert.Len(t, m.wall.Visible(), 1)

	events <- event(t, models.EventMessageDeleted, models.DeletedPayload{ID: "live"})
	m, _ = update(t, m, cmd())
	assert.Empty(t, m.wall.Visible())

	close(events)
	m, cmd = update(t, m, waitForEvent(m.events)())
	assert.Nil(t, cmd)
	assert.Nil(t, m.events)
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(newTestWall(config.ModeRotation), &fakeFeed{}, nil, nil, 0)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := update(t, m, key)
		require.NotNil(t, cmd, key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestModel_ViewStatus(t *testing.T) {
	m := NewModel(newTestWall(config.ModeRotation), &fakeFeed{}, nil, nil, 0)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 70, Height: 10})

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[9], "narrow")
}
