package viewer

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/config"
)

const (
	tickInterval = 250 * time.Millisecond
	listLimit    = 100
)

type tickMsg time.Time

type reloadTickMsg struct{}

type loadedMsg struct {
	messages []models.JsonMessage
	schedule *models.ScheduleResponse
	err      error
}

type eventMsg models.Event

type streamClosedMsg struct{}

// Feed serves listings and schedules. *Client is the real one.
type Feed interface {
	Messages(ctx context.Context, limit int) ([]models.JsonMessage, error)
	Schedule(ctx context.Context) (models.ScheduleResponse, error)
}

// Model is the bubbletea program for the wall.
type Model struct {
	wall   *Wall
	feed   Feed
	events <-chan models.Event
	now    func() time.Time
	reload time.Duration

	width  int
	height int
	status string
	err    error
}

func NewModel(wall *Wall, feed Feed, events <-chan models.Event, now func() time.Time, reload time.Duration) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		wall:   wall,
		feed:   feed,
		events: events,
		now:    now,
		reload: reload,
		status: "connecting…",
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func reloadAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return reloadTickMsg{}
	})
}

func load(feed Feed, mode string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return fetch(ctx, feed, mode)
	}
}

func fetch(ctx context.Context, feed Feed, mode string) loadedMsg {
	if mode == config.ModeCycle {
		s, err := feed.Schedule(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{schedule: &s}
	}
	msgs, err := feed.Messages(ctx, listLimit)
	return loadedMsg{messages: msgs, err: err}
}

func waitForEvent(events <-chan models.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), load(m.feed, m.wall.Mode()), waitForEvent(m.events)}
	if m.reload > 0 {
		cmds = append(cmds, reloadAfter(m.reload))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.wall.Resize(viewportFor(msg.Width, msg.Height))
	case tickMsg:
		m.wall.Tick(m.now())
		return m, tick()
	case reloadTickMsg:
		return m, tea.Batch(load(m.feed, m.wall.Mode()), reloadAfter(m.reload))
	case loadedMsg:
		m.err = msg.err
		switch {
		case msg.err != nil:
			// keep showing what we have
		case msg.schedule != nil:
			m.wall.SetSchedule(*msg.schedule)
			m.status = fmt.Sprintf("%d scheduled", msg.schedule.TotalMessages)
		default:
			m.wall.Reload(msg.messages)
			m.status = fmt.Sprintf("%d messages", len(msg.messages))
		}
	case eventMsg:
		m.wall.Apply(models.Event(msg), m.now())
		return m, waitForEvent(m.events)
	case streamClosedMsg:
		m.events = nil
	}
	return m, nil
}

func (m Model) View() string {
	p := m.wall.Profile()
	status := fmt.Sprintf(" %s · %s · %d/%d on screen · q to quit",
		m.status, p.Tier, len(m.wall.Visible()), p.Cap)
	if m.err != nil {
		status = " " + m.err.Error()
	}
	return render(m.wall.Visible(), m.width, m.height, status)
}
