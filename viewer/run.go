package viewer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/simshi01/thansgiving-day/display"
	"github.com/simshi01/thansgiving-day/timesync"
	"golang.org/x/term"
)

// Run starts a viewer against cfg.Server and blocks until ctx is done or
// the user quits. Plain output is used when asked for or when out is not
// a terminal.
func Run(ctx context.Context, cfg config.ViewerConfig, plain bool, out io.Writer, log zerolog.Logger) error {
	client := NewClient(cfg.Server, nil)
	stream, err := NewStream(cfg.Server, log.With().Str("component", "stream").Logger())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Cycle mode needs every viewer on the same clock.
	now := time.Now
	if cfg.Mode == config.ModeCycle {
		clock := timesync.New(client, timesync.WithLogger(log.With().Str("component", "timesync").Logger()))
		go clock.Run(ctx, cfg.Resync)
		now = clock.Now
	}

	events := make(chan models.Event, 64)
	go stream.Run(ctx, events)

	opts := display.Options{MinDelay: cfg.MinDelay, MaxDelay: cfg.MaxDelay}

	if plain || !isTerminal(out) {
		wall := NewWall(cfg.Mode, plainViewport, opts, cfg.Fallback, log)
		return RunPlain(ctx, out, wall, client, events, now, cfg.Reload)
	}

	wall := NewWall(cfg.Mode, viewportFor(80, 24), opts, cfg.Fallback, log)
	p := tea.NewProgram(
		NewModel(wall, client, events, now, cfg.Reload),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
