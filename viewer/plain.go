package viewer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/simshi01/thansgiving-day/display"
)

// plainViewport is the screen a plain viewer pretends to have.
var plainViewport = display.Viewport{Width: 1280, Height: 800}

// RunPlain drives the wall without a terminal UI, writing a line for every
// bubble that goes up or comes down. It returns when ctx is done.
func RunPlain(ctx context.Context, out io.Writer, wall *Wall, feed Feed, events <-chan models.Event, now func() time.Time, reload time.Duration) error {
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var reloads <-chan time.Time
	if reload > 0 {
		rt := time.NewTicker(reload)
		defer rt.Stop()
		reloads = rt.C
	}

	refresh := func() {
		fctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		res := fetch(fctx, feed, wall.Mode())
		switch {
		case res.err != nil:
			fmt.Fprintf(out, "! %v\n", res.err)
		case res.schedule != nil:
			wall.SetSchedule(*res.schedule)
		default:
			wall.Reload(res.messages)
		}
	}
	refresh()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			shown, expired := wall.Tick(now())
			printBubbles(out, shown, expired)
		case <-reloads:
			refresh()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			shown, removed := wall.Apply(ev, now())
			printBubbles(out, shown, removed)
		}
	}
}

func printBubbles(out io.Writer, shown, gone []display.Bubble) {
	for _, b := range gone {
		fmt.Fprintf(out, "- %s\n", b.ID)
	}
	for _, b := range shown {
		fmt.Fprintf(out, "+ %s %s (%s)\n", b.ID, b.Text, b.ExpiresAt.Sub(b.ShownAt).Round(time.Millisecond))
	}
}
