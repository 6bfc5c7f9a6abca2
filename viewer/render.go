package viewer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/simshi01/thansgiving-day/display"
)

// A terminal cell stands in for a block of pseudo pixels so the scheduler
// can keep working in pixel units.
const (
	cellWidth  = 10.0
	cellHeight = 22.0
)

// wideTail marks the second column of a double width rune.
const wideTail = rune(-1)

var (
	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Faint(true)
)

// viewportFor converts a terminal size to the pixel viewport the scheduler
// expects. The status line is not drawable.
func viewportFor(cols, rows int) display.Viewport {
	return display.Viewport{
		Width:  float64(cols) * cellWidth,
		Height: float64(max(rows-1, 0)) * cellHeight,
	}
}

type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]rune, c.h)
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", c.w))
	}
	return c
}

// draw copies block onto the canvas with its top left corner at (x, y),
// clipping whatever falls outside.
func (c *canvas) draw(x, y int, block string) {
	for dy, line := range strings.Split(block, "\n") {
		row := y + dy
		if row < 0 || row >= c.h {
			continue
		}
		col := x
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if rw == 0 {
				continue
			}
			if col+rw > c.w {
				break
			}
			if col >= 0 {
				c.cells[row][col] = r
				for k := 1; k < rw; k++ {
					c.cells[row][col+k] = wideTail
				}
			}
			col += rw
		}
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, r := range row {
			if r != wideTail {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// renderBubble draws one message in a rounded box roughly as wide as its
// pixel footprint.
func renderBubble(b display.Bubble, maxCols int) string {
	cols := int(b.Box.W / cellWidth)
	cols = max(min(cols, maxCols), 8)
	// lipgloss widths exclude the border
	return bubbleStyle.Width(cols - 2).Render(b.Text)
}

// render lays the visible bubbles out on a cols×rows grid with a status
// line at the bottom.
func render(bubbles []display.Bubble, cols, rows int, status string) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newCanvas(cols, rows-1)
	for _, b := range bubbles {
		x := int(b.Box.X / cellWidth)
		y := int(b.Box.Y / cellHeight)
		c.draw(x, y, renderBubble(b, cols))
	}
	line := runewidth.Truncate(status, cols, "…")
	if rows == 1 {
		return statusStyle.Render(line)
	}
	return c.String() + "\n" + statusStyle.Render(line)
}
