package viewer

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/simshi01/thansgiving-day/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportFor(t *testing.T) {
	v := viewportFor(128, 37)
	assert.Equal(t, 1280.0, v.Width)
	assert.Equal(t, 792.0, v.Height)
	assert.Equal(t, display.Desktop, display.Classify(v).Tier)

	assert.Equal(t, display.Narrow, display.Classify(viewportFor(60, 20)).Tier)
	assert.Equal(t, 0.0, viewportFor(10, 0).Height)
}

func TestCanvas_Draw(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		block string
		want  string
	}{
		{"inside", 1, 0, "ab\ncd", " ab \n cd \n    "},
		{"clipped right", 3, 1, "xyz", "    \n   x\n    "},
		{"clipped top", 0, -1, "hidden\nok", "ok  \n    \n    "},
		{"negative x", -1, 2, "abc", "    \n    \nbc  "},
		{"cyrillic", 0, 0, "спа", "спа \n    \n    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(4, 3)
			c.draw(tt.x, tt.y, tt.block)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestCanvas_WideRunes(t *testing.T) {
	c := newCanvas(5, 1)
	c.draw(0, 0, "🙏🙏🙏")

	out := c.String()
	assert.Equal(t, "🙏🙏 ", out)
	assert.Equal(t, 5, runewidth.StringWidth(out))
}

func TestRender(t *testing.T) {
	bubbles := []display.Bubble{{
		Message: display.Message{ID: "a", Text: "Спасибо за родителей"},
		Box:     display.Rect{X: 20, Y: 22, W: 200, H: 66},
	}}

	out := render(bubbles, 60, 12, "status")
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 12)
	assert.Contains(t, out, "Спасибо")
	assert.Contains(t, lines[1], "╭")
	assert.Contains(t, lines[11], "status")
}

func TestRender_TinyTerminal(t *testing.T) {
	assert.Empty(t, render(nil, 0, 0, "x"))
	assert.Contains(t, render(nil, 10, 1, "status"), "status")
}
