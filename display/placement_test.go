package display

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    Viewport
		tier Tier
		cap  int
	}{
		{"phone", Viewport{Width: 390, Height: 844, Touch: true}, Narrow, 3},
		{"narrow window", Viewport{Width: 700, Height: 900}, Narrow, 3},
		{"tablet", Viewport{Width: 1000, Height: 700, Touch: true}, Narrow, 3},
		{"touch laptop", Viewport{Width: 1366, Height: 768, Touch: true}, Desktop, 6},
		{"laptop", Viewport{Width: 1024, Height: 768}, Desktop, 6},
		{"boundary", Viewport{Width: 768, Height: 600}, Desktop, 6},
		{"full hd", Viewport{Width: 1920, Height: 1080}, Large, 10},
		{"4k", Viewport{Width: 3840, Height: 2160}, Large, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.v)
			assert.Equal(t, tt.tier, p.Tier)
			assert.Equal(t, tt.cap, p.Cap)
		})
	}
}

func TestFootprint(t *testing.T) {
	p := Classify(Viewport{Width: 1280, Height: 800})

	w, h := Footprint("Спасибо", p)
	assert.Equal(t, 280.0, w)
	assert.Equal(t, 60.0, h, "one line is padded up to the minimum")

	// 28 characters per line at 16px in a 280px bubble.
	_, h = Footprint(strings.Repeat("а", 56), p)
	assert.InDelta(t, 24+2*16*1.4, h, 1e-9)

	_, h = Footprint(strings.Repeat("а", 57), p)
	assert.InDelta(t, 24+3*16*1.4, h, 1e-9)
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}

	assert.True(t, a.Overlaps(Rect{X: 50, Y: 50, W: 100, H: 100}, 0))
	assert.True(t, a.Overlaps(Rect{X: 120, Y: 0, W: 100, H: 100}, 30), "within padding")
	assert.False(t, a.Overlaps(Rect{X: 131, Y: 0, W: 100, H: 100}, 30))
	assert.False(t, a.Overlaps(Rect{X: 0, Y: 200, W: 100, H: 100}, 30))
}

func TestPlace(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	v := Viewport{Width: 1280, Height: 800}

	r, ok := place(rng, v, 280, 60, nil)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, r.X, float64(edgeMargin))
	assert.LessOrEqual(t, r.X+r.W, v.Width-edgeMargin)
	assert.GreaterOrEqual(t, r.Y, float64(edgeMargin))
	assert.LessOrEqual(t, r.Y+r.H, v.Height-edgeMargin)

	everything := []Rect{{X: 0, Y: 0, W: v.Width, H: v.Height}}
	r, ok = place(rng, v, 280, 60, everything)
	assert.False(t, ok, "no free spot falls back to an unchecked position")
	assert.Equal(t, 280.0, r.W)
}

func TestPlace_TinyViewport(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	r, _ := place(rng, Viewport{Width: 100, Height: 50}, 280, 60, nil)
	assert.Equal(t, float64(edgeMargin), r.X)
	assert.Equal(t, float64(edgeMargin), r.Y)
}
