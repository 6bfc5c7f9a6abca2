package display

import (
	"math"
	"math/rand/v2"
	"unicode/utf8"
)

const (
	bubblePadding    = 24
	lineHeightRatio  = 1.4
	charWidthRatio   = 0.625
	minBubbleHeight  = 60
	edgeMargin       = 20
	collisionPadding = 30
	placementTries   = 50
)

// Rect is a bubble's box in viewport pixels.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether r and o come closer than pad to each other.
func (r Rect) Overlaps(o Rect, pad float64) bool {
	return !(r.X+r.W+pad < o.X ||
		o.X+o.W+pad < r.X ||
		r.Y+r.H+pad < o.Y ||
		o.Y+o.H+pad < r.Y)
}

// Footprint estimates the rendered size of text in a bubble of the given
// profile.
func Footprint(text string, p Profile) (w, h float64) {
	perLine := math.Floor(p.BubbleWidth / (p.FontSize * charWidthRatio))
	if perLine < 1 {
		perLine = 1
	}
	lines := math.Ceil(float64(utf8.RuneCountInString(text)) / perLine)
	if lines < 1 {
		lines = 1
	}
	h = bubblePadding + lines*p.FontSize*lineHeightRatio
	return p.BubbleWidth, math.Max(h, minBubbleHeight)
}

// place samples positions for a w×h box until one clears every occupied
// rect. After placementTries misses it returns an unchecked position and
// false.
func place(rng *rand.Rand, v Viewport, w, h float64, occupied []Rect) (Rect, bool) {
	spanX := math.Max(v.Width-w-2*edgeMargin, 0)
	spanY := math.Max(v.Height-h-2*edgeMargin, 0)

	sample := func() Rect {
		return Rect{
			X: edgeMargin + rng.Float64()*spanX,
			Y: edgeMargin + rng.Float64()*spanY,
			W: w,
			H: h,
		}
	}

	for range placementTries {
		r := sample()
		free := true
		for _, o := range occupied {
			if r.Overlaps(o, collisionPadding) {
				free = false
				break
			}
		}
		if free {
			return r, true
		}
	}

	return sample(), false
}
