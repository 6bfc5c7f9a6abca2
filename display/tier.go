// Package display runs the client side rotation of gratitude bubbles: which
// messages are on screen, where they sit and for how long.
package display

// Viewport is the drawable area in pixels. Touch marks touch-first devices.
type Viewport struct {
	Width  float64
	Height float64
	Touch  bool
}

// Tier is a device class derived from the viewport.
type Tier int

const (
	Narrow Tier = iota
	Desktop
	Large
)

func (t Tier) String() string {
	switch t {
	case Narrow:
		return "narrow"
	case Desktop:
		return "desktop"
	case Large:
		return "large"
	}
	return "unknown"
}

// Profile holds the per-tier tuning. Cap is the most bubbles a viewer may
// show at once.
type Profile struct {
	Tier        Tier
	Cap         int
	FontSize    float64
	BubbleWidth float64
}

var profiles = map[Tier]Profile{
	Narrow:  {Tier: Narrow, Cap: 3, FontSize: 14, BubbleWidth: 220},
	Desktop: {Tier: Desktop, Cap: 6, FontSize: 16, BubbleWidth: 280},
	Large:   {Tier: Large, Cap: 10, FontSize: 20, BubbleWidth: 340},
}

// Classify maps a viewport to its tier profile.
func Classify(v Viewport) Profile {
	switch {
	case v.Width < 768, v.Touch && v.Width < 1024:
		return profiles[Narrow]
	case v.Width >= 1920:
		return profiles[Large]
	default:
		return profiles[Desktop]
	}
}
