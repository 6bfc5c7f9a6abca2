// Package duration clamps message display durations.
package duration

import (
	"math"
	"time"
	"unicode/utf8"
)

// Display duration bounds, in seconds.
const (
	Min     = 3.0
	Max     = 10.0
	Default = 4.0
)

// Reading-time estimate used when a client computes a duration for its own text.
const (
	readingBase    = 2.0
	readingSpeed   = 50.0 // runes per second
	readingCeiling = 8.0
)

// Normalize returns Default for nil, non-positive or NaN input and clamps
// everything else into [Min, Max].
func Normalize(seconds *float64) float64 {
	if seconds == nil {
		return Default
	}
	return Seconds(*seconds)
}

// Seconds is Normalize for a plain value.
func Seconds(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return Default
	}
	return math.Max(Min, math.Min(seconds, Max))
}

// ForText estimates how long text needs to stay on screen to be read.
func ForText(text string) float64 {
	est := readingBase + float64(utf8.RuneCountInString(text))/readingSpeed
	return math.Min(est, readingCeiling)
}

// ToDuration converts seconds to a time.Duration with millisecond resolution.
func ToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond
}
