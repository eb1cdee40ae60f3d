package circles

import (
	"math"
	"strconv"
	"time"
)

// NoAnimation disables the entry animation. Any negative Duration does.
const NoAnimation time.Duration = -1

// DefaultDuration is the entry animation length used when Duration is zero
const DefaultDuration = 500 * time.Millisecond

// LabelFunc formats the value shown at the centre of the graph
type LabelFunc func(value float64) string

// StaticText returns a LabelFunc that always shows text
func StaticText(text string) LabelFunc {
	return func(float64) string { return text }
}

// Options configures a graph
type Options struct {
	// ID of the element the graph is mounted into
	ID string

	// Radius of the outer circle in pixels
	Radius float64 // default 0, callers must set it
	// Width of the ring
	Width float64 // default 10

	// Colors holds the track color then the indicator color
	Colors [2]string // default {"#EEE", "#F00"}

	Value    float64 // default 0
	MaxValue float64 // default 100

	// Text formats the label; defaults to the value itself
	Text LabelFunc

	// Duration of the entry animation. Zero means DefaultDuration,
	// NoAnimation renders the final state straight away.
	Duration time.Duration
}

func (o *Options) withDefaults() Options {
	d := Options{
		Width:    10,
		Colors:   [2]string{"#EEE", "#F00"},
		MaxValue: 100,
		Text:     FormatValue,
		Duration: DefaultDuration,
	}
	if o == nil {
		return d
	}
	d.ID = o.ID
	d.Radius = o.Radius
	d.Value = o.Value
	if o.Width != 0 {
		d.Width = o.Width
	}
	if o.Colors[0] != "" {
		d.Colors[0] = o.Colors[0]
	}
	if o.Colors[1] != "" {
		d.Colors[1] = o.Colors[1]
	}
	if o.MaxValue != 0 {
		d.MaxValue = o.MaxValue
	}
	if o.Text != nil {
		d.Text = o.Text
	}
	if o.Duration != 0 {
		d.Duration = o.Duration
	}
	return d
}

// Animated reports whether the options ask for an entry animation
func (o Options) Animated() bool {
	return o.Duration >= 0
}

// FormatValue is the default label: the value in its shortest decimal form
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round2 rounds to two decimals the way labels are displayed
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(p float64) float64 {
	return math.Min(100, math.Max(0, p))
}
