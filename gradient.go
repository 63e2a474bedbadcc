package fractal

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
)

// GradientMode selects how a gradient fills the space between keys.
type GradientMode string

const (
	GradientBlend GradientMode = "blend" // interpolate between neighbouring keys
	GradientFixed GradientMode = "fixed" // hold each key's color up to its time
)

// GradientKey is one color stop. Time is in [0, 1].
type GradientKey struct {
	Time  float32 `yaml:"time"`
	Color Color   `yaml:"color"`
}

// Gradient is a continuous color ramp over [0, 1].
type Gradient struct {
	Mode GradientMode  `yaml:"mode,omitempty"`
	Ease string        `yaml:"ease,omitempty"`
	Keys []GradientKey `yaml:"keys"`
}

// easeFuncs maps config names to easing curves applied between two keys.
var easeFuncs = map[string]ease.TweenFunc{
	"":           ease.Linear,
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
}

// NewGradient returns a blend gradient through the given colors, spaced
// evenly over [0, 1].
func NewGradient(colors ...Color) Gradient {
	g := Gradient{Mode: GradientBlend, Keys: make([]GradientKey, len(colors))}
	for i, c := range colors {
		var t float32
		if len(colors) > 1 {
			t = float32(i) / float32(len(colors)-1)
		}
		g.Keys[i] = GradientKey{Time: t, Color: c}
	}
	return g
}

// Validate checks that keys are in [0, 1] and sorted by time, and that the
// mode and ease names are known.
func (g Gradient) Validate() error {
	switch g.Mode {
	case "", GradientBlend, GradientFixed:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidGradient, g.Mode)
	}
	if _, ok := easeFuncs[g.Ease]; !ok {
		return fmt.Errorf("%w: unknown ease %q", ErrInvalidGradient, g.Ease)
	}
	for i, k := range g.Keys {
		if !finite(k.Time) || k.Time < 0 || k.Time > 1 {
			return fmt.Errorf("%w: key %d time %v outside [0, 1]", ErrInvalidGradient, i, k.Time)
		}
		if i > 0 && k.Time < g.Keys[i-1].Time {
			return fmt.Errorf("%w: key %d out of order", ErrInvalidGradient, i)
		}
	}
	return nil
}

// Evaluate returns the gradient color at t. t is clamped to the key range.
// An empty gradient is white.
func (g Gradient) Evaluate(t float32) Color {
	n := len(g.Keys)
	if n == 0 {
		return ColorWhite
	}
	if t <= g.Keys[0].Time {
		return g.Keys[0].Color
	}
	if t >= g.Keys[n-1].Time {
		return g.Keys[n-1].Color
	}

	// First key strictly after t; the previous key is at or before t.
	i := sort.Search(n, func(i int) bool { return g.Keys[i].Time > t })
	a, b := g.Keys[i-1], g.Keys[i]
	if g.Mode == GradientFixed {
		if t == a.Time {
			return a.Color
		}
		return b.Color
	}

	u := (t - a.Time) / (b.Time - a.Time)
	if fn := easeFuncs[g.Ease]; fn != nil {
		u = fn(u, 0, 1, 1)
	}
	return blend(a.Color, b.Color, u)
}

// blend interpolates RGB through go-colorful and alpha linearly.
func blend(a, b Color, t float32) Color {
	ca := colorful.Color{R: float64(a.R), G: float64(a.G), B: float64(a.B)}
	cb := colorful.Color{R: float64(b.R), G: float64(b.G), B: float64(b.B)}
	c := ca.BlendRgb(cb, float64(t))
	return Color{
		R: float32(c.R),
		G: float32(c.G),
		B: float32(c.B),
		A: a.A + (b.A-a.A)*t,
	}
}
