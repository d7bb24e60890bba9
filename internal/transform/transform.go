// Package transform composes a normalized edit record into a single color
// mapping from [0,1]³ to [0,1]³.
//
// # Stage Order
//
// Stages run in a fixed order; reordering them changes the output:
//
//  1. white_balance: per-channel gains from temperature and tint
//  2. exposure: gain of 2^exposure
//  3. contrast: S-curve around mid-gray
//  4. tonal_range: highlights, shadows, whites, blacks weighted by luminance windows
//  5. presence: texture, clarity and dehaze as global midtone-contrast and
//     haze nudges (a per-pixel transform cannot see neighbors, so this is an
//     approximation of the local operators found in editors)
//  6. vibrance_saturation: uniform and saturation-protecting chroma scaling
//  7. hsl: per-bucket hue, saturation and luminance shifts
//  8. tone_curve: the shared curve, then the per-channel curve
//
// A stage whose parameters are all neutral is omitted, so the default record
// composes to an exact identity.
//
// # Numeric Safety
//
// Every stage boundary clamps the running triple to [0,1]. Non-finite values
// are coerced (NaN and -Inf to 0, +Inf to 1) and counted; ApplyCounted reports
// the count so callers can log it.
//
// # Thread Safety
//
// A Transform holds no mutable state after Compose returns and may be applied
// from any number of goroutines.
package transform

import (
	"math"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// RGB is a color with components in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

type stage struct {
	name string
	fn   func(RGB) RGB
}

// Transform is a composed color mapping built from one parameter record.
type Transform struct {
	stages []stage
}

// Compose builds the transform for p. The record is expected to be normalized;
// see params.Normalize.
func Compose(p params.EditingParameters) *Transform {
	t := &Transform{}
	t.add("white_balance", whiteBalance(p.Temperature, p.Tint))
	t.add("exposure", exposure(p.Exposure))
	t.add("contrast", contrast(p.Contrast))
	t.add("tonal_range", tonalRange(p.Highlights, p.Shadows, p.Whites, p.Blacks))
	t.add("presence", presence(p.Texture, p.Clarity, p.Dehaze))
	t.add("vibrance_saturation", vibranceSaturation(p.Vibrance, p.Saturation))
	t.add("hsl", hslShift(p.HSL))
	t.add("tone_curve", toneCurve(p.ToneCurve))
	return t
}

func (t *Transform) add(name string, fn func(RGB) RGB) {
	if fn == nil {
		return
	}
	t.stages = append(t.stages, stage{name: name, fn: fn})
}

// Stages returns the names of the active stages in application order.
func (t *Transform) Stages() []string {
	names := make([]string, len(t.stages))
	for i, s := range t.stages {
		names[i] = s.name
	}
	return names
}

// IsIdentity reports whether no stage is active.
func (t *Transform) IsIdentity() bool {
	return len(t.stages) == 0
}

// Apply maps c through every active stage.
func (t *Transform) Apply(c RGB) RGB {
	out, _ := t.ApplyCounted(c)
	return out
}

// ApplyCounted maps c and also returns how many non-finite intermediate values
// were coerced along the way.
func (t *Transform) ApplyCounted(c RGB) (RGB, int) {
	c, n := sanitize(c)
	for _, s := range t.stages {
		var k int
		c, k = sanitize(s.fn(c))
		n += k
	}
	return c, n
}

func sanitize(c RGB) (RGB, int) {
	var n int
	c.R, n = unit(c.R, n)
	c.G, n = unit(c.G, n)
	c.B, n = unit(c.B, n)
	return c, n
}

func unit(v float64, n int) (float64, int) {
	switch {
	case math.IsNaN(v), math.IsInf(v, -1):
		return 0, n + 1
	case math.IsInf(v, 1):
		return 1, n + 1
	case v < 0:
		return 0, n
	case v > 1:
		return 1, n
	}
	return v, n
}

// luma is Rec. 709 relative luminance of the (gamma-encoded) triple.
func luma(c RGB) float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func perChannel(c RGB, f func(float64) float64) RGB {
	return RGB{R: f(c.R), G: f(c.G), B: f(c.B)}
}

// scaleChroma moves each channel away from (f > 1) or toward (f < 1) the
// pixel's luminance.
func scaleChroma(c RGB, f float64) RGB {
	l := luma(c)
	return perChannel(c, func(x float64) float64 { return l + (x-l)*f })
}
