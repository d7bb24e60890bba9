// Package curve turns sparse tone curve control points into a dense mapping
// over the 0-255 input domain.
//
// Interpolation is monotone cubic Hermite with Fritsch-Carlson tangent limiting:
// when the control points are non-decreasing in output, the built function is
// non-decreasing everywhere, so a curve can never invert tones or introduce
// banding from overshoot. Two points interpolate linearly. Outside the first
// and last control point the function is flat at the boundary output.
package curve

import (
	"math"
	"sort"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// Func maps an input level in [0, 255] to an output level in [0, 255].
type Func func(x float64) float64

// Build returns the interpolating function for a set of control points. The
// points are normalized first (see params.NormalizeCurve), so any list is
// accepted; fewer than two usable points yields the identity.
func Build(points []params.CurvePoint) Func {
	pts := params.NormalizeCurve(points)
	n := len(pts)

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range pts {
		xs[i], ys[i] = p.Input, p.Output
	}

	if n == 2 {
		return linear(xs[0], ys[0], xs[1], ys[1])
	}

	m := tangents(xs, ys)

	return func(x float64) float64 {
		if math.IsNaN(x) {
			return ys[0]
		}
		if x <= xs[0] {
			return ys[0]
		}
		if x >= xs[n-1] {
			return ys[n-1]
		}

		// First index with xs[i] >= x; the segment starts one before it.
		i := sort.SearchFloat64s(xs, x)
		if i < n && xs[i] == x {
			return ys[i]
		}
		i--

		h := xs[i+1] - xs[i]
		t := (x - xs[i]) / h
		t2 := t * t
		t3 := t2 * t

		h00 := 2*t3 - 3*t2 + 1
		h10 := t3 - 2*t2 + t
		h01 := -2*t3 + 3*t2
		h11 := t3 - t2

		y := h00*ys[i] + h10*h*m[i] + h01*ys[i+1] + h11*h*m[i+1]
		return clamp255(y)
	}
}

func linear(x0, y0, x1, y1 float64) Func {
	slope := (y1 - y0) / (x1 - x0)
	return func(x float64) float64 {
		if math.IsNaN(x) || x <= x0 {
			return y0
		}
		if x >= x1 {
			return y1
		}
		return clamp255(y0 + (x-x0)*slope)
	}
}

// tangents computes Fritsch-Carlson limited slopes at each control point.
func tangents(xs, ys []float64) []float64 {
	n := len(xs)
	d := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		d[i] = (ys[i+1] - ys[i]) / (xs[i+1] - xs[i])
	}

	m := make([]float64, n)
	m[0] = d[0]
	m[n-1] = d[n-2]
	for i := 1; i < n-1; i++ {
		if d[i-1]*d[i] <= 0 {
			m[i] = 0
			continue
		}
		m[i] = (d[i-1] + d[i]) / 2
	}

	for i := 0; i < n-1; i++ {
		if d[i] == 0 {
			m[i] = 0
			m[i+1] = 0
			continue
		}
		a := m[i] / d[i]
		b := m[i+1] / d[i]
		if a < 0 {
			m[i] = 0
			a = 0
		}
		if b < 0 {
			m[i+1] = 0
			b = 0
		}
		if s := a*a + b*b; s > 9 {
			tau := 3 / math.Sqrt(s)
			m[i] = tau * a * d[i]
			m[i+1] = tau * b * d[i]
		}
	}
	return m
}

// Identity reports whether the normalized points lie on the diagonal, in
// which case the curve is a no-op.
func Identity(points []params.CurvePoint) bool {
	for _, p := range params.NormalizeCurve(points) {
		if p.Input != p.Output {
			return false
		}
	}
	return true
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
