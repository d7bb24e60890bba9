package curve

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

func TestBuild_IdentityPoints(t *testing.T) {
	f := Build([]params.CurvePoint{{Input: 0, Output: 0}, {Input: 128, Output: 128}, {Input: 255, Output: 255}})
	for x := 0.0; x <= 255; x += 0.5 {
		assert.InDelta(t, x, f(x), 1e-9)
	}
}

func TestBuild_TwoPointsLinear(t *testing.T) {
	f := Build([]params.CurvePoint{{Input: 0, Output: 20}, {Input: 255, Output: 235}})
	assert.InDelta(t, 20.0, f(0), 1e-9)
	assert.InDelta(t, 235.0, f(255), 1e-9)
	assert.InDelta(t, 127.5, f(127.5), 1e-9)
}

func TestBuild_FewerThanTwoPointsIsIdentity(t *testing.T) {
	f := Build([]params.CurvePoint{{Input: 100, Output: 30}})
	assert.InDelta(t, 100.0, f(100), 1e-9)
	assert.InDelta(t, 200.0, f(200), 1e-9)
}

func TestBuild_PassesThroughControlPoints(t *testing.T) {
	pts := []params.CurvePoint{{Input: 0, Output: 0}, {Input: 64, Output: 80}, {Input: 128, Output: 128}, {Input: 192, Output: 180}, {Input: 255, Output: 255}}
	f := Build(pts)
	for _, p := range pts {
		assert.InDelta(t, p.Output, f(p.Input), 1e-9)
	}
}

func TestBuild_FlatExtrapolation(t *testing.T) {
	f := Build([]params.CurvePoint{{Input: 50, Output: 40}, {Input: 120, Output: 150}, {Input: 200, Output: 210}})
	assert.Equal(t, 40.0, f(0))
	assert.Equal(t, 40.0, f(-30))
	assert.Equal(t, 210.0, f(230))
	assert.Equal(t, 210.0, f(400))
	assert.Equal(t, 40.0, f(math.NaN()))
}

func TestBuild_Monotone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(7)
		pts := make([]params.CurvePoint, n)
		out := 0.0
		for i := range pts {
			out += rng.Float64() * 255 / float64(n)
			// plateaus stress the zero-slope branch
			if rng.Intn(4) == 0 && i > 0 {
				out = pts[i-1].Output
			}
			pts[i] = params.CurvePoint{Input: float64(i) * 255 / float64(n-1), Output: math.Min(out, 255)}
		}

		f := Build(pts)
		prev := f(-1)
		for x := -1.0; x <= 256; x += 0.25 {
			y := f(x)
			require.False(t, math.IsNaN(y))
			require.GreaterOrEqual(t, y, prev-1e-9, "trial %d x=%v points=%v", trial, x, pts)
			require.GreaterOrEqual(t, y, 0.0)
			require.LessOrEqual(t, y, 255.0)
			prev = y
		}
	}
}

func TestBuild_SteepPointsNoOvershoot(t *testing.T) {
	f := Build([]params.CurvePoint{{Input: 0, Output: 0}, {Input: 10, Output: 250}, {Input: 20, Output: 255}, {Input: 255, Output: 255}})
	for x := 0.0; x <= 255; x++ {
		assert.LessOrEqual(t, f(x), 255.0)
	}
	assert.Equal(t, 255.0, f(100))
}

func TestIdentity(t *testing.T) {
	assert.True(t, Identity(nil))
	assert.True(t, Identity(params.IdentityCurve()))
	assert.True(t, Identity([]params.CurvePoint{{Input: 128, Output: 128}, {Input: 0, Output: 0}, {Input: 255, Output: 255}}))
	assert.False(t, Identity([]params.CurvePoint{{Input: 0, Output: 0}, {Input: 128, Output: 140}, {Input: 255, Output: 255}}))
}
