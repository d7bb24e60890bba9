package transform

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

const eps = 1e-9

func grid(n int, fn func(c RGB)) {
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				d := float64(n - 1)
				fn(RGB{R: float64(r) / d, G: float64(g) / d, B: float64(b) / d})
			}
		}
	}
}

func requireInUnit(t *testing.T, c RGB) {
	t.Helper()
	for _, v := range []float64{c.R, c.G, c.B} {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite %v", c)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestCompose_DefaultIsIdentity(t *testing.T) {
	tr := Compose(params.Default())
	require.True(t, tr.IsIdentity())

	grid(9, func(c RGB) {
		out := tr.Apply(c)
		assert.InDelta(t, c.R, out.R, eps)
		assert.InDelta(t, c.G, out.G, eps)
		assert.InDelta(t, c.B, out.B, eps)
	})
}

func TestCompose_ZeroedHSLAndIdentityCurveAreIdentity(t *testing.T) {
	p := params.Normalize(&params.Raw{
		HSL: []params.RawHSL{
			{ColorName: "Reds", Hue: params.Float(0)},
			{ColorName: "Greens"},
			{ColorName: "Blues"},
		},
		ToneCurveRGB: &params.RawToneCurve{Points: [][]float64{{0, 0}, {128, 128}, {255, 255}}},
	})
	tr := Compose(p)
	assert.Empty(t, tr.Stages())

	grid(5, func(c RGB) {
		out := tr.Apply(c)
		assert.InDelta(t, c.R, out.R, eps)
		assert.InDelta(t, c.G, out.G, eps)
		assert.InDelta(t, c.B, out.B, eps)
	})
}

func TestCompose_StageOrder(t *testing.T) {
	p := params.Normalize(&params.Raw{
		Temperature: params.Float(7000),
		Exposure:    params.Float(0.5),
		Contrast:    params.Float(20),
		Shadows:     params.Float(10),
		Clarity:     params.Float(10),
		Vibrance:    params.Float(15),
		HSL:         []params.RawHSL{{ColorName: "Blues", Hue: params.Float(-10)}},
		ToneCurveRGB: &params.RawToneCurve{
			Points: [][]float64{{0, 0}, {64, 80}, {255, 255}},
		},
	})

	assert.Equal(t, []string{
		"white_balance", "exposure", "contrast", "tonal_range",
		"presence", "vibrance_saturation", "hsl", "tone_curve",
	}, Compose(p).Stages())
}

func TestExposure_Brightens(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{Exposure: params.Float(1)}))

	out := tr.Apply(RGB{R: 0.25, G: 0.1, B: 0.4})
	assert.InDelta(t, 0.5, out.R, eps)
	assert.InDelta(t, 0.2, out.G, eps)
	assert.InDelta(t, 0.8, out.B, eps)

	out = tr.Apply(RGB{R: 0.9, G: 0.9, B: 0.9})
	assert.Equal(t, RGB{R: 1, G: 1, B: 1}, out)
}

func TestWhiteBalance_Direction(t *testing.T) {
	gray := RGB{R: 0.5, G: 0.5, B: 0.5}

	warm := Compose(params.Normalize(&params.Raw{Temperature: params.Float(9000)})).Apply(gray)
	assert.Greater(t, warm.R, warm.B)

	cool := Compose(params.Normalize(&params.Raw{Temperature: params.Float(3000)})).Apply(gray)
	assert.Less(t, cool.R, cool.B)

	magenta := Compose(params.Normalize(&params.Raw{Tint: params.Float(100)})).Apply(gray)
	assert.Less(t, magenta.G, magenta.R)
}

func TestContrast_PivotsAtMidGray(t *testing.T) {
	for _, amount := range []float64{-100, -40, 40, 100} {
		tr := Compose(params.Normalize(&params.Raw{Contrast: params.Float(amount)}))
		mid := tr.Apply(RGB{R: 0.5, G: 0.5, B: 0.5})
		assert.InDelta(t, 0.5, mid.R, eps)

		dark := tr.Apply(RGB{R: 0.2, G: 0.2, B: 0.2})
		if amount > 0 {
			assert.Less(t, dark.R, 0.2)
		} else {
			assert.Greater(t, dark.R, 0.2)
		}

		prev := -1.0
		for x := 0.0; x <= 1; x += 0.01 {
			y := tr.Apply(RGB{R: x, G: x, B: x}).R
			assert.GreaterOrEqual(t, y, prev-eps)
			prev = y
		}
	}
}

func TestTonalRange_Windows(t *testing.T) {
	shadows := Compose(params.Normalize(&params.Raw{Shadows: params.Float(100)}))
	darkLift := shadows.Apply(RGB{R: 0.1, G: 0.1, B: 0.1}).R - 0.1
	brightLift := shadows.Apply(RGB{R: 0.9, G: 0.9, B: 0.9}).R - 0.9
	assert.Greater(t, darkLift, brightLift)
	assert.InDelta(t, 0, brightLift, eps)

	highlights := Compose(params.Normalize(&params.Raw{Highlights: params.Float(-100)}))
	brightDrop := 0.9 - highlights.Apply(RGB{R: 0.9, G: 0.9, B: 0.9}).R
	darkDrop := 0.1 - highlights.Apply(RGB{R: 0.1, G: 0.1, B: 0.1}).R
	assert.Greater(t, brightDrop, darkDrop)

	whites := Compose(params.Normalize(&params.Raw{Whites: params.Float(100)}))
	assert.InDelta(t, 0.5, whites.Apply(RGB{R: 0.5, G: 0.5, B: 0.5}).R, eps)

	blacks := Compose(params.Normalize(&params.Raw{Blacks: params.Float(-100)}))
	assert.InDelta(t, 0.5, blacks.Apply(RGB{R: 0.5, G: 0.5, B: 0.5}).R, eps)
	assert.Less(t, blacks.Apply(RGB{R: 0.05, G: 0.05, B: 0.05}).R, 0.05)
}

func TestPresence_BoundedAndMonotoneOnGrays(t *testing.T) {
	for _, v := range []float64{-100, -50, 50, 100} {
		p := params.Normalize(&params.Raw{Texture: params.Float(v), Clarity: params.Float(v), Dehaze: params.Float(v)})
		tr := Compose(p)

		grid(7, func(c RGB) { requireInUnit(t, tr.Apply(c)) })

		prev := -1.0
		for x := 0.0; x <= 1; x += 0.01 {
			y := tr.Apply(RGB{R: x, G: x, B: x}).R
			assert.GreaterOrEqual(t, y, prev-eps, "v=%v x=%v", v, x)
			prev = y
		}
	}
}

func TestVibrance_ProtectsSaturatedPixels(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{Vibrance: params.Float(100)}))

	muted := RGB{R: 0.55, G: 0.5, B: 0.45}
	vivid := RGB{R: 0.9, G: 0.2, B: 0.1}

	mutedOut := tr.Apply(muted)
	vividOut := tr.Apply(vivid)

	mutedGain := (mutedOut.R - mutedOut.B) / (muted.R - muted.B)
	vividGain := (vividOut.R - vividOut.B) / (vivid.R - vivid.B)
	assert.Greater(t, mutedGain, vividGain)
}

func TestSaturation_Desaturates(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{Saturation: params.Float(-100)}))
	out := tr.Apply(RGB{R: 0.8, G: 0.3, B: 0.2})
	assert.InDelta(t, out.R, out.G, 1e-6)
	assert.InDelta(t, out.G, out.B, 1e-6)
}

func TestVibrance_BlackPixelIsFinite(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{Vibrance: params.Float(100), Saturation: params.Float(100)}))
	out, n := tr.ApplyCounted(RGB{})
	assert.Zero(t, n)
	assert.Equal(t, RGB{}, out)
}

func TestHSL_TargetsBucket(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{HSL: []params.RawHSL{
		{ColorName: "Blues", Saturation: params.Float(-100)},
	}}))

	blue := tr.Apply(RGB{R: 0.1, G: 0.2, B: 0.9})
	assert.Less(t, blue.B-blue.R, 0.9-0.1)

	red := RGB{R: 0.9, G: 0.1, B: 0.1}
	redOut := tr.Apply(red)
	assert.InDelta(t, red.R, redOut.R, 1e-6)
	assert.InDelta(t, red.G, redOut.G, 1e-6)

	gray := RGB{R: 0.4, G: 0.4, B: 0.4}
	assert.Equal(t, gray, tr.Apply(gray))
}

func TestMembership(t *testing.T) {
	assert.InDelta(t, 1.0, Membership(240, params.Blues), eps)
	assert.InDelta(t, 1.0, Membership(360, params.Reds), eps)
	assert.InDelta(t, Membership(10, params.Reds), Membership(350, params.Reds), eps)
	assert.Less(t, Membership(120, params.Reds), 0.01)
	assert.Zero(t, Membership(0, params.ColorName("Teals")))

	for _, name := range params.ColorNames() {
		_, ok := BucketCenter(name)
		assert.True(t, ok, name)
	}
}

func TestToneCurve_PerChannel(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{ToneCurveRGB: &params.RawToneCurve{
		B: [][]float64{{0, 0}, {255, 128}},
	}}))
	out := tr.Apply(RGB{R: 1, G: 1, B: 1})
	assert.InDelta(t, 1.0, out.R, eps)
	assert.InDelta(t, 1.0, out.G, eps)
	assert.InDelta(t, 128.0/255, out.B, eps)
}

func TestApplyCounted_CoercesNonFiniteInput(t *testing.T) {
	tr := Compose(params.Default())
	out, n := tr.ApplyCounted(RGB{R: math.NaN(), G: math.Inf(1), B: math.Inf(-1)})
	assert.Equal(t, 3, n)
	assert.Equal(t, RGB{R: 0, G: 1, B: 0}, out)
}

func TestCompose_ExtremesStayInRange(t *testing.T) {
	records := []*params.Raw{
		{Temperature: params.Float(15000), Tint: params.Float(150), Exposure: params.Float(5), Contrast: params.Float(100), Vibrance: params.Float(100), Saturation: params.Float(100)},
		{Temperature: params.Float(2000), Tint: params.Float(-150), Exposure: params.Float(-5), Contrast: params.Float(-100), Highlights: params.Float(-100), Shadows: params.Float(100)},
		{Whites: params.Float(100), Blacks: params.Float(-100), Dehaze: params.Float(100), HSL: []params.RawHSL{
			{ColorName: "Oranges", Hue: params.Float(100), Saturation: params.Float(100), Luminance: params.Float(100)},
			{ColorName: "Reds", Hue: params.Float(-100), Saturation: params.Float(100), Luminance: params.Float(-100)},
		}},
	}
	for _, raw := range records {
		tr := Compose(params.Normalize(raw))
		grid(9, func(c RGB) {
			out, n := tr.ApplyCounted(c)
			require.Zero(t, n)
			requireInUnit(t, out)
		})
	}
}

func TestTransform_ConcurrentUse(t *testing.T) {
	tr := Compose(params.Normalize(&params.Raw{Exposure: params.Float(0.3), Contrast: params.Float(25)}))
	want := tr.Apply(RGB{R: 0.3, G: 0.6, B: 0.2})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := tr.Apply(RGB{R: 0.3, G: 0.6, B: 0.2}); got != want {
					t.Errorf("got %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
