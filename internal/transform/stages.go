package transform

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/preset-lut-mcp/internal/curve"
	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

const (
	minTemperature = 2000.0
	maxTemperature = 15000.0

	// Gain applied to red and blue at the temperature extremes.
	temperatureGain = 0.25
	// Gain applied to green at the tint extremes; red and blue move half as far.
	tintGain = 0.2
)

func whiteBalance(temperature, tint float64) func(RGB) RGB {
	if temperature == params.NeutralTemperature && tint == 0 {
		return nil
	}

	// Map each side of neutral onto [-1, 1] separately; the range is asymmetric.
	var w float64
	if temperature >= params.NeutralTemperature {
		w = (temperature - params.NeutralTemperature) / (maxTemperature - params.NeutralTemperature)
	} else {
		w = (temperature - params.NeutralTemperature) / (params.NeutralTemperature - minTemperature)
	}
	tn := tint / 150

	rGain := (1 + temperatureGain*w) * (1 + tintGain/2*tn)
	gGain := 1 - tintGain*tn
	bGain := (1 - temperatureGain*w) * (1 + tintGain/2*tn)

	return func(c RGB) RGB {
		return RGB{R: c.R * rGain, G: c.G * gGain, B: c.B * bGain}
	}
}

func exposure(stops float64) func(RGB) RGB {
	if stops == 0 {
		return nil
	}
	gain := math.Exp2(stops)
	return func(c RGB) RGB {
		return RGB{R: c.R * gain, G: c.G * gain, B: c.B * gain}
	}
}

func contrast(amount float64) func(RGB) RGB {
	if amount == 0 {
		return nil
	}
	k := amount / 100
	return func(c RGB) RGB {
		return perChannel(c, func(x float64) float64 { return sCurve(x, k) })
	}
}

// sCurve blends x toward smoothstep (k > 0) or toward a flattened line through
// mid-gray (k < 0). Both targets are monotone and fix 0.5, so the blend is too.
func sCurve(x, k float64) float64 {
	if k >= 0 {
		s := x * x * (3 - 2*x)
		return x + k*(s-x)
	}
	flat := 0.5 + (x-0.5)*0.5
	return x - k*(flat-x)
}

func tonalRange(highlights, shadows, whites, blacks float64) func(RGB) RGB {
	if highlights == 0 && shadows == 0 && whites == 0 && blacks == 0 {
		return nil
	}
	h, s, w, b := highlights/100, shadows/100, whites/100, blacks/100

	return func(c RGB) RGB {
		l := luma(c)
		wHighlights := smoothstep(0.35, 0.85, l)
		wShadows := 1 - smoothstep(0.15, 0.65, l)
		wWhites := smoothstep(0.75, 1, l)
		wBlacks := 1 - smoothstep(0, 0.25, l)

		d := 0.3*(h*wHighlights+s*wShadows) + 0.2*(w*wWhites+b*wBlacks)
		return RGB{R: c.R + d, G: c.G + d, B: c.B + d}
	}
}

func presence(texture, clarity, dehaze float64) func(RGB) RGB {
	if texture == 0 && clarity == 0 && dehaze == 0 {
		return nil
	}
	amount := 0.15*clarity/100 + 0.08*texture/100
	dz := dehaze / 100
	haze := 0.08 * math.Abs(dz)

	return func(c RGB) RGB {
		if amount != 0 {
			l := luma(c)
			k := amount * (1 - math.Abs(2*l-1))
			c = perChannel(c, func(x float64) float64 { return x + k*(x-0.5) })
		}
		switch {
		case dz > 0:
			c = perChannel(c, func(x float64) float64 { return (x - haze) / (1 - haze) })
		case dz < 0:
			c = perChannel(c, func(x float64) float64 { return haze + x*(1-haze) })
		}
		if dz != 0 {
			c = scaleChroma(c, 1+0.15*dz)
		}
		return c
	}
}

func vibranceSaturation(vibrance, saturation float64) func(RGB) RGB {
	if vibrance == 0 && saturation == 0 {
		return nil
	}
	uniform := 1 + saturation/100
	v := vibrance / 100

	return func(c RGB) RGB {
		mx := math.Max(c.R, math.Max(c.G, c.B))
		mn := math.Min(c.R, math.Min(c.G, c.B))
		var s float64
		if mx > 1e-9 {
			s = (mx - mn) / mx
		}
		return scaleChroma(c, uniform*(1+v*(1-s)))
	}
}

var bucketCenters = map[params.ColorName]float64{
	params.Reds:     0,
	params.Oranges:  30,
	params.Yellows:  60,
	params.Greens:   120,
	params.Aquas:    180,
	params.Blues:    240,
	params.Purples:  270,
	params.Magentas: 300,
}

const (
	bucketSigma = 22.0
	// Degrees of hue rotation at a full +/-100 hue delta.
	maxHueShift = 30.0
	// Lightness change at a full +/-100 luminance delta on a fully saturated pixel.
	maxLumShift = 0.25
)

// BucketCenter returns the reference hue in degrees for a color bucket.
func BucketCenter(c params.ColorName) (float64, bool) {
	h, ok := bucketCenters[c]
	return h, ok
}

// Membership is the soft weight in [0, 1] of a hue (degrees) in a bucket.
func Membership(hue float64, c params.ColorName) float64 {
	center, ok := bucketCenters[c]
	if !ok {
		return 0
	}
	d := math.Abs(math.Mod(hue-center, 360))
	if d > 180 {
		d = 360 - d
	}
	return math.Exp(-(d * d) / (2 * bucketSigma * bucketSigma))
}

func hslShift(adjustments []params.HSLColorAdjustment) func(RGB) RGB {
	var active []params.HSLColorAdjustment
	for _, a := range adjustments {
		if _, ok := bucketCenters[a.ColorName]; ok && !a.IsZero() {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		return nil
	}

	return func(c RGB) RGB {
		h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
		if s < 1e-6 {
			return c
		}

		var dh, ds, dl float64
		for _, a := range active {
			w := Membership(h, a.ColorName)
			dh += w * a.Hue
			ds += w * a.Saturation
			dl += w * a.Luminance
		}
		if dh == 0 && ds == 0 && dl == 0 {
			return c
		}

		h = math.Mod(h+dh/100*maxHueShift+360, 360)
		l = clamp01(l + dl/100*maxLumShift*s)
		s = clamp01(s * (1 + ds/100))

		out := colorful.Hsl(h, s, l)
		return RGB{R: out.R, G: out.G, B: out.B}
	}
}

func toneCurve(tc params.ToneCurve) func(RGB) RGB {
	channels := [3][]params.CurvePoint{tc.Red, tc.Green, tc.Blue}
	if curve.Identity(tc.All) && curve.Identity(tc.Red) && curve.Identity(tc.Green) && curve.Identity(tc.Blue) {
		return nil
	}

	all := curve.Build(tc.All)
	var fns [3]curve.Func
	for i, pts := range channels {
		if len(pts) > 0 && !curve.Identity(pts) {
			fns[i] = curve.Build(pts)
		}
	}

	level := func(x float64, f curve.Func) float64 {
		v := all(math.Min(math.Max(x*255, 0), 255))
		if f != nil {
			v = f(v)
		}
		return v / 255
	}

	return func(c RGB) RGB {
		return RGB{R: level(c.R, fns[0]), G: level(c.G, fns[1]), B: level(c.B, fns[2])}
	}
}
