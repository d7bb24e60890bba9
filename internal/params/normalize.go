package params

import (
	"math"
	"sort"
)

// Raw is the untrusted record shape produced by collaborators. Every scalar is
// optional; a nil pointer means "not supplied".
type Raw struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Tint        *float64 `json:"tint,omitempty"`
	Exposure    *float64 `json:"exposure,omitempty"`
	Contrast    *float64 `json:"contrast,omitempty"`
	Highlights  *float64 `json:"highlights,omitempty"`
	Shadows     *float64 `json:"shadows,omitempty"`
	Whites      *float64 `json:"whites,omitempty"`
	Blacks      *float64 `json:"blacks,omitempty"`
	Texture     *float64 `json:"texture,omitempty"`
	Clarity     *float64 `json:"clarity,omitempty"`
	Dehaze      *float64 `json:"dehaze,omitempty"`
	Vibrance    *float64 `json:"vibrance,omitempty"`
	Saturation  *float64 `json:"saturation,omitempty"`

	HSL          []RawHSL      `json:"hsl,omitempty"`
	ToneCurveRGB *RawToneCurve `json:"toneCurveRGB,omitempty"`

	// Ignored names the values UnmarshalJSON could not read as numbers.
	Ignored []string `json:"-"`
}

// RawHSL is an HSL entry as supplied by a collaborator.
type RawHSL struct {
	ColorName  string   `json:"colorName"`
	Hue        *float64 `json:"hue,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
	Luminance  *float64 `json:"luminance,omitempty"`
}

// RawToneCurve accepts both the single shared "points" list and per-channel
// lists. When both "all" and "points" are present, "all" wins.
type RawToneCurve struct {
	Points [][]float64 `json:"points,omitempty"`
	All    [][]float64 `json:"all,omitempty"`
	R      [][]float64 `json:"r,omitempty"`
	G      [][]float64 `json:"g,omitempty"`
	B      [][]float64 `json:"b,omitempty"`
}

// Float returns a pointer to v, for building Raw records in code.
func Float(v float64) *float64 {
	return &v
}

// Normalize applies the package's normalization policy. It never fails; a nil
// record yields Default().
func Normalize(raw *Raw) EditingParameters {
	p := Default()
	if raw == nil {
		return p
	}

	for _, f := range fields {
		v := *f.input(raw)
		if v == nil || math.IsNaN(*v) {
			continue
		}
		*f.value(&p) = f.Clamp(*v)
	}

	p.HSL = normalizeHSL(raw.HSL)
	p.ToneCurve = normalizeToneCurve(raw.ToneCurveRGB)
	return p
}

// Sanitize re-runs normalization on an already typed record. It is idempotent
// and is the gate the export controller applies on entry.
//
// A temperature of exactly 0 is below the field's range and can only come from
// a record built from the Go zero value, so it is read as absent (neutral)
// rather than clamped to 2000 K.
func Sanitize(p EditingParameters) EditingParameters {
	raw := p.Raw()
	if p.Temperature == 0 {
		raw.Temperature = nil
	}
	return Normalize(raw)
}

func normalizeHSL(entries []RawHSL) []HSLColorAdjustment {
	byName := make(map[ColorName]HSLColorAdjustment, len(entries))
	for _, e := range entries {
		name, ok := ParseColorName(e.ColorName)
		if !ok {
			continue
		}
		byName[name] = HSLColorAdjustment{
			ColorName:  name,
			Hue:        delta(e.Hue),
			Saturation: delta(e.Saturation),
			Luminance:  delta(e.Luminance),
		}
	}

	out := make([]HSLColorAdjustment, 0, len(byName))
	for _, name := range colorNames {
		if a, ok := byName[name]; ok {
			out = append(out, a)
		}
	}
	return out
}

func delta(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return clamp(*v, -100, 100)
}

func normalizeToneCurve(raw *RawToneCurve) ToneCurve {
	if raw == nil {
		return ToneCurve{All: IdentityCurve()}
	}
	all := raw.All
	if len(all) == 0 {
		all = raw.Points
	}
	return ToneCurve{
		All:   NormalizeCurve(fromPairs(all)),
		Red:   channelCurve(raw.R),
		Green: channelCurve(raw.G),
		Blue:  channelCurve(raw.B),
	}
}

func channelCurve(raw [][]float64) []CurvePoint {
	if len(raw) == 0 {
		return nil
	}
	return NormalizeCurve(fromPairs(raw))
}

func fromPairs(raw [][]float64) []CurvePoint {
	points := make([]CurvePoint, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			continue
		}
		points = append(points, CurvePoint{Input: pair[0], Output: pair[1]})
	}
	return points
}

// NormalizeCurve clamps, sorts and deduplicates control points and makes sure
// the curve spans the whole [0, 255] input domain. The input slice is not
// modified.
func NormalizeCurve(points []CurvePoint) []CurvePoint {
	clean := make([]CurvePoint, 0, len(points)+2)
	for _, pt := range points {
		if math.IsNaN(pt.Input) || math.IsNaN(pt.Output) {
			continue
		}
		clean = append(clean, CurvePoint{
			Input:  clamp(pt.Input, 0, 255),
			Output: clamp(pt.Output, 0, 255),
		})
	}

	// Stable sort keeps supplied order among equal inputs, so the later
	// duplicate overwrites the earlier one below.
	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Input < clean[j].Input
	})

	deduped := clean[:0]
	for _, pt := range clean {
		if n := len(deduped); n > 0 && deduped[n-1].Input == pt.Input {
			deduped[n-1] = pt
			continue
		}
		deduped = append(deduped, pt)
	}

	if len(deduped) < 2 {
		return IdentityCurve()
	}

	out := make([]CurvePoint, 0, len(deduped)+2)
	if first := deduped[0]; first.Input > 0 {
		out = append(out, CurvePoint{Input: 0, Output: first.Output})
	}
	out = append(out, deduped...)
	if last := deduped[len(deduped)-1]; last.Input < 255 {
		out = append(out, CurvePoint{Input: 255, Output: last.Output})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
