package params

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ColorName identifies one of the eight HSL hue buckets.
type ColorName string

const (
	Reds     ColorName = "Reds"
	Oranges  ColorName = "Oranges"
	Yellows  ColorName = "Yellows"
	Greens   ColorName = "Greens"
	Aquas    ColorName = "Aquas"
	Blues    ColorName = "Blues"
	Purples  ColorName = "Purples"
	Magentas ColorName = "Magentas"
)

var colorNames = []ColorName{Reds, Oranges, Yellows, Greens, Aquas, Blues, Purples, Magentas}

// ColorNames returns the HSL buckets in hue order.
func ColorNames() []ColorName {
	return append([]ColorName(nil), colorNames...)
}

// ParseColorName resolves a bucket name case-insensitively. The singular form
// ("Red", "aqua") is accepted as well.
func ParseColorName(s string) (ColorName, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for _, c := range colorNames {
		plural := strings.ToLower(string(c))
		if s == plural || s == strings.TrimSuffix(plural, "s") {
			return c, true
		}
	}
	return "", false
}

// Index returns the bucket's position in hue order, or -1 for unknown names.
func (c ColorName) Index() int {
	for i, n := range colorNames {
		if n == c {
			return i
		}
	}
	return -1
}

// HSLColorAdjustment shifts hue, saturation and luminance for pixels whose hue
// falls in the named bucket. All three deltas range over [-100, 100].
type HSLColorAdjustment struct {
	ColorName  ColorName `json:"colorName"`
	Hue        float64   `json:"hue"`
	Saturation float64   `json:"saturation"`
	Luminance  float64   `json:"luminance"`
}

// IsZero reports whether the adjustment has no effect.
func (a HSLColorAdjustment) IsZero() bool {
	return a.Hue == 0 && a.Saturation == 0 && a.Luminance == 0
}

// CurvePoint is one tone curve control point. Both coordinates are in [0, 255].
// It encodes to JSON as an [input, output] pair.
type CurvePoint struct {
	Input  float64
	Output float64
}

// MarshalJSON implements json.Marshaler.
func (p CurvePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Input, p.Output})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *CurvePoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("curve point needs 2 values, got %d", len(pair))
	}
	p.Input, p.Output = pair[0], pair[1]
	return nil
}

// ToneCurve holds a shared curve applied to all channels and optional
// per-channel curves applied after it. A nil channel curve is a no-op.
type ToneCurve struct {
	All   []CurvePoint `json:"all"`
	Red   []CurvePoint `json:"r,omitempty"`
	Green []CurvePoint `json:"g,omitempty"`
	Blue  []CurvePoint `json:"b,omitempty"`
}

// IdentityCurve returns the two-point diagonal (0,0)-(255,255).
func IdentityCurve() []CurvePoint {
	return []CurvePoint{{Input: 0, Output: 0}, {Input: 255, Output: 255}}
}

// EditingParameters is the normalized edit record. Every field is present and
// within its range; see Fields for the bounds.
//
// Records built in code should start from Default(). The zero value is not an
// identity edit; Sanitize repairs only its zero temperature.
type EditingParameters struct {
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Exposure    float64 `json:"exposure"`
	Contrast    float64 `json:"contrast"`
	Highlights  float64 `json:"highlights"`
	Shadows     float64 `json:"shadows"`
	Whites      float64 `json:"whites"`
	Blacks      float64 `json:"blacks"`
	Texture     float64 `json:"texture"`
	Clarity     float64 `json:"clarity"`
	Dehaze      float64 `json:"dehaze"`
	Vibrance    float64 `json:"vibrance"`
	Saturation  float64 `json:"saturation"`

	HSL       []HSLColorAdjustment `json:"hsl"`
	ToneCurve ToneCurve            `json:"toneCurveRGB"`
}

// NeutralTemperature is the white balance at which the temperature stage is a no-op.
const NeutralTemperature = 5500.0

// Default returns the identity edit.
func Default() EditingParameters {
	return EditingParameters{
		Temperature: NeutralTemperature,
		HSL:         []HSLColorAdjustment{},
		ToneCurve:   ToneCurve{All: IdentityCurve()},
	}
}

// Value returns the named scalar field.
func (p EditingParameters) Value(name string) (float64, bool) {
	f, ok := FieldByName(name)
	if !ok {
		return 0, false
	}
	return *f.value(&p), true
}

// Adjustment returns the HSL adjustment for a bucket. Buckets without an entry
// report a zero adjustment.
func (p EditingParameters) Adjustment(c ColorName) HSLColorAdjustment {
	for _, a := range p.HSL {
		if a.ColorName == c {
			return a
		}
	}
	return HSLColorAdjustment{ColorName: c}
}

// Raw converts the record back to the loose collaborator shape. Normalize(p.Raw())
// returns a record equal to p when p is already normalized.
func (p EditingParameters) Raw() *Raw {
	raw := &Raw{}
	for _, f := range fields {
		v := *f.value(&p)
		*f.input(raw) = &v
	}
	for _, a := range p.HSL {
		h, s, l := a.Hue, a.Saturation, a.Luminance
		raw.HSL = append(raw.HSL, RawHSL{ColorName: string(a.ColorName), Hue: &h, Saturation: &s, Luminance: &l})
	}
	raw.ToneCurveRGB = &RawToneCurve{
		All: pairs(p.ToneCurve.All),
		R:   pairs(p.ToneCurve.Red),
		G:   pairs(p.ToneCurve.Green),
		B:   pairs(p.ToneCurve.Blue),
	}
	return raw
}

func pairs(points []CurvePoint) [][]float64 {
	if points == nil {
		return nil
	}
	out := make([][]float64, len(points))
	for i, pt := range points {
		out[i] = []float64{pt.Input, pt.Output}
	}
	return out
}

// Field describes the range of one scalar parameter.
type Field struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Neutral float64 `json:"neutral"`

	value func(*EditingParameters) *float64
	input func(*Raw) **float64
}

var fields = []Field{
	{Name: "temperature", Min: 2000, Max: 15000, Neutral: NeutralTemperature,
		value: func(p *EditingParameters) *float64 { return &p.Temperature },
		input: func(r *Raw) **float64 { return &r.Temperature }},
	{Name: "tint", Min: -150, Max: 150,
		value: func(p *EditingParameters) *float64 { return &p.Tint },
		input: func(r *Raw) **float64 { return &r.Tint }},
	{Name: "exposure", Min: -5, Max: 5,
		value: func(p *EditingParameters) *float64 { return &p.Exposure },
		input: func(r *Raw) **float64 { return &r.Exposure }},
	{Name: "contrast", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Contrast },
		input: func(r *Raw) **float64 { return &r.Contrast }},
	{Name: "highlights", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Highlights },
		input: func(r *Raw) **float64 { return &r.Highlights }},
	{Name: "shadows", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Shadows },
		input: func(r *Raw) **float64 { return &r.Shadows }},
	{Name: "whites", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Whites },
		input: func(r *Raw) **float64 { return &r.Whites }},
	{Name: "blacks", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Blacks },
		input: func(r *Raw) **float64 { return &r.Blacks }},
	{Name: "texture", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Texture },
		input: func(r *Raw) **float64 { return &r.Texture }},
	{Name: "clarity", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Clarity },
		input: func(r *Raw) **float64 { return &r.Clarity }},
	{Name: "dehaze", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Dehaze },
		input: func(r *Raw) **float64 { return &r.Dehaze }},
	{Name: "vibrance", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Vibrance },
		input: func(r *Raw) **float64 { return &r.Vibrance }},
	{Name: "saturation", Min: -100, Max: 100,
		value: func(p *EditingParameters) *float64 { return &p.Saturation },
		input: func(r *Raw) **float64 { return &r.Saturation }},
}

// Fields returns the scalar range table in canonical order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

// FieldByName looks up a scalar field by its JSON name.
func FieldByName(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Clamp limits v to the field's range.
func (f Field) Clamp(v float64) float64 {
	return clamp(v, f.Min, f.Max)
}
