package preset

import (
	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// Lumetri Color parameters, keyed by identifier. Scales:
//
//	Temperature, Tint  -100..100 (Kelvin offset mapped per side; tint / 1.5)
//	Exposure           stops, unchanged
//	Contrast … Blacks  -100..100, unchanged
//	Saturation         0..200 with 100 neutral
//	Vibrance           -100..100, unchanged
//	RGB curves         points normalized to 0..1
//
// Lumetri has no texture, clarity or dehaze control and its HSL secondary is
// not a per-bucket adjustment; those fields are dropped.

type lumetriParam struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type lumetriCurve struct {
	ID     string       `json:"id"`
	Points [][2]float64 `json:"points"`
}

type lumetriPreset struct {
	Format     string         `json:"format"`
	Version    int            `json:"version"`
	Name       string         `json:"name"`
	ID         string         `json:"id"`
	Effect     string         `json:"effect"`
	MatchName  string         `json:"matchName"`
	Parameters []lumetriParam `json:"parameters"`
	Curves     []lumetriCurve `json:"curves"`
}

func lumetriBasic(p params.EditingParameters) []lumetriParam {
	return []lumetriParam{
		{ID: "lumetri.basic.temperature", Name: "Temperature", Value: round(temperatureScale(p.Temperature)*100, 2)},
		{ID: "lumetri.basic.tint", Name: "Tint", Value: round(p.Tint/1.5, 2)},
		{ID: "lumetri.basic.exposure", Name: "Exposure", Value: round(p.Exposure, 2)},
		{ID: "lumetri.basic.contrast", Name: "Contrast", Value: round(p.Contrast, 2)},
		{ID: "lumetri.basic.highlights", Name: "Highlights", Value: round(p.Highlights, 2)},
		{ID: "lumetri.basic.shadows", Name: "Shadows", Value: round(p.Shadows, 2)},
		{ID: "lumetri.basic.whites", Name: "Whites", Value: round(p.Whites, 2)},
		{ID: "lumetri.basic.blacks", Name: "Blacks", Value: round(p.Blacks, 2)},
		{ID: "lumetri.basic.saturation", Name: "Saturation", Value: round(100+p.Saturation, 2)},
		{ID: "lumetri.creative.vibrance", Name: "Vibrance", Value: round(p.Vibrance, 2)},
	}
}

func normalizedPoints(points []params.CurvePoint) [][2]float64 {
	points = params.NormalizeCurve(points)
	out := make([][2]float64, len(points))
	for i, pt := range points {
		out[i] = [2]float64{round(pt.Input/255, 4), round(pt.Output/255, 4)}
	}
	return out
}

func lumetriCurves(tc params.ToneCurve, prefix string) []lumetriCurve {
	return []lumetriCurve{
		{ID: prefix + "master", Points: normalizedPoints(tc.All)},
		{ID: prefix + "red", Points: normalizedPoints(tc.Red)},
		{ID: prefix + "green", Points: normalizedPoints(tc.Green)},
		{ID: prefix + "blue", Points: normalizedPoints(tc.Blue)},
	}
}

func serializePremiere(p params.EditingParameters, meta Meta) ([]byte, []string, error) {
	doc := lumetriPreset{
		Format:     "premiere-pro-effect-preset",
		Version:    1,
		Name:       meta.Name,
		ID:         ID(p, meta.Name).String(),
		Effect:     "Lumetri Color",
		MatchName:  "AE.ADBE Lumetri",
		Parameters: lumetriBasic(p),
		Curves:     lumetriCurves(p.ToneCurve, "lumetri.curves.rgb."),
	}

	data, err := marshal(doc)
	return data, droppedFields(p, []string{"texture", "clarity", "dehaze"}, true, false), err
}
