package preset

import (
	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// CapCut's adjust panel sliders run from -50 to 50. Mapping:
//
//	temperature  Kelvin offset from 5500, each side onto ±50
//	tint         tint / 3
//	exposure     stops × 10
//	contrast, highlights, shadows, whites, blacks, saturation   value / 2
//	texture      sharpen, positive values only (value / 2); negative dropped
//	hsl          per color, each delta / 2
//
// Vibrance, clarity, dehaze and the tone curve have no CapCut equivalent in
// this format version and are dropped.
const capcutFormatVersion = "2.0"

var capcutColors = map[params.ColorName]string{
	params.Reds:     "red",
	params.Oranges:  "orange",
	params.Yellows:  "yellow",
	params.Greens:   "green",
	params.Aquas:    "cyan",
	params.Blues:    "blue",
	params.Purples:  "purple",
	params.Magentas: "magenta",
}

type capcutAdjust struct {
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"hue"`
	Exposure    float64 `json:"exposure"`
	Contrast    float64 `json:"contrast"`
	Highlights  float64 `json:"highlight"`
	Shadows     float64 `json:"shadow"`
	Whites      float64 `json:"whites"`
	Blacks      float64 `json:"blacks"`
	Saturation  float64 `json:"saturation"`
	Sharpen     float64 `json:"sharpen"`
}

type capcutHSL struct {
	Color      string  `json:"color"`
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

type capcutPreset struct {
	Version string       `json:"version"`
	Type    string       `json:"type"`
	Name    string       `json:"name"`
	ID      string       `json:"id"`
	Adjust  capcutAdjust `json:"adjust"`
	HSL     []capcutHSL  `json:"hsl"`
}

func serializeCapCut(p params.EditingParameters, meta Meta) ([]byte, []string, error) {
	doc := capcutPreset{
		Version: capcutFormatVersion,
		Type:    "adjust",
		Name:    meta.Name,
		ID:      ID(p, meta.Name).String(),
		Adjust: capcutAdjust{
			Temperature: round(temperatureScale(p.Temperature)*50, 2),
			Tint:        round(p.Tint/3, 2),
			Exposure:    round(p.Exposure*10, 2),
			Contrast:    round(p.Contrast/2, 2),
			Highlights:  round(p.Highlights/2, 2),
			Shadows:     round(p.Shadows/2, 2),
			Whites:      round(p.Whites/2, 2),
			Blacks:      round(p.Blacks/2, 2),
			Saturation:  round(p.Saturation/2, 2),
		},
		HSL: []capcutHSL{},
	}
	if p.Texture > 0 {
		doc.Adjust.Sharpen = round(p.Texture/2, 2)
	}

	for _, a := range p.HSL {
		if a.IsZero() {
			continue
		}
		doc.HSL = append(doc.HSL, capcutHSL{
			Color:      capcutColors[a.ColorName],
			Hue:        round(a.Hue/2, 2),
			Saturation: round(a.Saturation/2, 2),
			Lightness:  round(a.Luminance/2, 2),
		})
	}

	dropped := droppedFields(p, []string{"vibrance", "clarity", "dehaze"}, false, true)
	if p.Texture < 0 {
		dropped = append([]string{"texture"}, dropped...)
	}

	data, err := marshal(doc)
	return data, dropped, err
}
