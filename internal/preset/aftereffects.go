package preset

import (
	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// After Effects presets are written as a keyframe-free stack of built-in
// effects, identified by match name and applied top to bottom:
//
//	ADBE Exposure2     exposure in stops
//	ADBE Lumetri       white balance, tone, saturation, vibrance (Premiere scales)
//	ADBE CurvesCustom  master and per-channel curves, points in 0..1
//
// Exposure lives on its own effect so Lumetri's exposure stays at 0. Texture,
// clarity, dehaze and HSL are dropped.

type aeProperty struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type aeEffect struct {
	MatchName  string         `json:"matchName"`
	Name       string         `json:"name"`
	Properties []aeProperty   `json:"properties,omitempty"`
	Curves     []lumetriCurve `json:"curves,omitempty"`
}

type aePreset struct {
	Format    string     `json:"format"`
	Version   int        `json:"version"`
	Name      string     `json:"name"`
	ID        string     `json:"id"`
	Keyframes bool       `json:"keyframes"`
	Effects   []aeEffect `json:"effects"`
}

func serializeAfterEffects(p params.EditingParameters, meta Meta) ([]byte, []string, error) {
	lumetri := aeEffect{MatchName: "ADBE Lumetri", Name: "Lumetri Color"}
	for _, lp := range lumetriBasic(p) {
		if lp.ID == "lumetri.basic.exposure" {
			lp.Value = 0
		}
		lumetri.Properties = append(lumetri.Properties, aeProperty{Name: lp.Name, Value: lp.Value})
	}

	doc := aePreset{
		Format:    "after-effects-effect-stack",
		Version:   1,
		Name:      meta.Name,
		ID:        ID(p, meta.Name).String(),
		Keyframes: false,
		Effects: []aeEffect{
			{
				MatchName:  "ADBE Exposure2",
				Name:       "Exposure",
				Properties: []aeProperty{{Name: "Exposure", Value: round(p.Exposure, 2)}},
			},
			lumetri,
			{
				MatchName: "ADBE CurvesCustom",
				Name:      "Curves",
				Curves:    lumetriCurves(p.ToneCurve, "curves."),
			},
		},
	}

	data, err := marshal(doc)
	return data, droppedFields(p, []string{"texture", "clarity", "dehaze"}, true, false), err
}
