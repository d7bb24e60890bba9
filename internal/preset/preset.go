// Package preset serializes a normalized edit record into the preset format of
// each supported target application.
//
// Every serializer reads the same normalized record and converts values with a
// documented, per-target scale; none of them re-derives values from another
// target's output. Fields a target cannot carry are left out and reported in
// Document.Dropped (only fields that actually differ from neutral are reported).
//
// # Targets
//
//	Target         Extension  Shape
//	Lightroom      .xmp       Camera Raw settings sidecar (crs: namespace)
//	CapCut         .json      adjust-panel sliders (-50..50) plus HSL
//	Premiere Pro   .json      Lumetri Color parameter list
//	After Effects  .json      keyframe-free built-in effect list
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ironsheep/preset-lut-mcp/internal/curve"
	"github.com/ironsheep/preset-lut-mcp/internal/params"
)

// Target is a supported destination application.
type Target string

const (
	Lightroom    Target = "Lightroom"
	CapCut       Target = "CapCut"
	PremierePro  Target = "Premiere Pro"
	AfterEffects Target = "After Effects"
)

// ErrInvalidTarget is returned when a target outside the closed set reaches a
// serializer. It indicates a caller bug, not bad user data.
var ErrInvalidTarget = errors.New("invalid software target")

var targets = []Target{Lightroom, CapCut, PremierePro, AfterEffects}

// Targets returns all supported targets in display order.
func Targets() []Target {
	return append([]Target(nil), targets...)
}

var targetAliases = map[string]Target{
	"lightroom":    Lightroom,
	"lr":           Lightroom,
	"capcut":       CapCut,
	"premierepro":  PremierePro,
	"premiere":     PremierePro,
	"aftereffects": AfterEffects,
	"ae":           AfterEffects,
}

// ParseTarget resolves a target name, ignoring case, spaces, dashes and
// underscores ("premiere-pro", "After_Effects").
func ParseTarget(s string) (Target, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
	if t, ok := targetAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTarget, s)
}

// Valid reports whether t is one of the supported targets.
func (t Target) Valid() bool {
	for _, v := range targets {
		if v == t {
			return true
		}
	}
	return false
}

// Slug is a lowercase, dash-separated form used in filenames.
func (t Target) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), " ", "-")
}

// Extension returns the preset file extension including the dot.
func (t Target) Extension() string {
	if t == Lightroom {
		return ".xmp"
	}
	return ".json"
}

// MIMEType returns the content type of the preset document.
func (t Target) MIMEType() string {
	if t == Lightroom {
		return "application/rdf+xml"
	}
	return "application/json"
}

// Meta carries descriptive data written into presets.
type Meta struct {
	// Name is the preset's display name.
	Name string
	// Tool identifies the generator where a format has room for it.
	Tool string
}

// Document is a serialized preset.
type Document struct {
	Target    Target   `json:"target"`
	Content   []byte   `json:"-"`
	Extension string   `json:"extension"`
	MIMEType  string   `json:"mime_type"`
	Dropped   []string `json:"dropped,omitempty"`
}

type serializeFunc func(p params.EditingParameters, meta Meta) ([]byte, []string, error)

var serializers = map[Target]serializeFunc{
	Lightroom:    serializeLightroom,
	CapCut:       serializeCapCut,
	PremierePro:  serializePremiere,
	AfterEffects: serializeAfterEffects,
}

// Serialize renders p for target.
func Serialize(p params.EditingParameters, target Target, meta Meta) (*Document, error) {
	fn, ok := serializers[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, string(target))
	}
	if meta.Name == "" {
		meta.Name = "Converted Preset"
	}

	content, dropped, err := fn(p, meta)
	if err != nil {
		return nil, fmt.Errorf("serialize %s preset: %w", target, err)
	}
	return &Document{
		Target:    target,
		Content:   content,
		Extension: target.Extension(),
		MIMEType:  target.MIMEType(),
		Dropped:   dropped,
	}, nil
}

var presetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ironsheep/preset-lut-mcp/preset"))

// ID derives a stable identifier from the record and preset name, so the same
// edit always serializes to byte-identical documents.
func ID(p params.EditingParameters, name string) uuid.UUID {
	data, _ := json.Marshal(p)
	return uuid.NewSHA1(presetNamespace, append([]byte(name+"\x00"), data...))
}

// droppedFields lists the names of non-neutral fields among names, plus "hsl"
// and "toneCurve" when requested and active.
func droppedFields(p params.EditingParameters, names []string, hsl, toneCurve bool) []string {
	var out []string
	for _, name := range names {
		f, ok := params.FieldByName(name)
		if !ok {
			continue
		}
		if v, _ := p.Value(name); v != f.Neutral {
			out = append(out, name)
		}
	}
	if hsl && hasHSL(p) {
		out = append(out, "hsl")
	}
	if toneCurve && hasCurve(p.ToneCurve) {
		out = append(out, "toneCurve")
	}
	return out
}

func hasHSL(p params.EditingParameters) bool {
	for _, a := range p.HSL {
		if !a.IsZero() {
			return true
		}
	}
	return false
}

func hasCurve(tc params.ToneCurve) bool {
	return !curve.Identity(tc.All) || !curve.Identity(tc.Red) || !curve.Identity(tc.Green) || !curve.Identity(tc.Blue)
}

// temperatureScale maps Kelvin onto [-1, 1] around the neutral point, each side
// scaled separately.
func temperatureScale(kelvin float64) float64 {
	if kelvin >= params.NeutralTemperature {
		return (kelvin - params.NeutralTemperature) / (15000 - params.NeutralTemperature)
	}
	return (kelvin - params.NeutralTemperature) / (params.NeutralTemperature - 2000)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // avoid -0 in output
	}
	return r
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
