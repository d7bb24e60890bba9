package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnmarshalJSON decodes a collaborator record one field at a time. A scalar may
// be a JSON number or a numeric string ("20", " -0.5 "); any other value is
// treated as absent and its name recorded in Ignored. Only a document that is
// not a JSON object fails.
func (r *Raw) UnmarshalJSON(data []byte) error {
	obj, err := object(data)
	if err != nil {
		return err
	}
	*r = Raw{}

	for _, f := range fields {
		v, ok := obj[strings.ToLower(f.Name)]
		if !ok {
			continue
		}
		n, ok := number(v)
		if !ok {
			r.Ignored = append(r.Ignored, f.Name)
		}
		*f.input(r) = n
	}

	if v, ok := obj["hsl"]; ok {
		r.HSL = r.decodeHSL(v)
	}
	if v, ok := obj["tonecurvergb"]; ok {
		r.ToneCurveRGB = r.decodeToneCurve(v)
	}
	return nil
}

func (r *Raw) decodeHSL(data json.RawMessage) []RawHSL {
	var items []json.RawMessage
	if isNull(data) {
		return nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		r.Ignored = append(r.Ignored, "hsl")
		return nil
	}

	out := make([]RawHSL, 0, len(items))
	for i, item := range items {
		obj, err := object(item)
		if err != nil {
			r.Ignored = append(r.Ignored, fmt.Sprintf("hsl[%d]", i))
			continue
		}
		var e RawHSL
		if err := json.Unmarshal(obj["colorname"], &e.ColorName); err != nil {
			r.Ignored = append(r.Ignored, fmt.Sprintf("hsl[%d].colorName", i))
			continue
		}
		for _, d := range []struct {
			name string
			dst  **float64
		}{
			{"hue", &e.Hue},
			{"saturation", &e.Saturation},
			{"luminance", &e.Luminance},
		} {
			v, ok := obj[d.name]
			if !ok {
				continue
			}
			n, ok := number(v)
			if !ok {
				r.Ignored = append(r.Ignored, fmt.Sprintf("hsl[%d].%s", i, d.name))
			}
			*d.dst = n
		}
		out = append(out, e)
	}
	return out
}

func (r *Raw) decodeToneCurve(data json.RawMessage) *RawToneCurve {
	if isNull(data) {
		return nil
	}
	obj, err := object(data)
	if err != nil {
		r.Ignored = append(r.Ignored, "toneCurveRGB")
		return nil
	}

	tc := &RawToneCurve{}
	for _, c := range []struct {
		name string
		dst  *[][]float64
	}{
		{"points", &tc.Points},
		{"all", &tc.All},
		{"r", &tc.R},
		{"g", &tc.G},
		{"b", &tc.B},
	} {
		v, ok := obj[c.name]
		if !ok {
			continue
		}
		*c.dst = r.decodePairs(v, "toneCurveRGB."+c.name)
	}
	return tc
}

// decodePairs keeps every [input, output] pair whose two values read as
// numbers and skips the rest.
func (r *Raw) decodePairs(data json.RawMessage, name string) [][]float64 {
	var items []json.RawMessage
	if isNull(data) {
		return nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		r.Ignored = append(r.Ignored, name)
		return nil
	}

	out := make([][]float64, 0, len(items))
	for i, item := range items {
		var pair []json.RawMessage
		if err := json.Unmarshal(item, &pair); err != nil || len(pair) != 2 {
			r.Ignored = append(r.Ignored, fmt.Sprintf("%s[%d]", name, i))
			continue
		}
		in, ok1 := number(pair[0])
		o, ok2 := number(pair[1])
		if !ok1 || !ok2 || in == nil || o == nil {
			r.Ignored = append(r.Ignored, fmt.Sprintf("%s[%d]", name, i))
			continue
		}
		out = append(out, []float64{*in, *o})
	}
	return out
}

// object decodes a JSON object with lower-cased keys, matching encoding/json's
// case-insensitive field lookup.
func object(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("expected an object, got %s", bytes.TrimSpace(data))
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out, nil
}

// number reads a JSON number or numeric string. Null is absent without being
// an error; anything else unreadable returns ok == false.
func number(data json.RawMessage) (v *float64, ok bool) {
	if isNull(data) {
		return nil, true
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return &f, true
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func isNull(data json.RawMessage) bool {
	d := bytes.TrimSpace(data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// Decode turns a "params" argument into a normalized record. The argument may
// be a JSON object or a string holding JSON text, optionally in a code fence.
// Decode never fails: a missing or unreadable record yields Default(), and
// every fallback or skipped field is described in the returned warnings.
func Decode(arg json.RawMessage) (EditingParameters, []string) {
	if isNull(arg) {
		return Default(), []string{"no params given; using the identity edit"}
	}

	data := bytes.TrimSpace(arg)
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return Default(), []string{"params string is not valid JSON; using the identity edit"}
		}
		data = []byte(text)
	}

	raw, err := ParseRaw(data)
	if err != nil {
		return Default(), []string{fmt.Sprintf("could not parse params (%v); using the identity edit", err)}
	}
	var warnings []string
	if len(raw.Ignored) > 0 {
		warnings = append(warnings, "ignored unreadable values: "+strings.Join(raw.Ignored, ", "))
	}
	return Normalize(raw), warnings
}
