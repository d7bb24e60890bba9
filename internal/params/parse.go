package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrEmpty is returned when a collaborator hands over no record at all.
var ErrEmpty = errors.New("empty parameter record")

// Model responses often wrap the JSON object in a Markdown code fence.
var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// ParseRaw decodes a collaborator's JSON record. A surrounding Markdown code
// fence is stripped first.
func ParseRaw(data []byte) (*Raw, error) {
	trimmed := bytes.TrimSpace(data)
	if m := fenceRe.FindSubmatch(trimmed); m != nil {
		trimmed = m[1]
	}
	if len(trimmed) == 0 {
		return nil, ErrEmpty
	}

	var raw Raw
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode parameters: %w", err)
	}
	return &raw, nil
}

// FromJSON parses and normalizes a record. When the data cannot be decoded it
// returns Default() alongside the error, so callers always hold a usable record.
func FromJSON(data []byte) (EditingParameters, error) {
	raw, err := ParseRaw(data)
	if err != nil {
		return Default(), err
	}
	return Normalize(raw), nil
}
