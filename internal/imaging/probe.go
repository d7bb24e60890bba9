package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
	"github.com/ironsheep/preset-lut-mcp/internal/transform"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// ProbeResult pairs a color with what the edit turns it into.
//
// Bucket names the HSL panel color range (e.g. "Blues") whose adjustments
// affect the original color most, or is empty for near-neutral colors that
// HSL adjustments leave alone.
type ProbeResult struct {
	Label  string      `json:"label,omitempty"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Before ColorResult `json:"before"`
	After  ColorResult `json:"after"`
	Bucket string      `json:"bucket,omitempty"`
}

// LabeledPoint is a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional label, echoed in the result
}

// SampleTransformed reads the pixel at (x, y) and runs it through t.
//
// Parameters:
//   - img: The source image to sample from.
//   - x, y: 0-based coordinates, origin top-left.
//   - t: The composed edit. Must not be nil.
//
// Returns:
//   - *ProbeResult: The original and edited color.
//   - error: Non-nil if the coordinates are outside the image bounds.
//
// Partially transparent pixels are un-premultiplied first, so the reported
// color is what the edit sees; a fully transparent pixel reads as black.
func SampleTransformed(img image.Image, x, y int, t *transform.Transform) (*ProbeResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c, _ := colorful.MakeColor(img.At(x, y))
	res := probe(c, t)
	res.X, res.Y = x, y
	return res, nil
}

// SampleTransformedMulti probes several points in input order. On error no
// partial results are returned.
func SampleTransformedMulti(img image.Image, points []LabeledPoint, t *transform.Transform) ([]ProbeResult, error) {
	results := make([]ProbeResult, 0, len(points))
	for _, p := range points {
		res, err := SampleTransformed(img, p.X, p.Y, t)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		res.Label = p.Label
		results = append(results, *res)
	}
	return results, nil
}

// ProbeHex runs a "#RRGGBB" (or "RRGGBB", or "#RGB") color through t.
func ProbeHex(t *transform.Transform, hex string) (*ProbeResult, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return probe(c, t), nil
}

func probe(c colorful.Color, t *transform.Transform) *ProbeResult {
	in := transform.RGB{R: c.R, G: c.G, B: c.B}
	out := t.Apply(in)
	return &ProbeResult{
		Before: newColorResult(colorful.Color{R: in.R, G: in.G, B: in.B}),
		After:  newColorResult(colorful.Color{R: out.R, G: out.G, B: out.B}),
		Bucket: bucketOf(c),
	}
}

func newColorResult(c colorful.Color) ColorResult {
	c = c.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// bucketOf picks the HSL panel range with the strongest membership.
func bucketOf(c colorful.Color) string {
	h, s, _ := c.Hsl()
	if s < 0.05 {
		return ""
	}
	best, bestW := params.ColorName(""), 0.0
	for _, name := range params.ColorNames() {
		if w := transform.Membership(h, name); w > bestW {
			best, bestW = name, w
		}
	}
	return string(best)
}
