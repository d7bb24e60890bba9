package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/preset-lut-mcp/internal/transform"
)

// DefaultPreviewMaxDim bounds the longer preview side when none is given.
const DefaultPreviewMaxDim = 512

// MaxPreviewDim is the largest accepted MaxDim.
const MaxPreviewDim = 4096

// PreviewOptions control Preview.
type PreviewOptions struct {
	// MaxDim bounds the longer side of each rendered half. Zero means
	// DefaultPreviewMaxDim.
	MaxDim int
	// SideBySide renders the original on the left and the edit on the right.
	SideBySide bool
}

// PreviewResult contains the rendered PNG.
type PreviewResult struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	ImageBase64 string   `json:"image_base64"`
	MimeType    string   `json:"mime_type"`
	Stages      []string `json:"stages"`
}

// Preview renders img with t applied, downscaled to fit MaxDim.
//
// Images smaller than MaxDim are not enlarged. The transform runs on every
// preview pixel; alpha is preserved.
func Preview(img image.Image, t *transform.Transform, opts PreviewOptions) (*PreviewResult, error) {
	maxDim := opts.MaxDim
	if maxDim == 0 {
		maxDim = DefaultPreviewMaxDim
	}
	if maxDim < 0 || maxDim > MaxPreviewDim {
		return nil, fmt.Errorf("max dimension %d outside 1-%d", maxDim, MaxPreviewDim)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	before := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	after := Apply(before, t)

	var out image.Image = after
	if opts.SideBySide {
		w, h := before.Bounds().Dx(), before.Bounds().Dy()
		canvas := imaging.New(w*2, h, color.NRGBA{0, 0, 0, 0})
		canvas = imaging.Paste(canvas, before, image.Pt(0, 0))
		canvas = imaging.Paste(canvas, after, image.Pt(w, 0))
		out = canvas
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Stages:      t.Stages(),
	}, nil
}

// Apply runs t over every pixel of img.
func Apply(img image.Image, t *transform.Transform) *image.RGBA {
	if t.IsIdentity() {
		return adjust.Apply(img, func(c color.RGBA) color.RGBA { return c })
	}
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if c.A == 0 {
			return c
		}
		// bild hands over premultiplied values
		a := float64(c.A) / 255
		in := transform.RGB{
			R: float64(c.R) / 255 / a,
			G: float64(c.G) / 255 / a,
			B: float64(c.B) / 255 / a,
		}
		out := t.Apply(in)
		return color.RGBA{
			R: to8(out.R * a),
			G: to8(out.G * a),
			B: to8(out.B * a),
			A: c.A,
		}
	})
}

func to8(v float64) uint8 {
	v = v*255 + 0.5
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
