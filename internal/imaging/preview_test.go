package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/preset-lut-mcp/internal/params"
	"github.com/ironsheep/preset-lut-mcp/internal/transform"
)

func decodePreview(t *testing.T, res *PreviewResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	return img
}

func TestPreview_FitsMaxDim(t *testing.T) {
	img := createInMemoryImage(400, 200, color.RGBA{100, 100, 100, 255})

	res, err := Preview(img, exposure(1), PreviewOptions{MaxDim: 100})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}
	if len(res.Stages) != 1 || res.Stages[0] != "exposure" {
		t.Errorf("Stages: got %v, want [exposure]", res.Stages)
	}

	out := decodePreview(t, res)
	r, _, _, _ := out.At(50, 25).RGBA()
	if got := uint8(r >> 8); got < 199 || got > 201 {
		t.Errorf("one stop over 100: got %d, want ~200", got)
	}
}

func TestPreview_DoesNotEnlarge(t *testing.T) {
	img := createInMemoryImage(40, 30, color.White)

	res, err := Preview(img, transform.Compose(params.Default()), PreviewOptions{})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if res.Width != 40 || res.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", res.Width, res.Height)
	}
	if len(res.Stages) != 0 {
		t.Errorf("identity edit should have no stages, got %v", res.Stages)
	}
}

func TestPreview_SideBySide(t *testing.T) {
	img := createInMemoryImage(20, 10, color.RGBA{64, 64, 64, 255})

	res, err := Preview(img, exposure(1), PreviewOptions{SideBySide: true})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if res.Width != 40 || res.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 40x10", res.Width, res.Height)
	}

	out := decodePreview(t, res)
	before, _, _, _ := out.At(5, 5).RGBA()
	after, _, _, _ := out.At(25, 5).RGBA()
	if uint8(before>>8) != 64 {
		t.Errorf("left half: got %d, want 64", before>>8)
	}
	if uint8(after>>8) != 128 {
		t.Errorf("right half: got %d, want 128", after>>8)
	}
}

func TestPreview_InvalidMaxDim(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)
	id := transform.Compose(params.Default())

	for _, dim := range []int{-1, MaxPreviewDim + 1} {
		if _, err := Preview(img, id, PreviewOptions{MaxDim: dim}); err == nil {
			t.Errorf("MaxDim %d should fail", dim)
		}
	}
}

func TestPreview_EmptyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Preview(img, transform.Compose(params.Default()), PreviewOptions{}); err == nil {
		t.Error("empty image should fail")
	}
}

func TestApply_PreservesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{64, 64, 64, 128})
	img.SetNRGBA(1, 0, color.NRGBA{200, 10, 10, 0})

	out := Apply(img, exposure(1))

	half := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA)
	if half.A != 128 {
		t.Errorf("alpha: got %d, want 128", half.A)
	}
	if half.R < 126 || half.R > 130 {
		t.Errorf("un-premultiplied red: got %d, want ~128", half.R)
	}

	transparent := out.RGBAAt(1, 0)
	if transparent.A != 0 {
		t.Errorf("transparent pixel alpha: got %d, want 0", transparent.A)
	}
}

func TestApply_Identity(t *testing.T) {
	img := createPatternImage(8, 8)
	out := Apply(img, transform.Compose(params.Default()))

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.RGBAAt(x, y) != img.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) changed: %v -> %v", x, y, img.RGBAAt(x, y), out.RGBAAt(x, y))
			}
		}
	}
}
