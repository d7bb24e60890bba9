// Package lut samples a color transform on a uniform 3-D grid and writes the
// result as a cube LUT document.
//
// # Grid Order
//
// Rows are written with red varying fastest, then green, with blue slowest.
// This is the ordering used by the widely deployed Adobe cube format; the
// order is fixed and consumers may rely on it.
//
// # Document Layout
//
//	# Created by AI Image Preset & LUT Converter
//	# Source image: beach.jpg
//	TITLE "Generated LUT: beach.jpg"
//	LUT_3D_SIZE 17
//	DOMAIN_MIN 0.0 0.0 0.0
//	DOMAIN_MAX 1.0 1.0 1.0
//	0.000000 0.000000 0.000000
//	...
//
// Every value is clamped to [0,1] and printed with six decimals. A sample that
// comes back non-finite is coerced to a boundary and counted instead of
// failing generation.
package lut

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ironsheep/preset-lut-mcp/internal/transform"
)

const (
	// DefaultSize is the grid resolution used when none is requested.
	DefaultSize = 17
	MinSize     = 2
	MaxSize     = 65

	// DefaultTool names the generator in the header comment.
	DefaultTool = "AI Image Preset & LUT Converter"
)

// ErrInvalidSize is returned for grid sizes outside [MinSize, MaxSize].
var ErrInvalidSize = errors.New("invalid LUT size")

// Sampler is anything that maps a color and reports coerced non-finite values.
// *transform.Transform satisfies it.
type Sampler interface {
	ApplyCounted(c transform.RGB) (transform.RGB, int)
}

// Options control the header block.
type Options struct {
	// Tool is written in the "Created by" comment. Defaults to DefaultTool.
	Tool string
	// SourceName is the display name of the image the edit was derived from.
	SourceName string
	// Title overrides the TITLE line. Defaults to "Generated LUT: <SourceName>".
	Title string
}

// Cube is a sampled 3-D LUT.
type Cube struct {
	Size     int
	Title    string
	Comments []string
	// Data holds Size³ samples in file order (red fastest).
	Data []transform.RGB
	// NonFiniteSamples counts values coerced while sampling.
	NonFiniteSamples int
}

// Generate samples s on a size×size×size grid spanning [0,1]³.
func Generate(s Sampler, size int, opts Options) (*Cube, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidSize, size, MinSize, MaxSize)
	}

	tool := opts.Tool
	if tool == "" {
		tool = DefaultTool
	}
	name := oneLine(opts.SourceName)
	title := oneLine(opts.Title)
	if title == "" {
		title = "Generated LUT"
		if name != "" {
			title += ": " + name
		}
	}

	cube := &Cube{
		Size:     size,
		Title:    title,
		Comments: []string{"Created by " + oneLine(tool)},
		Data:     make([]transform.RGB, 0, size*size*size),
	}
	if name != "" {
		cube.Comments = append(cube.Comments, "Source image: "+name)
	}

	step := 1 / float64(size-1)
	for b := 0; b < size; b++ {
		for g := 0; g < size; g++ {
			for r := 0; r < size; r++ {
				in := transform.RGB{R: float64(r) * step, G: float64(g) * step, B: float64(b) * step}
				out, n := s.ApplyCounted(in)
				out, k := finite(out)
				cube.NonFiniteSamples += n + k
				cube.Data = append(cube.Data, out)
			}
		}
	}
	return cube, nil
}

// Rows returns the number of data rows, Size³.
func (c *Cube) Rows() int {
	return c.Size * c.Size * c.Size
}

// At returns the sample for grid indices (r, g, b).
func (c *Cube) At(r, g, b int) transform.RGB {
	return c.Data[(b*c.Size+g)*c.Size+r]
}

// WriteTo writes the cube document to w.
func (c *Cube) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	for _, line := range c.Comments {
		fmt.Fprintf(bw, "# %s\n", line)
	}
	fmt.Fprintf(bw, "TITLE \"%s\"\n", oneLine(c.Title))
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", c.Size)
	bw.WriteString("DOMAIN_MIN 0.0 0.0 0.0\n")
	bw.WriteString("DOMAIN_MAX 1.0 1.0 1.0\n")

	row := make([]byte, 0, 32)
	for _, v := range c.Data {
		v, _ = finite(v)
		row = row[:0]
		row = strconv.AppendFloat(row, v.R, 'f', 6, 64)
		row = append(row, ' ')
		row = strconv.AppendFloat(row, v.G, 'f', 6, 64)
		row = append(row, ' ')
		row = strconv.AppendFloat(row, v.B, 'f', 6, 64)
		row = append(row, '\n')
		if _, err := bw.Write(row); err != nil {
			return cw.n, fmt.Errorf("write LUT row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flush LUT: %w", err)
	}
	return cw.n, nil
}

// Bytes renders the cube document.
func (c *Cube) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = c.WriteTo(&buf)
	return buf.Bytes()
}

func finite(c transform.RGB) (transform.RGB, int) {
	var n int
	fix := func(v float64) float64 {
		switch {
		case math.IsNaN(v), math.IsInf(v, -1):
			n++
			return 0
		case math.IsInf(v, 1):
			n++
			return 1
		}
		return math.Min(math.Max(v, 0), 1)
	}
	return transform.RGB{R: fix(c.R), G: fix(c.G), B: fix(c.B)}, n
}

// oneLine keeps header text on a single line and out of the TITLE quoting.
// Cube readers take the quoted title literally, so quotes and backslashes are
// replaced rather than escaped.
func oneLine(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '"':
			return '\''
		case r == '\\':
			return '/'
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
