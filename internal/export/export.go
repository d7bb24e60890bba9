// Package export turns an edit record into a downloadable artifact (a target
// preset or a cube LUT) and hands it to a Sink.
//
// Every request passes through params.Sanitize before anything else runs, so
// records built by hand get the same clamping as parsed ones. A Controller
// numbers its exports; when a newer export has been requested by the time an
// older one finishes, the older result is dropped with ErrSuperseded and never
// reaches the sink.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ironsheep/preset-lut-mcp/internal/lut"
	"github.com/ironsheep/preset-lut-mcp/internal/params"
	"github.com/ironsheep/preset-lut-mcp/internal/preset"
	"github.com/ironsheep/preset-lut-mcp/internal/transform"
)

// Mode selects the artifact kind.
type Mode string

const (
	ModePreset Mode = "preset"
	ModeLUT    Mode = "lut"
)

// CubeMIMEType is the content type of .cube downloads.
const CubeMIMEType = "text/plain"

var (
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid export request")
	// ErrSuperseded is returned for an export that finished after a newer one
	// was requested. Its artifact is discarded.
	ErrSuperseded = errors.New("export superseded by a newer request")
)

// ParseMode resolves "preset" or "lut", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePreset, ModeLUT:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
}

// Request describes one export.
type Request struct {
	Params params.EditingParameters `json:"params"`
	Mode   Mode                     `json:"mode" validate:"required,oneof=preset lut"`
	// Target is required in preset mode. Aliases accepted by
	// preset.ParseTarget are resolved.
	Target preset.Target `json:"target,omitempty" validate:"required_if=Mode preset"`
	// ImageName is the source image's file name, used for the download name.
	ImageName string `json:"image_name,omitempty" validate:"max=512"`
	// LUTSize overrides the controller's grid size in LUT mode.
	LUTSize int `json:"lut_size,omitempty" validate:"omitempty,min=2,max=65"`
}

// Artifact is a finished export.
type Artifact struct {
	ID         uuid.UUID     `json:"id"`
	Filename   string        `json:"filename"`
	MIMEType   string        `json:"mime_type"`
	Content    []byte        `json:"-"`
	Size       int           `json:"size"`
	Mode       Mode          `json:"mode"`
	Target     preset.Target `json:"target,omitempty"`
	Generation uint64        `json:"generation"`
	// NonFiniteSamples counts coerced values while sampling a LUT.
	NonFiniteSamples int `json:"non_finite_samples,omitempty"`
	// Dropped lists edit fields the target format cannot carry.
	Dropped []string `json:"dropped,omitempty"`
	// Path is set by sinks that write to disk.
	Path string `json:"path,omitempty"`
}

// Result is delivered on the channel returned by Submit.
type Result struct {
	Artifact *Artifact
	Err      error
}

// Options configure a Controller.
type Options struct {
	// Tool names the generator inside produced files.
	Tool string
	// LUTSize is the default grid size. Zero means lut.DefaultSize.
	LUTSize int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Controller builds artifacts and delivers the current one to its sink.
// It is safe for concurrent use.
type Controller struct {
	sink     Sink
	opts     Options
	log      *slog.Logger
	validate *validator.Validate

	gen atomic.Uint64
	mu  sync.Mutex // orders the staleness check with delivery

	build func(Request) (*Artifact, error)
}

// New returns a controller delivering to sink.
func New(sink Sink, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LUTSize == 0 {
		opts.LUTSize = lut.DefaultSize
	}
	if opts.Tool == "" {
		opts.Tool = lut.DefaultTool
	}
	c := &Controller{
		sink:     sink,
		opts:     opts,
		log:      opts.Logger,
		validate: validator.New(),
	}
	c.build = c.Build
	return c
}

// Generation returns the number of the most recently requested export.
func (c *Controller) Generation() uint64 {
	return c.gen.Load()
}

// Build produces the artifact for req without delivering it.
func (c *Controller) Build(req Request) (*Artifact, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	p := params.Sanitize(req.Params)

	switch req.Mode {
	case ModeLUT:
		return c.buildLUT(p, req)
	default:
		return c.buildPreset(p, req)
	}
}

func (c *Controller) buildLUT(p params.EditingParameters, req Request) (*Artifact, error) {
	size := req.LUTSize
	if size == 0 {
		size = c.opts.LUTSize
	}
	cube, err := lut.Generate(transform.Compose(p), size, lut.Options{
		Tool:       c.opts.Tool,
		SourceName: req.ImageName,
	})
	if err != nil {
		return nil, fmt.Errorf("generate lut: %w", err)
	}
	if cube.NonFiniteSamples > 0 {
		c.log.Warn("non-finite LUT samples coerced", "count", cube.NonFiniteSamples, "size", size)
	}

	filename := Filename(req.ImageName, ModeLUT, "")
	return newArtifact(filename, CubeMIMEType, cube.Bytes(), ModeLUT, "", cube.NonFiniteSamples, nil), nil
}

func (c *Controller) buildPreset(p params.EditingParameters, req Request) (*Artifact, error) {
	target, err := preset.ParseTarget(string(req.Target))
	if err != nil {
		c.log.Error("export requested for unsupported target", "target", req.Target)
		return nil, err
	}
	doc, err := preset.Serialize(p, target, preset.Meta{
		Name: presetName(req.ImageName),
		Tool: c.opts.Tool,
	})
	if err != nil {
		return nil, err
	}

	filename := Filename(req.ImageName, ModePreset, target)
	return newArtifact(filename, doc.MIMEType, doc.Content, ModePreset, target, 0, doc.Dropped), nil
}

var artifactNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ironsheep/preset-lut-mcp/artifact"))

func newArtifact(filename, mime string, content []byte, mode Mode, target preset.Target, nonFinite int, dropped []string) *Artifact {
	return &Artifact{
		ID:               uuid.NewSHA1(artifactNamespace, append([]byte(filename+"\x00"), content...)),
		Filename:         filename,
		MIMEType:         mime,
		Content:          content,
		Size:             len(content),
		Mode:             mode,
		Target:           target,
		NonFiniteSamples: nonFinite,
		Dropped:          dropped,
	}
}

// presetName is the image name without directory or extension.
func presetName(imageName string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(imageName), `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Export builds req and delivers it, unless a newer export was requested
// meanwhile (ErrSuperseded).
func (c *Controller) Export(ctx context.Context, req Request) (*Artifact, error) {
	return c.run(ctx, c.gen.Add(1), req)
}

// Submit runs Export on its own goroutine. The generation is taken before
// Submit returns, so submission order decides which export is current. The
// channel receives exactly one Result and is then closed.
func (c *Controller) Submit(ctx context.Context, req Request) <-chan Result {
	gen := c.gen.Add(1)
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		a, err := c.run(ctx, gen, req)
		ch <- Result{Artifact: a, Err: err}
	}()
	return ch
}

func (c *Controller) run(ctx context.Context, gen uint64, req Request) (*Artifact, error) {
	a, err := c.build(req)
	if err != nil {
		return nil, err
	}
	a.Generation = gen

	c.mu.Lock()
	defer c.mu.Unlock()

	if cur := c.gen.Load(); cur != gen {
		c.log.Debug("dropping stale export", "file", a.Filename, "generation", gen, "current", cur)
		return nil, ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.sink.Deliver(ctx, a); err != nil {
		return nil, fmt.Errorf("deliver %s: %w", a.Filename, err)
	}

	c.log.Info("export delivered",
		"file", a.Filename,
		"size", humanize.Bytes(uint64(a.Size)),
		"mode", a.Mode,
		"generation", gen,
	)
	return a, nil
}
