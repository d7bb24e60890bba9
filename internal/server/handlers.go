package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/preset-lut-mcp/internal/export"
	"github.com/ironsheep/preset-lut-mcp/internal/imaging"
	"github.com/ironsheep/preset-lut-mcp/internal/lut"
	"github.com/ironsheep/preset-lut-mcp/internal/params"
	"github.com/ironsheep/preset-lut-mcp/internal/preset"
	"github.com/ironsheep/preset-lut-mcp/internal/transform"
)

// errInvalidArgs marks tool arguments that could not be decoded.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "preset_export", "lut_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Undecodable arguments return -32602; other tool errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var p ToolCallParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(p.Name, p.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidArgs) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		s.log.Warn("tool failed", "tool", p.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Edit Records
	case "params_default":
		return s.handleParamsDefault(args)
	case "params_normalize":
		return s.handleParamsNormalize(args)

	// Export
	case "export_targets":
		return s.handleExportTargets(args)
	case "preset_export":
		return s.handlePresetExport(args)
	case "lut_generate":
		return s.handleLUTGenerate(args)
	case "color_probe":
		return s.handleColorProbe(args)

	// Source Images
	case "image_load":
		return s.handleImageLoad(args)
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Edit Record Handlers ===

type paramsDefaultResult struct {
	Params params.EditingParameters `json:"params"`
	Fields []params.Field           `json:"fields"`
	Colors []params.ColorName       `json:"hsl_colors"`
}

func (s *Server) handleParamsDefault(json.RawMessage) (interface{}, error) {
	return &paramsDefaultResult{
		Params: params.Default(),
		Fields: params.Fields(),
		Colors: params.ColorNames(),
	}, nil
}

type paramsArgs struct {
	Params json.RawMessage `json:"params"`
}

type paramsNormalizeResult struct {
	Params   params.EditingParameters `json:"params"`
	Stages   []string                 `json:"stages"`
	Identity bool                     `json:"identity"`
	Warnings []string                 `json:"warnings,omitempty"`
}

func (s *Server) handleParamsNormalize(args json.RawMessage) (interface{}, error) {
	var a paramsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, warnings := params.Decode(a.Params)
	t := transform.Compose(p)
	return &paramsNormalizeResult{
		Params:   p,
		Stages:   t.Stages(),
		Identity: t.IsIdentity(),
		Warnings: warnings,
	}, nil
}

// === Export Handlers ===

type targetInfo struct {
	Target    string `json:"target"`
	Slug      string `json:"slug"`
	Extension string `json:"extension"`
	MIMEType  string `json:"mime_type"`
}

type lutInfo struct {
	Extension   string `json:"extension"`
	MIMEType    string `json:"mime_type"`
	MinSize     int    `json:"min_size"`
	MaxSize     int    `json:"max_size"`
	DefaultSize int    `json:"default_size"`
}

type exportTargetsResult struct {
	Presets []targetInfo `json:"presets"`
	LUT     lutInfo      `json:"lut"`
}

func (s *Server) handleExportTargets(json.RawMessage) (interface{}, error) {
	res := &exportTargetsResult{
		LUT: lutInfo{
			Extension:   ".cube",
			MIMEType:    export.CubeMIMEType,
			MinSize:     lut.MinSize,
			MaxSize:     lut.MaxSize,
			DefaultSize: s.cfg.LUTSize,
		},
	}
	for _, t := range preset.Targets() {
		res.Presets = append(res.Presets, targetInfo{
			Target:    string(t),
			Slug:      t.Slug(),
			Extension: t.Extension(),
			MIMEType:  t.MIMEType(),
		})
	}
	return res, nil
}

type exportResult struct {
	*export.Artifact
	Content  string   `json:"content,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type presetExportArgs struct {
	Params         json.RawMessage `json:"params"`
	Target         string          `json:"target"`
	ImageName      string          `json:"image_name"`
	IncludeContent *bool           `json:"include_content"`
}

func (s *Server) handlePresetExport(args json.RawMessage) (interface{}, error) {
	var a presetExportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, warnings := params.Decode(a.Params)

	artifact, err := s.controller.Export(context.Background(), export.Request{
		Params:    p,
		Mode:      export.ModePreset,
		Target:    preset.Target(a.Target),
		ImageName: a.ImageName,
	})
	if err != nil {
		return nil, err
	}
	return newExportResult(artifact, a.IncludeContent, warnings), nil
}

type lutGenerateArgs struct {
	Params         json.RawMessage `json:"params"`
	ImageName      string          `json:"image_name"`
	Size           int             `json:"size"`
	IncludeContent *bool           `json:"include_content"`
}

func (s *Server) handleLUTGenerate(args json.RawMessage) (interface{}, error) {
	var a lutGenerateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, warnings := params.Decode(a.Params)

	artifact, err := s.controller.Export(context.Background(), export.Request{
		Params:    p,
		Mode:      export.ModeLUT,
		ImageName: a.ImageName,
		LUTSize:   a.Size,
	})
	if err != nil {
		return nil, err
	}
	if artifact.NonFiniteSamples > 0 {
		warnings = append(warnings, fmt.Sprintf("%d non-finite samples were replaced", artifact.NonFiniteSamples))
	}
	return newExportResult(artifact, a.IncludeContent, warnings), nil
}

func newExportResult(a *export.Artifact, include *bool, warnings []string) *exportResult {
	res := &exportResult{Artifact: a, Warnings: warnings}
	if include == nil || *include {
		res.Content = string(a.Content)
	}
	return res
}

type colorProbeArgs struct {
	Params json.RawMessage `json:"params"`
	Hex    string          `json:"hex"`
}

type probeResult struct {
	*imaging.ProbeResult
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleColorProbe(args json.RawMessage) (interface{}, error) {
	var a colorProbeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, warnings := params.Decode(a.Params)
	res, err := imaging.ProbeHex(transform.Compose(p), a.Hex)
	if err != nil {
		return nil, err
	}
	return &probeResult{ProbeResult: res, Warnings: warnings}, nil
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imagePreviewArgs struct {
	Path       string          `json:"path"`
	Params     json.RawMessage `json:"params"`
	MaxDim     int             `json:"max_dim"`
	SideBySide bool            `json:"side_by_side"`
}

type previewResult struct {
	*imaging.PreviewResult
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxDim == 0 {
		a.MaxDim = s.cfg.PreviewMaxDim
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, warnings := params.Decode(a.Params)
	res, err := imaging.Preview(img, transform.Compose(p), imaging.PreviewOptions{
		MaxDim:     a.MaxDim,
		SideBySide: a.SideBySide,
	})
	if err != nil {
		return nil, err
	}
	return &previewResult{PreviewResult: res, Warnings: warnings}, nil
}

type imageSampleColorArgs struct {
	Path   string          `json:"path"`
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Params json.RawMessage `json:"params"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, warnings := params.Decode(a.Params)
	res, err := imaging.SampleTransformed(img, a.X, a.Y, transform.Compose(p))
	if err != nil {
		return nil, err
	}
	return &probeResult{ProbeResult: res, Warnings: warnings}, nil
}

type pointArg struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

type imageSampleColorsMultiArgs struct {
	Path   string          `json:"path"`
	Points []pointArg      `json:"points"`
	Params json.RawMessage `json:"params"`
}

type multiProbeResult struct {
	Samples  []imaging.ProbeResult `json:"samples"`
	Warnings []string              `json:"warnings,omitempty"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, pt := range a.Points {
		points[i] = imaging.LabeledPoint{X: pt.X, Y: pt.Y, Label: pt.Label}
	}

	p, warnings := params.Decode(a.Params)
	samples, err := imaging.SampleTransformedMulti(img, points, transform.Compose(p))
	if err != nil {
		return nil, err
	}
	return &multiProbeResult{Samples: samples, Warnings: warnings}, nil
}
