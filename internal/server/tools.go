package server

import (
	"github.com/ironsheep/preset-lut-mcp/internal/imaging"
	"github.com/ironsheep/preset-lut-mcp/internal/lut"
	"github.com/ironsheep/preset-lut-mcp/internal/params"
	"github.com/ironsheep/preset-lut-mcp/internal/preset"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// paramsProperty describes the edit record argument shared by most tools.
func paramsProperty() map[string]interface{} {
	scalars := map[string]interface{}{}
	for _, f := range params.Fields() {
		scalars[f.Name] = map[string]interface{}{
			"type":    "number",
			"minimum": f.Min,
			"maximum": f.Max,
			"default": f.Neutral,
		}
	}
	colorNames := make([]string, 0, 8)
	for _, c := range params.ColorNames() {
		colorNames = append(colorNames, string(c))
	}
	pointList := map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "number"}},
		"description": "[input, output] pairs, 0-255",
	}
	scalars["hsl"] = map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"colorName":  map[string]interface{}{"type": "string", "enum": colorNames},
				"hue":        map[string]interface{}{"type": "number"},
				"saturation": map[string]interface{}{"type": "number"},
				"luminance":  map[string]interface{}{"type": "number"},
			},
			"required": []string{"colorName"},
		},
	}
	scalars["toneCurveRGB"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"points": pointList,
			"all":    pointList,
			"r":      pointList,
			"g":      pointList,
			"b":      pointList,
		},
	}

	return map[string]interface{}{
		"type":        []string{"object", "string"},
		"properties":  scalars,
		"description": "Edit record (object, or JSON text possibly in a ```json fence). Missing fields are neutral; out-of-range values are clamped. If absent or unparseable, the identity edit is used and a warning is returned.",
	}
}

func targetNames() []string {
	names := make([]string, 0, 4)
	for _, t := range preset.Targets() {
		names = append(names, string(t))
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Edit Records
		{
			Name:        "params_default",
			Description: "Return the identity edit record and the range of every adjustable field.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "params_normalize",
			Description: "Clamp and clean an edit record (HSL entries deduplicated, curve points sorted with endpoints added) and list the pipeline stages it activates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"params": paramsProperty(),
				},
				"required": []string{"params"},
			},
		},

		// Export
		{
			Name:        "export_targets",
			Description: "List the supported preset targets with their file extension and MIME type, plus the cube LUT format.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "preset_export",
			Description: "Serialize an edit record as a preset for Lightroom (.xmp), CapCut, Premiere Pro or After Effects (.json). Returns the document, its download file name, and the fields the target cannot carry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"params": paramsProperty(),
					"target": map[string]interface{}{
						"type":        "string",
						"enum":        targetNames(),
						"description": "Target application",
					},
					"image_name": map[string]interface{}{
						"type":        "string",
						"description": "Source image file name; the download name is derived from it",
					},
					"include_content": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the document text (default true)",
						"default":     true,
					},
				},
				"required": []string{"target"},
			},
		},
		{
			Name:        "lut_generate",
			Description: "Sample the edit on an N×N×N grid and return a .cube 3D LUT usable in any LUT-capable editor.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"params": paramsProperty(),
					"image_name": map[string]interface{}{
						"type":        "string",
						"description": "Source image file name; used for the title and download name",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"minimum":     lut.MinSize,
						"maximum":     lut.MaxSize,
						"description": "Grid size per axis (default from server config, normally 17)",
					},
					"include_content": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the cube text (default true)",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "color_probe",
			Description: "Show what the edit does to a single color given as hex.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"params": paramsProperty(),
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB or #RGB",
					},
				},
				"required": []string{"hex"},
			},
		},

		// Source Images
		{
			Name:        "image_load",
			Description: "Load an image file and return its name, dimensions and format. The image stays cached for previews and samples.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_preview",
			Description: "Render the image with the edit applied as a base64 PNG, optionally side by side with the original.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"params": paramsProperty(),
					"max_dim": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     imaging.MaxPreviewDim,
						"description": "Longest side in pixels (default from server config)",
					},
					"side_by_side": map[string]interface{}{
						"type":        "boolean",
						"description": "Put the original on the left and the edit on the right",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel before and after the edit, and the HSL range that affects it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"params": paramsProperty(),
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get before/after colors at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
					"params": paramsProperty(),
				},
				"required": []string{"path", "points"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
