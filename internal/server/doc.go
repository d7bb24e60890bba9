// Package server implements the MCP (Model Context Protocol) server that turns
// photographic edit records into presets and LUTs.
//
// A client (typically a language model that has just looked at a photo and
// proposed an edit) sends an edit record; the server normalizes it, previews
// it, and exports it for Lightroom, CapCut, Premiere Pro, After Effects, or as
// a generic cube LUT.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Edit Records:
//   - params_default: Identity edit and field ranges
//   - params_normalize: Clamp/clean a record, list active pipeline stages
//
// Export:
//   - export_targets: Supported targets, extensions, MIME types
//   - preset_export: Target preset document (.xmp or .json)
//   - lut_generate: Cube 3D LUT
//   - color_probe: A hex color before and after the edit
//
// Source Images:
//   - image_load: Load image and get metadata
//   - image_preview: Edited (or side-by-side) base64 PNG preview
//   - image_sample_color: Pixel color before and after the edit
//   - image_sample_colors_multi: Sample multiple points
//
// # Edit Records
//
// Every tool taking a "params" argument accepts either a JSON object or a
// string holding JSON text, optionally in a Markdown code fence. A missing or
// unparseable record is replaced by the identity edit and the tool result
// carries a "warnings" list saying so; it is not an error.
//
// # Exports
//
// Export tools return the artifact's download file name, MIME type, size and
// content. When the server is configured with an output directory, the file is
// also written there and its path reported.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses with:
//   - code: -32602 (undecodable arguments), -32000 (tool execution failure),
//     or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv := server.New(cfg)
//	return srv.Run()
package server
