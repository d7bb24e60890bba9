// Package imaging loads source photos and shows what an edit does to them.
//
// It backs the before/after preview: a downscaled rendering of the photo with
// a composed transform.Transform applied, and color probes that report a
// pixel (or a hex color) before and after the edit. It never writes export
// artifacts; those come from the lut and preset packages.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Preview, Apply and the probe
// functions do not modify their inputs and may run concurrently.
//
// # Color Representation
//
// Probe results report colors as:
//   - Hex: 6-character format "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-359), Saturation (0-100), Lightness (0-100)
//
// Partially transparent pixels are un-premultiplied before the edit runs, so
// the edit sees the same color a viewer does.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Malformed hex colors
//   - Preview sizes outside 1-MaxPreviewDim
//   - File I/O and decode errors during image loading
package imaging
