// Package imaging provides the raster primitives the grading engine is built on.
//
// This package implements loading and saving of page images, luminance
// conversion, Canny edge detection, rotation about the page centre, fixed
// rectangle cropping, rectangle intensity statistics and the debug overlay
// canvas. Every function accepts standard Go image.Image values and returns
// new images; inputs are never modified.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's Bounds().Min:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Luminance
//
// Numeric stages work on *image.Gray. Gray values are 8-bit luminance where
// 0 is black (ink) and 255 is white (paper).
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - File I/O errors during image loading or saving
//   - Unsupported or corrupt image encodings
package imaging
