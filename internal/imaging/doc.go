// Package imaging provides the raster operations of the scan pipeline.
//
// It normalizes decoded images into owned 8-bit NRGBA buffers, loads and
// caches images from disk with EXIF orientation applied, extracts binary
// edge maps, resamples a source image through a perspective transform, and
// encodes results as base64 PNG for the host.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Images returned by this package always have bounds starting at (0,0).
//
// # Immutability
//
// No function mutates its input image. Each stage that transforms an image
// returns a new buffer, so a source image can be shared by concurrent
// detection and rectification calls.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless.
//
// # Error Handling
//
// Invalid input (nil images, non-positive dimensions, short pixel buffers,
// files whose header declares more than MaxOutputPixels pixels) yields a
// scanerr validation error. Output buffers that would exceed
// MaxOutputPixels yield a scanerr resampling error; no partial image is
// ever returned.
package imaging
