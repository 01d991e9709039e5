// Package vision defines the image-processing capability the scan pipeline
// is built on, and its implementations.
//
// The Backend interface covers the five primitives the pipeline needs:
//
//   - EdgeDetect: color image to binary edge map
//   - FindContours: edge map to closed boundary curves
//   - ApproxPolygon: contour simplification
//   - SolvePerspective: 4-point homography
//   - WarpPerspective: inverse-mapped resampling
//
// # Backends
//
// Native is a pure-Go implementation built on the imaging and geometry
// packages; it needs no system libraries and is the default.
//
// OpenCV wraps gocv and is compiled only with the "gocv" build tag:
//
//	go build -tags gocv ./...
//
// Both satisfy the same contracts: edge maps are binary and sized like
// their input, contours are closed and never degenerate to a single point,
// and SolvePerspective reports geometry.ErrDegenerate rather than returning
// an unusable transform.
package vision
