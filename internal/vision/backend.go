package vision

import (
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Backend is the geometry and image-processing capability used by detection
// and rectification.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// EdgeDetect converts img to a binary edge map of the same size using
	// grayscale conversion, a 5x5 Gaussian blur and Canny hysteresis
	// thresholds (75, 200).
	EdgeDetect(img image.Image) (*imaging.EdgeMap, error)

	// FindContours returns the outer boundary of every connected edge
	// region, in no particular order. Single-point contours are dropped.
	FindContours(edges *imaging.EdgeMap) []geometry.Contour

	// ApproxPolygon simplifies a closed contour so that no point lies
	// farther than epsilon from the result.
	ApproxPolygon(c geometry.Contour, epsilon float64) geometry.Contour

	// SolvePerspective returns the homography mapping src onto dst.
	SolvePerspective(src, dst geometry.CornerSet) (geometry.Homography, error)

	// WarpPerspective renders a width×height image whose pixel (x, y)
	// is src sampled at h⁻¹(x, y), where h maps source to output.
	WarpPerspective(src *image.NRGBA, h geometry.Homography, width, height int, interp imaging.Interpolation) (*image.NRGBA, error)
}
