package vision

import (
	"fmt"
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// Native is the pure-Go backend.
type Native struct{}

var _ Backend = Native{}

// Name implements Backend.
func (Native) Name() string { return "native" }

// EdgeDetect implements Backend.
func (Native) EdgeDetect(img image.Image) (*imaging.EdgeMap, error) {
	return imaging.ExtractEdges(img)
}

// FindContours implements Backend.
func (Native) FindContours(edges *imaging.EdgeMap) []geometry.Contour {
	return traceContours(edges)
}

// ApproxPolygon implements Backend.
func (Native) ApproxPolygon(c geometry.Contour, epsilon float64) geometry.Contour {
	return geometry.ApproxPolygon(c, epsilon)
}

// SolvePerspective implements Backend.
func (Native) SolvePerspective(src, dst geometry.CornerSet) (geometry.Homography, error) {
	return geometry.SolvePerspective(src, dst)
}

// WarpPerspective implements Backend.
func (Native) WarpPerspective(src *image.NRGBA, h geometry.Homography, width, height int, interp imaging.Interpolation) (*image.NRGBA, error) {
	inv, err := h.Inverse()
	if err != nil {
		return nil, scanerr.Degenerate("perspective transform is not invertible", err)
	}
	out, err := imaging.WarpPerspective(src, inv, width, height, interp)
	if err != nil {
		return nil, fmt.Errorf("native warp: %w", err)
	}
	return out, nil
}
