//go:build gocv

package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// OpenCV is the backend built on gocv. It requires OpenCV 4 at build and
// run time and is selected with the gocv build tag.
type OpenCV struct{}

var _ Backend = OpenCV{}

// Default returns the backend selected at build time.
func Default() Backend {
	return OpenCV{}
}

// Name implements Backend.
func (OpenCV) Name() string { return "opencv" }

// EdgeDetect implements Backend.
func (OpenCV) EdgeDetect(img image.Image) (*imaging.EdgeMap, error) {
	src, err := imaging.Prepare(img)
	if err != nil {
		return nil, err
	}
	mat, err := nrgbaToMat(src)
	if err != nil {
		return nil, scanerr.Internal("failed to convert image", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBAToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, imaging.EdgeLowThreshold, imaging.EdgeHighThreshold)

	out, err := edges.ToImage()
	if err != nil {
		return nil, scanerr.Internal("failed to read edge map", err)
	}
	g, ok := out.(*image.Gray)
	if !ok {
		return nil, scanerr.Internal(fmt.Sprintf("unexpected edge map type %T", out), nil)
	}
	return imaging.EdgeMapFromGray(g), nil
}

// FindContours implements Backend.
func (OpenCV) FindContours(edges *imaging.EdgeMap) []geometry.Contour {
	mat, err := gocv.NewMatFromBytes(edges.Height, edges.Width, gocv.MatTypeCV8UC1, append([]byte(nil), edges.Pix...))
	if err != nil {
		return nil
	}
	defer mat.Close()

	found := gocv.FindContours(mat, gocv.RetrievalList, gocv.ChainApproxNone)
	defer found.Close()

	contours := make([]geometry.Contour, 0, found.Size())
	for _, pts := range found.ToPoints() {
		if len(pts) > 1 {
			contours = append(contours, geometry.Contour(pts))
		}
	}
	return contours
}

// ApproxPolygon implements Backend.
func (OpenCV) ApproxPolygon(c geometry.Contour, epsilon float64) geometry.Contour {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()

	approx := gocv.ApproxPolyDP(pv, epsilon, true)
	defer approx.Close()

	return geometry.Contour(approx.ToPoints())
}

// SolvePerspective implements Backend.
func (OpenCV) SolvePerspective(src, dst geometry.CornerSet) (geometry.Homography, error) {
	if src.Degenerate() || dst.Degenerate() {
		return geometry.Homography{}, geometry.ErrDegenerate
	}

	sv := gocv.NewPoint2fVectorFromPoints(toPoint2f(src))
	defer sv.Close()
	dv := gocv.NewPoint2fVectorFromPoints(toPoint2f(dst))
	defer dv.Close()

	m := gocv.GetPerspectiveTransform2f(sv, dv)
	defer m.Close()

	var h geometry.Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			h[r*3+c] = m.GetDoubleAt(r, c)
		}
	}
	if h[8] == 0 {
		return geometry.Homography{}, geometry.ErrDegenerate
	}
	for i := range h {
		h[i] /= h[8]
	}
	return h, nil
}

// WarpPerspective implements Backend.
func (OpenCV) WarpPerspective(src *image.NRGBA, h geometry.Homography, width, height int, interp imaging.Interpolation) (*image.NRGBA, error) {
	if src == nil {
		return nil, scanerr.Validation("source image is nil", nil)
	}
	if width < 1 || height < 1 || int64(width)*int64(height) > imaging.MaxOutputPixels {
		return nil, scanerr.Resampling(fmt.Sprintf("invalid output size %dx%d", width, height), nil)
	}

	mat, err := nrgbaToMat(src)
	if err != nil {
		return nil, scanerr.Internal("failed to convert image", err)
	}
	defer mat.Close()

	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer m.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, h[r*3+c])
		}
	}

	flags := gocv.InterpolationLinear
	if interp == imaging.Nearest {
		flags = gocv.InterpolationNearestNeighbor
	}

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspectiveWithParams(mat, &warped, m, image.Pt(width, height), flags, gocv.BorderReplicate, color.RGBA{})
	if warped.Empty() {
		return nil, scanerr.Resampling("warp produced no output", nil)
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(out.Pix, warped.ToBytes())
	return out, nil
}

// nrgbaToMat copies src into a 4-channel Mat. Channel order is kept as RGBA;
// every operation applied to it is either channel-independent or told the
// order explicitly.
func nrgbaToMat(src *image.NRGBA) (gocv.Mat, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := src.PixOffset(b.Min.X, y)
		buf = append(buf, src.Pix[i:i+w*4]...)
	}
	return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, buf)
}

func toPoint2f(c geometry.CornerSet) []gocv.Point2f {
	out := make([]gocv.Point2f, 4)
	for i, p := range c {
		out[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}
	return out
}
