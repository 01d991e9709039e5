package rectify

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
	"github.com/ironsheep/docscan-mcp/internal/vision"
)

// Options tune a rectification.
type Options struct {
	// Interpolation selects the resampling filter. The zero value is
	// bilinear.
	Interpolation imaging.Interpolation

	// MaxDimension, when positive, shrinks the rectified page to fit
	// within MaxDimension×MaxDimension after warping.
	MaxDimension int
}

// Result is a rectified page.
type Result struct {
	Image *image.NRGBA

	// Width and Height are the dimensions of Image.
	Width  int
	Height int

	// WarpWidth and WarpHeight are the dimensions derived from the corner
	// edge lengths, before any MaxDimension fitting.
	WarpWidth  int
	WarpHeight int

	// SourceCorners are the corners in source pixel space.
	SourceCorners geometry.CornerSet
}

// Rectifier flattens a quadrilateral region of a photo into an upright
// rectangular image. It is stateless and safe for concurrent use.
type Rectifier struct {
	backend vision.Backend
}

// New returns a Rectifier that runs on backend. A nil backend selects
// vision.Default().
func New(backend vision.Backend) *Rectifier {
	if backend == nil {
		backend = vision.Default()
	}
	return &Rectifier{backend: backend}
}

// Rectify flattens img using the default backend and options.
func Rectify(img image.Image, corners geometry.CornerSet) (*Result, error) {
	return New(nil).Rectify(img, corners, Options{})
}

// OutputSize returns the rectified dimensions for corners in pixel space:
// the longer of each pair of opposite edges, rounded, and at least 1.
func OutputSize(px geometry.CornerSet) (width, height int) {
	widthTop := geometry.Dist(px[geometry.TopLeft], px[geometry.TopRight])
	widthBottom := geometry.Dist(px[geometry.BottomLeft], px[geometry.BottomRight])
	heightLeft := geometry.Dist(px[geometry.TopLeft], px[geometry.BottomLeft])
	heightRight := geometry.Dist(px[geometry.TopRight], px[geometry.BottomRight])

	width = max(int(math.Round(math.Max(widthTop, widthBottom))), 1)
	height = max(int(math.Round(math.Max(heightLeft, heightRight))), 1)
	return width, height
}

// Rectify maps the region of img bounded by corners onto an axis-aligned
// rectangle.
//
// corners must be in canonical order and normalized space; they are not
// re-ordered. The output size comes from OutputSize on the corners scaled
// by the image size. The homography maps the corners, clamped to valid
// pixel indices, onto (0,0), (w-1,0), (w-1,h-1), (0,h-1), so corners on the
// full image bounds reproduce img exactly.
//
// # Errors
//
//   - validation: img is nil or empty, or a corner lies outside [0,1]
//   - degenerate: the corners are coincident or three are collinear
//   - resampling: the output buffer cannot be produced
func (r *Rectifier) Rectify(img image.Image, corners geometry.CornerSet, opts Options) (*Result, error) {
	src, err := owned(img)
	if err != nil {
		return nil, err
	}
	if err := corners.Validate(); err != nil {
		return nil, scanerr.Validation(err.Error(), err)
	}

	b := src.Bounds()
	px := corners.Denormalize(b.Dx(), b.Dy())
	if px.Degenerate() {
		return nil, scanerr.Degenerate("cannot rectify: degenerate region", geometry.ErrDegenerate)
	}
	width, height := OutputSize(px)

	from := clampToPixels(px, b.Dx(), b.Dy())
	if from.Degenerate() {
		from = px
	}
	right, bottom := math.Max(float64(width-1), 1), math.Max(float64(height-1), 1)
	to := geometry.CornerSet{
		{X: 0, Y: 0},
		{X: right, Y: 0},
		{X: right, Y: bottom},
		{X: 0, Y: bottom},
	}

	h, err := r.backend.SolvePerspective(from, to)
	if err != nil {
		return nil, scanerr.Degenerate("cannot rectify: degenerate region", err)
	}

	out, err := r.backend.WarpPerspective(src, h, width, height, opts.Interpolation)
	if err != nil {
		if scanerr.KindOf(err) == scanerr.KindInternal {
			return nil, scanerr.Resampling(fmt.Sprintf("failed to render %dx%d page", width, height), err)
		}
		return nil, err
	}

	res := &Result{
		WarpWidth:     width,
		WarpHeight:    height,
		SourceCorners: px,
	}
	out = imaging.Fit(out, opts.MaxDimension)
	res.Image = out
	res.Width, res.Height = out.Bounds().Dx(), out.Bounds().Dy()
	return res, nil
}

func owned(img image.Image) (*image.NRGBA, error) {
	if src, ok := img.(*image.NRGBA); ok && src != nil && src.Bounds().Min == (image.Point{}) {
		if err := imaging.Validate(src); err != nil {
			return nil, err
		}
		return src, nil
	}
	return imaging.Prepare(img)
}

func clampToPixels(px geometry.CornerSet, width, height int) geometry.CornerSet {
	maxX, maxY := float64(width-1), float64(height-1)
	var out geometry.CornerSet
	for i, p := range px {
		out[i] = geometry.Point{
			X: math.Max(0, math.Min(p.X, maxX)),
			Y: math.Max(0, math.Min(p.Y, maxY)),
		}
	}
	return out
}
