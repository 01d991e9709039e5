package detection

import (
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/vision"
)

// DefaultMaxDimension is the longest side, in pixels, that detection works
// at. Larger photos are downscaled first.
const DefaultMaxDimension = 500

// Result is the outcome of corner detection on one image.
type Result struct {
	// Corners are the page corners in canonical order and normalized space.
	Corners geometry.CornerSet `json:"corners"`

	// FallbackUsed is true when no quadrilateral was found and Corners
	// are the full image bounds.
	FallbackUsed bool `json:"fallback_used"`

	// Candidates is the number of contours tested (at most MaxCandidates).
	Candidates int `json:"candidates"`

	// WorkingWidth and WorkingHeight are the dimensions detection ran at
	// after downscaling.
	WorkingWidth  int `json:"working_width"`
	WorkingHeight int `json:"working_height"`

	// Backend names the vision backend used.
	Backend string `json:"backend"`
}

// Detector finds the four corners of a photographed page.
//
// A Detector holds no per-call state and is safe for concurrent use.
type Detector struct {
	backend vision.Backend
	maxDim  int
}

// NewDetector returns a Detector that runs on backend and downscales images
// so their longest side is at most maxDim. A maxDim of 0 or less disables
// downscaling. A nil backend selects vision.Default().
func NewDetector(backend vision.Backend, maxDim int) *Detector {
	if backend == nil {
		backend = vision.Default()
	}
	return &Detector{backend: backend, maxDim: maxDim}
}

// Backend returns the vision backend in use.
func (d *Detector) Backend() vision.Backend {
	return d.backend
}

// Detect runs the full detection chain on img: edge extraction, contour
// ranking, quadrilateral selection and corner ordering.
//
// When no candidate approximates to four vertices, or the ordered corners
// enclose no area, the result holds geometry.FullBounds() with FallbackUsed
// set; that is not an error.
// Returns a validation error if img is nil or empty.
func (d *Detector) Detect(img image.Image) (*Result, error) {
	work, err := d.workingImage(img)
	if err != nil {
		return nil, err
	}
	b := work.Bounds()

	edges, err := d.backend.EdgeDetect(work)
	if err != nil {
		return nil, err
	}

	candidates := FindContours(d.backend, edges)
	result := &Result{
		Candidates:    len(candidates),
		WorkingWidth:  b.Dx(),
		WorkingHeight: b.Dy(),
		Backend:       d.backend.Name(),
	}

	quad, ok := SelectDocumentQuad(d.backend, candidates)
	if !ok {
		result.Corners = geometry.FullBounds()
		result.FallbackUsed = true
		return result, nil
	}

	corners := geometry.OrderCorners(quad).Normalize(b.Dx(), b.Dy())
	for i, p := range corners {
		corners[i] = p.Clamp01()
	}
	// A concave quad can label one vertex twice.
	if corners.Degenerate() {
		result.Corners = geometry.FullBounds()
		result.FallbackUsed = true
		return result, nil
	}
	result.Corners = corners
	return result, nil
}

// Edges returns the edge map detection would work on for img, at the
// detector's working resolution.
func (d *Detector) Edges(img image.Image) (*imaging.EdgeMap, error) {
	work, err := d.workingImage(img)
	if err != nil {
		return nil, err
	}
	return d.backend.EdgeDetect(work)
}

func (d *Detector) workingImage(img image.Image) (*image.NRGBA, error) {
	src, ok := img.(*image.NRGBA)
	if !ok || src.Bounds().Min != (image.Point{}) {
		var err error
		if src, err = imaging.Prepare(img); err != nil {
			return nil, err
		}
	} else if err := imaging.Validate(src); err != nil {
		return nil, err
	}
	work, _ := imaging.Downscale(src, d.maxDim)
	return work, nil
}
