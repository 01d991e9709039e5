package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// Interpolation selects how source pixels are sampled during resampling.
type Interpolation int

const (
	// Bilinear blends the four surrounding source pixels.
	Bilinear Interpolation = iota
	// Nearest takes the source pixel containing the sample point.
	Nearest
)

// String returns the interpolation name.
func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	default:
		return "bilinear"
	}
}

// ParseInterpolation parses "bilinear" or "nearest" (case-insensitive).
// The empty string selects Bilinear.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bilinear", "linear":
		return Bilinear, nil
	case "nearest":
		return Nearest, nil
	default:
		return Bilinear, fmt.Errorf("unknown interpolation %q", s)
	}
}

// WarpPerspective renders a width×height image by inverse mapping: each
// output pixel (x, y) is mapped through inv into src and sampled there.
// inv must map output coordinates to source pixel coordinates.
//
// Sample points outside src are clamped to its border. A width or height
// below 1, or an output larger than MaxOutputPixels, is a resampling error.
func WarpPerspective(src *image.NRGBA, inv geometry.Homography, width, height int, interp Interpolation) (*image.NRGBA, error) {
	if src == nil {
		return nil, scanerr.Validation("source image is nil", nil)
	}
	if width < 1 || height < 1 {
		return nil, scanerr.Resampling(fmt.Sprintf("invalid output size %dx%d", width, height), nil)
	}
	if int64(width)*int64(height) > MaxOutputPixels {
		return nil, scanerr.Resampling(
			fmt.Sprintf("output size %dx%d exceeds %d pixels", width, height, MaxOutputPixels), nil)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	sampler := sampleBilinear
	if interp == Nearest {
		sampler = sampleNearest
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				p, ok := inv.Apply(geometry.Point{X: float64(x), Y: float64(y)})
				if !ok {
					continue
				}
				i := dst.PixOffset(x, y)
				sampler(src, p.X, p.Y, dst.Pix[i:i+4:i+4])
			}
		}
	})

	return dst, nil
}

// sampleNearest writes the source pixel nearest to (sx, sy) into out.
func sampleNearest(src *image.NRGBA, sx, sy float64, out []uint8) {
	b := src.Bounds()
	x := clamp(int(math.Round(sx)), 0, b.Dx()-1)
	y := clamp(int(math.Round(sy)), 0, b.Dy()-1)
	i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
	copy(out, src.Pix[i:i+4])
}

// sampleBilinear blends the four pixels around (sx, sy) in RGB with
// go-colorful and interpolates alpha linearly.
func sampleBilinear(src *image.NRGBA, sx, sy float64, out []uint8) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	sx = math.Max(0, math.Min(sx, float64(w-1)))
	sy = math.Max(0, math.Min(sy, float64(h-1)))
	x0, y0 := int(sx), int(sy)
	x1, y1 := min(x0+1, w-1), min(y0+1, h-1)
	fx, fy := sx-float64(x0), sy-float64(y0)

	c00, a00 := pixelAt(src, x0, y0)
	c10, a10 := pixelAt(src, x1, y0)
	c01, a01 := pixelAt(src, x0, y1)
	c11, a11 := pixelAt(src, x1, y1)

	top := c00.BlendRgb(c10, fx)
	bottom := c01.BlendRgb(c11, fx)
	r, g, bl := top.BlendRgb(bottom, fy).RGB255()

	alpha := (a00*(1-fx)+a10*fx)*(1-fy) + (a01*(1-fx)+a11*fx)*fy

	out[0], out[1], out[2] = r, g, bl
	out[3] = uint8(math.Round(math.Max(0, math.Min(255, alpha))))
}

func pixelAt(src *image.NRGBA, x, y int) (colorful.Color, float64) {
	b := src.Bounds()
	i := src.PixOffset(x+b.Min.X, y+b.Min.Y)
	p := src.Pix[i : i+4 : i+4]
	return colorful.Color{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
	}, float64(p[3])
}
