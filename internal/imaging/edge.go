package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/parallel"
)

// Edge extraction parameters. They are tuned for photographed paper pages
// and are deliberately not configurable.
const (
	// BlurRadius gives bild's separable Gaussian a 5-tap (5x5) kernel.
	BlurRadius = 2.0

	// EdgeLowThreshold and EdgeHighThreshold are the hysteresis pair on
	// an 8-bit gradient magnitude scale.
	EdgeLowThreshold  = 75
	EdgeHighThreshold = 200
)

// EdgeMap is a single-channel binary raster with the same size as its
// source image. Pix holds 255 for edge pixels and 0 otherwise, row-major.
type EdgeMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewEdgeMap returns an empty edge map.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// EdgeMapFromGray converts a grayscale image to an edge map, treating any
// pixel above mid-gray as an edge.
func EdgeMapFromGray(g *image.Gray) *EdgeMap {
	b := g.Bounds()
	em := NewEdgeMap(b.Dx(), b.Dy())
	for y := 0; y < em.Height; y++ {
		for x := 0; x < em.Width; x++ {
			if g.GrayAt(x+b.Min.X, y+b.Min.Y).Y > 127 {
				em.Pix[y*em.Width+x] = 255
			}
		}
	}
	return em
}

// IsEdge reports whether (x, y) is an edge pixel. Out-of-range coordinates
// are never edges.
func (e *EdgeMap) IsEdge(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Pix[y*e.Width+x] != 0
}

// Set marks or clears an edge pixel.
func (e *EdgeMap) Set(x, y int, edge bool) {
	v := uint8(0)
	if edge {
		v = 255
	}
	e.Pix[y*e.Width+x] = v
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, v := range e.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Image returns the edge map as a grayscale image (edges white).
func (e *EdgeMap) Image() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, e.Width, e.Height))
	copy(g.Pix, e.Pix)
	return g
}

// ExtractEdges converts an image to a binary edge map.
//
// # Algorithm
//
// The implementation follows the Canny edge detector with fixed parameters:
//
//  1. Grayscale conversion (bild effect.Grayscale)
//
//  2. Gaussian blur with a 5x5 kernel (bild blur.Gaussian, radius 2) to
//     suppress sensor and paper texture noise
//
//  3. Sobel gradients on the 0-255 scale:
//     magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//
//  4. Non-maximum suppression along the gradient direction
//
//  5. Hysteresis: pixels at or above EdgeHighThreshold seed edges, and
//     pixels at or above EdgeLowThreshold are kept when 8-connected to a
//     seed through other kept pixels
//
// Returns a validation error if img is nil or has no pixels.
func ExtractEdges(img image.Image) (*EdgeMap, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}

	gray := effect.Grayscale(img)
	blurred := blur.Gaussian(gray, BlurRadius)

	b := blurred.Bounds()
	width, height := b.Dx(), b.Dy()

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := blurred.Pix[y*blurred.Stride:]
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(row[x*4])
		}
	}

	at := func(x, y int) float64 {
		return lum[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				gx := -at(x-1, y-1) + at(x+1, y-1) -
					2*at(x-1, y) + 2*at(x+1, y) -
					at(x-1, y+1) + at(x+1, y+1)
				gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
					at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
				magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
				direction[y*width+x] = math.Atan2(gy, gx)
			}
		}
	})

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			if y == 0 || y == height-1 {
				continue
			}
			for x := 1; x < width-1; x++ {
				i := y*width + x
				n1, n2 := neighborsAlong(magnitude, width, x, y, direction[i])
				if magnitude[i] >= n1 && magnitude[i] >= n2 {
					suppressed[i] = magnitude[i]
				}
			}
		}
	})

	return hysteresis(suppressed, width, height), nil
}

// neighborsAlong returns the two magnitudes adjacent to (x, y) along the
// gradient direction, quantized to 0°, 45°, 90° or 135°.
func neighborsAlong(mag []float64, width, x, y int, angle float64) (float64, float64) {
	at := func(dx, dy int) float64 { return mag[(y+dy)*width+x+dx] }

	switch {
	case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
		return at(-1, 0), at(1, 0)
	case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
		return at(-1, -1), at(1, 1)
	case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
		return at(0, -1), at(0, 1)
	default:
		return at(1, -1), at(-1, 1)
	}
}

// hysteresis grows strong edges into connected weak ones.
func hysteresis(suppressed []float64, width, height int) *EdgeMap {
	em := NewEdgeMap(width, height)
	stack := make([]int, 0, 1024)

	for i, v := range suppressed {
		if v >= EdgeHighThreshold {
			em.Pix[i] = 255
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if em.Pix[j] == 0 && suppressed[j] >= EdgeLowThreshold {
					em.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return em
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
