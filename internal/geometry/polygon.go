package geometry

import (
	"image"
	"math"
)

// Contour is an ordered sequence of pixel coordinates describing one closed
// boundary. The last point connects back to the first implicitly.
type Contour []image.Point

// Area returns the absolute enclosed area of the contour (shoelace formula).
func (c Contour) Area() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// ArcLength returns the length of the polyline through c. When closed is
// true the segment from the last point back to the first is included.
func (c Contour) ArcLength(closed bool) float64 {
	n := len(c)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 1; i < n; i++ {
		length += pointDist(c[i-1], c[i])
	}
	if closed {
		length += pointDist(c[n-1], c[0])
	}
	return length
}

// Points converts the contour to float points.
func (c Contour) Points() []Point {
	out := make([]Point, len(c))
	for i, p := range c {
		out[i] = Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. No point of c lies farther than epsilon from the returned
// polygon, and the returned vertices keep the contour's order.
//
// The closed curve is split at its first point and the point farthest from
// it; each half is simplified independently. A final pass drops the split
// point itself when it turned out to lie on a straight run.
func ApproxPolygon(c Contour, epsilon float64) Contour {
	n := len(c)
	if n < 3 {
		return append(Contour(nil), c...)
	}

	far, farDist := 0, -1
	for i := 1; i < n; i++ {
		dx, dy := c[i].X-c[0].X, c[i].Y-c[0].Y
		if d := dx*dx + dy*dy; d > farDist {
			far, farDist = i, d
		}
	}
	if farDist == 0 {
		return Contour{c[0]}
	}

	// chain through the whole loop, ending back at c[0]
	loop := make(Contour, 0, n+1)
	loop = append(loop, c...)
	loop = append(loop, c[0])

	keep := make([]bool, len(loop))
	keep[0], keep[far], keep[n] = true, true, true
	simplify(loop, 0, far, epsilon, keep)
	simplify(loop, far, n, epsilon, keep)

	out := make(Contour, 0, 8)
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, loop[i])
		}
	}

	if len(out) > 3 {
		prev, next := out[len(out)-1], out[1]
		if segmentDist(out[0], prev, next) <= epsilon {
			out = out[1:]
		}
	}
	return out
}

// simplify marks the points of c[start..end] kept by Douglas-Peucker.
// It uses an explicit stack so very long contours cannot overflow.
func simplify(c Contour, start, end int, epsilon float64, keep []bool) {
	type span struct{ from, to int }
	stack := []span{{start, end}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.to-s.from < 2 {
			continue
		}

		maxDist, maxIdx := -1.0, s.from
		for i := s.from + 1; i < s.to; i++ {
			if d := segmentDist(c[i], c[s.from], c[s.to]); d > maxDist {
				maxDist, maxIdx = d, i
			}
		}

		if maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, span{s.from, maxIdx}, span{maxIdx, s.to})
		}
	}
}

// segmentDist is the perpendicular distance from p to the line through a and
// b, or the distance to a when a and b coincide.
func segmentDist(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return pointDist(p, a)
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / norm
}

func pointDist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
