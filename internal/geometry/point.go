package geometry

import "math"

// Point is a 2D coordinate in either pixel or normalized space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// DistSq returns the squared Euclidean distance between p and q.
func DistSq(p, q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Scale multiplies X by sx and Y by sy.
func (p Point) Scale(sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Clamp01 clamps each axis independently into [0,1].
func (p Point) Clamp01() Point {
	return Point{X: clampUnit(p.X), Y: clampUnit(p.Y)}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cross returns the z component of (b-a) × (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// collinear reports whether a, b and c lie on one line (or coincide).
// The test is relative: the sine of the angle at a must be effectively zero.
func collinear(a, b, c Point) bool {
	scale := Dist(a, b) * Dist(a, c)
	if scale == 0 {
		return true
	}
	return math.Abs(cross(a, b, c)) <= 1e-9*scale
}
