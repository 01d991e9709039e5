package geometry

import (
	"errors"
	"fmt"
)

// Canonical slot indices of a CornerSet.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// CornerNames maps slot indices to their labels.
var CornerNames = [4]string{"top_left", "top_right", "bottom_right", "bottom_left"}

// ErrDegenerate is returned when four corners do not span a quadrilateral
// with positive area, so no perspective transform between them exists.
var ErrDegenerate = errors.New("degenerate quadrilateral")

// CornerSet is exactly four points in canonical order
// [TopLeft, TopRight, BottomRight, BottomLeft].
type CornerSet [4]Point

// FullBounds returns the unit square in normalized space. It is the
// fallback used when no page quadrilateral is detected.
func FullBounds() CornerSet {
	return CornerSet{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
}

// OrderCorners labels four unordered points canonically.
//
// For each point sum = x+y and diff = y-x are computed:
//   - min sum  -> TopLeft
//   - max sum  -> BottomRight
//   - min diff -> TopRight
//   - max diff -> BottomLeft
//
// Ties go to the point that appears first in pts. The rule does no search
// and does not guarantee a permutation for self-intersecting or heavily
// rotated input (two slots may receive the same point); callers feed it the
// convex, near-axis-aligned quadrilaterals produced by detection.
func OrderCorners(pts [4]Point) CornerSet {
	minSum, maxSum, minDiff, maxDiff := 0, 0, 0, 0
	for i := 1; i < 4; i++ {
		s := pts[i].X + pts[i].Y
		d := pts[i].Y - pts[i].X
		if s < pts[minSum].X+pts[minSum].Y {
			minSum = i
		}
		if s > pts[maxSum].X+pts[maxSum].Y {
			maxSum = i
		}
		if d < pts[minDiff].Y-pts[minDiff].X {
			minDiff = i
		}
		if d > pts[maxDiff].Y-pts[maxDiff].X {
			maxDiff = i
		}
	}

	return CornerSet{
		TopLeft:     pts[minSum],
		TopRight:    pts[minDiff],
		BottomRight: pts[maxSum],
		BottomLeft:  pts[maxDiff],
	}
}

// Normalize converts a pixel-space set into normalized space for an image of
// the given size.
func (c CornerSet) Normalize(width, height int) CornerSet {
	var out CornerSet
	for i, p := range c {
		out[i] = p.Scale(1/float64(width), 1/float64(height))
	}
	return out
}

// Denormalize converts a normalized set into pixel space by multiplying by
// the image size.
func (c CornerSet) Denormalize(width, height int) CornerSet {
	var out CornerSet
	for i, p := range c {
		out[i] = p.Scale(float64(width), float64(height))
	}
	return out
}

// Area returns the absolute shoelace area of the quadrilateral in slot order.
func (c CornerSet) Area() float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// Degenerate reports whether the set cannot define a perspective transform:
// zero area, coincident corners, or any three corners on one line.
func (c CornerSet) Degenerate() bool {
	for i := 0; i < 4; i++ {
		a, b, d := c[i], c[(i+1)%4], c[(i+2)%4]
		if collinear(a, b, d) {
			return true
		}
	}
	return false
}

// Validate checks that every coordinate lies in normalized space.
func (c CornerSet) Validate() error {
	for i, p := range c {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return fmt.Errorf("corner %s (%.4f,%.4f) outside normalized range [0,1]",
				CornerNames[i], p.X, p.Y)
		}
	}
	return nil
}
