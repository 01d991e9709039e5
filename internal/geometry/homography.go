package geometry

import (
	"fmt"
	"math"
)

// Homography is a 3×3 planar projective transform in row-major order with
// the bottom-right element fixed to 1.
type Homography [9]float64

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// SolvePerspective computes the unique homography mapping src[i] to dst[i]
// for i in 0..3.
//
// It returns ErrDegenerate when either quadrilateral has three collinear or
// coincident corners, or when the linear system is numerically singular.
func SolvePerspective(src, dst CornerSet) (Homography, error) {
	if src.Degenerate() {
		return Homography{}, fmt.Errorf("source corners: %w", ErrDegenerate)
	}
	if dst.Degenerate() {
		return Homography{}, fmt.Errorf("target corners: %w", ErrDegenerate)
	}

	// A*h = b for h00..h21 with h22 = 1:
	//   x' = (h00 x + h01 y + h02) / (h20 x + h21 y + 1)
	//   y' = (h10 x + h11 y + h12) / (h20 x + h21 y + 1)
	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r := 2 * i
		a[r] = [8]float64{x, y, 1, 0, 0, 0, -x * u, -y * u}
		b[r] = u
		a[r+1] = [8]float64{0, 0, 0, x, y, 1, -x * v, -y * v}
		b[r+1] = v
	}

	h, ok := solve8(a, b)
	if !ok {
		return Homography{}, ErrDegenerate
	}
	return Homography{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// Apply maps p through the transform. ok is false when p maps to infinity.
func (h Homography) Apply(p Point) (q Point, ok bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		return Point{}, false
	}
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Inverse returns the inverse transform, normalized so the bottom-right
// element is 1.
func (h Homography) Inverse() (Homography, error) {
	// adjugate / determinant
	inv := Homography{
		h[4]*h[8] - h[5]*h[7],
		h[2]*h[7] - h[1]*h[8],
		h[1]*h[5] - h[2]*h[4],
		h[5]*h[6] - h[3]*h[8],
		h[0]*h[8] - h[2]*h[6],
		h[2]*h[3] - h[0]*h[5],
		h[3]*h[7] - h[4]*h[6],
		h[1]*h[6] - h[0]*h[7],
		h[0]*h[4] - h[1]*h[3],
	}
	det := h[0]*inv[0] + h[1]*inv[3] + h[2]*inv[6]
	if math.Abs(det) < 1e-12 {
		return Homography{}, ErrDegenerate
	}

	scale := inv[8]
	if math.Abs(scale) < 1e-12 {
		scale = det
	}
	for i := range inv {
		inv[i] /= scale
	}
	return inv, nil
}

// solve8 solves a dense 8×8 system by Gauss-Jordan elimination with partial
// pivoting. Pivots are compared against the largest magnitude in the matrix
// so the singularity test does not depend on the coordinate scale.
func solve8(a [8][8]float64, b [8]float64) ([8]float64, bool) {
	var largest float64
	for r := range a {
		for _, v := range a[r] {
			largest = math.Max(largest, math.Abs(v))
		}
	}
	tol := largest * 1e-12
	if tol == 0 {
		return [8]float64{}, false
	}

	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) <= tol {
			return [8]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		inv := 1 / a[col][col]
		for c := col; c < 8; c++ {
			a[col][c] *= inv
		}
		b[col] *= inv

		for r := 0; r < 8; r++ {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for c := col; c < 8; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	return b, true
}
