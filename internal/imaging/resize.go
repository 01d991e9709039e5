package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Downscale returns a copy of img whose longest side is at most maxDim,
// together with the factor applied to both axes. Images already within the
// bound, or a maxDim of 0 or less, are returned unchanged with factor 1.
//
// Both axes are scaled by the same factor, so normalized coordinates found
// on the copy apply unchanged to the original.
func Downscale(img *image.NRGBA, maxDim int) (*image.NRGBA, float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return img, 1
	}

	scale := float64(maxDim) / float64(longest)
	if w >= h {
		return imaging.Resize(img, maxDim, 0, imaging.Box), scale
	}
	return imaging.Resize(img, 0, maxDim, imaging.Box), scale
}

// Fit shrinks img to fit within maxDim×maxDim preserving aspect ratio. It is
// used to bound the size of a rectified page before upload. Images already
// within the bound, or a maxDim of 0 or less, are returned unchanged.
func Fit(img *image.NRGBA, maxDim int) *image.NRGBA {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
