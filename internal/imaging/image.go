package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// MaxOutputPixels bounds any buffer allocated by this package, including
// images decoded by ImageCache.
const MaxOutputPixels = 1 << 28

// ErrEmptyImage is the cause of every validation error for an image with
// no pixels.
var ErrEmptyImage = errors.New("empty image")

// Prepare validates a decoded image and returns an owned 8-bit NRGBA copy
// whose bounds start at (0,0).
//
// Any color model is accepted; 16-bit and paletted images are converted.
// A nil image, non-positive width or height, or an empty pixel buffer is a
// validation error.
func Prepare(img image.Image) (*image.NRGBA, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// Validate checks the input preconditions shared by every pipeline stage.
func Validate(img image.Image) error {
	if img == nil {
		return scanerr.Validation("image is nil", ErrEmptyImage)
	}

	var pix []uint8
	var stride, bpp int
	switch m := img.(type) {
	case *image.NRGBA:
		if m == nil {
			return scanerr.Validation("image is nil", ErrEmptyImage)
		}
		pix, stride, bpp = m.Pix, m.Stride, 4
	case *image.RGBA:
		if m == nil {
			return scanerr.Validation("image is nil", ErrEmptyImage)
		}
		pix, stride, bpp = m.Pix, m.Stride, 4
	case *image.Gray:
		if m == nil {
			return scanerr.Validation("image is nil", ErrEmptyImage)
		}
		pix, stride, bpp = m.Pix, m.Stride, 1
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return scanerr.Validation("image must have positive width and height", ErrEmptyImage)
	}
	if bpp == 0 {
		return nil
	}
	if len(pix) == 0 {
		return scanerr.Validation("image pixel buffer is empty", ErrEmptyImage)
	}
	// the last row only needs Dx pixels, not a full stride
	if stride < b.Dx()*bpp || len(pix) < (b.Dy()-1)*stride+b.Dx()*bpp {
		return scanerr.Validation(fmt.Sprintf("image pixel buffer too short: %d bytes for %dx%d with stride %d",
			len(pix), b.Dx(), b.Dy(), stride), ErrEmptyImage)
	}
	return nil
}
