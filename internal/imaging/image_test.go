package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

func TestPrepare(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 40, 60))
	src.Set(10, 20, color.RGBA{1, 2, 3, 255})

	img, err := Prepare(src)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 30, 40) {
		t.Errorf("bounds: got %v, want (0,0)-(30,40)", img.Bounds())
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("origin pixel: got %v", got)
	}

	// the copy is owned
	img.SetNRGBA(0, 0, color.NRGBA{9, 9, 9, 255})
	if r, _, _, _ := src.At(10, 20).RGBA(); r>>8 != 1 {
		t.Error("Prepare must not alias the source buffer")
	}
}

func TestPrepare_Invalid(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil", nil},
		{"zero width", image.NewNRGBA(image.Rect(0, 0, 0, 10))},
		{"zero height", image.NewRGBA(image.Rect(0, 0, 10, 0))},
		{"empty buffer", &image.NRGBA{Rect: image.Rect(0, 0, 4, 4)}},
		{"short NRGBA buffer", &image.NRGBA{Pix: make([]uint8, 4), Stride: 40, Rect: image.Rect(0, 0, 10, 10)}},
		{"short RGBA buffer", &image.RGBA{Pix: make([]uint8, 10*4*9), Stride: 40, Rect: image.Rect(0, 0, 10, 10)}},
		{"short Gray buffer", &image.Gray{Pix: make([]uint8, 99), Stride: 10, Rect: image.Rect(0, 0, 10, 10)}},
		{"stride below width", &image.Gray{Pix: make([]uint8, 100), Stride: 5, Rect: image.Rect(0, 0, 10, 10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.img)
			if !scanerr.IsKind(err, scanerr.KindValidation) {
				t.Errorf("got %v, want validation error", err)
			}
			if !errors.Is(err, ErrEmptyImage) {
				t.Errorf("got %v, want ErrEmptyImage cause", err)
			}
		})
	}
}

func TestPrepare_Gray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 3, 3))
	src.SetGray16(1, 1, color.Gray16{Y: 0xFFFF})

	img, err := Prepare(src)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("converted pixel: got %v, want white", got)
	}
}

func TestValidate_ExactBuffer(t *testing.T) {
	// a buffer whose last row stops at Dx pixels is complete
	img := &image.Gray{Pix: make([]uint8, 9*16+10), Stride: 16, Rect: image.Rect(0, 0, 10, 10)}
	if err := Validate(img); err != nil {
		t.Errorf("Validate rejected a complete buffer: %v", err)
	}
}
