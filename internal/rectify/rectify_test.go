package rectify

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
	"github.com/ironsheep/docscan-mcp/internal/vision"
)

// createNoiseImage fills an image with a deterministic texture so that a
// one-pixel shift anywhere is detectable.
func createNoiseImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	seed := uint32(88172645)
	for i := 0; i < len(img.Pix); i += 4 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		img.Pix[i] = uint8(seed)
		img.Pix[i+1] = uint8(seed >> 8)
		img.Pix[i+2] = uint8(seed >> 16)
		img.Pix[i+3] = 255
	}
	return img
}

// fromPixels normalizes pixel-space corners for a width×height image.
func fromPixels(width, height int, pts ...geometry.Point) geometry.CornerSet {
	var c geometry.CornerSet
	copy(c[:], pts)
	return c.Normalize(width, height)
}

func TestOutputSize(t *testing.T) {
	tests := []struct {
		name          string
		px            geometry.CornerSet
		wantW, wantH  int
	}{
		{
			name:  "axis aligned",
			px:    geometry.CornerSet{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 200}, {X: 0, Y: 200}},
			wantW: 100, wantH: 200,
		},
		{
			name:  "trapezoid uses longer edges",
			px:    geometry.CornerSet{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 90, Y: 50}, {X: 10, Y: 50}},
			wantW: 100, wantH: 51,
		},
		{
			name:  "rounds to nearest",
			px:    geometry.CornerSet{{X: 0, Y: 0}, {X: 10.4, Y: 0}, {X: 10.6, Y: 7.5}, {X: 0, Y: 7.5}},
			wantW: 11, wantH: 8,
		},
		{
			name:  "floored at one",
			px:    geometry.CornerSet{{X: 0, Y: 0}, {X: 0.2, Y: 0}, {X: 0.2, Y: 0.2}, {X: 0, Y: 0.2}},
			wantW: 1, wantH: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := OutputSize(tt.px)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRectify_FullBoundsIsIdentity(t *testing.T) {
	src := createNoiseImage(37, 23)
	r := New(vision.Native{})

	for _, interp := range []imaging.Interpolation{imaging.Bilinear, imaging.Nearest} {
		t.Run(interp.String(), func(t *testing.T) {
			res, err := r.Rectify(src, geometry.FullBounds(), Options{Interpolation: interp})
			if err != nil {
				t.Fatalf("Rectify failed: %v", err)
			}
			if res.Width != 37 || res.Height != 23 {
				t.Fatalf("size: got %dx%d, want 37x23", res.Width, res.Height)
			}
			for i := range src.Pix {
				if res.Image.Pix[i] != src.Pix[i] {
					t.Fatalf("byte %d: got %d, want %d", i, res.Image.Pix[i], src.Pix[i])
				}
			}
		})
	}
}

func TestRectify_SizeFromEdges(t *testing.T) {
	src := createNoiseImage(200, 300)
	corners := fromPixels(200, 300,
		geometry.Pt(0, 0), geometry.Pt(100, 0), geometry.Pt(100, 200), geometry.Pt(0, 200))

	res, err := Rectify(src, corners)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	if res.Width != 100 || res.Height != 200 {
		t.Errorf("size: got %dx%d, want 100x200", res.Width, res.Height)
	}
	if res.Image.Bounds().Dx() != 100 || res.Image.Bounds().Dy() != 200 {
		t.Errorf("image bounds: got %v", res.Image.Bounds())
	}
	if got, want := res.Image.NRGBAAt(0, 0), src.NRGBAAt(0, 0); got != want {
		t.Errorf("origin pixel: got %v, want %v", got, want)
	}
}

func TestRectify_SkewedPage(t *testing.T) {
	// light page on dark background
	src := image.NewNRGBA(image.Rect(0, 0, 120, 100))
	page := color.NRGBA{240, 240, 240, 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 120; x++ {
			c := color.NRGBA{10, 10, 10, 255}
			// trapezoid: top edge 30..90 at y=10, bottom edge 10..110 at y=90
			left := 30 - (y-10)*20/80
			right := 90 + (y-10)*20/80
			if y >= 10 && y <= 90 && x >= left && x <= right {
				c = page
			}
			src.SetNRGBA(x, y, c)
		}
	}

	corners := fromPixels(120, 100,
		geometry.Pt(30, 10), geometry.Pt(90, 10), geometry.Pt(110, 90), geometry.Pt(10, 90))
	res, err := New(vision.Native{}).Rectify(src, corners, Options{})
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	if res.WarpWidth != 100 {
		t.Errorf("width: got %d, want 100 (longer bottom edge)", res.WarpWidth)
	}

	// the interior of the output is entirely page
	b := res.Image.Bounds()
	for y := 3; y < b.Dy()-3; y++ {
		for x := 3; x < b.Dx()-3; x++ {
			if c := res.Image.NRGBAAt(x, y); c.R < 200 {
				t.Fatalf("pixel (%d,%d) = %v, expected page color", x, y, c)
			}
		}
	}
}

func TestRectify_MaxDimension(t *testing.T) {
	src := createNoiseImage(400, 200)
	res, err := New(nil).Rectify(src, geometry.FullBounds(), Options{MaxDimension: 100})
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	if res.WarpWidth != 400 || res.WarpHeight != 200 {
		t.Errorf("warp size: got %dx%d, want 400x200", res.WarpWidth, res.WarpHeight)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("fitted size: got %dx%d, want 100x50", res.Width, res.Height)
	}
}

func TestRectify_Degenerate(t *testing.T) {
	src := createNoiseImage(100, 100)

	tests := []struct {
		name    string
		corners geometry.CornerSet
	}{
		{
			name: "collinear",
			corners: fromPixels(100, 100,
				geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(20, 0), geometry.Pt(30, 0)),
		},
		{
			name: "coincident",
			corners: fromPixels(100, 100,
				geometry.Pt(50, 50), geometry.Pt(50, 50), geometry.Pt(50, 50), geometry.Pt(50, 50)),
		},
		{
			name: "three on a diagonal",
			corners: fromPixels(100, 100,
				geometry.Pt(10, 10), geometry.Pt(50, 50), geometry.Pt(90, 90), geometry.Pt(10, 90)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(vision.Native{}).Rectify(src, tt.corners, Options{})
			if !scanerr.IsKind(err, scanerr.KindDegenerate) {
				t.Fatalf("got %v, want degenerate error", err)
			}
			if res != nil {
				t.Error("degenerate input returned a result")
			}
		})
	}
}

func TestRectify_Validation(t *testing.T) {
	good := createNoiseImage(10, 10)
	outside := geometry.FullBounds()
	outside[geometry.TopRight] = geometry.Pt(1.5, 0)

	tests := []struct {
		name    string
		img     image.Image
		corners geometry.CornerSet
	}{
		{"nil image", nil, geometry.FullBounds()},
		{"typed nil image", (*image.NRGBA)(nil), geometry.FullBounds()},
		{"empty image", image.NewNRGBA(image.Rect(0, 0, 0, 0)), geometry.FullBounds()},
		{"short pixel buffer", &image.NRGBA{Pix: make([]uint8, 4), Stride: 40, Rect: image.Rect(0, 0, 10, 10)}, geometry.FullBounds()},
		{"corner out of range", good, outside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rectify(tt.img, tt.corners)
			if !scanerr.IsKind(err, scanerr.KindValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestRectify_DoesNotMutateSource(t *testing.T) {
	src := createNoiseImage(50, 40)
	before := append([]uint8(nil), src.Pix...)

	corners := fromPixels(50, 40,
		geometry.Pt(5, 4), geometry.Pt(45, 2), geometry.Pt(48, 38), geometry.Pt(3, 35))
	if _, err := Rectify(src, corners); err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("source byte %d changed", i)
		}
	}
}
