package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

func TestExtractEdges_Dimensions(t *testing.T) {
	img := createPageImage(120, 80, image.Rect(20, 20, 100, 60))

	em, err := ExtractEdges(img)
	if err != nil {
		t.Fatalf("ExtractEdges failed: %v", err)
	}
	if em.Width != 120 || em.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", em.Width, em.Height)
	}
	if len(em.Pix) != 120*80 {
		t.Errorf("buffer length: got %d, want %d", len(em.Pix), 120*80)
	}
}

func TestExtractEdges_Binary(t *testing.T) {
	img := createPageImage(60, 60, image.Rect(10, 10, 50, 50))
	em, err := ExtractEdges(img)
	if err != nil {
		t.Fatalf("ExtractEdges failed: %v", err)
	}
	for i, v := range em.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d has value %d, want 0 or 255", i, v)
		}
	}
}

func TestExtractEdges_UniformImage(t *testing.T) {
	img := createInMemoryImage(50, 50, color.NRGBA{128, 128, 128, 255})

	em, err := ExtractEdges(img)
	if err != nil {
		t.Fatalf("ExtractEdges failed: %v", err)
	}
	if n := em.Count(); n != 0 {
		t.Errorf("uniform image produced %d edge pixels, want 0", n)
	}
}

func TestExtractEdges_PageBoundary(t *testing.T) {
	img := createPageImage(100, 100, image.Rect(20, 20, 80, 80))

	em, err := ExtractEdges(img)
	if err != nil {
		t.Fatalf("ExtractEdges failed: %v", err)
	}

	// each side of the page should carry an edge near its boundary
	sides := []struct {
		name string
		hit  func(d int) bool
	}{
		{"top", func(d int) bool { return em.IsEdge(50, 20+d) }},
		{"bottom", func(d int) bool { return em.IsEdge(50, 79+d) }},
		{"left", func(d int) bool { return em.IsEdge(20+d, 50) }},
		{"right", func(d int) bool { return em.IsEdge(79+d, 50) }},
	}
	for _, s := range sides {
		found := false
		for d := -3; d <= 3 && !found; d++ {
			found = s.hit(d)
		}
		if !found {
			t.Errorf("no edge detected near the %s side", s.name)
		}
	}

	// interior and background are flat
	if em.IsEdge(50, 50) {
		t.Error("page interior marked as edge")
	}
	if em.IsEdge(5, 5) {
		t.Error("background marked as edge")
	}
}

func TestExtractEdges_Invalid(t *testing.T) {
	_, err := ExtractEdges(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	if !scanerr.IsKind(err, scanerr.KindValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestEdgeMap_Accessors(t *testing.T) {
	em := NewEdgeMap(4, 3)
	em.Set(2, 1, true)

	if !em.IsEdge(2, 1) {
		t.Error("IsEdge(2,1) = false after Set")
	}
	if em.IsEdge(-1, 0) || em.IsEdge(4, 0) || em.IsEdge(0, 3) {
		t.Error("out-of-range coordinates reported as edges")
	}
	if em.Count() != 1 {
		t.Errorf("Count: got %d, want 1", em.Count())
	}

	g := em.Image()
	if g.GrayAt(2, 1).Y != 255 || g.GrayAt(0, 0).Y != 0 {
		t.Error("Image() does not mirror edge pixels")
	}

	back := EdgeMapFromGray(g)
	if !back.IsEdge(2, 1) || back.Count() != 1 {
		t.Error("EdgeMapFromGray round trip lost edges")
	}

	em.Set(2, 1, false)
	if em.Count() != 0 {
		t.Error("Set(false) did not clear the pixel")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
