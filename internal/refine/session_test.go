package refine

import (
	"sync"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

func TestSession_DragLifecycle(t *testing.T) {
	s := NewSession(testCorners())
	if s.Active() != NoCorner {
		t.Fatalf("new session has active corner %d", s.Active())
	}

	// bottom-right sits at (850, 900) on a 1000x1000 display
	if got := s.Begin(geometry.Pt(840, 905), 1000, 1000); got != geometry.BottomRight {
		t.Fatalf("Begin: got %d, want %d", got, geometry.BottomRight)
	}

	moved, err := s.Drag(geometry.Pt(700, 600), 1000, 1000)
	if err != nil || !moved {
		t.Fatalf("Drag: moved=%v err=%v", moved, err)
	}
	moved, err = s.Drag(geometry.Pt(750, 800), 1000, 1000)
	if err != nil || !moved {
		t.Fatalf("second Drag: moved=%v err=%v", moved, err)
	}

	s.End()
	if s.Active() != NoCorner {
		t.Error("End did not clear the active corner")
	}

	got := s.Corners()
	if got[geometry.BottomRight] != geometry.Pt(0.75, 0.8) {
		t.Errorf("bottom-right: got %v, want (0.75,0.8)", got[geometry.BottomRight])
	}

	// drags after End are ignored
	moved, err = s.Drag(geometry.Pt(0, 0), 1000, 1000)
	if err != nil || moved {
		t.Errorf("Drag after End: moved=%v err=%v", moved, err)
	}
	if s.Corners() != got {
		t.Error("corners changed after End")
	}
}

func TestSession_BeginMiss(t *testing.T) {
	s := NewSession(testCorners())
	if got := s.Begin(geometry.Pt(500, 500), 1000, 1000); got != NoCorner {
		t.Fatalf("Begin: got %d, want NoCorner", got)
	}
	if moved, _ := s.Drag(geometry.Pt(10, 10), 1000, 1000); moved {
		t.Error("Drag moved a corner without a hit")
	}
}

func TestSession_Set(t *testing.T) {
	s := NewSession(testCorners())
	s.Begin(geometry.Pt(100, 100), 1000, 1000)

	if err := s.Set(geometry.FullBounds()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if s.Corners() != geometry.FullBounds() {
		t.Errorf("corners: got %v, want full bounds", s.Corners())
	}
	if s.Active() != NoCorner {
		t.Error("Set did not cancel the drag")
	}

	bad := geometry.FullBounds()
	bad[geometry.BottomRight] = geometry.Pt(1.2, 0.5)
	if err := s.Set(bad); !scanerr.IsKind(err, scanerr.KindValidation) {
		t.Errorf("out of range: got %v, want validation error", err)
	}
	if s.Corners() != geometry.FullBounds() {
		t.Error("rejected Set modified corners")
	}
}

func TestSession_Move(t *testing.T) {
	s := NewSession(testCorners())
	s.Begin(geometry.Pt(100, 100), 1000, 1000)

	if err := s.Move(geometry.BottomRight, geometry.Pt(500, 250), 1000, 500); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if got := s.Corners()[geometry.BottomRight]; got != geometry.Pt(0.5, 0.5) {
		t.Errorf("bottom-right: got %v, want (0.5,0.5)", got)
	}
	if s.Active() != geometry.TopLeft {
		t.Errorf("Move changed the drag target to %d", s.Active())
	}

	if err := s.Move(4, geometry.Pt(0, 0), 1000, 1000); !scanerr.IsKind(err, scanerr.KindValidation) {
		t.Errorf("bad index: got %v, want validation error", err)
	}
}

func TestSession_Concurrent(t *testing.T) {
	s := NewSession(geometry.FullBounds())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Begin(geometry.Pt(0, 0), 100, 100)
				_, _ = s.Drag(geometry.Pt(float64(i), float64(j)), 100, 100)
				s.End()
				_ = s.Corners()
			}
		}(i)
	}
	wg.Wait()

	c := s.Corners()
	if err := c.Validate(); err != nil {
		t.Errorf("corners left invalid: %v", err)
	}
}
