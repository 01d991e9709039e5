package refine

import (
	"sync"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// Session owns the corner set being refined for one image and tracks the
// corner currently being dragged.
//
// A drag is Begin (hit test) followed by any number of Drag calls and an
// End. Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	corners geometry.CornerSet
	active  int
}

// NewSession returns a session holding corners, with no drag in progress.
func NewSession(corners geometry.CornerSet) *Session {
	return &Session{corners: corners, active: NoCorner}
}

// Corners returns a copy of the current corner set.
func (s *Session) Corners() geometry.CornerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corners
}

// Set replaces the whole corner set, for example with a fresh detection.
// Any drag in progress is cancelled. Corners outside [0,1] are rejected.
func (s *Session) Set(corners geometry.CornerSet) error {
	if err := corners.Validate(); err != nil {
		return scanerr.Validation(err.Error(), err)
	}
	s.mu.Lock()
	s.corners = corners
	s.active = NoCorner
	s.mu.Unlock()
	return nil
}

// Begin hit-tests touch and, on a hit, makes that corner the drag target.
// It returns the hit index or NoCorner.
func (s *Session) Begin(touch geometry.Point, displayWidth, displayHeight float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = HitTest(&s.corners, touch, displayWidth, displayHeight)
	return s.active
}

// Drag moves the active corner to p. It reports false, with no change,
// when no drag is in progress.
func (s *Session) Drag(p geometry.Point, displayWidth, displayHeight float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == NoCorner {
		return false, nil
	}
	if err := MoveCorner(&s.corners, s.active, p, displayWidth, displayHeight); err != nil {
		return false, err
	}
	return true, nil
}

// Move moves the corner at index to p regardless of any drag in progress.
func (s *Session) Move(index int, p geometry.Point, displayWidth, displayHeight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MoveCorner(&s.corners, index, p, displayWidth, displayHeight)
}

// End finishes the current drag.
func (s *Session) End() {
	s.mu.Lock()
	s.active = NoCorner
	s.mu.Unlock()
}

// Active returns the corner being dragged, or NoCorner.
func (s *Session) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
