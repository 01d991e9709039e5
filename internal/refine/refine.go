package refine

import (
	"fmt"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// HitRadius is the touch tolerance around a corner, in display units.
const HitRadius = 30.0

// NoCorner is returned by HitTest when no corner is within HitRadius.
const NoCorner = -1

// HitTest returns the index of the corner under touch, or NoCorner.
//
// touch is in display space. A corner is hit when the squared distance
// from touch to (corner.X*displayWidth, corner.Y*displayHeight) is below
// HitRadius². When several corners are hit the nearest wins, and equal
// distances go to the lowest index. A display size of 0 or less on either
// axis never hits.
func HitTest(corners *geometry.CornerSet, touch geometry.Point, displayWidth, displayHeight float64) int {
	if corners == nil || displayWidth <= 0 || displayHeight <= 0 {
		return NoCorner
	}

	best, bestDist := NoCorner, HitRadius*HitRadius
	for i, c := range corners {
		d := geometry.DistSq(touch, c.Scale(displayWidth, displayHeight))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MoveCorner replaces corner index with the display-space point p,
// converted to normalized space and clamped into [0,1] on each axis. The
// other three corners are untouched and the set is not re-ordered, so
// dragging one corner past another leaves the labels as they were.
func MoveCorner(corners *geometry.CornerSet, index int, p geometry.Point, displayWidth, displayHeight float64) error {
	if corners == nil {
		return scanerr.Validation("corner set is nil", nil)
	}
	if index < 0 || index >= len(corners) {
		return scanerr.Validation(fmt.Sprintf("corner index %d out of range [0,3]", index), nil)
	}
	if displayWidth <= 0 || displayHeight <= 0 {
		return scanerr.Validation(fmt.Sprintf("display size %.1fx%.1f must be positive", displayWidth, displayHeight), nil)
	}

	corners[index] = geometry.Pt(p.X/displayWidth, p.Y/displayHeight).Clamp01()
	return nil
}
