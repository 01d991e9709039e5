package detection

import (
	"sort"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/vision"
)

// MaxCandidates is the number of largest contours tested for a page
// quadrilateral. Most contours in a photo are texture noise.
const MaxCandidates = 5

// ApproxEpsilonRatio scales polygon approximation tolerance with contour
// perimeter, so large and small pages approximate to the same vertex count.
const ApproxEpsilonRatio = 0.02

// FindContours extracts contours from an edge map and returns at most
// MaxCandidates of them, ordered by enclosed area, largest first.
// Contours of equal area keep the order the backend reported them in.
func FindContours(backend vision.Backend, edges *imaging.EdgeMap) []geometry.Contour {
	contours := backend.FindContours(edges)

	areas := make([]float64, len(contours))
	for i, c := range contours {
		areas[i] = c.Area()
	}
	idx := make([]int, len(contours))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return areas[idx[a]] > areas[idx[b]]
	})

	if len(idx) > MaxCandidates {
		idx = idx[:MaxCandidates]
	}
	out := make([]geometry.Contour, len(idx))
	for i, j := range idx {
		out[i] = contours[j]
	}
	return out
}

// SelectDocumentQuad returns the vertices of the first candidate whose
// polygon approximation has exactly four vertices, in contour order and in
// the candidates' pixel space. Candidates are tried in the order given.
//
// The tolerance for each candidate is ApproxEpsilonRatio times its closed
// perimeter. ok is false when no candidate qualifies.
func SelectDocumentQuad(backend vision.Backend, candidates []geometry.Contour) (quad [4]geometry.Point, ok bool) {
	for _, c := range candidates {
		perimeter := c.ArcLength(true)
		if perimeter == 0 {
			continue
		}
		approx := backend.ApproxPolygon(c, ApproxEpsilonRatio*perimeter)
		if len(approx) != 4 {
			continue
		}
		for i, p := range approx.Points() {
			quad[i] = p
		}
		return quad, true
	}
	return quad, false
}
