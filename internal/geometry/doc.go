// Package geometry holds the planar math behind page rectification.
//
// It has no image dependencies beyond image.Point: points, contours,
// canonical corner sets, polygon measures and simplification, and the
// 4-point homography solver used to flatten a skewed page.
//
// # Coordinate Spaces
//
// Two spaces are used throughout:
//   - Pixel space: coordinates in source image pixels, origin top-left,
//     X rightward, Y downward.
//   - Normalized space: coordinates divided by image width and height, so a
//     page corner is expressed independently of resolution. The full image
//     is the unit square [0,1]×[0,1].
//
// # Corner Order
//
// A CornerSet is always held as [TopLeft, TopRight, BottomRight, BottomLeft].
// OrderCorners assigns that labeling from four unordered points using the
// sum/difference extrema rule. The rule is correct for convex, roughly
// axis-aligned quadrilaterals. It is invariant under positive uniform
// scaling but not under reflection or extreme skew, and it is never
// re-applied after a user edits a corner.
package geometry
