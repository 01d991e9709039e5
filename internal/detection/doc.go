// Package detection finds the four corners of a photographed page.
//
// Detection is a fixed chain over a vision.Backend:
//
//  1. Working copy: the image is validated and downscaled so its longest
//     side is at most the detector's maximum dimension
//  2. Edge extraction: grayscale, 5x5 Gaussian blur, Canny (75, 200)
//  3. Contour ranking: outer contours sorted by enclosed area, largest
//     first, truncated to MaxCandidates
//  4. Quadrilateral selection: each candidate is approximated as a polygon
//     with tolerance ApproxEpsilonRatio × perimeter; the first with exactly
//     four vertices wins
//  5. Corner ordering: the winning vertices are labeled top-left, top-right,
//     bottom-right, bottom-left and normalized to [0,1]
//
// # Fallback
//
// A photo with no usable quadrilateral is not an error. The result then
// holds the full image bounds (0,0), (1,0), (1,1), (0,1) and reports
// FallbackUsed, so the caller always has a rectification target.
//
// # Coordinate System
//
// Corners are returned in normalized space. Because the working copy is
// scaled uniformly, normalized corners found on it apply unchanged to the
// full-resolution image.
//
// # Thread Safety
//
// Detector is stateless after construction and may be shared.
package detection
