// Package rectify produces a flattened, perspective-corrected page from a
// photo and four corners.
//
// # Output Size
//
// The output is as wide as the longer of the top and bottom edges and as
// tall as the longer of the left and right edges, measured in source
// pixels. Taking the longer edge keeps content from being squeezed when the
// camera was not square to the page.
//
// # Resampling
//
// Each output pixel is mapped back into the source through the inverse
// homography and sampled there (bilinear by default). Samples that fall
// outside the photo take the nearest border pixel.
//
// # Errors
//
// Corners that are coincident or collinear have no perspective transform.
// Rectify reports them as a scanerr degenerate error so the caller can let
// the user re-adjust; it never returns a partial image.
package rectify
