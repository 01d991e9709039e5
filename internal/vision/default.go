//go:build !gocv

package vision

// Default returns the backend selected at build time: Native unless the
// binary was built with the gocv tag.
func Default() Backend {
	return Native{}
}
