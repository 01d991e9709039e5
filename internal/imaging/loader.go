package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/docscan-mcp/internal/scanerr"
)

// ImageCache provides thread-safe caching of decoded page photos.
//
// Images are stored as owned NRGBA buffers keyed by file path, already
// rotated according to their EXIF orientation tag so that normalized corner
// coordinates always refer to the upright page.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Photos from phone cameras are large; hosts should evict an image
// once its refinement session ends.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG, GIF, TIFF and BMP. JPEG EXIF orientation
// is applied on decode.
//
// # Errors
//
//   - Returns a not_found error if the file cannot be opened or decoded
//   - Returns a validation error if the decoded image has no pixels, or if
//     its header declares more than MaxOutputPixels pixels; such files are
//     rejected before any pixel buffer is allocated
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	if err := checkDimensions(path); err != nil {
		return nil, err
	}

	decoded, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, scanerr.NotFound(fmt.Sprintf("failed to open image %s", path), err)
	}

	img, err := Prepare(decoded)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// checkDimensions reads only the image header of path and rejects images
// too large to decode.
func checkDimensions(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return scanerr.NotFound(fmt.Sprintf("failed to open image %s", path), err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return scanerr.NotFound(fmt.Sprintf("failed to read image header %s", path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return scanerr.Validation(fmt.Sprintf("image %s has no pixels", path), ErrEmptyImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxOutputPixels {
		return scanerr.Validation(fmt.Sprintf("image %s is %dx%d, larger than %d pixels",
			path, cfg.Width, cfg.Height, MaxOutputPixels), nil)
	}
	return nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
