package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("image has zero width or height")

// Load reads and decodes an image file and returns it as an opaque RGB buffer.
//
// Parameters:
//   - path: Path to the image file. Supported formats are PNG, JPEG, GIF,
//     BMP, TIFF and WebP.
//
// Returns:
//   - *image.NRGBA: The decoded pixels with origin (0,0) and alpha forced to 255.
//   - error: Non-nil if the file cannot be opened or decoded, or is empty.
//
// # Alpha Handling
//
// The alpha channel is discarded rather than composited, so a transparent pixel
// keeps its stored RGB value. This matches how the artifact pipeline treats every
// input as a plain RGB triple grid.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ToRGB(img)
}

// ToRGB copies any image into a new opaque NRGBA buffer whose bounds start at (0,0).
//
// The source is never modified.
func ToRGB(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst, nil
}

// SaveResult describes a written image file.
type SaveResult struct {
	// Path is the file that was written.
	Path string `json:"path"`

	// Width of the written image in pixels.
	Width int `json:"width"`

	// Height of the written image in pixels.
	Height int `json:"height"`

	// FileSizeBytes is the size of the file on disk after encoding.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Save encodes img to path. The output format is chosen from the file extension
// (".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp").
func Save(img image.Image, path string) (*SaveResult, error) {
	if err := imaging.Save(img, path); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	b := img.Bounds()
	return &SaveResult{
		Path:          path,
		Width:         b.Dx(),
		Height:        b.Dy(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// ImageCache provides thread-safe caching of decoded source images.
//
// Only decoded inputs are cached. Everything derived from an image (score maps,
// overlays, composites) is recomputed on each pipeline run.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/image.png") // Optional: free memory
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

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The image is cached using the exact path string provided. Callers must treat
// the returned buffer as read-only since it is shared between calls.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes a specific image from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports how many images are currently cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
