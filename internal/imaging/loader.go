package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
)

// supportedFormats lists the upload encodings the filter server accepts.
// Other decoders may be registered by imported packages; they are refused.
var supportedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// maxDecodePixels bounds Width*Height of an accepted image. The header is
// checked against it before any pixel memory is allocated.
var maxDecodePixels = 64 << 20

// Decode reads a JPEG or PNG image from r.
//
// The image header is inspected first: unsupported formats and images larger
// than maxDecodePixels are rejected without decoding pixel data.
//
// Returns:
//   - image.Image: The decoded image.
//   - string: The format name reported by the decoder ("jpeg" or "png").
//   - error: Wraps filter.ErrInvalidImage if the data is corrupt, too large
//     or in an unsupported format.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode image: %v", filter.ErrInvalidImage, err)
	}
	if !supportedFormats[format] {
		return nil, "", fmt.Errorf("%w: unsupported format %q (want jpeg or png)", filter.ErrInvalidImage, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxDecodePixels/cfg.Height {
		return nil, "", fmt.Errorf("%w: %dx%d image exceeds the %d pixel limit",
			filter.ErrInvalidImage, cfg.Width, cfg.Height, maxDecodePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode image: %v", filter.ErrInvalidImage, err)
	}
	return img, format, nil
}

// DecodeBase64 decodes an uploaded image given as standard base64, with or
// without a "data:image/...;base64," URL prefix.
func DecodeBase64(data string) (image.Image, string, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		i := strings.Index(data, ",")
		if i < 0 {
			return nil, "", fmt.Errorf("%w: malformed data URL", filter.ErrInvalidImage)
		}
		data = data[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid base64: %v", filter.ErrInvalidImage, err)
	}
	return Decode(bytes.NewReader(raw))
}

// cachedImage is a decoded image together with the format it was decoded from.
type cachedImage struct {
	img    image.Image
	format string
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded images keyed by their file path, along with the
// detected format. Cached images remain in memory until explicitly removed via
// Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := filter.Apply(img, filter.Sepia, filter.DefaultParams())
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns an error wrapping filter.ErrInvalidImage if the file is not a
//     valid PNG or JPEG image
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

// LoadWithFormat is Load that also reports the decoded format ("jpeg" or "png").
func (c *ImageCache) LoadWithFormat(path string) (image.Image, string, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, "", err
	}
	return entry.img, entry.format, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return cachedImage{}, err
	}

	entry := cachedImage{img: img, format: format}
	c.mu.Lock()
	c.images[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoded format: "png" or "jpeg".
	Format string `json:"format"`

	// Channels is 1 for grayscale images and 3 for color images.
	// Only 3-channel images can be passed to the grayscale, edge_detect,
	// sepia and sketch filters.
	Channels int `json:"channels"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha channel.
	// Alpha is discarded by every filter.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	// It is 0 for uploaded images.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Describe returns metadata for an already decoded image.
//
// Color depth and alpha are determined by the Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA and their 16-bit variants carry alpha
//   - All other types -> "8-bit", no alpha
func Describe(img image.Image, format string) *ImageInfo {
	bounds := img.Bounds()

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     format,
		Channels:   filter.Channels(img),
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha,
	}
}

// LoadImageInfo loads an image through the cache and returns its metadata,
// including the size of the file on disk.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := Describe(entry.img, entry.format)
	info.FileSizeBytes = stat.Size()
	return info, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(img image.Image) *DimensionsResult {
	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
}
