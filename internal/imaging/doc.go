// Package imaging provides the image I/O around the filter engine: decoding
// uploads, caching loaded files, encoding results and composing the
// original/filtered side-by-side view.
//
// All operations work with standard Go image.Image types and use a coordinate system
// where (0,0) is at the top-left corner, X increases rightward, and Y increases downward.
//
// # Supported Formats
//
// Only JPEG and PNG uploads are accepted. Decode failures and other formats
// are reported as errors wrapping filter.ErrInvalidImage, so callers can tell
// a bad upload from an I/O failure with errors.Is.
//
// # Display Handling
//
// Results are always encoded as PNG. 1-channel images become grayscale PNGs
// and 3-channel images become RGB(A) PNGs, which lets clients display each
// result with the right channel interpretation.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Memory Management
//
// Cached images remain in memory until Evict() or Clear() is called. Uploaded
// (base64) images are never cached.
package imaging
