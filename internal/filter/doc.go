// Package filter implements the six fixed visual filters of the image filter
// server: Grayscale, EdgeDetect, Blur, Sepia, Invert and Sketch.
//
// The package exposes a single entry point, Apply, which dispatches on a
// closed Kind enumeration and returns a freshly allocated image. Inputs are
// never modified, and no state survives between calls, so Apply may be
// called concurrently from any number of goroutines.
//
// # Channels
//
// Images are standard Go image.Image values. An *image.Gray or *image.Gray16
// is a 1-channel (intensity) image; every other color model is treated as a
// 3-channel RGB image. Alpha is discarded: color channels are read
// un-premultiplied and every output is fully opaque.
//
// Output types:
//   - 1-channel results are *image.Gray
//   - 3-channel results are *image.NRGBA with alpha fixed at 255
//
// All outputs have bounds starting at (0,0), regardless of the input bounds.
//
// # Filters
//
//   - Grayscale: 0.299R + 0.587G + 0.114B luminance, rounded half up. 3 -> 1 channel.
//   - EdgeDetect: Canny detector with 3x3 Sobel gradients, non-maximum
//     suppression and hysteresis. 3 -> 1 channel, binary {0, 255}.
//   - Blur: Gaussian smoothing with an odd square kernel (1..15). Channel count preserved.
//   - Sepia: fixed 3x3 color matrix, clamped and truncated. 3 -> 3 channels.
//   - Invert: 255 - v on every channel. Channel count preserved.
//   - Sketch: pencil sketch via color dodge of a 21x21 blurred inverse. 3 -> 1 channel.
//
// # Error Handling
//
// Every failure wraps one of two sentinel errors:
//   - ErrInvalidImage: nil or empty image, or wrong channel count for the filter
//   - ErrInvalidParams: unknown filter kind, or a parameter outside its documented range
//
// Parameters are validated, never clamped. An even or out-of-range blur kernel size
// is rejected rather than rounded.
package filter
