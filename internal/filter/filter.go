package filter

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Apply runs the filter identified by kind over img and returns a new image.
//
// Parameters:
//   - img: Source image. It is read but never modified.
//   - kind: The filter to apply.
//   - p: Filter parameters. Only the fields used by kind are validated;
//     use DefaultParams() for the documented defaults.
//
// Returns:
//   - image.Image: *image.Gray for 1-channel results, *image.NRGBA for
//     3-channel results. Bounds always start at (0,0).
//   - error: wraps ErrInvalidImage or ErrInvalidParams. No image is
//     returned on error.
func Apply(img image.Image, kind Kind, p Params) (image.Image, error) {
	if err := p.Validate(kind); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image %v", ErrInvalidImage, img.Bounds())
	}

	channels := Channels(img)
	if kind.RequiresColor() && channels != 3 {
		return nil, fmt.Errorf("%w: %s needs a 3-channel image, got %d channel(s)",
			ErrInvalidImage, kind, channels)
	}

	switch kind {
	case Grayscale:
		return grayscale(toRGB(img)), nil
	case EdgeDetect:
		return canny(toRGB(img), p.LowThreshold, p.HighThreshold), nil
	case Blur:
		if channels == 1 {
			return gaussianBlurGray(toGray(img), p.KernelSize), nil
		}
		return gaussianBlurRGB(toRGB(img), p.KernelSize), nil
	case Sepia:
		return sepia(toRGB(img)), nil
	case Invert:
		if channels == 1 {
			return invertGray(toGray(img)), nil
		}
		return invertRGB(toRGB(img)), nil
	case Sketch:
		return sketch(toRGB(img)), nil
	}
	return nil, fmt.Errorf("%w: unknown filter %s", ErrInvalidParams, kind)
}

// Channels reports the channel count of img: 1 for gray images, 3 otherwise.
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	}
	return 3
}

// toRGB copies img into an opaque NRGBA image anchored at (0,0).
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// toGray copies a 1-channel image into a Gray image anchored at (0,0).
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// firstPlane extracts channel 0 of a 4-byte-per-pixel buffer (NRGBA or RGBA
// layout) into a Gray image of size w x h.
func firstPlane(pix []uint8, stride, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := pix[y*stride:]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range row {
			row[x] = src[x*4]
		}
	}
	return dst
}

// opaqueNRGBA reinterprets an opaque RGBA image as NRGBA. With alpha at 255
// the premultiplied and straight encodings are byte-identical.
func opaqueNRGBA(src *image.RGBA) *image.NRGBA {
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xff
	}
	return &image.NRGBA{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect}
}

func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
