package filter

import (
	"image"
	"math"
)

// sketch produces a pencil-sketch rendering: the gray image is color-dodged
// against a heavily blurred copy of its own inverse.
func sketch(src *image.NRGBA) *image.Gray {
	gray := grayscale(src)
	blurred := gaussianBlurGray(invertGray(gray), sketchKernelSize)

	dst := image.NewGray(gray.Rect)
	for i, g := range gray.Pix {
		dst.Pix[i] = colorDodge(g, blurred.Pix[i])
	}
	return dst
}

// colorDodge computes round(g*256 / (255-b)) saturated to 255.
// A zero divisor yields 0.
func colorDodge(g, b uint8) uint8 {
	d := 255 - int(b)
	if d == 0 {
		return 0
	}
	return clampUint8(math.Round(float64(g) * 256 / float64(d)))
}
