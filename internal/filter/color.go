package filter

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// sepiaMatrix is applied as out[i] = sum_j sepiaMatrix[i][j] * in[j] with
// in = (R, G, B). out[0] is written to the red position, out[1] to green
// and out[2] to blue, so the first row (the "sepia blue" weights) lands in
// the red channel.
var sepiaMatrix = [3][3]float64{
	{0.272, 0.534, 0.131},
	{0.349, 0.686, 0.168},
	{0.393, 0.769, 0.189},
}

// grayscale reduces an RGB image to luminance (0.299R + 0.587G + 0.114B,
// rounded half up).
func grayscale(src *image.NRGBA) *image.Gray {
	g := imaging.Grayscale(src)
	return firstPlane(g.Pix, g.Stride, g.Rect.Dx(), g.Rect.Dy())
}

// sepia applies sepiaMatrix to every pixel, clamping and truncating each result.
func sepia(src *image.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		in := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
		var out [3]uint8
		for i, row := range sepiaMatrix {
			out[i] = clampUint8(row[0]*in[0] + row[1]*in[1] + row[2]*in[2])
		}
		return color.NRGBA{R: out[0], G: out[1], B: out[2], A: 0xff}
	})
}

func invertRGB(src *image.NRGBA) *image.NRGBA {
	return imaging.Invert(src)
}

func invertGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		dst.Pix[i] = 255 - v
	}
	return dst
}
