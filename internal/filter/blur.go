package filter

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// sketchKernelSize is the fixed blur size used by the pencil sketch.
const sketchKernelSize = 21

// smallGaussianKernels are the 1-D binomial kernels used when the sigma is
// derived from the kernel size and the size is 7 or less.
var smallGaussianKernels = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// gaussianSigma derives the standard deviation from an odd kernel size.
func gaussianSigma(size int) float64 {
	return 0.3*(float64(size-1)*0.5-1) + 0.8
}

// gaussianKernel1D returns a normalized 1-D Gaussian of the given odd size.
func gaussianKernel1D(size int) []float64 {
	if k, ok := smallGaussianKernels[size]; ok {
		out := make([]float64, len(k))
		copy(out, k)
		return out
	}

	sigma := gaussianSigma(size)
	scale := -0.5 / (sigma * sigma)
	center := float64(size-1) * 0.5

	k := make([]float64, size)
	var sum float64
	for i := range k {
		x := float64(i) - center
		k[i] = math.Exp(scale * x * x)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianKernel builds the separable 2-D kernel as the outer product of
// the 1-D kernel with itself.
func gaussianKernel(size int) *convolution.Kernel {
	k1 := gaussianKernel1D(size)
	k := convolution.NewKernel(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			k.Matrix[y*size+x] = k1[y] * k1[x]
		}
	}
	return k
}

// convolveGaussian smooths img with a size x size Gaussian. Borders are
// extended and the 0.5 bias rounds each channel to nearest.
func convolveGaussian(img image.Image, size int) *image.RGBA {
	return convolution.Convolve(img, gaussianKernel(size), &convolution.Options{
		Bias:      0.5,
		Wrap:      false,
		KeepAlpha: true,
	})
}

func gaussianBlurRGB(src *image.NRGBA, size int) *image.NRGBA {
	return opaqueNRGBA(convolveGaussian(src, size))
}

func gaussianBlurGray(src *image.Gray, size int) *image.Gray {
	out := convolveGaussian(src, size)
	return firstPlane(out.Pix, out.Stride, out.Rect.Dx(), out.Rect.Dy())
}
