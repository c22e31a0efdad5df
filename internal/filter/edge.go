package filter

import (
	"image"
)

// tan(22.5°) in Q15 fixed point, used to bucket gradient directions.
const tg22 = 13573

var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// canny performs Canny edge detection on an RGB image.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators per channel with replicated
//     borders. Each pixel keeps the channel with the largest L1 magnitude
//     |Gx| + |Gy|, on the raw 0-255 intensity scale.
//
//  2. Non-maximum suppression: the direction is bucketed into horizontal,
//     vertical or one of two diagonals, and a pixel survives only if it is
//     a local maximum along that direction. Neighbors outside the image
//     count as zero.
//
//  3. Hysteresis thresholding:
//     - magnitude > high: strong edge (always kept)
//     - low < magnitude <= high: weak edge, kept only if 8-connected,
//     directly or through other weak edges, to a strong edge
//     - magnitude <= low: discarded
//
// The result is binary: edges are 255, everything else 0.
func canny(src *image.NRGBA, low, high int) *image.Gray {
	width := src.Rect.Dx()
	height := src.Rect.Dy()
	n := width * height

	dx := make([]int, n)
	dy := make([]int, n)
	mag := make([]int, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := -1
			for c := 0; c < 3; c++ {
				var gx, gy int
				for ky := -1; ky <= 1; ky++ {
					py := clamp(y+ky, 0, height-1)
					for kx := -1; kx <= 1; kx++ {
						px := clamp(x+kx, 0, width-1)
						v := int(src.Pix[py*src.Stride+px*4+c])
						gx += v * sobelX[ky+1][kx+1]
						gy += v * sobelY[ky+1][kx+1]
					}
				}
				if m := abs(gx) + abs(gy); m > best {
					best = m
					dx[y*width+x] = gx
					dy[y*width+x] = gy
				}
			}
			mag[y*width+x] = best
		}
	}

	magAt := func(x, y int) int {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		return mag[y*width+x]
	}

	state := make([]uint8, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := mag[i]
			if m <= low {
				continue
			}

			gx, gy := dx[i], dy[i]
			xs, ys := abs(gx), abs(gy)
			tg22x := xs * tg22
			ys15 := ys << 15

			var isMax bool
			switch {
			case ys15 < tg22x:
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ys15 > tg22x+(xs<<16):
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (gx < 0) != (gy < 0) {
					s = -1
				}
				isMax = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !isMax {
				continue
			}

			if m > high {
				state[i] = edgeStrong
			} else {
				state[i] = edgeWeak
			}
		}
	}

	return hysteresis(state, width, height)
}

// Pixel classes after non-maximum suppression.
const (
	edgeNone uint8 = iota
	edgeWeak
	edgeStrong
)

// hysteresis promotes every weak pixel 8-connected to a strong pixel and
// renders strong pixels as 255. state is modified in place.
func hysteresis(state []uint8, width, height int) *image.Gray {
	stack := make([]int, 0, 64)
	for i, s := range state {
		if s == edgeStrong {
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := x+kx, y+ky
				if px < 0 || px >= width || py < 0 || py >= height {
					continue
				}
				j := py*width + px
				if state[j] == edgeWeak {
					state[j] = edgeStrong
					stack = append(stack, j)
				}
			}
		}
	}

	result := image.NewGray(image.Rect(0, 0, width, height))
	for i, s := range state {
		if s == edgeStrong {
			result.Pix[i] = 255
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
