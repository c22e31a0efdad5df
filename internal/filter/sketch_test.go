package filter

import (
	"image"
	"image/color"
	"testing"
)

func TestSketch_SolidImages(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		want uint8
	}{
		// gray=255, inverse=0, blur=0: 255*256/255 = 256, saturates.
		{"white", color.NRGBA{255, 255, 255, 255}, 255},
		// gray=0: divisor is zero, dodge yields 0.
		{"black", color.NRGBA{0, 0, 0, 255}, 0},
		// gray=128, inverse=127, blur=127: round(128*256/128) = 256, saturates.
		{"mid gray", color.NRGBA{128, 128, 128, 255}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(solidRGB(25, 25, tt.in), Sketch, DefaultParams())
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			gray, ok := out.(*image.Gray)
			if !ok {
				t.Fatalf("output type: got %T, want *image.Gray", out)
			}
			for i, v := range gray.Pix {
				if v != tt.want {
					t.Fatalf("pixel %d: got %d, want %d", i, v, tt.want)
				}
			}
		})
	}
}

func TestSketch_DarkLines(t *testing.T) {
	// A dark vertical line on white stays dark; the background stays white.
	img := solidRGB(41, 41, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < 41; y++ {
		img.SetNRGBA(20, y, color.NRGBA{0, 0, 0, 255})
	}

	out, err := Apply(img, Sketch, DefaultParams())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	gray := out.(*image.Gray)

	if v := gray.GrayAt(20, 20).Y; v != 0 {
		t.Errorf("line pixel: got %d, want 0", v)
	}
	if v := gray.GrayAt(0, 20).Y; v != 255 {
		t.Errorf("background pixel: got %d, want 255", v)
	}
}

func TestColorDodge(t *testing.T) {
	tests := []struct {
		g, b uint8
		want uint8
	}{
		{0, 0, 0},
		{100, 255, 0},
		{255, 255, 0},
		{100, 0, 100},   // round(100*256/255) = round(100.39)
		{200, 100, 255}, // 200*256/155 = 330.3, saturates
		{50, 55, 64},    // 50*256/200 = 64
	}
	for _, tt := range tests {
		if got := colorDodge(tt.g, tt.b); got != tt.want {
			t.Errorf("colorDodge(%d, %d): got %d, want %d", tt.g, tt.b, got, tt.want)
		}
	}
}
