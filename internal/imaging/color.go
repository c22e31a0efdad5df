package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in multiple representations.
//
// For 1-channel images Gray holds the intensity and RGB repeats it on all
// three components.
type ColorResult struct {
	Hex      string    `json:"hex"`            // Hex format "#RRGGBB" (no alpha)
	RGB      RGBColor  `json:"rgb"`            // RGB components
	RGBA     RGBAColor `json:"rgba"`           // RGBA components with alpha
	HSL      HSLColor  `json:"hsl"`            // HSL representation
	Channels int       `json:"channels"`       // 1 or 3
	Gray     *uint8    `json:"gray,omitempty"` // Intensity, 1-channel images only
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based relative to the image's top-left corner, so
// (0,0) is always the first pixel even for sub-images.
//
// Returns an error wrapping filter.ErrInvalidParams if the coordinates are
// outside the image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || y < 0 || x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("%w: coordinates (%d,%d) outside image bounds %dx%d",
			filter.ErrInvalidParams, x, y, bounds.Dx(), bounds.Dy())
	}

	px := img.At(bounds.Min.X+x, bounds.Min.Y+y)
	_, _, _, a := px.RGBA()
	a8 := uint8(a >> 8)

	// MakeColor reports false for fully transparent pixels, which have no
	// meaningful color; they sample as black.
	c, _ := colorful.MakeColor(px)
	r8, g8, b8 := c.RGB255()
	h, s, l := c.Hsl()

	result := &ColorResult{
		Hex:  strings.ToUpper(c.Hex()),
		RGB:  RGBColor{R: r8, G: g8, B: b8},
		RGBA: RGBAColor{R: r8, G: g8, B: b8, A: a8},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Channels: filter.Channels(img),
	}
	if result.Channels == 1 {
		v := r8
		result.Gray = &v
	}
	return result, nil
}
