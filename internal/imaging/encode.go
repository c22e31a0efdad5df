package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-filter-mcp/internal/filter"
)

// ImageResult contains an image encoded as base64 PNG.
//
// 1-channel results are written as grayscale PNGs so clients render them
// as intensity images rather than RGB.
type ImageResult struct {
	// Width of the image in pixels.
	Width int `json:"width"`

	// Height of the image in pixels.
	Height int `json:"height"`

	// Channels is 1 for grayscale and 3 for color results.
	Channels int `json:"channels"`

	// ImageBase64 is the image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &ImageResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Channels:    filter.Channels(img),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
