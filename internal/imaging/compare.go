package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Side-by-side layout, in pixels.
const (
	panelGutter   = 10
	captionHeight = 20
)

// SideBySide composes a left and a right image into one picture, each under
// a centered caption, on a white background.
//
// Parameters:
//   - left, right: The two panels, typically the original and the filtered image.
//     1-channel panels are drawn as gray.
//   - leftTitle, rightTitle: Captions drawn above each panel. Captions wider
//     than their panel are clipped.
//   - columnWidth: If > 0, each panel is resized (Lanczos, aspect preserved)
//     to exactly this width. Otherwise panels keep their size.
//
// The result is (leftWidth + gutter + rightWidth) wide and
// (caption + max(leftHeight, rightHeight)) tall. Shorter panels are
// top-aligned.
func SideBySide(left, right image.Image, leftTitle, rightTitle string, columnWidth int) *image.NRGBA {
	if columnWidth > 0 {
		left = fitWidth(left, columnWidth)
		right = fitWidth(right, columnWidth)
	}

	lb, rb := left.Bounds(), right.Bounds()
	width := lb.Dx() + panelGutter + rb.Dx()
	height := captionHeight + max(lb.Dy(), rb.Dy())

	canvas := imaging.New(width, height, color.White)
	canvas = imaging.Paste(canvas, left, image.Pt(0, captionHeight))
	canvas = imaging.Paste(canvas, right, image.Pt(lb.Dx()+panelGutter, captionHeight))

	drawCaption(canvas, 0, lb.Dx(), leftTitle)
	drawCaption(canvas, lb.Dx()+panelGutter, rb.Dx(), rightTitle)
	return canvas
}

// fitWidth scales img to the given width, keeping its aspect ratio.
func fitWidth(img image.Image, width int) image.Image {
	if img.Bounds().Dx() == width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// drawCaption writes text centered over the span [x, x+spanWidth) of the caption strip.
func drawCaption(dst *image.NRGBA, x, spanWidth int, text string) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	offset := (spanWidth - textWidth) / 2
	if offset < 0 {
		offset = 0
	}

	// Clip so a long caption cannot spill into the neighboring panel.
	panel := dst.SubImage(image.Rect(x, 0, x+spanWidth, captionHeight)).(*image.NRGBA)

	d := &font.Drawer{
		Dst:  panel,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x+offset, (captionHeight+face.Ascent-face.Descent)/2),
	}
	d.DrawString(text)
}
