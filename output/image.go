package output

import (
	"image"
	"image/color"

	"github.com/achilleasa/raytrace/renderer"
	"github.com/nfnt/resize"
)

// Convert a rendered frame to an 8-bit image. Channel values are clamped to
// [0, 1]. Frame row 0 is the bottom camera row so rows are flipped.
func ToImage(frame *renderer.Frame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, frame.W, frame.H))
	for y := 0; y < frame.H; y++ {
		imgY := frame.H - 1 - y
		for x := 0; x < frame.W; x++ {
			c := frame.At(x, y)
			img.SetNRGBA(x, imgY, color.NRGBA{
				R: toByte(c[0]),
				G: toByte(c[1]),
				B: toByte(c[2]),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Downscale img so it fits inside a maxW x maxH box preserving its aspect
// ratio. Images that already fit are returned unchanged.
func Preview(img image.Image, maxW, maxH uint) image.Image {
	return resize.Thumbnail(maxW, maxH, img, resize.Bilinear)
}
