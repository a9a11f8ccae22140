package output

import (
	"image"
	"image/color"
	"testing"

	"github.com/achilleasa/raytrace/renderer"
	"github.com/achilleasa/raytrace/types"
)

func TestToImage(t *testing.T) {
	frame := renderer.NewFrame(2, 2)
	frame.Pix[0] = types.XYZ(1, 0, 0)       // (0, 0) bottom-left
	frame.Pix[1] = types.XYZ(2, -1, 0.5)    // (1, 0) bottom-right
	frame.Pix[2] = types.XYZ(0, 1, 0)       // (0, 1) top-left
	frame.Pix[3] = types.XYZ(0.2, 0.4, 0.6) // (1, 1) top-right

	img := ToImage(frame)

	type spec struct {
		x, y int
		exp  color.NRGBA
	}
	specs := []spec{
		{0, 1, color.NRGBA{255, 0, 0, 255}},
		{1, 1, color.NRGBA{255, 0, 128, 255}},
		{0, 0, color.NRGBA{0, 255, 0, 255}},
		{1, 0, color.NRGBA{51, 102, 153, 255}},
	}
	for index, s := range specs {
		if got := img.NRGBAAt(s.x, s.y); got != s.exp {
			t.Fatalf("[spec %d] expected pixel (%d, %d) to be %v; got %v", index, s.x, s.y, s.exp, got)
		}
	}
}

func TestPreview(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 200))

	type spec struct {
		maxW, maxH uint
		expW, expH int
	}
	specs := []spec{
		{100, 100, 100, 50},
		{800, 800, 400, 200},
		{400, 50, 100, 50},
	}
	for index, s := range specs {
		bounds := Preview(img, s.maxW, s.maxH).Bounds()
		if bounds.Dx() != s.expW || bounds.Dy() != s.expH {
			t.Fatalf("[spec %d] expected %dx%d preview; got %dx%d", index, s.expW, s.expH, bounds.Dx(), bounds.Dy())
		}
	}
}
