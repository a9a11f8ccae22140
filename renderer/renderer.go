package renderer

import (
	"context"

	"github.com/achilleasa/raytrace/types"
)

type Renderer interface {
	// Render frame. The returned frame is owned by the renderer and is
	// overwritten by subsequent Render calls.
	Render(ctx context.Context) (*Frame, error)

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// A rendered frame. Pixels are stored row-major; row 0 corresponds to the
// bottom-most camera row.
type Frame struct {
	W, H int
	Pix  []types.Vec3
}

// Allocate a black frame.
func NewFrame(w, h int) *Frame {
	return &Frame{
		W:   w,
		H:   h,
		Pix: make([]types.Vec3, w*h),
	}
}

// Get the color at buffer position (x, y).
func (f *Frame) At(x, y int) types.Vec3 {
	return f.Pix[y*f.W+x]
}

// Create a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		W:   f.W,
		H:   f.H,
		Pix: make([]types.Vec3, len(f.Pix)),
	}
	copy(clone.Pix, f.Pix)
	return clone
}

// A callback for receiving partially rendered frames. rows is the number of
// completed rows starting from row 0.
type SnapshotFunc func(frame *Frame, rows uint32)
