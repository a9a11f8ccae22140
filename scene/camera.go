package scene

import (
	"errors"
	"fmt"

	"github.com/achilleasa/raytrace/types"
)

var ErrDegenerateCamera = errors.New("scene: camera position and look direction do not define a valid basis")

// The camera type generates primary rays. The camera always faces the world
// origin; the look direction selects the horizontal image axis. The right and
// up vectors encode both the image plane orientation and the per-pixel scale.
type Camera struct {
	Position types.Vec3
	Right    types.Vec3
	Up       types.Vec3

	// Frame dimensions and their halves. Rows range over
	// [-HalfHeight, -HalfHeight+Height) and cols over [-HalfWidth, -HalfWidth+Width).
	Width, Height         int
	HalfWidth, HalfHeight int
}

// Create a new camera.
func NewCamera(width, height int, position, look types.Vec3, pixelScale float64) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene: invalid camera frame size %dx%d", width, height)
	}
	if position.IsZero() || look.IsZero() || !(pixelScale > 0) {
		return nil, ErrDegenerateCamera
	}

	front := types.Vec3{}.Sub(position).Normalize()
	right := look.Normalize().Mul(pixelScale)
	up := front.Cross(right)
	if up.IsZero() {
		return nil, ErrDegenerateCamera
	}

	return &Camera{
		Position:   position,
		Right:      right,
		Up:         up.Normalize().Mul(pixelScale),
		Width:      width,
		Height:     height,
		HalfWidth:  width / 2,
		HalfHeight: height / 2,
	}, nil
}

// Cast a ray from the camera position through the pixel at the given
// row/col offset from the frame center.
func (c *Camera) Cast(row, col int) types.Ray {
	target := c.Right.Mul(float64(col)).Add(c.Up.Mul(float64(row)))
	return types.NewRay(c.Position, target.Sub(c.Position))
}

// Cast a ray for frame buffer pixel (x, y) where (0, 0) maps to the
// (-HalfHeight, -HalfWidth) corner.
func (c *Camera) PixelRay(x, y int) types.Ray {
	return c.Cast(y-c.HalfHeight, x-c.HalfWidth)
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"Camera %dx%d\nPosition: (%3.3f, %3.3f, %3.3f)\nRight   : (%3.3f, %3.3f, %3.3f)\nUp      : (%3.3f, %3.3f, %3.3f)",
		c.Width, c.Height,
		c.Position[0], c.Position[1], c.Position[2],
		c.Right[0], c.Right[1], c.Right[2],
		c.Up[0], c.Up[1], c.Up[2],
	)
}
