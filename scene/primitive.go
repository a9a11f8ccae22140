package scene

import (
	"errors"
	"math"

	"github.com/achilleasa/raytrace/types"
)

type PrimitiveType uint32

const (
	SpherePrimitive PrimitiveType = iota
	TrianglePrimitive
	RectanglePrimitive
)

func (t PrimitiveType) String() string {
	switch t {
	case SpherePrimitive:
		return "sphere"
	case TrianglePrimitive:
		return "triangle"
	case RectanglePrimitive:
		return "rectangle"
	}
	return "unknown"
}

const (
	// Intersection distance returned when a ray misses a primitive.
	Inf = math.MaxFloat64

	// Hits closer than this distance are treated as self-intersections
	// with the surface the ray originated from.
	Epsilon = 1e-4

	// Linear systems with a smaller determinant are treated as singular.
	detEpsilon = 1e-12
)

var (
	ErrDegenerateSphere    = errors.New("scene: sphere radius must be > 0")
	ErrDegenerateTriangle  = errors.New("scene: triangle vertices are collinear")
	ErrDegenerateRectangle = errors.New("scene: rectangle edges are parallel or zero")
)

// The Primitive interface is implemented by all renderable surfaces.
type Primitive interface {
	// Get the distance along the ray to the nearest intersection or Inf
	// if the ray does not hit the primitive.
	Intersect(ray types.Ray) float64

	// Get the unit surface normal at point p which was hit by ray.
	Normal(ray types.Ray, p types.Vec3) types.Vec3

	// Get the primitive material.
	Material() *Material

	// Get the primitive type.
	Type() PrimitiveType
}

// Solve x0*c0 + x1*c1 + x2*c2 = rhs using Cramer's rule. The last return
// value is false if the system is singular.
func solve3(c0, c1, c2, rhs types.Vec3) (float64, float64, float64, bool) {
	c1xc2 := c1.Cross(c2)
	det := c0.Dot(c1xc2)
	if math.Abs(det) < detEpsilon {
		return 0, 0, 0, false
	}

	invDet := 1.0 / det
	x0 := rhs.Dot(c1xc2) * invDet
	x1 := c0.Dot(rhs.Cross(c2)) * invDet
	x2 := c0.Dot(c1.Cross(rhs)) * invDet
	return x0, x1, x2, true
}

// Flip a flat surface normal so it faces against the incoming ray.
func faceForward(ray types.Ray, n types.Vec3) types.Vec3 {
	if ray.Dir.Dot(n) > 0 {
		return n.Mul(-1)
	}
	return n
}
