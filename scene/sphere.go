package scene

import (
	"math"

	"github.com/achilleasa/raytrace/types"
)

// A sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float64
	Mat    Material
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float64, material Material) (*Sphere, error) {
	if !(radius > 0) {
		return nil, ErrDegenerateSphere
	}
	return &Sphere{
		Center: center,
		Radius: radius,
		Mat:    material,
	}, nil
}

// Intersect returns the nearer root of the ray/sphere quadratic without
// checking its sign. Callers must discard distances <= Epsilon.
func (s *Sphere) Intersect(ray types.Ray) float64 {
	v := ray.Origin.Sub(s.Center)
	b := ray.Dir.Dot(v)
	disc := b*b - v.Dot(v) + s.Radius*s.Radius
	if disc > 0 {
		return -b - math.Sqrt(disc)
	}
	return Inf
}

// Normal returns the outward radial normal. Unlike flat primitives, it is
// never flipped towards the ray as refraction relies on its orientation.
func (s *Sphere) Normal(_ types.Ray, p types.Vec3) types.Vec3 {
	return p.Sub(s.Center).Normalize()
}

func (s *Sphere) Material() *Material {
	return &s.Mat
}

func (s *Sphere) Type() PrimitiveType {
	return SpherePrimitive
}
