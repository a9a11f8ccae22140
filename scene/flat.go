package scene

import "github.com/achilleasa/raytrace/types"

// A triangle primitive.
type Triangle struct {
	A, B, C types.Vec3

	// Precomputed face normal.
	N types.Vec3

	Mat Material
}

// Create new triangle primitive.
func NewTriangle(a, b, c types.Vec3, material Material) (*Triangle, error) {
	n := a.Sub(b).Cross(a.Sub(c))
	if n.IsZero() {
		return nil, ErrDegenerateTriangle
	}
	return &Triangle{
		A:   a,
		B:   b,
		C:   c,
		N:   n.Normalize(),
		Mat: material,
	}, nil
}

// Intersect solves a + beta*(b-a) + gama*(c-a) = o + t*d. Points on the
// triangle edges and vertices are not considered hits.
func (tr *Triangle) Intersect(ray types.Ray) float64 {
	beta, gama, t, ok := solve3(tr.A.Sub(tr.B), tr.A.Sub(tr.C), ray.Dir, tr.A.Sub(ray.Origin))
	if !ok || t <= 0 {
		return Inf
	}
	if beta > 0 && gama > 0 && beta+gama < 1 {
		return t
	}
	return Inf
}

func (tr *Triangle) Normal(ray types.Ray, _ types.Vec3) types.Vec3 {
	return faceForward(ray, tr.N)
}

func (tr *Triangle) Material() *Material {
	return &tr.Mat
}

func (tr *Triangle) Type() PrimitiveType {
	return TrianglePrimitive
}

// A parallelogram defined by a corner and two edge vectors.
type Rectangle struct {
	Origin       types.Vec3
	Edge1, Edge2 types.Vec3

	// Precomputed face normal.
	N types.Vec3

	Mat Material
}

// Create new rectangle primitive.
func NewRectangle(origin, edge1, edge2 types.Vec3, material Material) (*Rectangle, error) {
	n := edge1.Cross(edge2)
	if n.IsZero() {
		return nil, ErrDegenerateRectangle
	}
	return &Rectangle{
		Origin: origin,
		Edge1:  edge1,
		Edge2:  edge2,
		N:      n.Normalize(),
		Mat:    material,
	}, nil
}

// Intersect solves origin + beta*edge1 + gama*edge2 = o + t*d. Unlike
// triangles, points on the edges and corners are hits.
func (r *Rectangle) Intersect(ray types.Ray) float64 {
	beta, gama, t, ok := solve3(r.Edge1, r.Edge2, ray.Dir.Mul(-1), ray.Origin.Sub(r.Origin))
	if !ok || t <= 0 {
		return Inf
	}
	if beta >= 0 && beta <= 1 && gama >= 0 && gama <= 1 {
		return t
	}
	return Inf
}

func (r *Rectangle) Normal(ray types.Ray, _ types.Vec3) types.Vec3 {
	return faceForward(ray, r.N)
}

func (r *Rectangle) Material() *Material {
	return &r.Mat
}

func (r *Rectangle) Type() PrimitiveType {
	return RectanglePrimitive
}
