package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/raytrace/types"
)

func mustSphere(t *testing.T, center types.Vec3, radius float64) *Sphere {
	s, err := NewSphere(center, radius, DefaultMaterial())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustTriangle(t *testing.T, a, b, c types.Vec3) *Triangle {
	tr, err := NewTriangle(a, b, c, DefaultMaterial())
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func mustRectangle(t *testing.T, origin, e1, e2 types.Vec3) *Rectangle {
	r, err := NewRectangle(origin, e1, e2, DefaultMaterial())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestSphereIntersection(t *testing.T) {
	s := mustSphere(t, types.XYZ(1, 2, 3), 2)

	tests := []struct {
		name    string
		ray     types.Ray
		expDist float64
	}{
		{
			name:    "aimed at center",
			ray:     types.NewRay(types.XYZ(1, 2, 13), types.XYZ(0, 0, -1)),
			expDist: 8,
		},
		{
			name:    "aimed at center from an oblique direction",
			ray:     types.NewRay(types.XYZ(4, 6, 3), types.XYZ(-3, -4, 0)),
			expDist: 3,
		},
		{
			name:    "misses silhouette",
			ray:     types.NewRay(types.XYZ(1, 5, 13), types.XYZ(0, 0, -1)),
			expDist: Inf,
		},
		{
			name:    "grazing tangent ray",
			ray:     types.NewRay(types.XYZ(3, 2, 13), types.XYZ(0, 0, -1)),
			expDist: Inf,
		},
		{
			name:    "sphere behind ray origin returns the negative root",
			ray:     types.NewRay(types.XYZ(1, 2, 13), types.XYZ(0, 0, 1)),
			expDist: -12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Intersect(tt.ray)
			if tt.expDist == Inf {
				if got != Inf {
					t.Fatalf("expected Inf; got %f", got)
				}
				return
			}
			if math.Abs(got-tt.expDist) > 1e-9 {
				t.Fatalf("expected distance %f; got %f", tt.expDist, got)
			}
		})
	}
}

func TestSphereNormalIsNotFlipped(t *testing.T) {
	s := mustSphere(t, types.XYZ(0, 0, 0), 2)

	// A ray travelling away from the center along the normal.
	ray := types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
	n := s.Normal(ray, types.XYZ(0, 0, 2))
	if exp := types.XYZ(0, 0, 1); n != exp {
		t.Fatalf("expected outward normal %v; got %v", exp, n)
	}
}

func TestTriangleIntersection(t *testing.T) {
	tr := mustTriangle(t, types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))
	dir := types.XYZ(0, 0, 1)

	tests := []struct {
		name    string
		origin  types.Vec3
		dir     types.Vec3
		expDist float64
	}{
		{"through centroid", types.XYZ(1.0/3, 1.0/3, -2), dir, 2},
		{"through centroid from behind", types.XYZ(1.0/3, 1.0/3, 3), dir.Mul(-1), 3},
		{"outside with beta+gama > 1", types.XYZ(0.6, 0.6, -1), dir, Inf},
		{"exactly on hypotenuse", types.XYZ(0.5, 0.5, -1), dir, Inf},
		{"exactly on edge", types.XYZ(0.5, 0, -1), dir, Inf},
		{"exactly through vertex a", types.XYZ(0, 0, -1), dir, Inf},
		{"exactly through vertex b", types.XYZ(1, 0, -1), dir, Inf},
		{"parallel to plane", types.XYZ(0.2, 0.2, 0), types.XYZ(1, 0, 0), Inf},
		{"plane behind origin", types.XYZ(0.2, 0.2, 1), dir, Inf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Intersect(types.NewRay(tt.origin, tt.dir))
			if tt.expDist == Inf {
				if got != Inf {
					t.Fatalf("expected Inf; got %f", got)
				}
				return
			}
			if math.Abs(got-tt.expDist) > 1e-9 {
				t.Fatalf("expected distance %f; got %f", tt.expDist, got)
			}
		})
	}
}

func TestRectangleIntersection(t *testing.T) {
	r := mustRectangle(t, types.XYZ(0, 0, 0), types.XYZ(2, 0, 0), types.XYZ(0, 1, 0))
	dir := types.XYZ(0, 0, 1)

	tests := []struct {
		name    string
		origin  types.Vec3
		expDist float64
	}{
		{"through center", types.XYZ(1, 0.5, -1), 1},
		{"through origin corner", types.XYZ(0, 0, -1), 1},
		{"through opposite corner", types.XYZ(2, 1, -4), 4},
		{"through edge", types.XYZ(1, 0, -1), 1},
		{"outside", types.XYZ(2.5, 0.5, -1), Inf},
		{"outside below", types.XYZ(1, -0.1, -1), Inf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Intersect(types.NewRay(tt.origin, dir))
			if tt.expDist == Inf {
				if got != Inf {
					t.Fatalf("expected Inf; got %f", got)
				}
				return
			}
			if math.Abs(got-tt.expDist) > 1e-9 {
				t.Fatalf("expected distance %f; got %f", tt.expDist, got)
			}
		})
	}

	parallel := types.NewRay(types.XYZ(0.5, 0.5, 0), types.XYZ(0, 1, 0))
	if got := r.Intersect(parallel); got != Inf {
		t.Fatalf("expected parallel ray to miss; got %f", got)
	}
}

func TestFlatNormalsFaceTheRay(t *testing.T) {
	tr := mustTriangle(t, types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))
	r := mustRectangle(t, types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))

	for _, prim := range []Primitive{tr, r} {
		for _, dir := range []types.Vec3{types.XYZ(0, 0, 1), types.XYZ(0, 0, -1), types.XYZ(0.3, 0.1, -1)} {
			ray := types.NewRay(types.XYZ(0.2, 0.2, 0).Sub(dir), dir)
			n := prim.Normal(ray, types.XYZ(0.2, 0.2, 0))
			if ray.Dir.Dot(n) > 0 {
				t.Fatalf("[%s] expected normal %v to oppose ray direction %v", prim.Type(), n, ray.Dir)
			}
			if math.Abs(n.Len()-1) > 1e-9 {
				t.Fatalf("[%s] expected unit normal; got length %f", prim.Type(), n.Len())
			}
		}
	}
}

func TestDegeneratePrimitives(t *testing.T) {
	if _, err := NewSphere(types.XYZ(0, 0, 0), 0, DefaultMaterial()); err != ErrDegenerateSphere {
		t.Fatalf("expected ErrDegenerateSphere; got %v", err)
	}
	if _, err := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), types.XYZ(2, 2, 2), DefaultMaterial()); err != ErrDegenerateTriangle {
		t.Fatalf("expected ErrDegenerateTriangle; got %v", err)
	}
	if _, err := NewRectangle(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(-2, 0, 0), DefaultMaterial()); err != ErrDegenerateRectangle {
		t.Fatalf("expected ErrDegenerateRectangle; got %v", err)
	}
}
