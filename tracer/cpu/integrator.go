package cpu

import (
	"math"

	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/types"
)

const (
	// Max number of reflection/refraction bounces per primary ray.
	DefaultMaxDepth = 22

	// Light falloff constant k in min(1, 1/(k*dist^2)).
	DefaultFalloff = 0.00005
)

// Ray counters collected by an integrator.
type RayCounters struct {
	Primary   uint64
	Shadow    uint64
	Secondary uint64
}

// The Integrator evaluates the color seen along a ray using local Phong-style
// illumination, colored shadows, mirror reflection and refraction.
//
// An integrator only reads the scene. Its counters are not synchronized, so
// each worker needs its own instance.
type Integrator struct {
	Scene    *scene.Scene
	MaxDepth int
	Falloff  float64

	Counters RayCounters
}

// Create an integrator with the default depth and falloff settings.
func NewIntegrator(sc *scene.Scene) *Integrator {
	return &Integrator{
		Scene:    sc,
		MaxDepth: DefaultMaxDepth,
		Falloff:  DefaultFalloff,
	}
}

// Trace a ray and return the color it carries. Rays that hit nothing
// return the scene background.
func (in *Integrator) Trace(ray types.Ray, depth int) types.Vec3 {
	if depth == 0 {
		in.Counters.Primary++
	} else {
		in.Counters.Secondary++
	}

	obj, dist, hit := in.Scene.NearestHit(ray)
	if !hit {
		return in.Scene.Background
	}

	p := ray.PointAt(dist)
	return in.Shade(obj, ray, p, obj.Normal(ray, p), depth)
}

// Shade point p on obj that was hit by ray and has surface normal n.
func (in *Integrator) Shade(obj scene.Primitive, ray types.Ray, p, n types.Vec3, depth int) types.Vec3 {
	mat := obj.Material()
	color := in.Scene.Background.MulVec(mat.Ambient)

	for _, light := range in.Scene.Lights {
		toLight := light.Position.Sub(p)
		if toLight.IsZero() {
			continue
		}
		lightDist := toLight.Len()
		shadowRay := types.NewRay(p, toLight)

		cosTheta := shadowRay.Dir.Dot(n)
		if cosTheta <= 0 {
			continue
		}

		lightColor := in.occlude(obj, shadowRay, lightDist, light.Color)
		distCoef := math.Min(1, 1/(in.Falloff*lightDist*lightDist))
		lightColor = lightColor.Mul(distCoef)

		color = color.Add(lightColor.MulVec(mat.Diffuse).Mul(cosTheta))
		color = color.Add(lightColor.MulVec(mat.Specular).Mul(math.Pow(math.Max(0, -ray.Dir.Dot(n)), mat.Shininess)))
	}

	if depth >= in.MaxDepth {
		return color
	}

	if mat.Reflectance > scene.Epsilon {
		reflected := types.NewRay(p, reflect(ray.Dir, n))
		color = color.Add(in.Trace(reflected, depth+1).Mul(mat.Reflectance))
	}

	if mat.Transmittance > scene.Epsilon {
		refracted := types.NewRay(p, refract(ray.Dir, n, mat.RefractiveIndex))
		color = color.Add(in.Trace(refracted, depth+1).Mul(mat.Transmittance))
	}

	return color
}

// Filter the light color through every primitive other than obj that lies
// between the shaded point and the light.
func (in *Integrator) occlude(obj scene.Primitive, shadowRay types.Ray, lightDist float64, lightColor types.Vec3) types.Vec3 {
	in.Counters.Shadow++
	for _, prim := range in.Scene.Primitives {
		if prim == obj {
			continue
		}
		if d := prim.Intersect(shadowRay); scene.Epsilon < d && d < lightDist {
			lightColor = lightColor.MulVec(prim.Material().Transmission)
		}
	}
	return lightColor
}

// Mirror dir about normal n.
func reflect(dir, n types.Vec3) types.Vec3 {
	return dir.Sub(n.Mul(2 * dir.Dot(n)))
}

// Refract dir through a surface with normal n using Snell's law. The ray
// enters the surface when it travels against n and exits otherwise. On total
// internal reflection the mirrored direction is returned instead.
func refract(dir, n types.Vec3, ior float64) types.Vec3 {
	cosi := dir.Dot(n)
	eta := 1.0 / ior
	if cosi < 0 {
		cosi = -cosi
	} else {
		eta = ior
		n = n.Mul(-1)
	}

	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return reflect(dir, n)
	}
	return dir.Mul(eta).Add(n.Mul(eta*cosi - math.Sqrt(k)))
}
