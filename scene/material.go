package scene

import (
	"fmt"

	"github.com/achilleasa/raytrace/types"
)

// Defines a surface material. Each primitive owns a copy of its material.
type Material struct {
	// Ambient, diffuse and specular reflectance colors.
	Ambient  types.Vec3
	Diffuse  types.Vec3
	Specular types.Vec3

	// Filter applied to light passing through this surface when it
	// occludes a light source.
	Transmission types.Vec3

	// Phong exponent.
	Shininess float64

	// Weights for the mirror reflection and refraction terms.
	Reflectance   float64
	Transmittance float64

	// Index of refraction.
	RefractiveIndex float64
}

// Get an opaque, diffuse grey material.
func DefaultMaterial() Material {
	return Material{
		Ambient:         types.XYZ(0.1, 0.1, 0.1),
		Diffuse:         types.XYZ(0.7, 0.7, 0.7),
		RefractiveIndex: 1.0,
	}
}

// Check that material coefficients are within their valid ranges.
func (m *Material) Validate() error {
	switch {
	case m.Shininess < 0:
		return fmt.Errorf("scene: material shininess must be >= 0; got %f", m.Shininess)
	case m.Reflectance < 0 || m.Reflectance > 1:
		return fmt.Errorf("scene: material reflectance must be in [0, 1]; got %f", m.Reflectance)
	case m.Transmittance < 0 || m.Transmittance > 1:
		return fmt.Errorf("scene: material transmittance must be in [0, 1]; got %f", m.Transmittance)
	case m.RefractiveIndex <= 0:
		return fmt.Errorf("scene: material refractive index must be > 0; got %f", m.RefractiveIndex)
	}
	return nil
}
