package scene

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/raytrace/types"
	"github.com/olekukonko/tablewriter"
)

var (
	ErrNilPrimitive       = errors.New("scene: nil primitive")
	ErrDuplicatePrimitive = errors.New("scene: primitive already added")
)

// A point light source.
type Light struct {
	Position types.Vec3
	Color    types.Vec3
}

// The scene contains the primitives and lights to be rendered. Once a render
// begins the scene is treated as read-only.
type Scene struct {
	Primitives []Primitive
	Lights     []Light

	// Background color. It is also the ambient light intensity.
	Background types.Vec3
}

func NewScene() *Scene {
	return &Scene{
		Primitives: make([]Primitive, 0),
		Lights:     make([]Light, 0),
	}
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive Primitive) error {
	if primitive == nil {
		return ErrNilPrimitive
	}
	for _, prim := range s.Primitives {
		if prim == primitive {
			return ErrDuplicatePrimitive
		}
	}
	if err := primitive.Material().Validate(); err != nil {
		return err
	}
	s.Primitives = append(s.Primitives, primitive)
	return nil
}

// Add a point light to the scene.
func (s *Scene) AddLight(light Light) {
	s.Lights = append(s.Lights, light)
}

// Find the closest primitive hit by the ray. Only hits further than Epsilon
// are considered. If two primitives are hit at exactly the same distance the
// one added first wins.
func (s *Scene) NearestHit(ray types.Ray) (Primitive, float64, bool) {
	var hit Primitive
	minDist := Inf
	for _, prim := range s.Primitives {
		if dist := prim.Intersect(ray); dist > Epsilon && dist < minDist {
			hit = prim
			minDist = dist
		}
	}
	return hit, minDist, hit != nil
}

// Generate a table with scene element counts.
func (s *Scene) Stats() string {
	var counts [3]int
	for _, prim := range s.Primitives {
		counts[prim.Type()]++
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Element", "Type", "Count"})
	table.Append([]string{"Primitives", "---", fmt.Sprint(len(s.Primitives))})
	for _, t := range []PrimitiveType{SpherePrimitive, TrianglePrimitive, RectanglePrimitive} {
		table.Append([]string{"", t.String(), fmt.Sprint(counts[t])})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Lights", "point", fmt.Sprint(len(s.Lights))})
	table.SetFooter([]string{"Background", " ", fmt.Sprintf("%.3v", s.Background)})

	table.Render()
	return buf.String()
}
