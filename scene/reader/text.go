package reader

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/raytrace/asset"
	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/types"
)

// The number of values expected by each block key.
var blockKeys = map[string]map[string]int{
	"Material": {
		"ambient":      3,
		"diffuse":      3,
		"specular":     3,
		"shininess":    1,
		"reflection":   1,
		"transmission": 3,
		"refraction":   1,
		"ior":          1,
	},
	"Sphere": {
		"center":   3,
		"radius":   1,
		"material": 1,
	},
	"Rectangle": {
		"start":    3,
		"edge1":    3,
		"edge2":    3,
		"material": 1,
	},
	"Triangle": {
		"v1":       3,
		"v2":       3,
		"v3":       3,
		"material": 1,
	},
	"Ambient": {
		"color": 3,
	},
	"PointLight": {
		"position":  3,
		"intensity": 3,
	},
	"PlaneLight": {
		"start":     3,
		"edge1":     3,
		"edge2":     3,
		"intensity": 3,
	},
}

// Keys that must be present in each block.
var requiredKeys = map[string][]string{
	"Material":   {"ambient", "diffuse", "specular", "shininess", "reflection"},
	"Sphere":     {"center", "radius", "material"},
	"Rectangle":  {"start", "edge1", "edge2", "material"},
	"Triangle":   {"v1", "v2", "v3", "material"},
	"Ambient":    {"color"},
	"PointLight": {"position", "intensity"},
	"PlaneLight": {"start", "edge1", "edge2", "intensity"},
}

// Nested includes deeper than this are treated as include cycles.
const maxIncludeDepth = 16

type token struct {
	text string
	line int
}

// A parsed block with its key values.
type block struct {
	kind   string
	line   int
	values map[string][]float64
}

func (b *block) vec3(key string) types.Vec3 {
	v := b.values[key]
	return types.XYZ(v[0], v[1], v[2])
}

func (b *block) scalar(key string) float64 {
	return b.values[key][0]
}

type textSceneReader struct {
	logger log.Logger

	// Random source for plane light sampling.
	rng *rand.Rand

	// The scene being populated.
	sc *scene.Scene

	// Materials in declaration order. Primitives reference them by index.
	materials []scene.Material

	haveAmbient bool

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string
}

func newTextSceneReader(rng *rand.Rand) *textSceneReader {
	return &textSceneReader{
		logger:    log.New("text scene reader"),
		rng:       rng,
		sc:        scene.NewScene(),
		materials: make([]scene.Material, 0),
		errStack:  make([]string, 0),
	}
}

// Read scene definition.
func (r *textSceneReader) Read(res *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef("parsing scene from %s", res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}
	if !r.haveAmbient {
		return nil, r.emitError(res.Path(), 0, "scene does not define an Ambient block")
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return r.sc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *textSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return errors.New(errMsg)
}

// Push a frame to the error stack.
func (r *textSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *textSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Split resource contents into tokens. Comments start with '#' and braces
// are always standalone tokens.
func tokenize(res *asset.Resource) ([]token, error) {
	tokens := make([]token, 0)
	lineNum := 0

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx != -1 {
			line = line[:idx]
		}
		line = strings.NewReplacer("{", " { ", "}", " } ").Replace(line)
		for _, field := range strings.Fields(line) {
			tokens = append(tokens, token{text: field, line: lineNum})
		}
	}

	return tokens, scanner.Err()
}

// Parse a text scene resource.
func (r *textSceneReader) parse(res *asset.Resource) error {
	tokens, err := tokenize(res)
	if err != nil {
		return r.emitError(res.Path(), 0, "could not read scene: %s", err.Error())
	}

	for pos := 0; pos < len(tokens); {
		tok := tokens[pos]
		pos++

		if tok.text == "include" {
			if pos == len(tokens) {
				return r.emitError(res.Path(), tok.line, "unsupported syntax for 'include'; expected 1 argument")
			}
			if err = r.include(res, tokens[pos], tok.line); err != nil {
				return err
			}
			pos++
			continue
		}

		if _, known := blockKeys[tok.text]; !known {
			return r.emitError(res.Path(), tok.line, "unexpected token '%s'", tok.text)
		}

		var blk *block
		blk, pos, err = r.parseBlock(res, tok, tokens, pos)
		if err != nil {
			return err
		}
		if err = r.addBlock(blk); err != nil {
			return r.emitError(res.Path(), blk.line, "%s", err.Error())
		}
	}

	return nil
}

// Parse an included resource relative to the including one.
func (r *textSceneReader) include(parent *asset.Resource, target token, line int) error {
	if len(r.errStack) >= maxIncludeDepth {
		return r.emitError(parent.Path(), line, "include depth exceeds %d; possible include cycle", maxIncludeDepth)
	}
	r.pushFrame(fmt.Sprintf("referenced from %s:%d [include]", parent.Path(), line))

	incRes, err := asset.NewResource(target.text, parent)
	if err != nil {
		return r.emitError(parent.Path(), line, "could not include '%s': %s", target.text, err.Error())
	}
	defer incRes.Close()

	if err = r.parse(incRes); err != nil {
		return err
	}
	r.popFrame()
	return nil
}

// Parse the body of a block whose kind token has already been consumed.
// Returns the block and the position of the first token after it.
func (r *textSceneReader) parseBlock(res *asset.Resource, kindTok token, tokens []token, pos int) (*block, int, error) {
	blk := &block{
		kind:   kindTok.text,
		line:   kindTok.line,
		values: make(map[string][]float64),
	}
	keys := blockKeys[blk.kind]

	if pos == len(tokens) || tokens[pos].text != "{" {
		return nil, pos, r.emitError(res.Path(), kindTok.line, "expected '{' after '%s'", blk.kind)
	}
	pos++

	for {
		if pos == len(tokens) {
			return nil, pos, r.emitError(res.Path(), kindTok.line, "unterminated '%s' block", blk.kind)
		}
		keyTok := tokens[pos]
		pos++
		if keyTok.text == "}" {
			break
		}

		arity, known := keys[keyTok.text]
		if !known {
			return nil, pos, r.emitError(res.Path(), keyTok.line, "unknown key '%s' in '%s' block", keyTok.text, blk.kind)
		}
		if _, dup := blk.values[keyTok.text]; dup {
			return nil, pos, r.emitError(res.Path(), keyTok.line, "duplicate key '%s' in '%s' block", keyTok.text, blk.kind)
		}
		if pos+arity > len(tokens) {
			return nil, pos, r.emitError(res.Path(), keyTok.line, "key '%s' expects %d values", keyTok.text, arity)
		}

		values, err := parseFloats(tokens[pos : pos+arity])
		if err != nil {
			return nil, pos, r.emitError(res.Path(), keyTok.line, "key '%s': %s", keyTok.text, err.Error())
		}
		blk.values[keyTok.text] = values
		pos += arity
	}

	for _, key := range requiredKeys[blk.kind] {
		if _, exists := blk.values[key]; !exists {
			return nil, pos, r.emitError(res.Path(), blk.line, "missing key '%s' in '%s' block", key, blk.kind)
		}
	}

	return blk, pos, nil
}

// Convert a parsed block into scene elements.
func (r *textSceneReader) addBlock(blk *block) error {
	var prim scene.Primitive
	var err error

	switch blk.kind {
	case "Material":
		mat := scene.DefaultMaterial()
		mat.Ambient = blk.vec3("ambient")
		mat.Diffuse = blk.vec3("diffuse")
		mat.Specular = blk.vec3("specular")
		mat.Shininess = blk.scalar("shininess")
		mat.Reflectance = blk.scalar("reflection")
		if _, exists := blk.values["transmission"]; exists {
			mat.Transmission = blk.vec3("transmission")
		}
		if _, exists := blk.values["refraction"]; exists {
			mat.Transmittance = blk.scalar("refraction")
		}
		if _, exists := blk.values["ior"]; exists {
			mat.RefractiveIndex = blk.scalar("ior")
		}
		if err = mat.Validate(); err != nil {
			return err
		}
		r.materials = append(r.materials, mat)
		return nil
	case "Ambient":
		if r.haveAmbient {
			return errors.New("duplicate 'Ambient' block")
		}
		r.haveAmbient = true
		r.sc.Background = blk.vec3("color")
		return nil
	case "PointLight":
		r.sc.AddLight(scene.Light{
			Position: blk.vec3("position"),
			Color:    blk.vec3("intensity"),
		})
		return nil
	case "PlaneLight":
		lights := expandPlaneLight(r.rng, blk.vec3("start"), blk.vec3("edge1"), blk.vec3("edge2"), blk.vec3("intensity"))
		for _, light := range lights {
			r.sc.AddLight(light)
		}
		r.logger.Debugf("expanded plane light into %d point lights", len(lights))
		return nil
	}

	// Geometry
	mat, err := r.material(blk.scalar("material"))
	if err != nil {
		return err
	}
	switch blk.kind {
	case "Sphere":
		prim, err = scene.NewSphere(blk.vec3("center"), blk.scalar("radius"), mat)
	case "Rectangle":
		prim, err = scene.NewRectangle(blk.vec3("start"), blk.vec3("edge1"), blk.vec3("edge2"), mat)
	case "Triangle":
		prim, err = scene.NewTriangle(blk.vec3("v1"), blk.vec3("v2"), blk.vec3("v3"), mat)
	}
	if err != nil {
		return err
	}

	return r.sc.AddPrimitive(prim)
}

// Lookup a previously declared material.
func (r *textSceneReader) material(index float64) (scene.Material, error) {
	if math.IsInf(index, 0) || index != math.Trunc(index) || index < 0 || index >= float64(len(r.materials)) {
		return scene.Material{}, fmt.Errorf("unknown material index %v; %d materials defined", index, len(r.materials))
	}
	return r.materials[int(index)], nil
}

// Approximate a plane light with ceil(area) + 1 randomly placed point
// lights that share the total intensity.
func expandPlaneLight(rng *rand.Rand, start, edge1, edge2, intensity types.Vec3) []scene.Light {
	count := int(math.Ceil(edge1.Cross(edge2).Len())) + 1
	color := intensity.Mul(1.0 / float64(count))

	lights := make([]scene.Light, count)
	for idx := range lights {
		u, v := rng.Float64(), rng.Float64()
		lights[idx] = scene.Light{
			Position: start.Add(edge1.Mul(u)).Add(edge2.Mul(v)),
			Color:    color,
		}
	}
	return lights
}

func parseFloats(tokens []token) ([]float64, error) {
	values := make([]float64, len(tokens))
	for idx, tok := range tokens {
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse '%s' as a number", tok.text)
		}
		values[idx] = v
	}
	return values, nil
}
