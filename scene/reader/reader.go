package reader

import (
	"errors"
	"fmt"
	"math/rand"
	"path"
	"strings"

	"github.com/achilleasa/raytrace/asset"
	"github.com/achilleasa/raytrace/scene"
)

var ErrUnsupportedFormat = errors.New("scene reader: unsupported scene format")

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

type Options struct {
	// Seed for the random source used when sampling plane lights.
	Seed int64

	// An explicit random source. Overrides Seed when set.
	Rand *rand.Rand
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(o.Seed))
}

// Read a scene from a local file or an http(s) URL. The format is selected
// from the file extension: text scenes use .scene or .txt while compiled
// scenes use .zip.
func ReadScene(pathToScene string, opts Options) (*scene.Scene, error) {
	res, err := asset.NewResource(pathToScene, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res, opts)
}

// Read a scene from an opened resource.
func Read(res *asset.Resource, opts Options) (*scene.Scene, error) {
	// Select reader based on file extension
	var reader Reader
	switch strings.ToLower(path.Ext(res.Name())) {
	case ".scene", ".txt":
		reader = newTextSceneReader(opts.rng())
	case ".zip":
		reader = newZipSceneReader()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, res.Name())
	}

	return reader.Read(res)
}
