package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/raytrace/asset"
	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/scene"
)

// The name of the gob-encoded scene entry inside compiled scene archives.
const DataFile = "scene.bin"

type zipSceneReader struct {
	logger log.Logger
}

func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip scene reader"),
	}
}

// Read a compiled scene.
func (r *zipSceneReader) Read(res *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef("loading compiled scene from %s", res.Path())
	start := time.Now()

	// zip needs random access so buffer the whole archive; this also
	// covers remote resources.
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, fmt.Errorf("scene reader: could not read %s: %w", res.Path(), err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("scene reader: could not open archive %s: %w", res.Path(), err)
	}

	for _, file := range zr.File {
		if file.Name != DataFile {
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("scene reader: could not open %s: %w", DataFile, err)
		}
		defer fr.Close()

		sc := scene.NewScene()
		if err = gob.NewDecoder(fr).Decode(sc); err != nil {
			return nil, fmt.Errorf("scene reader: could not decode %s: %w", DataFile, err)
		}

		r.logger.Noticef("loaded compiled scene in %d ms", time.Since(start).Nanoseconds()/1000000)
		return sc, nil
	}

	return nil, fmt.Errorf("scene reader: archive %s does not contain %s", res.Path(), DataFile)
}
