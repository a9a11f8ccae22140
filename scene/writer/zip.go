package writer

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/scene/reader"
)

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Write a compiled scene to a zip archive.
func WriteScene(sc *scene.Scene, sceneFile string) error {
	return newZipSceneWriter(sceneFile).Write(sc)
}

// Create a new zip scene writer
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip scene writer"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) (err error) {
	w.logger.Noticef("writing compiled scene to %s", w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return fmt.Errorf("scene writer: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("scene writer: %w", closeErr)
		}
	}()

	zw := zip.NewWriter(zipFile)

	// Write scene data
	cw, err := zw.Create(reader.DataFile)
	if err != nil {
		return fmt.Errorf("scene writer: %w", err)
	}
	if err = gob.NewEncoder(cw).Encode(sc); err != nil {
		return fmt.Errorf("scene writer: could not encode scene: %w", err)
	}
	if err = zw.Close(); err != nil {
		return fmt.Errorf("scene writer: %w", err)
	}

	w.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return nil
}
