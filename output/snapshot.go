package output

import (
	"context"
	"fmt"
	"image"

	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/renderer"
)

// Create a renderer.SnapshotFunc that writes numbered snapshots named
// <baseName>-snapshot-NNN.png to sink. When previewW is non-zero snapshots
// are downscaled to that width.
//
// The renderer invokes snapshot functions from a single goroutine so the
// sequence counter needs no locking.
func SnapshotWriter(ctx context.Context, sink Sink, baseName string, previewW uint) renderer.SnapshotFunc {
	logger := log.New("snapshot writer")
	seq := 0

	return func(frame *renderer.Frame, rows uint32) {
		seq++

		var img image.Image = ToImage(frame)
		if previewW > 0 {
			img = Preview(img, previewW, uint(frame.H))
		}

		name := fmt.Sprintf("%s-snapshot-%03d.png", baseName, seq)
		if err := sink.Write(ctx, img, name); err != nil {
			logger.Warningf("could not write snapshot %s: %s", name, err.Error())
			return
		}
		logger.Debugf("wrote snapshot %s (%d/%d rows)", name, rows, frame.H)
	}
}
