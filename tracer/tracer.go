package tracer

import (
	"context"
	"time"

	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/types"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// Tracers check this context between rows and abandon the block
	// once it is cancelled.
	Ctx context.Context

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The last rendered block height.
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration

	// Ray counters for the last rendered block.
	PrimaryRays uint64
	ShadowRays  uint64
	Secondary   uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's relative speed estimate. It is used by the
	// schedulers to distribute rows before any timing data is available.
	Speed() uint32

	// Attach the scene, the camera and the row-major frame buffer the
	// tracer writes its blocks into. Each tracer only ever writes the rows
	// of the blocks assigned to it.
	Init(sc *scene.Scene, camera *scene.Camera, frame []types.Vec3) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}
