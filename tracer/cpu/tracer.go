package cpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/tracer"
	"github.com/achilleasa/raytrace/types"
)

var (
	ErrNotInitialized   = errors.New("cpu tracer: tracer not initialized")
	ErrBufferSize       = errors.New("cpu tracer: frame buffer size does not match camera frame")
	ErrBlockOutOfBounds = errors.New("cpu tracer: block exceeds frame height")
	ErrTracerBusy       = errors.New("cpu tracer: tracer is busy")
)

// The relative speed reported by CPU tracers. All CPU tracers are equal.
const cpuSpeed = 1

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Integrator settings.
	maxDepth int
	falloff  float64

	// The integrator, camera and output buffer set up by Init.
	integrator *Integrator
	camera     *scene.Camera
	frame      []types.Vec3

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats
}

// Create a new cpu tracer. A negative maxDepth selects DefaultMaxDepth while
// 0 disables reflection and refraction rays.
func NewTracer(id string, maxDepth int) tracer.Tracer {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}

	return &cpuTracer{
		logger:   log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:       id,
		maxDepth: maxDepth,
		falloff:  DefaultFalloff,
		// Renderers keep at most one outstanding request per tracer.
		blockReqChan: make(chan tracer.BlockRequest, 1),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the relative speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return cpuSpeed
}

// Initialize tracer and start its worker.
func (tr *cpuTracer) Init(sc *scene.Scene, camera *scene.Camera, frame []types.Vec3) error {
	tr.Lock()
	defer tr.Unlock()

	if len(frame) != camera.Width*camera.Height {
		return ErrBufferSize
	}

	tr.integrator = NewIntegrator(sc)
	tr.integrator.MaxDepth = tr.maxDepth
	tr.integrator.Falloff = tr.falloff
	tr.camera = camera
	tr.frame = frame

	// Start worker
	if tr.closeChan == nil {
		tr.startWorker()
	}

	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
		tr.wg.Wait()
	}

	tr.integrator = nil
	tr.camera = nil
	tr.frame = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// A request is already pending
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrTracerBusy
	}
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	readyChan := make(chan struct{})

	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime := time.Now()

				// Render block and reply with our completion status
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render the block rows into the frame buffer. The request context is only
// checked between rows.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.integrator == nil {
		return ErrNotInitialized
	}

	frameW := tr.camera.Width
	if int(blockReq.BlockY+blockReq.BlockH) > tr.camera.Height {
		return ErrBlockOutOfBounds
	}

	tr.integrator.Counters = RayCounters{}
	for y := int(blockReq.BlockY); y < int(blockReq.BlockY+blockReq.BlockH); y++ {
		if blockReq.Ctx != nil {
			if err := blockReq.Ctx.Err(); err != nil {
				return err
			}
		}

		row := tr.frame[y*frameW : (y+1)*frameW]
		for x := range row {
			row[x] = tr.integrator.Trace(tr.camera.PixelRay(x, y), 0)
		}
	}

	tr.stats.PrimaryRays = tr.integrator.Counters.Primary
	tr.stats.ShadowRays = tr.integrator.Counters.Shadow
	tr.stats.Secondary = tr.integrator.Counters.Secondary
	tr.logger.Debugf("rendered rows [%d, %d)", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH)
	return nil
}
