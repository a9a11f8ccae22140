package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/raytrace/log"
	"github.com/achilleasa/raytrace/scene"
	"github.com/achilleasa/raytrace/tracer"
	"github.com/achilleasa/raytrace/tracer/cpu"
)

type snapshot struct {
	frame *Frame
	rows  uint32
}

// The default renderer splits the frame into bands of rows and distributes
// each band between its tracers using a block scheduler.
type defaultRenderer struct {
	sync.Mutex

	logger log.Logger

	scene     *scene.Scene
	camera    *scene.Camera
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer
	options   Options

	// The frame buffer shared by all tracers. Each tracer only writes the
	// rows of its assigned blocks.
	frame *Frame

	// Last band assignment.
	blockAssignments []uint32

	stats FrameStats

	// Snapshots are handed to a single writer goroutine through a bounded
	// queue so tracers never wait on image output.
	snapshotFn    SnapshotFunc
	snapshotQueue chan snapshot
	snapshotWg    sync.WaitGroup
}

// Create a renderer backed by CPU tracers.
func NewDefault(sc *scene.Scene, camera *scene.Camera, scheduler tracer.BlockScheduler, opts Options, snapshotFn SnapshotFunc) (Renderer, error) {
	numTracers := opts.NumTracers
	if numTracers <= 0 {
		numTracers = runtime.NumCPU()
	}

	tracers := make([]tracer.Tracer, numTracers)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(fmt.Sprintf("cpu-%02d", idx), opts.MaxDepth)
	}

	return NewWithTracers(sc, camera, scheduler, tracers, opts, snapshotFn)
}

// Create a renderer using the supplied tracers.
func NewWithTracers(sc *scene.Scene, camera *scene.Camera, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options, snapshotFn SnapshotFunc) (Renderer, error) {
	switch {
	case sc == nil:
		return nil, ErrSceneNotDefined
	case camera == nil:
		return nil, ErrCameraNotDefined
	case len(tracers) == 0:
		return nil, ErrNoTracers
	case int(opts.FrameW) != camera.Width || int(opts.FrameH) != camera.Height:
		return nil, ErrInvalidFrameSize
	}

	if opts.BandHeight == 0 {
		opts.BandHeight = defaultBandHeight
	}
	if scheduler == nil {
		scheduler = tracer.PerfectScheduler()
	}

	r := &defaultRenderer{
		logger:     log.New("renderer"),
		scene:      sc,
		camera:     camera,
		scheduler:  scheduler,
		tracers:    tracers,
		options:    opts,
		frame:      NewFrame(camera.Width, camera.Height),
		snapshotFn: snapshotFn,
	}

	for _, tr := range tracers {
		if err := tr.Init(sc, camera, r.frame.Pix); err != nil {
			r.Close()
			return nil, fmt.Errorf("renderer: could not init tracer %s: %w", tr.Id(), err)
		}
	}

	if snapshotFn != nil && opts.SnapshotEvery > 0 {
		r.startSnapshotWriter()
	}

	r.logger.Infof("attached %d tracers; band height %d", len(tracers), opts.BandHeight)
	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render(ctx context.Context) (*Frame, error) {
	r.Lock()
	defer r.Unlock()

	start := time.Now()
	r.resetStats()

	frameH := r.options.FrameH
	bandH := r.options.BandHeight
	for y := uint32(0); y < frameH; y += bandH {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}

		h := bandH
		if y+h > frameH {
			h = frameH - y
		}

		if err := r.renderBand(ctx, y, h); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
			}
			return nil, err
		}
		r.stats.Bands++

		if r.snapshotQueue != nil && r.stats.Bands%r.options.SnapshotEvery == 0 && y+h < frameH {
			r.queueSnapshot(y + h)
		}
	}

	r.stats.RenderTime = time.Since(start)
	for idx := range r.stats.Tracers {
		r.stats.Tracers[idx].FramePercent = 100.0 * float32(r.stats.Tracers[idx].Rows) / float32(frameH)
	}
	r.logger.Infof("rendered %dx%d frame in %s", r.options.FrameW, frameH, r.stats.RenderTime)

	return r.frame, nil
}

// Render rows [y, y+h) by splitting them between the attached tracers and
// wait for all issued blocks to complete.
func (r *defaultRenderer) renderBand(ctx context.Context, y, h uint32) error {
	r.blockAssignments = r.scheduler.Schedule(r.tracers, h)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	pending := 0
	blockY := y
	for idx, tr := range r.tracers {
		rows := r.blockAssignments[idx]
		if rows == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:   blockY,
			BlockH:   rows,
			Ctx:      ctx,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += rows
		pending++
	}

	// Always drain all replies so no tracer is still writing to the
	// frame buffer when we return.
	var err error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case blockErr := <-errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	if err != nil {
		return err
	}

	for idx, tr := range r.tracers {
		if r.blockAssignments[idx] == 0 {
			continue
		}
		trStats := tr.Stats()
		stat := &r.stats.Tracers[idx]
		stat.Rows += r.blockAssignments[idx]
		stat.RenderTime += trStats.RenderTime
		stat.PrimaryRays += trStats.PrimaryRays
		stat.ShadowRays += trStats.ShadowRays
		stat.SecondaryRays += trStats.Secondary
	}

	return nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	if r.snapshotQueue != nil {
		close(r.snapshotQueue)
		r.snapshotWg.Wait()
		r.snapshotQueue = nil
	}

	for _, tr := range r.tracers {
		tr.Close()
	}
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) resetStats() {
	r.stats = FrameStats{
		Tracers: make([]TracerStat, len(r.tracers)),
	}
	for idx, tr := range r.tracers {
		r.stats.Tracers[idx].Id = tr.Id()
	}
}

// Queue a copy of the frame for the snapshot writer. The snapshot is dropped
// if the writer is still busy with the previous one.
func (r *defaultRenderer) queueSnapshot(rows uint32) {
	select {
	case r.snapshotQueue <- snapshot{frame: r.frame.Clone(), rows: rows}:
		r.stats.Snapshots++
	default:
		r.logger.Warningf("snapshot writer busy; dropping snapshot at row %d", rows)
	}
}

func (r *defaultRenderer) startSnapshotWriter() {
	r.snapshotQueue = make(chan snapshot, 1)
	r.snapshotWg.Add(1)
	go func() {
		defer r.snapshotWg.Done()
		for snap := range r.snapshotQueue {
			r.snapshotFn(snap.frame, snap.rows)
		}
	}()
}
