package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The total rows rendered by this tracer and the percentage of total
	// frame area they represent.
	Rows         uint32
	FramePercent float32

	// Accumulated render time for assigned blocks.
	RenderTime time.Duration

	// Accumulated ray counters.
	PrimaryRays   uint64
	ShadowRays    uint64
	SecondaryRays uint64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Number of scheduling rounds and emitted snapshots.
	Bands     int
	Snapshots int

	// Total render time for entire frame.
	RenderTime time.Duration
}
