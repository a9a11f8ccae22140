package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Max number of reflection/refraction bounces. 0 disables secondary rays
	// and a negative value selects the tracer default.
	MaxDepth int

	// Number of rows distributed between tracers per scheduling round.
	// Cancellation is checked between bands.
	BandHeight uint32

	// Number of CPU tracers. 0 selects runtime.NumCPU().
	NumTracers int

	// Emit a snapshot of the partially rendered frame every N bands.
	// 0 disables snapshots.
	SnapshotEvery int
}

// Default band height when none is specified.
const defaultBandHeight = 16
