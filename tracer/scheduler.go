package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frameH rows into blocks of variable height and assign them to
	// the pool of tracers using feedback collected from previous blocks.
	//
	// This function returns the block height assignment for each tracer
	// in the input list. Tracers may be assigned 0 rows when there are
	// fewer rows than tracers.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler splits rows based on each tracer's speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	return speedAssignment(tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent blocks is approximately the same.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split rows into blocks of variable height and assign to the pool of tracers
// using feedback collected from previous blocks.
//
// When previous block information is available the scheduler uses the
// following formula for estimating the workload for tracer w and block i+1:
// w_i, f_i+1 = (blockH,w_i / time,w_i) / Σ(blockH_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// If this is the first time we try to schedule, the number of tracers
	// has changed or some tracer has no usable timings we need to reset
	// the block assignments
	if len(sch.blockAssignment) != len(tracers) || !haveTimings(tracers) {
		sch.blockAssignment = speedAssignment(tracers, frameH)
		return sch.blockAssignment
	}

	// Use last block statistics
	var total float64
	var stats *Stats
	for _, tr := range tracers {
		stats = tr.Stats()
		total += float64(stats.BlockH) / float64(stats.RenderTime)
	}

	scaler := float64(frameH) / total
	for idx, tr := range tracers {
		stats = tr.Stats()
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(stats.BlockH)/float64(stats.RenderTime)*scaler)))
	}

	fitAssignment(sch.blockAssignment, frameH)
	return sch.blockAssignment
}

// Distribute rows proportionally to each tracer's speed estimate.
func speedAssignment(tracers []Tracer, frameH uint32) []uint32 {
	assignment := make([]uint32, len(tracers))
	if len(tracers) == 0 {
		return assignment
	}

	var total float64
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}
	scaler := float64(frameH) / total

	for idx, tr := range tracers {
		assignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.Speed())*scaler)))
	}

	fitAssignment(assignment, frameH)
	return assignment
}

// Adjust an assignment so that its rows add up to frameH. Missing rows are
// appended to the first tracer; excess rows are removed starting from the
// last tracer.
func fitAssignment(assignment []uint32, frameH uint32) {
	var scheduledRows uint32
	for _, rows := range assignment {
		scheduledRows += rows
	}

	if scheduledRows <= frameH {
		assignment[0] += frameH - scheduledRows
		return
	}

	excess := scheduledRows - frameH
	for idx := len(assignment) - 1; idx >= 0 && excess > 0; idx-- {
		cut := assignment[idx]
		if cut > excess {
			cut = excess
		}
		assignment[idx] -= cut
		excess -= cut
	}
}

// Returns true if all tracers have rendered a non-empty block before.
func haveTimings(tracers []Tracer) bool {
	for _, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockH == 0 || stats.RenderTime <= 0 {
			return false
		}
	}
	return true
}
