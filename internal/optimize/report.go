package optimize

import "time"

// Reason classifies why the search stopped. Every return carries one, so
// callers can tell "met target" from "best effort, still oversized".
type Reason int

const (
	// ReasonTargetMet: a probe came in at or under the byte budget.
	ReasonTargetMet Reason = iota
	// ReasonQualityFloor: the probe budget ran out with quality pinned at
	// the floor; further sweeps were cut off to bound latency.
	ReasonQualityFloor
	// ReasonDimensionFloor: another dimension round would push the scale
	// below the floor; the smallest encoding so far is returned.
	ReasonDimensionFloor
	// ReasonStall: consecutive dimension rounds stopped shrinking the
	// output by a meaningful margin.
	ReasonStall
)

func (r Reason) String() string {
	switch r {
	case ReasonTargetMet:
		return "target-met"
	case ReasonQualityFloor:
		return "quality-floor-hit"
	case ReasonDimensionFloor:
		return "dimension-floor-hit"
	case ReasonStall:
		return "no-improvement-stall"
	default:
		return "unknown"
	}
}

// Met reports whether the search ended under the byte budget.
func (r Reason) Met() bool { return r == ReasonTargetMet }

// Report summarizes a finished search. Produced once, never mutated.
type Report struct {
	// Quality is the encoder quality of the returned bytes.
	Quality int
	// Scale is the cumulative scale factor relative to the working
	// resolution after the dimension cap, in [MinScale, 1.0].
	Scale float64
	// Width and Height are the pixel dimensions of the returned encoding.
	Width  int
	Height int
	// Bytes is the encoded size of the returned data.
	Bytes int64
	// Probes counts the encode attempts issued.
	Probes int
	// Reason is the terminal outcome.
	Reason Reason
	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration
}
