// Package timeline models the cut intervals of a recording and plans the
// kept segments and chapter markers that the rest of the pipeline consumes.
package timeline

import (
	"fmt"
	"math"

	"recut/internal/services"
)

// Cut marks a span of the source recording to discard, in seconds.
type Cut struct {
	Start float64
	End   float64
}

// Length returns the duration of the cut in seconds.
func (c Cut) Length() float64 {
	return c.End - c.Start
}

// Cutlist is an ascending, non-overlapping sequence of cuts.
type Cutlist []Cut

// Validate checks the cutlist against the recording duration. Cuts must be
// finite, ordered by start time, non-overlapping, and contained in
// [0, duration].
func (cl Cutlist) Validate(duration float64) error {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return fmt.Errorf("%w: recording duration %v is not a positive number", services.ErrValidation, duration)
	}
	prevEnd := 0.0
	for i, cut := range cl {
		if math.IsNaN(cut.Start) || math.IsNaN(cut.End) || math.IsInf(cut.Start, 0) || math.IsInf(cut.End, 0) {
			return fmt.Errorf("%w: cut %d (%v-%v) is not finite", services.ErrValidation, i+1, cut.Start, cut.End)
		}
		if cut.Start < 0 {
			return fmt.Errorf("%w: cut %d starts at %v before the recording", services.ErrValidation, i+1, cut.Start)
		}
		if cut.End <= cut.Start {
			return fmt.Errorf("%w: cut %d (%v-%v) ends before it starts", services.ErrValidation, i+1, cut.Start, cut.End)
		}
		if cut.End > duration {
			return fmt.Errorf("%w: cut %d ends at %v beyond the %vs recording", services.ErrValidation, i+1, cut.End, duration)
		}
		if i > 0 && cut.Start < prevEnd {
			return fmt.Errorf("%w: cut %d starts at %v inside cut %d", services.ErrValidation, i+1, cut.Start, i)
		}
		prevEnd = cut.End
	}
	return nil
}

// TotalCut returns the summed length of all cuts in seconds.
func (cl Cutlist) TotalCut() float64 {
	total := 0.0
	for _, cut := range cl {
		total += cut.Length()
	}
	return total
}
