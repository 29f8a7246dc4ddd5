package timeline

import (
	"fmt"
	"math"

	"recut/internal/services"
)

// Segment is a kept span of the source recording, in seconds.
type Segment struct {
	Start float64
	End   float64
}

// Length returns the duration of the segment in seconds.
func (s Segment) Length() float64 {
	return s.End - s.Start
}

// Marker is a chapter boundary on the output timeline. Interior markers
// carry a 1-based scene number; the final marker closes the chapter list
// and has no scene.
type Marker struct {
	Elapsed float64
	Scene   int
	Closing bool
}

// Plan holds the segments to extract from the source and the markers they
// produce on the output timeline.
type Plan struct {
	Segments []Segment
	Markers  []Marker
	Duration float64
}

// MarkerSeconds returns every marker's elapsed time in order, closing
// marker included.
func (p Plan) MarkerSeconds() []float64 {
	out := make([]float64, len(p.Markers))
	for i, marker := range p.Markers {
		out[i] = marker.Elapsed
	}
	return out
}

// Cutpoints returns the output times where segments end: the marker
// sequence without the opening marker at zero. These are the splice
// points captions must be resynchronized against; the opening marker is
// a chapter start, not a cut.
func (p Plan) Cutpoints() []float64 {
	marks := p.MarkerSeconds()
	if len(marks) == 0 {
		return nil
	}
	return marks[1:]
}

// BuildPlan walks the cutlist against the recording duration and produces
// the ordered kept segments plus their chapter markers.
//
// A segment is only extracted when the gap between the cursor and the next
// cut exceeds thresh seconds; shorter remnants are absorbed into the
// adjacent cut. Each extracted segment records a marker at the elapsed
// output time where it begins, and a final closing marker lands at the
// total output duration.
func BuildPlan(cuts Cutlist, duration, thresh float64) (Plan, error) {
	if math.IsNaN(thresh) || math.IsInf(thresh, 0) || thresh < 0 {
		return Plan{}, fmt.Errorf("%w: segment threshold %v is not a non-negative number", services.ErrValidation, thresh)
	}
	if err := cuts.Validate(duration); err != nil {
		return Plan{}, err
	}

	plan := Plan{}
	pos := 0.0
	elapsed := 0.0

	emit := func(start, end float64) {
		plan.Markers = append(plan.Markers, Marker{Elapsed: elapsed, Scene: len(plan.Segments) + 1})
		plan.Segments = append(plan.Segments, Segment{Start: start, End: end})
		elapsed += end - start
	}

	for _, cut := range cuts {
		if cut.Start-pos > thresh && cut.Start > pos {
			emit(pos, cut.Start)
		}
		pos = cut.End
	}
	if duration-pos > thresh {
		emit(pos, duration)
	}

	plan.Markers = append(plan.Markers, Marker{Elapsed: elapsed, Closing: true})
	plan.Duration = elapsed
	return plan, nil
}
