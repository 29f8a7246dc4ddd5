package captions

// Resync rewrites caption timing for a track extracted from the joined
// recording so it lines up with the final output timeline.
//
// Captions that straddle a chapter cutpoint were displayed across a splice
// and run longer than the footage that contained them. Each such caption is
// clipped at the cutpoint, and the time it lost is carried forward as a
// negative delay applied to every later caption. Marks must be ascending
// output-timeline offsets; an empty mark list leaves the track untouched.
//
// A caption spanning more than one cutpoint is only clipped at the first.
func Resync(track []Caption, marks []float64) []Caption {
	out := make([]Caption, 0, len(track))
	delay := 0.0
	curr := 0
	for _, caption := range track {
		caption.Start += delay
		caption.End += delay
		if curr < len(marks) && marks[curr] < caption.End {
			if marks[curr] > caption.Start {
				delay += marks[curr] - caption.End
				caption.End = marks[curr]
			}
			curr++
		}
		out = append(out, caption)
	}
	return out
}
