package captions

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResyncClipsStraddlingCaption(t *testing.T) {
	track := []Caption{
		{Index: 1, Start: 10, End: 12, Text: "STRADDLES THE CUT."},
		{Index: 2, Start: 15, End: 17, Text: "COMES AFTER."},
	}
	adjusted := Resync(track, []float64{11})

	if !almostEqual(adjusted[0].Start, 10) || !almostEqual(adjusted[0].End, 11) {
		t.Fatalf("expected first caption clipped to (10, 11), got (%v, %v)", adjusted[0].Start, adjusted[0].End)
	}
	if !almostEqual(adjusted[1].Start, 14) || !almostEqual(adjusted[1].End, 16) {
		t.Fatalf("expected second caption pulled earlier by 1s, got (%v, %v)", adjusted[1].Start, adjusted[1].End)
	}
}

func TestResyncEmptyMarksLeavesTrackUntouched(t *testing.T) {
	track := []Caption{
		{Index: 1, Start: 1, End: 3, Text: "ONE."},
		{Index: 2, Start: 4, End: 6, Text: "TWO."},
	}
	adjusted := Resync(track, nil)
	for i := range track {
		if adjusted[i] != track[i] {
			t.Fatalf("caption %d changed: %+v vs %+v", i, adjusted[i], track[i])
		}
	}
}

func TestResyncMarkBeforeCaptionIsConsumedWithoutClipping(t *testing.T) {
	track := []Caption{
		{Index: 1, Start: 10, End: 12, Text: "AFTER THE MARK."},
		{Index: 2, Start: 18, End: 22, Text: "STRADDLES THE NEXT ONE."},
	}
	adjusted := Resync(track, []float64{5, 20})

	if adjusted[0] != track[0] {
		t.Fatalf("caption before any clip changed: %+v", adjusted[0])
	}
	if !almostEqual(adjusted[1].End, 20) {
		t.Fatalf("expected second caption clipped at 20, got %v", adjusted[1].End)
	}
}

func TestResyncAgainstPlannedCutpoints(t *testing.T) {
	// Cutpoints as the planner emits them: two segment ends plus the
	// closing one at the output duration. The opening marker at zero is a
	// chapter start, not a cut, and must not be fed in.
	marks := []float64{20, 50, 85}
	track := []Caption{
		{Index: 1, Start: 2, End: 4, Text: "EARLY."},
		{Index: 2, Start: 19, End: 22, Text: "ACROSS THE FIRST CUT."},
		{Index: 3, Start: 52, End: 56, Text: "STARTS ON THE SECOND CUTPOINT."},
		{Index: 4, Start: 86, End: 90, Text: "RUNS PAST THE END."},
	}
	adjusted := Resync(track, marks)

	if adjusted[0] != track[0] {
		t.Fatalf("caption before the first cut changed: %+v", adjusted[0])
	}
	if !almostEqual(adjusted[1].Start, 19) || !almostEqual(adjusted[1].End, 20) {
		t.Fatalf("expected (19, 20), got (%v, %v)", adjusted[1].Start, adjusted[1].End)
	}
	// delay is now -2; the third caption lands exactly on the cutpoint and
	// is consumed without clipping because the mark is not inside its span.
	if !almostEqual(adjusted[2].Start, 50) || !almostEqual(adjusted[2].End, 54) {
		t.Fatalf("expected (50, 54), got (%v, %v)", adjusted[2].Start, adjusted[2].End)
	}
	// The closing mark clamps the final caption to the output duration.
	if !almostEqual(adjusted[3].Start, 84) || !almostEqual(adjusted[3].End, 85) {
		t.Fatalf("expected (84, 85), got (%v, %v)", adjusted[3].Start, adjusted[3].End)
	}
}

func TestResyncClipsFirstCaptionAtFirstCutpoint(t *testing.T) {
	track := []Caption{
		{Index: 1, Start: 19, End: 22, Text: "STRADDLES THE FIRST CUT."},
		{Index: 2, Start: 30, End: 33, Text: "AFTER IT."},
	}
	adjusted := Resync(track, []float64{20, 85})

	if !almostEqual(adjusted[0].Start, 19) || !almostEqual(adjusted[0].End, 20) {
		t.Fatalf("expected (19, 20), got (%v, %v)", adjusted[0].Start, adjusted[0].End)
	}
	if !almostEqual(adjusted[1].Start, 28) || !almostEqual(adjusted[1].End, 31) {
		t.Fatalf("expected delay -2 carried, got (%v, %v)", adjusted[1].Start, adjusted[1].End)
	}
}

func TestResyncDoesNotMutateInput(t *testing.T) {
	track := []Caption{{Index: 1, Start: 10, End: 12, Text: "ORIGINAL."}}
	Resync(track, []float64{11})
	if !almostEqual(track[0].End, 12) {
		t.Fatalf("input track mutated: %+v", track[0])
	}
}

func TestResyncSecondPassWithNoMarksIsIdentity(t *testing.T) {
	track := []Caption{
		{Index: 1, Start: 10, End: 12, Text: "A."},
		{Index: 2, Start: 15, End: 17, Text: "B."},
	}
	once := Resync(track, []float64{11})
	twice := Resync(once, nil)
	for i := range once {
		if twice[i] != once[i] {
			t.Fatalf("caption %d changed on second pass: %+v vs %+v", i, twice[i], once[i])
		}
	}
}
