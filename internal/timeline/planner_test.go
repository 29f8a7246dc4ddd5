package timeline_test

import (
	"errors"
	"testing"

	"recut/internal/services"
	"recut/internal/timeline"
)

func TestBuildPlanTwoCuts(t *testing.T) {
	cuts := timeline.Cutlist{{Start: 20, End: 30}, {Start: 60, End: 65}}
	plan, err := timeline.BuildPlan(cuts, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}

	wantSegments := []timeline.Segment{{Start: 0, End: 20}, {Start: 30, End: 60}, {Start: 65, End: 100}}
	if len(plan.Segments) != len(wantSegments) {
		t.Fatalf("expected %d segments, got %d: %+v", len(wantSegments), len(plan.Segments), plan.Segments)
	}
	for i, want := range wantSegments {
		if plan.Segments[i] != want {
			t.Fatalf("segment %d = %+v, want %+v", i, plan.Segments[i], want)
		}
	}

	wantMarkers := []timeline.Marker{
		{Elapsed: 0, Scene: 1},
		{Elapsed: 20, Scene: 2},
		{Elapsed: 50, Scene: 3},
		{Elapsed: 85, Closing: true},
	}
	if len(plan.Markers) != len(wantMarkers) {
		t.Fatalf("expected %d markers, got %d: %+v", len(wantMarkers), len(plan.Markers), plan.Markers)
	}
	for i, want := range wantMarkers {
		if plan.Markers[i] != want {
			t.Fatalf("marker %d = %+v, want %+v", i, plan.Markers[i], want)
		}
	}
	if plan.Duration != 85 {
		t.Fatalf("expected output duration 85, got %v", plan.Duration)
	}
}

func TestBuildPlanNoCuts(t *testing.T) {
	plan, err := timeline.BuildPlan(nil, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan.Segments) != 1 || plan.Segments[0] != (timeline.Segment{Start: 0, End: 100}) {
		t.Fatalf("expected single full segment, got %+v", plan.Segments)
	}
	if len(plan.Markers) != 2 {
		t.Fatalf("expected opening and closing markers, got %+v", plan.Markers)
	}
	if plan.Markers[0] != (timeline.Marker{Elapsed: 0, Scene: 1}) {
		t.Fatalf("unexpected opening marker: %+v", plan.Markers[0])
	}
	if plan.Markers[1] != (timeline.Marker{Elapsed: 100, Closing: true}) {
		t.Fatalf("unexpected closing marker: %+v", plan.Markers[1])
	}
}

func TestBuildPlanCutAtStart(t *testing.T) {
	plan, err := timeline.BuildPlan(timeline.Cutlist{{Start: 0, End: 10}}, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan.Segments) != 1 || plan.Segments[0] != (timeline.Segment{Start: 10, End: 100}) {
		t.Fatalf("expected single trailing segment, got %+v", plan.Segments)
	}
	if plan.Duration != 90 {
		t.Fatalf("expected output duration 90, got %v", plan.Duration)
	}
}

func TestBuildPlanAbsorbsShortRemnants(t *testing.T) {
	// The 3s remnant between the cuts and the 2s tail both sit under the
	// threshold and are swallowed by the neighboring cut.
	cuts := timeline.Cutlist{{Start: 20, End: 30}, {Start: 33, End: 98}}
	plan, err := timeline.BuildPlan(cuts, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan.Segments) != 1 || plan.Segments[0] != (timeline.Segment{Start: 0, End: 20}) {
		t.Fatalf("expected only the leading segment, got %+v", plan.Segments)
	}
	wantMarkers := []timeline.Marker{{Elapsed: 0, Scene: 1}, {Elapsed: 20, Closing: true}}
	for i, want := range wantMarkers {
		if plan.Markers[i] != want {
			t.Fatalf("marker %d = %+v, want %+v", i, plan.Markers[i], want)
		}
	}
}

func TestBuildPlanEverythingCut(t *testing.T) {
	plan, err := timeline.BuildPlan(timeline.Cutlist{{Start: 2, End: 98}}, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan.Segments) != 0 {
		t.Fatalf("expected no segments, got %+v", plan.Segments)
	}
	if len(plan.Markers) != 1 || !plan.Markers[0].Closing || plan.Markers[0].Elapsed != 0 {
		t.Fatalf("expected a lone closing marker at 0, got %+v", plan.Markers)
	}
}

func TestBuildPlanMarkerCountTracksSegments(t *testing.T) {
	cuts := timeline.Cutlist{{Start: 10, End: 20}, {Start: 40, End: 50}, {Start: 70, End: 80}}
	plan, err := timeline.BuildPlan(cuts, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan.Markers) != len(plan.Segments)+1 {
		t.Fatalf("expected %d markers for %d segments, got %d", len(plan.Segments)+1, len(plan.Segments), len(plan.Markers))
	}
	for i, marker := range plan.Markers[:len(plan.Markers)-1] {
		if marker.Scene != i+1 {
			t.Fatalf("marker %d carries scene %d", i, marker.Scene)
		}
		if marker.Closing {
			t.Fatalf("interior marker %d flagged as closing", i)
		}
	}
	total := 0.0
	for _, segment := range plan.Segments {
		total += segment.Length()
	}
	if plan.Duration != total {
		t.Fatalf("plan duration %v does not match summed segments %v", plan.Duration, total)
	}
}

func TestBuildPlanSegmentsNeverOverlapCuts(t *testing.T) {
	cuts := timeline.Cutlist{{Start: 15, End: 25}, {Start: 55, End: 62}}
	plan, err := timeline.BuildPlan(cuts, 120, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	for _, segment := range plan.Segments {
		for _, cut := range cuts {
			if segment.Start < cut.End && cut.Start < segment.End {
				t.Fatalf("segment %+v overlaps cut %+v", segment, cut)
			}
		}
	}
}

func TestBuildPlanRejectsNegativeThreshold(t *testing.T) {
	_, err := timeline.BuildPlan(nil, 100, -1)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkerSeconds(t *testing.T) {
	plan, err := timeline.BuildPlan(timeline.Cutlist{{Start: 20, End: 30}, {Start: 60, End: 65}}, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	want := []float64{0, 20, 50, 85}
	got := plan.MarkerSeconds()
	if len(got) != len(want) {
		t.Fatalf("expected %d marker times, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("marker time %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCutpointsDropOpeningMarker(t *testing.T) {
	plan, err := timeline.BuildPlan(timeline.Cutlist{{Start: 20, End: 30}, {Start: 60, End: 65}}, 100, 5)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	want := []float64{20, 50, 85}
	got := plan.Cutpoints()
	if len(got) != len(want) {
		t.Fatalf("expected %d cutpoints, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cutpoint %d = %v, want %v", i, got[i], want[i])
		}
	}
	if pts := (timeline.Plan{}).Cutpoints(); pts != nil {
		t.Fatalf("empty plan cutpoints = %v, want nil", pts)
	}
}
