package timeline_test

import (
	"errors"
	"math"
	"testing"

	"recut/internal/services"
	"recut/internal/timeline"
)

func TestCutlistValidate(t *testing.T) {
	cuts := timeline.Cutlist{{Start: 0, End: 10}, {Start: 10, End: 20}, {Start: 45.5, End: 90}}
	if err := cuts.Validate(90); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestCutlistValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		cuts     timeline.Cutlist
		duration float64
	}{
		{"negative start", timeline.Cutlist{{Start: -1, End: 5}}, 100},
		{"end before start", timeline.Cutlist{{Start: 10, End: 10}}, 100},
		{"beyond duration", timeline.Cutlist{{Start: 10, End: 120}}, 100},
		{"overlapping", timeline.Cutlist{{Start: 10, End: 30}, {Start: 20, End: 40}}, 100},
		{"out of order", timeline.Cutlist{{Start: 50, End: 60}, {Start: 10, End: 20}}, 100},
		{"nan bound", timeline.Cutlist{{Start: math.NaN(), End: 10}}, 100},
		{"zero duration", nil, 0},
		{"infinite duration", nil, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cuts.Validate(tt.duration)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCutlistTotalCut(t *testing.T) {
	cuts := timeline.Cutlist{{Start: 20, End: 30}, {Start: 60, End: 65}}
	if got := cuts.TotalCut(); got != 15 {
		t.Fatalf("TotalCut = %v, want 15", got)
	}
	if got := (timeline.Cutlist)(nil).TotalCut(); got != 0 {
		t.Fatalf("TotalCut on empty list = %v, want 0", got)
	}
}
