package catalog_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"recut/internal/catalog"
	"recut/internal/services"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecording() *catalog.Recording {
	return &catalog.Recording{
		ChannelID:       "1021",
		StartTime:       time.Date(2026, 8, 15, 20, 30, 0, 0, time.Local),
		Title:           "Nova",
		Subtitle:        "The Planets",
		Description:     "A tour of the solar system.",
		Category:        "Documentary",
		OriginalAirdate: "2026-05-02",
		EpisodeCode:     "5306",
		Rating:          "TV-PG",
		FPS:             29.97,
		FilePath:        "/var/recordings/1021_20260815203000.mpg",
	}
}

func TestAddAndGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	marks := []catalog.CutMark{{StartFrame: 0, EndFrame: 5990}, {StartFrame: 35960, EndFrame: 44948}}
	credits := []catalog.Credit{{Person: "Jane Smith", Role: "host"}, {Person: "Ken Burns", Role: "director"}}

	added, err := store.Add(ctx, sampleRecording(), marks, credits)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID == 0 {
		t.Fatal("expected recording ID to be assigned")
	}

	fetched, err := store.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected recording, got nil")
	}
	if fetched.Title != "Nova" || fetched.Subtitle != "The Planets" {
		t.Errorf("unexpected metadata: %#v", fetched)
	}
	if fetched.FPS != 29.97 {
		t.Errorf("fps = %v, want 29.97", fetched.FPS)
	}
	if !fetched.StartTime.Equal(time.Date(2026, 8, 15, 20, 30, 0, 0, time.Local)) {
		t.Errorf("start time = %v", fetched.StartTime)
	}

	gotMarks, err := store.CutMarks(ctx, added.ID)
	if err != nil {
		t.Fatalf("CutMarks failed: %v", err)
	}
	if len(gotMarks) != 2 || gotMarks[1].StartFrame != 35960 {
		t.Errorf("cut marks = %+v", gotMarks)
	}

	gotCredits, err := store.Credits(ctx, added.ID)
	if err != nil {
		t.Fatalf("Credits failed: %v", err)
	}
	if len(gotCredits) != 2 || gotCredits[0].Person != "Jane Smith" {
		t.Errorf("credits = %+v", gotCredits)
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := openStore(t)
	rec, err := store.GetByID(context.Background(), 42)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing recording, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil recording, got %#v", rec)
	}
}

func TestGetByChannelTime(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, sampleRecording(), nil, nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	found, err := store.GetByChannelTime(ctx, "1021", added.StartTime)
	if err != nil {
		t.Fatalf("GetByChannelTime failed: %v", err)
	}
	if found == nil || found.ID != added.ID {
		t.Fatalf("expected recording %d, got %#v", added.ID, found)
	}

	missing, err := store.GetByChannelTime(ctx, "9999", added.StartTime)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown channel, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil recording, got %#v", missing)
	}
}

func TestAddRejectsDuplicateChannelTime(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, sampleRecording(), nil, nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, sampleRecording(), nil, nil); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
}

func TestAddValidatesInput(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	noChannel := sampleRecording()
	noChannel.ChannelID = "  "
	if _, err := store.Add(ctx, noChannel, nil, nil); !errors.Is(err, services.ErrValidation) {
		t.Errorf("missing channel: expected validation error, got %v", err)
	}

	noStart := sampleRecording()
	noStart.StartTime = time.Time{}
	if _, err := store.Add(ctx, noStart, nil, nil); !errors.Is(err, services.ErrValidation) {
		t.Errorf("missing start: expected validation error, got %v", err)
	}

	badMark := []catalog.CutMark{{StartFrame: 100, EndFrame: 100}}
	if _, err := store.Add(ctx, sampleRecording(), badMark, nil); !errors.Is(err, services.ErrValidation) {
		t.Errorf("inverted mark: expected validation error, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	older := sampleRecording()
	older.StartTime = time.Date(2026, 8, 14, 20, 0, 0, 0, time.Local)
	newer := sampleRecording()
	newer.StartTime = time.Date(2026, 8, 16, 20, 0, 0, 0, time.Local)

	for _, rec := range []*catalog.Recording{older, newer} {
		if _, err := store.Add(ctx, rec, nil, nil); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recordings, got %d", len(recs))
	}
	if !recs[0].StartTime.After(recs[1].StartTime) {
		t.Errorf("expected newest first, got %v then %v", recs[0].StartTime, recs[1].StartTime)
	}
}

func TestCutlistConvertsFrames(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	marks := []catalog.CutMark{{StartFrame: 500, EndFrame: 750}}
	added, err := store.Add(ctx, sampleRecording(), marks, nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	cuts, err := store.Cutlist(ctx, added.ID, 25)
	if err != nil {
		t.Fatalf("Cutlist failed: %v", err)
	}
	if len(cuts) != 1 || cuts[0].Start != 20 || cuts[0].End != 30 {
		t.Fatalf("cuts = %+v, want one cut {20 30}", cuts)
	}

	if _, err := store.Cutlist(ctx, added.ID, 0); !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error for zero fps, got %v", err)
	}
	if _, err := store.Cutlist(ctx, added.ID, math.NaN()); !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error for NaN fps, got %v", err)
	}
}

func TestRemoveCascades(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, sampleRecording(),
		[]catalog.CutMark{{StartFrame: 0, EndFrame: 100}},
		[]catalog.Credit{{Person: "Jane Smith", Role: "host"}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	removed, err := store.Remove(ctx, added.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected Remove to report a deleted row")
	}

	marks, err := store.CutMarks(ctx, added.ID)
	if err != nil {
		t.Fatalf("CutMarks failed: %v", err)
	}
	if len(marks) != 0 {
		t.Errorf("expected cut marks removed with recording, got %+v", marks)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := catalog.Open("  "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestParseStartTime(t *testing.T) {
	got, err := catalog.ParseStartTime("20260815203000")
	if err != nil {
		t.Fatalf("ParseStartTime failed: %v", err)
	}
	want := time.Date(2026, 8, 15, 20, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("ParseStartTime = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2026", "202608152030000", "2026081520300x"} {
		if _, err := catalog.ParseStartTime(bad); !errors.Is(err, services.ErrValidation) {
			t.Errorf("ParseStartTime(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestRecordingBase(t *testing.T) {
	rec := sampleRecording()
	if got := rec.Base(); got != "1021_20260815203000" {
		t.Errorf("Base() = %q, want %q", got, "1021_20260815203000")
	}
}
