package mkvmerge_test

import (
	"reflect"
	"strings"
	"testing"

	"recut/internal/services/mkvmerge"
)

func TestArgsFullJob(t *testing.T) {
	job := mkvmerge.Job{
		Output:          "final.mkv",
		Video:           "video.mkv",
		Audio:           "audio.ogg",
		Subtitles:       "captions.srt",
		Chapters:        "chapters.chap",
		GlobalTags:      "tags.xml",
		DefaultLanguage: "eng",
	}
	args := mkvmerge.Args(job)
	joined := strings.Join(args, " ")

	if !strings.HasPrefix(joined, "--default-language eng") {
		t.Fatalf("default language not first: %q", joined)
	}
	for _, want := range []string{
		"--track-name 0:Video video.mkv",
		"--track-name 0:Audio audio.ogg",
		"--track-name 0:Subtitles captions.srt",
		"--chapters chapters.chap",
		"--global-tags tags.xml",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q in %q", want, joined)
		}
	}
	if !reflect.DeepEqual(args[len(args)-2:], []string{"-o", "final.mkv"}) {
		t.Fatalf("output not last: %v", args)
	}
	if strings.Contains(joined, "--webm") {
		t.Fatal("webm flag present without WebM mode")
	}
	// Each input file is shielded from carrying foreign tracks or tags.
	if strings.Count(joined, "--no-global-tags") != 3 {
		t.Fatalf("expected per-input track shielding: %q", joined)
	}
}

func TestArgsWebMSkipsExtras(t *testing.T) {
	job := mkvmerge.Job{
		Output: "final.webm",
		Video:  "video.webm",
		Audio:  "audio.ogg",
		WebM:   true,
	}
	joined := strings.Join(mkvmerge.Args(job), " ")
	if !strings.Contains(joined, "--webm") {
		t.Fatalf("webm flag missing: %q", joined)
	}
	for _, banned := range []string{"--chapters", "--global-tags", "0:Subtitles"} {
		if strings.Contains(joined, banned) {
			t.Errorf("webm job should not carry %s", banned)
		}
	}
}
