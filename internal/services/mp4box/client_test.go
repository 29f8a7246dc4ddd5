package mp4box_test

import (
	"context"
	"reflect"
	"testing"

	"recut/internal/services/mp4box"
	"recut/internal/services/toolexec"
)

func newRecorded(t *testing.T) (*mp4box.Client, *[]toolexec.Command) {
	t.Helper()
	var commands []toolexec.Command
	exec := toolexec.RunFunc(func(_ context.Context, cmd toolexec.Command) error {
		commands = append(commands, cmd)
		return nil
	})
	return mp4box.New("MP4Box", "/work/run", mp4box.WithExecutor(exec)), &commands
}

func TestCreateArgs(t *testing.T) {
	client, commands := newRecorded(t)
	if err := client.Create(context.Background(), "v.mp4", "a.aac", "final.mp4"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	want := []string{
		"-tmp", "/work/run", "-new",
		"-add", "v.mp4#video:name=Video",
		"-add", "a.aac#audio:name=Audio",
		"final.mp4",
	}
	if !reflect.DeepEqual((*commands)[0].Args, want) {
		t.Fatalf("unexpected args: %v", (*commands)[0].Args)
	}
}

func TestEveryInvocationScratchesInTmpDir(t *testing.T) {
	client, commands := newRecorded(t)
	ctx := context.Background()
	_ = client.Hint(ctx, "final.mp4")
	_ = client.AddSubtitles(ctx, "captions.srt", "final.mp4")
	_ = client.AddChapters(ctx, "chapters.ttxt", "final.mp4")
	_ = client.SetLanguage(ctx, "en", "final.mp4")

	for i, cmd := range *commands {
		if len(cmd.Args) < 2 || cmd.Args[0] != "-tmp" || cmd.Args[1] != "/work/run" {
			t.Errorf("command %d missing -tmp prefix: %v", i, cmd.Args)
		}
	}
	if got := (*commands)[1].Args[2:]; !reflect.DeepEqual(got, []string{
		"-add", "captions.srt:name=Subtitles:layout=0x125x0x-1", "final.mp4",
	}) {
		t.Fatalf("unexpected subtitle args: %v", got)
	}
	if got := (*commands)[2].Args[2:]; !reflect.DeepEqual(got, []string{
		"-add", "chapters.ttxt:chap", "final.mp4",
	}) {
		t.Fatalf("unexpected chapter args: %v", got)
	}
}
