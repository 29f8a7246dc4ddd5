// Package streams selects the elementary streams to encode from a joined
// transport stream and resolves the files an external demultiplexer wrote
// them to.
package streams

import (
	"fmt"
	"strings"

	"recut/internal/language"
	"recut/internal/media/ffprobe"
	"recut/internal/services"
)

// Descriptor identifies one elementary stream inside the joined transport
// stream. Exactly one descriptor per kind ends up enabled.
type Descriptor struct {
	PID      int
	Codec    string
	Profile  string
	Language string
	Enabled  bool
}

// Selection is the outcome of stream selection for one recording.
type Selection struct {
	Video []Descriptor
	Audio []Descriptor

	// VideoForced and AudioForced report that no stream matched the
	// selection heuristics and the first probed stream was enabled
	// instead. The pipeline never fails over missing tags when at least
	// one stream of the kind exists.
	VideoForced bool
	AudioForced bool
}

// EnabledVideo returns the enabled video descriptor.
func (s Selection) EnabledVideo() (Descriptor, bool) {
	return enabled(s.Video)
}

// EnabledAudio returns the enabled audio descriptor.
func (s Selection) EnabledAudio() (Descriptor, bool) {
	return enabled(s.Audio)
}

func enabled(descs []Descriptor) (Descriptor, bool) {
	for _, d := range descs {
		if d.Enabled {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Select inspects the probe result for the joined stream and picks one video
// and one audio stream to carry into encoding.
//
// The video stream tagged with the "Main" profile is preferred; the audio
// stream whose language tag matches the configured two-letter code is
// preferred. When no stream of a kind matches, the first probed stream of
// that kind is enabled instead.
func Select(probe ffprobe.Result, languageCode string) (Selection, error) {
	if _, err := language.ISO6392(languageCode); err != nil {
		return Selection{}, err
	}

	video, videoForced, err := selectKind(probe.VideoStreams(), "video", func(s ffprobe.Stream) bool {
		return strings.EqualFold(s.Profile, "Main")
	})
	if err != nil {
		return Selection{}, err
	}
	audio, audioForced, err := selectKind(probe.AudioStreams(), "audio", func(s ffprobe.Stream) bool {
		return language.Matches(s.Language(), languageCode)
	})
	if err != nil {
		return Selection{}, err
	}

	return Selection{
		Video:       video,
		Audio:       audio,
		VideoForced: videoForced,
		AudioForced: audioForced,
	}, nil
}

func selectKind(probed []ffprobe.Stream, kind string, prefer func(ffprobe.Stream) bool) ([]Descriptor, bool, error) {
	var descs []Descriptor
	chosen := false
	for _, stream := range probed {
		pid, ok := stream.PID()
		if !ok {
			// Streams without a container identifier cannot be
			// correlated with demuxer output.
			continue
		}
		d := Descriptor{
			PID:      pid,
			Codec:    stream.CodecName,
			Profile:  stream.Profile,
			Language: stream.Language(),
		}
		if !chosen && prefer(stream) {
			d.Enabled = true
			chosen = true
		}
		descs = append(descs, d)
	}
	if len(descs) == 0 {
		return nil, false, fmt.Errorf("%w: no %s streams could be found", services.ErrResolution, kind)
	}
	if !chosen {
		descs[0].Enabled = true
		return descs, true, nil
	}
	return descs, false, nil
}
