package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recut/internal/captions"
	"recut/internal/catalog"
	"recut/internal/chapters"
	"recut/internal/comskip"
	"recut/internal/config"
	"recut/internal/episodes"
	"recut/internal/fileutil"
	"recut/internal/language"
	"recut/internal/logging"
	"recut/internal/metadata"
	"recut/internal/services"
	"recut/internal/services/atomicparsley"
	"recut/internal/services/ccextractor"
	"recut/internal/services/ffmpeg"
	"recut/internal/services/mkvmerge"
	"recut/internal/services/mp4box"
	"recut/internal/services/neroaac"
	"recut/internal/services/projectx"
	"recut/internal/streams"
	"recut/internal/timeline"
	"recut/internal/workspace"
)

func (p *Pipeline) ffmpeg() *ffmpeg.Client {
	return ffmpeg.New(p.cfg.Tools.FFmpeg, ffmpeg.WithExecutor(p.executor))
}

func (p *Pipeline) acquire(ctx context.Context, st *run) error {
	const stage = "acquire"

	if err := p.resolveSource(ctx, st); err != nil {
		return err
	}
	if !fileutil.Exists(st.sourcePath) {
		return services.Wrap(services.ErrNotFound, stage, "resolve",
			fmt.Sprintf("recording file %s does not exist", st.sourcePath), nil)
	}

	p.enrichEpisode(ctx, st)

	ws, err := workspace.New(p.cfg.Paths.WorkDir, st.base)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, stage, "workspace", "", err)
	}
	st.ws = ws

	if err := fileutil.CopyFileVerified(st.sourcePath, ws.Original()); err != nil {
		return services.Wrap(services.ErrResolution, stage, "copy source", "", err)
	}
	return nil
}

func (p *Pipeline) resolveSource(ctx context.Context, st *run) error {
	const stage = "acquire"
	req := st.req

	if req.catalogSource() {
		if p.store == nil {
			return services.Wrap(services.ErrConfiguration, stage, "resolve", "catalog is not configured", nil)
		}
		rec, err := p.lookupRecording(ctx, req)
		if err != nil {
			return err
		}
		credits, err := p.store.Credits(ctx, rec.ID)
		if err != nil {
			return services.Wrap(services.ErrResolution, stage, "load credits", "", err)
		}
		st.recording = rec
		st.sourcePath = rec.FilePath
		st.base = rec.Base()
		st.episode = metadata.FromRecording(rec, credits)
		return nil
	}

	if strings.TrimSpace(req.FilePath) == "" {
		return services.Wrap(services.ErrValidation, stage, "resolve", "no recording or file given", nil)
	}
	st.sourcePath = req.FilePath
	st.base = strings.TrimSuffix(filepath.Base(req.FilePath), filepath.Ext(req.FilePath))

	ep := &metadata.Episode{Title: strings.TrimSpace(req.Title)}
	if ep.Title == "" && p.cfg.Metadata.Enabled {
		ep.Title = metadata.DeriveTitle(req.FilePath)
	}
	if req.Airdate != "" {
		airdate, err := time.Parse("2006-01-02", req.Airdate)
		if err != nil {
			return services.Wrap(services.ErrValidation, stage, "resolve",
				fmt.Sprintf("airdate %q is not YYYY-MM-DD", req.Airdate), nil)
		}
		ep.OriginalAirdate = airdate
	}
	if info, err := os.Stat(req.FilePath); err == nil {
		ep.RecordedAt = info.ModTime()
	}
	st.episode = ep
	return nil
}

func (p *Pipeline) lookupRecording(ctx context.Context, req Request) (*catalog.Recording, error) {
	if req.RecordingID > 0 {
		return p.store.GetByID(ctx, req.RecordingID)
	}
	return p.store.GetByChannelTime(ctx, req.ChannelID, req.StartTime)
}

func (p *Pipeline) enrichEpisode(ctx context.Context, st *run) {
	if !p.cfg.Metadata.Enabled || !p.cfg.Episodes.Enabled || p.lister == nil {
		return
	}
	if st.episode == nil || st.episode.Title == "" {
		return
	}
	opts := episodes.Options{
		UseRating:       p.cfg.Metadata.UseEpisodeRating,
		UseDescriptions: p.cfg.Metadata.UseEpisodeDescriptions,
	}
	if err := episodes.Enrich(ctx, p.lister, st.episode, opts); err != nil {
		if errors.Is(err, episodes.ErrNoMatch) {
			p.logger.Warn("episode lookup found no match",
				logging.String("title", st.episode.Title))
			return
		}
		p.logger.Warn("episode lookup failed", logging.Error(err))
	}
}

func (p *Pipeline) inspect(ctx context.Context, st *run) error {
	const stage = "inspect"

	probe, err := p.probe(ctx, p.cfg.Tools.FFprobe, st.ws.Original())
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stage, "ffprobe", "", err)
	}
	st.probe = probe
	st.fps = probe.FrameRate()
	st.duration = probe.DurationSeconds()

	if probe.VideoStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, stage, "streams", "recording has no video stream", nil)
	}
	if probe.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, stage, "streams", "recording has no audio stream", nil)
	}
	if st.duration <= 0 {
		return services.Wrap(services.ErrValidation, stage, "format", "recording reports no duration", nil)
	}
	if st.episode != nil && st.episode.FPS == 0 {
		st.episode.FPS = st.fps
	}
	return nil
}

func (p *Pipeline) cutlist(ctx context.Context, st *run) error {
	const stage = "cutlist"

	fps := st.fps
	if st.recording != nil && st.recording.FPS > 0 {
		fps = st.recording.FPS
	}

	var cuts timeline.Cutlist
	var err error
	switch {
	case st.recording != nil:
		cuts, err = p.store.Cutlist(ctx, st.recording.ID, fps)
		if err != nil {
			return services.Wrap(services.ErrResolution, stage, "catalog marks", "", err)
		}
	case st.req.Sidecar != "":
		file, openErr := os.Open(st.req.Sidecar)
		if openErr != nil {
			return services.Wrap(services.ErrNotFound, stage, "sidecar",
				fmt.Sprintf("open %s", st.req.Sidecar), openErr)
		}
		defer file.Close()
		cuts, err = comskip.Parse(file, fps)
		if err != nil {
			return err
		}
	default:
		cuts, err = comskip.Load(st.sourcePath, fps)
		if err != nil {
			return err
		}
	}

	if err := cuts.Validate(st.duration); err != nil {
		return err
	}
	st.cuts = cuts
	return nil
}

func (p *Pipeline) plan(ctx context.Context, st *run) error {
	plan, err := timeline.BuildPlan(st.cuts, st.duration, p.cfg.Segments.ThreshSeconds)
	if err != nil {
		return err
	}
	if len(plan.Segments) == 0 {
		return services.Wrap(services.ErrValidation, "plan", "segments",
			"cutlist removes the entire recording", nil)
	}
	st.plan = plan
	p.logger.Info("segments planned",
		logging.Int("segments", len(plan.Segments)),
		logging.Float64("cut_seconds", st.cuts.TotalCut()),
		logging.Float64("output_seconds", plan.Duration))
	return nil
}

func (p *Pipeline) split(ctx context.Context, st *run) error {
	ff := p.ffmpeg()
	for i, seg := range st.plan.Segments {
		if err := ff.ExtractSegment(ctx, st.ws.Original(), st.ws.SegmentFile(i), seg.Start, seg.Length()); err != nil {
			return wrapTool("split", fmt.Sprintf("segment %d", i+1), err)
		}
	}
	return nil
}

func (p *Pipeline) join(ctx context.Context, st *run) error {
	segments := make([]string, len(st.plan.Segments))
	for i := range st.plan.Segments {
		segments[i] = st.ws.SegmentFile(i)
	}
	if err := p.ffmpeg().Join(ctx, segments, st.ws.Joined()); err != nil {
		return wrapTool("join", "concat", err)
	}
	return nil
}

func (p *Pipeline) captions(ctx context.Context, st *run) error {
	if !p.cfg.Subtitles.Enabled || p.cfg.Video.Flavor == "webm" {
		return nil
	}

	cc := ccextractor.New(p.cfg.Tools.CCExtractor, ccextractor.WithExecutor(p.executor))
	if err := cc.Extract(ctx, st.ws.Joined(), st.ws.Captions()); err != nil {
		return wrapTool("captions", "ccextractor", err)
	}

	track, err := captions.ReadFile(st.ws.Captions())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Info("no caption track present")
			return nil
		}
		return services.Wrap(services.ErrResolution, "captions", "read track", "", err)
	}
	if len(track) == 0 {
		p.logger.Info("caption track is empty")
		return nil
	}

	track = captions.Resync(track, st.plan.Cutpoints())
	if err := captions.WriteFile(st.ws.Captions(), track); err != nil {
		return services.Wrap(services.ErrResolution, "captions", "write track", "", err)
	}
	st.captionsPath = st.ws.Captions()
	return nil
}

func (p *Pipeline) demux(ctx context.Context, st *run) error {
	const stage = "demux"

	px, err := projectx.New(p.cfg.Tools.Java, p.cfg.Tools.ProjectXJar, projectx.WithExecutor(p.executor))
	if err != nil {
		return err
	}
	if err := px.Demux(ctx, st.ws.Joined(), st.ws.Dir, filepath.Base(st.ws.DemuxBase())); err != nil {
		return wrapTool(stage, "projectx", err)
	}

	selection, err := streams.Select(st.probe, p.cfg.Language)
	if err != nil {
		return err
	}
	st.selection = selection
	if selection.VideoForced || selection.AudioForced {
		p.logger.Warn("no stream matched the selection heuristics; using the first stream",
			logging.Bool("video_forced", selection.VideoForced),
			logging.Bool("audio_forced", selection.AudioForced))
	}

	outputs, err := streams.ResolveOutputs(st.ws.DemuxLog(), selection)
	if err != nil {
		return err
	}
	st.outputs = outputs
	return nil
}

func (p *Pipeline) encode(ctx context.Context, st *run) error {
	const stage = "encode"
	ff := p.ffmpeg()

	// Audio first, matching the original processing order.
	switch p.cfg.Audio.Encoder {
	case "nero":
		if err := ff.DecodeWAV(ctx, st.outputs.AudioPath, st.ws.WAV()); err != nil {
			return wrapTool(stage, "wav decode", err)
		}
		nero := neroaac.New(p.cfg.Tools.NeroAacEnc, neroaac.WithExecutor(p.executor))
		st.audioPath = st.ws.EncodedAudio("aac")
		if err := nero.Encode(ctx, st.ws.WAV(), st.audioPath, p.cfg.Audio.Quality); err != nil {
			return wrapTool(stage, "neroAacEnc", err)
		}
	default:
		st.audioPath = st.ws.EncodedAudio(audioExt(p.cfg.Audio.Encoder))
		err := ff.EncodeAudio(ctx, ffmpeg.AudioJob{
			Input:    st.outputs.AudioPath,
			Output:   st.audioPath,
			Encoder:  p.cfg.Audio.Encoder,
			BitrateK: p.cfg.Audio.BitrateK,
		})
		if err != nil {
			return wrapTool(stage, "audio encode", err)
		}
	}

	encoderName, err := ffmpeg.EncoderName(p.cfg.Video.Codec, p.cfg.Video.Flavor)
	if err != nil {
		return err
	}
	if !ff.SupportsEncoder(ctx, encoderName) {
		return services.Wrap(services.ErrConfiguration, stage, "video encode",
			fmt.Sprintf("ffmpeg build lacks the %s encoder", encoderName), nil)
	}

	var sizeArgs []string
	if dstW, dstH, ok := p.cfg.TargetResolution(); ok {
		srcW, srcH := st.probe.Resolution()
		if srcW > 0 && srcH > 0 {
			sizeArgs = ffmpeg.FitResolution(srcW, srcH, dstW, dstH)
			p.logger.Info("fitting resolution",
				logging.String("source", fmtResolution(srcW, srcH)),
				logging.String("target", fmtResolution(dstW, dstH)))
		}
	}

	st.videoPath = st.ws.EncodedVideo(videoExt(p.cfg.Video.Codec, p.cfg.Video.Flavor))
	err = ff.EncodeVideo(ctx, ffmpeg.VideoJob{
		Input:      st.outputs.VideoPath,
		Output:     st.videoPath,
		Codec:      p.cfg.Video.Codec,
		Flavor:     p.cfg.Video.Flavor,
		Preset:     p.cfg.Video.Preset,
		CRF:        p.cfg.Video.CRF,
		BitrateK:   p.cfg.Video.BitrateK,
		TwoPass:    p.cfg.Video.TwoPass,
		PassLogDir: st.ws.Dir,
		SizeArgs:   sizeArgs,
	})
	if err != nil {
		return wrapTool(stage, "video encode", err)
	}
	if p.cfg.Video.TwoPass {
		if err := st.ws.RemovePassLogs(); err != nil {
			p.logger.Warn("pass log cleanup failed", logging.Error(err))
		}
	}
	return nil
}

func (p *Pipeline) remux(ctx context.Context, st *run) error {
	st.muxedPath = filepath.Join(st.ws.Dir, st.ws.Base+"."+containerExt(p.cfg))
	code, err := language.ISO6392(p.cfg.Language)
	if err != nil {
		return err
	}
	if p.cfg.Video.Container == "mp4" {
		return p.remuxMP4(ctx, st, code)
	}
	return p.remuxMatroska(ctx, st, code)
}

func (p *Pipeline) remuxMP4(ctx context.Context, st *run, langCode string) error {
	const stage = "remux"

	box := mp4box.New(p.cfg.Tools.MP4Box, st.ws.Dir, mp4box.WithExecutor(p.executor))
	if err := box.Create(ctx, st.videoPath, st.audioPath, st.muxedPath); err != nil {
		return wrapTool(stage, "mp4box create", err)
	}
	if err := box.Hint(ctx, st.muxedPath); err != nil {
		return wrapTool(stage, "mp4box hint", err)
	}
	if st.captionsPath != "" {
		if err := box.AddSubtitles(ctx, st.captionsPath, st.muxedPath); err != nil {
			return wrapTool(stage, "mp4box subtitles", err)
		}
	}
	if len(st.plan.Markers) > 0 {
		chaptersPath := st.ws.ChaptersFile("ttxt")
		if err := os.WriteFile(chaptersPath, []byte(chapters.MP4(st.plan.Markers)), 0o644); err != nil {
			return services.Wrap(services.ErrResolution, stage, "write chapters", "", err)
		}
		if err := box.AddChapters(ctx, chaptersPath, st.muxedPath); err != nil {
			// Old MP4Box builds reject :chap; the file is still valid
			// without a chapter track.
			p.logger.Warn("chapter import failed", logging.Error(err))
		}
	}
	if err := box.SetLanguage(ctx, langCode, st.muxedPath); err != nil {
		return wrapTool(stage, "mp4box language", err)
	}

	if !p.cfg.Metadata.Enabled || st.episode == nil || st.episode.Title == "" {
		return nil
	}
	ap := atomicparsley.New(p.cfg.Tools.AtomicParsley, atomicparsley.WithExecutor(p.executor))
	probed, ok := ap.Probe(ctx)
	if !ok {
		p.logger.Warn("AtomicParsley unavailable; skipping tags")
		return nil
	}
	caps := metadata.MP4Capabilities{
		ContentRating: probed.ContentRating,
		CreditsAtom:   probed.Credits,
	}
	if err := ap.Apply(ctx, st.muxedPath, st.episode.MP4SimpleTags(p.encoderTag(ctx), caps)); err != nil {
		return wrapTool(stage, "tags", err)
	}
	if long := st.episode.MP4LongTags(); len(long) > 0 {
		if err := ap.Apply(ctx, st.muxedPath, long); err != nil {
			return wrapTool(stage, "long tags", err)
		}
	}
	if caps.CreditsAtom {
		if credits := st.episode.MP4CreditsArgs(); len(credits) > 0 {
			if err := ap.Apply(ctx, st.muxedPath, credits); err != nil {
				return wrapTool(stage, "credits", err)
			}
		}
	}
	return nil
}

func (p *Pipeline) remuxMatroska(ctx context.Context, st *run, langCode string) error {
	const stage = "remux"
	webM := p.cfg.Video.Flavor == "webm"

	job := mkvmerge.Job{
		Output:          st.muxedPath,
		Video:           st.videoPath,
		Audio:           st.audioPath,
		DefaultLanguage: langCode,
		WebM:            webM,
	}
	if !webM {
		job.Subtitles = st.captionsPath
		if len(st.plan.Markers) > 0 {
			chaptersPath := st.ws.ChaptersFile("txt")
			if err := os.WriteFile(chaptersPath, []byte(chapters.Matroska(st.plan.Markers)), 0o644); err != nil {
				return services.Wrap(services.ErrResolution, stage, "write chapters", "", err)
			}
			job.Chapters = chaptersPath
		}
		if p.cfg.Metadata.Enabled && st.episode != nil && st.episode.Title != "" {
			tags := st.episode.MatroskaTags(p.encoderTag(ctx), time.Now())
			if err := os.WriteFile(st.ws.TagsFile(), []byte(tags), 0o644); err != nil {
				return services.Wrap(services.ErrResolution, stage, "write tags", "", err)
			}
			job.GlobalTags = st.ws.TagsFile()
		}
	}

	merge := mkvmerge.New(p.cfg.Tools.MKVMerge, mkvmerge.WithExecutor(p.executor))
	if err := merge.Mux(ctx, job); err != nil {
		return wrapTool(stage, "mkvmerge", err)
	}
	return nil
}

func (p *Pipeline) finalize(ctx context.Context, st *run) error {
	const stage = "finalize"

	info, err := os.Stat(st.muxedPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, stage, "artifact",
			fmt.Sprintf("muxed output %s is missing", st.muxedPath), err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrValidation, stage, "artifact",
			fmt.Sprintf("muxed output %s is empty", st.muxedPath), nil)
	}
	probe, err := p.probe(ctx, p.cfg.Tools.FFprobe, st.muxedPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stage, "ffprobe", "", err)
	}
	if probe.VideoStreamCount() == 0 || probe.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, stage, "artifact",
			"muxed output is missing a stream kind", nil)
	}

	final := p.finalPath(st)
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return services.Wrap(services.ErrResolution, stage, "library dirs", "", err)
	}
	if err := moveFile(st.muxedPath, final); err != nil {
		return services.Wrap(services.ErrResolution, stage, "move to library", "", err)
	}
	st.finalPath = final
	p.logger.Info("recording transcoded", logging.String("path", final))
	return nil
}

func (p *Pipeline) finalPath(st *run) string {
	ext := "." + containerExt(p.cfg)
	if p.cfg.Metadata.Enabled && st.episode != nil {
		name := st.episode.FinalName(p.cfg.Paths.LibraryDir, st.ws.Base, metadata.NamingOptions{
			Format:      p.cfg.Metadata.Format,
			ReplaceChar: p.cfg.Metadata.ReplaceChar,
			FoldASCII:   p.cfg.Metadata.FoldASCII,
		})
		return name + ext
	}
	return filepath.Join(p.cfg.Paths.LibraryDir, st.ws.Base+ext)
}

func (p *Pipeline) encoderTag(ctx context.Context) string {
	if version, ok := p.ffmpeg().Version(ctx); ok {
		return version
	}
	return "recut"
}

func containerExt(cfg *config.Config) string {
	if cfg.Video.Flavor == "webm" {
		return "webm"
	}
	return cfg.Video.Container
}

func audioExt(encoder string) string {
	switch encoder {
	case "vorbis":
		return "ogg"
	case "flac":
		return "flac"
	default:
		return "aac"
	}
}

func videoExt(codec, flavor string) string {
	switch {
	case flavor == "webm":
		return "webm"
	case codec == "vp8":
		return "mkv"
	default:
		return "mp4"
	}
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Cross-device move falls back to copy and remove.
	if err := fileutil.CopyFile(src, dst); err != nil {
		return err
	}
	return fileutil.Remove(src)
}
