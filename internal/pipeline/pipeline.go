// Package pipeline drives one recording through the cut-and-transcode
// stages: acquire, inspect, cutlist, plan, split, join, captions, demux,
// encode, remux, finalize. Stages run sequentially and fail fast; there is
// no retry and no persistent state between runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recut/internal/catalog"
	"recut/internal/config"
	"recut/internal/episodes"
	"recut/internal/logging"
	"recut/internal/media/ffprobe"
	"recut/internal/metadata"
	"recut/internal/services"
	"recut/internal/services/toolexec"
	"recut/internal/streams"
	"recut/internal/timeline"
	"recut/internal/workspace"
)

// Request identifies the recording to process. Exactly one source must be
// set: a catalog recording (by ID or channel and start time) or a plain
// file path.
type Request struct {
	RecordingID int64
	ChannelID   string
	StartTime   time.Time

	FilePath string
	// Sidecar overrides the Comskip sidecar path derived from FilePath.
	Sidecar string
	// Title and Airdate seed the episode record for file sources.
	Title   string
	Airdate string

	// KeepWork retains the workspace artifacts after the run.
	KeepWork bool
}

func (r Request) catalogSource() bool {
	return r.RecordingID > 0 || (r.ChannelID != "" && !r.StartTime.IsZero())
}

// Result reports the outcome of a completed run.
type Result struct {
	RunID     string
	FinalPath string
	Plan      timeline.Plan
	Episode   *metadata.Episode
}

// ProbeFunc inspects a media file. The default shells out to ffprobe.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Pipeline wires the tool clients and data sources for a run.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	lister   episodes.Lister
	executor toolexec.Executor
	probe    ProbeFunc
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithCatalog supplies the recording catalog for catalog-backed requests.
func WithCatalog(store *catalog.Store) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithEpisodeLister supplies the episode lookup service.
func WithEpisodeLister(lister episodes.Lister) Option {
	return func(p *Pipeline) { p.lister = lister }
}

// WithExecutor overrides the command executor used by every tool client.
func WithExecutor(exec toolexec.Executor) Option {
	return func(p *Pipeline) { p.executor = exec }
}

// WithProber overrides media inspection.
func WithProber(probe ProbeFunc) Option {
	return func(p *Pipeline) { p.probe = probe }
}

// New builds a pipeline over the provided configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		logger:   logger,
		executor: toolexec.NewCommandExecutor(),
		probe:    ffprobe.Inspect,
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run carries the per-run state across stages.
type run struct {
	req Request
	ws  *workspace.Workspace

	sourcePath string
	base       string
	episode    *metadata.Episode
	recording  *catalog.Recording

	probe    ffprobe.Result
	fps      float64
	duration float64

	cuts timeline.Cutlist
	plan timeline.Plan

	selection streams.Selection
	outputs   streams.DemuxOutputs

	captionsPath string
	audioPath    string
	videoPath    string
	muxedPath    string
	finalPath    string
}

type stageFunc func(ctx context.Context, st *run) error

var stageOrder = []struct {
	name string
	fn   func(p *Pipeline) stageFunc
}{
	{"acquire", func(p *Pipeline) stageFunc { return p.acquire }},
	{"inspect", func(p *Pipeline) stageFunc { return p.inspect }},
	{"cutlist", func(p *Pipeline) stageFunc { return p.cutlist }},
	{"plan", func(p *Pipeline) stageFunc { return p.plan }},
	{"split", func(p *Pipeline) stageFunc { return p.split }},
	{"join", func(p *Pipeline) stageFunc { return p.join }},
	{"captions", func(p *Pipeline) stageFunc { return p.captions }},
	{"demux", func(p *Pipeline) stageFunc { return p.demux }},
	{"encode", func(p *Pipeline) stageFunc { return p.encode }},
	{"remux", func(p *Pipeline) stageFunc { return p.remux }},
	{"finalize", func(p *Pipeline) stageFunc { return p.finalize }},
}

// Run executes the full pipeline for one request.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if p.cfg == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "pipeline", "run", "configuration is required", nil)
	}
	st := &run{req: req}

	defer func() {
		if st.ws != nil {
			keep := req.KeepWork || p.cfg.KeepWork
			if err := st.ws.Cleanup(keep); err != nil {
				p.logger.Warn("workspace cleanup failed", logging.Error(err))
			}
		}
	}()

	for _, entry := range stageOrder {
		if err := ctx.Err(); err != nil {
			return Result{}, services.Wrap(services.ErrTimeout, entry.name, "run", "canceled", err)
		}
		stageCtx := services.WithStage(ctx, entry.name)
		if st.ws != nil {
			stageCtx = services.WithRunID(stageCtx, st.ws.RunID)
		}
		if st.base != "" {
			stageCtx = services.WithRecording(stageCtx, st.base)
		}
		stageLogger := logging.WithContext(stageCtx, p.logger)

		stageLogger.Info("stage started")
		started := time.Now()
		if err := entry.fn(p)(stageCtx, st); err != nil {
			stageLogger.Error("stage failed",
				logging.Duration("elapsed", time.Since(started)),
				logging.Error(err))
			return Result{}, err
		}
		stageLogger.Info("stage completed", logging.Duration("elapsed", time.Since(started)))
	}

	result := Result{
		FinalPath: st.finalPath,
		Plan:      st.plan,
		Episode:   st.episode,
	}
	if st.ws != nil {
		result.RunID = st.ws.RunID
	}
	return result, nil
}

func wrapTool(stage, op string, err error) error {
	if err == nil {
		return nil
	}
	return services.Wrap(services.ErrExternalTool, stage, op, "", err)
}

func fmtResolution(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
