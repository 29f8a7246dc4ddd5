package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recut/internal/catalog"
	"recut/internal/config"
	"recut/internal/episodes"
	"recut/internal/pipeline"
	"recut/internal/services"
)

// sourceFlags are the request flags shared by run and plan.
type sourceFlags struct {
	recordingID int64
	channelID   string
	start       string
	sidecar     string
	title       string
	airdate     string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.recordingID, "recording", 0, "Catalog recording ID")
	cmd.Flags().StringVar(&f.channelID, "channel", "", "Channel ID for a catalog lookup (with --start)")
	cmd.Flags().StringVar(&f.start, "start", "", "Recording start time for a catalog lookup (YYYYMMDDHHMMSS)")
	cmd.Flags().StringVar(&f.sidecar, "comskip", "", "Comskip sidecar path for a file source")
	cmd.Flags().StringVar(&f.title, "title", "", "Series title for a file source")
	cmd.Flags().StringVar(&f.airdate, "airdate", "", "Original airdate for a file source (YYYY-MM-DD)")
}

func (f *sourceFlags) request(args []string) (pipeline.Request, error) {
	req := pipeline.Request{
		RecordingID: f.recordingID,
		ChannelID:   strings.TrimSpace(f.channelID),
		Sidecar:     strings.TrimSpace(f.sidecar),
		Title:       strings.TrimSpace(f.title),
		Airdate:     strings.TrimSpace(f.airdate),
	}
	if strings.TrimSpace(f.start) != "" {
		start, err := catalog.ParseStartTime(f.start)
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("parse --start: %w", err)
		}
		req.StartTime = start
	}
	if len(args) > 0 {
		req.FilePath = args[0]
	}
	catalogLookup := req.RecordingID > 0 || (req.ChannelID != "" && !req.StartTime.IsZero())
	if req.FilePath == "" && !catalogLookup {
		return pipeline.Request{}, fmt.Errorf("%w: give a recording file, --recording, or --channel with --start", services.ErrValidation)
	}
	return req, nil
}

func (f *sourceFlags) catalogRequested() bool {
	return f.recordingID > 0 || strings.TrimSpace(f.channelID) != ""
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags
	var keepWork bool

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Cut and transcode one recording",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := flags.request(args)
			if err != nil {
				return err
			}
			req.KeepWork = keepWork

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			opts := []pipeline.Option{}
			if flags.catalogRequested() {
				store, err := catalog.Open(cfg.Catalog.Path)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, pipeline.WithCatalog(store))
			}
			if lister, err := episodeLister(cfg); err != nil {
				return err
			} else if lister != nil {
				opts = append(opts, pipeline.WithEpisodeLister(lister))
			}

			p := pipeline.New(cfg, logger, opts...)
			result, err := p.Run(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s: %w", services.Classify(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", result.FinalPath)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&keepWork, "keep", false, "Keep workspace artifacts after the run")
	return cmd
}

func episodeLister(cfg *config.Config) (episodes.Lister, error) {
	if !cfg.Episodes.Enabled || !cfg.Metadata.Enabled {
		return nil, nil
	}
	client, err := episodes.New(cfg.Episodes.APIKey, cfg.Episodes.BaseURL,
		time.Duration(cfg.Episodes.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	return client, nil
}
