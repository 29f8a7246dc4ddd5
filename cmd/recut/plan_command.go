package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"recut/internal/catalog"
	"recut/internal/comskip"
	"recut/internal/media/ffprobe"
	"recut/internal/timeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Validate the cutlist and show the planned segments",
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

			source := req.FilePath
			fps := 0.0
			var cuts timeline.Cutlist

			if flags.catalogRequested() {
				store, err := catalog.Open(cfg.Catalog.Path)
				if err != nil {
					return err
				}
				defer store.Close()

				var rec *catalog.Recording
				if req.RecordingID > 0 {
					rec, err = store.GetByID(cmd.Context(), req.RecordingID)
				} else {
					rec, err = store.GetByChannelTime(cmd.Context(), req.ChannelID, req.StartTime)
				}
				if err != nil {
					return err
				}
				source = rec.FilePath
				fps = rec.FPS
				cuts, err = store.Cutlist(cmd.Context(), rec.ID, fps)
				if err != nil {
					return err
				}
			}

			probe, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, source)
			if err != nil {
				return err
			}
			if fps == 0 {
				fps = probe.FrameRate()
			}
			if cuts == nil {
				if req.Sidecar != "" {
					file, err := os.Open(req.Sidecar)
					if err != nil {
						return err
					}
					cuts, err = comskip.Parse(file, fps)
					file.Close()
					if err != nil {
						return err
					}
				} else if cuts, err = comskip.Load(source, fps); err != nil {
					return err
				}
			}

			plan, err := timeline.BuildPlan(cuts, probe.DurationSeconds(), cfg.Segments.ThreshSeconds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source: %s (%.3f fps, %.1fs)\n", source, fps, probe.DurationSeconds())
			fmt.Fprintf(out, "Cuts: %d removing %.1fs, output %.1fs\n\n", len(cuts), cuts.TotalCut(), plan.Duration)

			rows := make([][]string, 0, len(plan.Segments))
			for i, seg := range plan.Segments {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatClock(seg.Start),
					formatClock(seg.End),
					formatClock(seg.Length()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Length"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))

			markerRows := make([][]string, 0, len(plan.Markers))
			for _, marker := range plan.Markers {
				label := fmt.Sprintf("Scene %d", marker.Scene)
				if marker.Closing {
					label = "(end)"
				}
				markerRows = append(markerRows, []string{label, formatClock(marker.Elapsed)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Chapter", "At"},
				markerRows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func formatClock(seconds float64) string {
	total := int(seconds)
	frac := seconds - float64(total)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", total/3600, total/60%60, total%60, int(frac*1000))
}
