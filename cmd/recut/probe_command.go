package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recut/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a recording's streams and format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			probe, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(probe.Streams))
			for _, stream := range probe.Streams {
				size := ""
				if stream.Width > 0 {
					size = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
				}
				rate := ""
				if fps := stream.FrameRate(); fps > 0 {
					rate = strconv.FormatFloat(fps, 'f', 3, 64)
				}
				rows = append(rows, []string{
					strconv.Itoa(stream.Index),
					stream.ID,
					stream.CodecType,
					stream.CodecName,
					stream.Profile,
					size,
					rate,
					stream.Language(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ID", "Type", "Codec", "Profile", "Size", "FPS", "Lang"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))

			fmt.Fprintln(out, renderTable(
				[]string{"Format", "Duration", "Size", "Bitrate"},
				[][]string{{
					probe.Format.FormatName,
					formatClock(probe.DurationSeconds()),
					strconv.FormatInt(probe.SizeBytes(), 10),
					strconv.FormatInt(probe.BitRate(), 10),
				}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
