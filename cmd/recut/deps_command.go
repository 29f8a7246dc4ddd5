package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recut/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				state := "missing"
				switch {
				case status.Available:
					state = "ok"
				case status.Optional:
					state = "optional"
				default:
					missing++
				}
				detail := status.Version
				if detail == "" {
					detail = status.Detail
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					state,
					detail,
					status.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "State", "Version", "Purpose"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))

			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				marker := "ok"
				if !result.Passed {
					marker = "FAIL"
					missing++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s: %s\n", marker, result.Name, result.Detail)
			}

			if missing > 0 {
				return fmt.Errorf("%d required dependency check(s) failed", missing)
			}
			return nil
		},
	}
}
