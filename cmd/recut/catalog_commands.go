package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recut/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the recording catalog",
	}

	catalogCmd.AddCommand(newCatalogAddCommand(ctx))
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))

	return catalogCmd
}

func openCatalog(ctx *commandContext) (*catalog.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg.Catalog.Path)
}

func newCatalogAddCommand(ctx *commandContext) *cobra.Command {
	rec := &catalog.Recording{}
	var start string
	var airdate string
	var cutFlags []string
	var creditFlags []string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Register a recording and its cut marks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := catalog.ParseStartTime(start)
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			rec.StartTime = startTime
			rec.OriginalAirdate = strings.TrimSpace(airdate)
			rec.FilePath = args[0]

			marks, err := parseCutFlags(cutFlags)
			if err != nil {
				return err
			}
			credits, err := parseCreditFlags(creditFlags)
			if err != nil {
				return err
			}

			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stored, err := store.Add(cmd.Context(), rec, marks, credits)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added recording %d (%s)\n", stored.ID, stored.Base())
			return nil
		},
	}

	cmd.Flags().StringVar(&rec.ChannelID, "channel", "", "Channel ID")
	cmd.Flags().StringVar(&start, "start", "", "Recording start time (YYYYMMDDHHMMSS)")
	cmd.Flags().StringVar(&rec.Title, "title", "", "Series title")
	cmd.Flags().StringVar(&rec.Subtitle, "subtitle", "", "Episode subtitle")
	cmd.Flags().StringVar(&rec.Description, "description", "", "Episode description")
	cmd.Flags().StringVar(&rec.Category, "category", "", "Program category")
	cmd.Flags().StringVar(&airdate, "airdate", "", "Original airdate (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rec.EpisodeCode, "code", "", "Episode code")
	cmd.Flags().StringVar(&rec.Rating, "rating", "", "Content rating")
	cmd.Flags().Float64Var(&rec.FPS, "fps", 0, "Recording frame rate")
	cmd.Flags().StringArrayVar(&cutFlags, "cut", nil, "Commercial break as start:end frame numbers (repeatable)")
	cmd.Flags().StringArrayVar(&creditFlags, "credit", nil, "Credit as role:person (repeatable)")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func parseCutFlags(values []string) ([]catalog.CutMark, error) {
	marks := make([]catalog.CutMark, 0, len(values))
	for _, value := range values {
		parts := strings.SplitN(value, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("cut %q is not start:end", value)
		}
		start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cut %q: %w", value, err)
		}
		end, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cut %q: %w", value, err)
		}
		marks = append(marks, catalog.CutMark{StartFrame: start, EndFrame: end})
	}
	return marks, nil
}

func parseCreditFlags(values []string) ([]catalog.Credit, error) {
	credits := make([]catalog.Credit, 0, len(values))
	for _, value := range values {
		parts := strings.SplitN(value, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("credit %q is not role:person", value)
		}
		credits = append(credits, catalog.Credit{
			Role:   strings.TrimSpace(parts[0]),
			Person: strings.TrimSpace(parts[1]),
		})
	}
	return credits, nil
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			recordings, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(recordings))
			for _, rec := range recordings {
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.ChannelID,
					catalog.FormatStartTime(rec.StartTime),
					rec.Title,
					rec.Subtitle,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Channel", "Start", "Title", "Subtitle"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recording with its cut marks and credits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse recording ID: %w", err)
			}
			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			marks, err := store.CutMarks(cmd.Context(), rec.ID)
			if err != nil {
				return err
			}
			credits, err := store.Credits(cmd.Context(), rec.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recording %d: %s\n", rec.ID, rec.Base())
			fmt.Fprintf(out, "  Title:    %s\n", rec.Title)
			if rec.Subtitle != "" {
				fmt.Fprintf(out, "  Subtitle: %s\n", rec.Subtitle)
			}
			if rec.Category != "" {
				fmt.Fprintf(out, "  Category: %s\n", rec.Category)
			}
			if rec.OriginalAirdate != "" {
				fmt.Fprintf(out, "  Airdate:  %s\n", rec.OriginalAirdate)
			}
			if rec.Rating != "" {
				fmt.Fprintf(out, "  Rating:   %s\n", rec.Rating)
			}
			fmt.Fprintf(out, "  FPS:      %g\n", rec.FPS)
			fmt.Fprintf(out, "  File:     %s\n", rec.FilePath)

			if len(marks) > 0 {
				rows := make([][]string, 0, len(marks))
				for _, mark := range marks {
					rows = append(rows, []string{
						strconv.FormatInt(mark.StartFrame, 10),
						strconv.FormatInt(mark.EndFrame, 10),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Cut start", "Cut end"},
					rows,
					[]columnAlignment{alignRight, alignRight},
				))
			}
			for _, credit := range credits {
				fmt.Fprintf(out, "  %s: %s\n", credit.Role, credit.Person)
			}
			return nil
		},
	}
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a recording from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse recording ID: %w", err)
			}
			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("recording %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed recording %d\n", id)
			return nil
		},
	}
}
