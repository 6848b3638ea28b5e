package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"readlog/internal/bootstrap"
	progressdto "readlog/internal/modules/progress/dto"
)

func newProgressCmd(dataDir *string) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Log and query reading progress"}

	var page int
	var percent float64
	var date, notes string
	log := &cobra.Command{
		Use:   "log <session-id>",
		Short: "Record the current position of a session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			e, err := app.ProgressCLI.Log(ctx, progressdto.AppendInput{
				SessionID:         args[0],
				CurrentPage:       intFlag(cmd, "page", page),
				CurrentPercentage: floatFlag(cmd, "percent", percent),
				ProgressDate:      date,
				Notes:             notes,
				Source:            progressdto.SourceManual,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), entryLine(e))
			return nil
		}),
	}
	log.Flags().IntVar(&page, "page", 0, "current page")
	log.Flags().Float64Var(&percent, "percent", 0, "current percentage")
	log.Flags().StringVar(&date, "date", "", "progress date YYYY-MM-DD (defaults to today)")
	log.Flags().StringVar(&notes, "notes", "", "notes")

	var editPage int
	var editPercent float64
	var editDate, editNotes string
	edit := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Correct a progress entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			e, err := app.ProgressCLI.Edit(ctx, progressdto.EditInput{
				EntryID:           args[0],
				CurrentPage:       intFlag(cmd, "page", editPage),
				CurrentPercentage: floatFlag(cmd, "percent", editPercent),
				ProgressDate:      stringFlag(cmd, "date", editDate),
				Notes:             stringFlag(cmd, "notes", editNotes),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), entryLine(e))
			return nil
		}),
	}
	edit.Flags().IntVar(&editPage, "page", 0, "current page")
	edit.Flags().Float64Var(&editPercent, "percent", 0, "current percentage")
	edit.Flags().StringVar(&editDate, "date", "", "progress date YYYY-MM-DD")
	edit.Flags().StringVar(&editNotes, "notes", "", "notes")

	del := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a progress entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.ProgressCLI.Delete(ctx, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	}

	list := &cobra.Command{
		Use:   "list <session-id>",
		Short: "List the entries of a session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			entries, err := app.ProgressCLI.List(ctx, args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no progress")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), entryLine(e))
			}
			return nil
		}),
	}

	var start, end string
	total := &cobra.Command{
		Use:   "total --start <date> --end <date>",
		Short: "Pages read between two dates, inclusive",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			pages, err := app.ProgressCLI.Total(ctx, start, end)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d pages from %s to %s\n", pages, start, end)
			return nil
		}),
	}
	total.Flags().StringVar(&start, "start", "", "first day YYYY-MM-DD")
	total.Flags().StringVar(&end, "end", "", "last day YYYY-MM-DD")
	_ = total.MarkFlagRequired("start")
	_ = total.MarkFlagRequired("end")

	var since string
	average := &cobra.Command{
		Use:   "average --since <date>",
		Short: "Average pages per day since a date",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			avg, err := app.ProgressCLI.Average(ctx, since)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%.1f pages/day over %d days (%d pages, %s to %s)\n",
				avg.AveragePerDay, avg.Days, avg.PagesRead, avg.Since, avg.Until)
			return nil
		}),
	}
	average.Flags().StringVar(&since, "since", "", "first day YYYY-MM-DD")
	_ = average.MarkFlagRequired("since")

	progress.AddCommand(log, edit, del, list, total, average)
	return progress
}
