package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"readlog/internal/bootstrap"
	sessiondto "readlog/internal/modules/session/dto"
	"readlog/internal/ui/theme"
)

func newStatusCmd(dataDir *string) *cobra.Command {
	var rating int
	var review, started, completed string
	var confirm bool

	cmd := &cobra.Command{
		Use:   "status <book-id> <to-read|read-next|reading|read|dnf>",
		Short: "Move a book's reading session to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.SetStatus(ctx, sessiondto.UpdateStatusInput{
				BookID:        args[0],
				Status:        args[1],
				Rating:        intFlag(cmd, "rating", rating),
				Review:        stringFlag(cmd, "review", review),
				StartedDate:   started,
				CompletedDate: completed,
				Confirm:       confirm,
			})
			if err != nil {
				return err
			}
			if out.ArchivedSessionID != "" && out.ArchivedSessionID != out.Session.ID {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived session #%d (%s)\n", out.ArchivedSessionNumber, out.ArchivedSessionID)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session #%d %s\n", out.Session.SessionNumber, theme.Status(out.Session.Status))
			return nil
		}),
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "rating 1-5")
	cmd.Flags().StringVar(&review, "review", "", "review text")
	cmd.Flags().StringVar(&started, "started", "", "started date YYYY-MM-DD")
	cmd.Flags().StringVar(&completed, "completed", "", "completed date YYYY-MM-DD")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "allow a backward move that archives recorded progress")
	return cmd
}

func newDNFCmd(dataDir *string) *cobra.Command {
	var rating, page int
	var percent float64
	var review, date string

	cmd := &cobra.Command{
		Use:   "dnf <book-id>",
		Short: "Stop reading a book and archive its session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.SessionCLI.DNF(ctx, sessiondto.DNFInput{
				BookID:            args[0],
				Rating:            intFlag(cmd, "rating", rating),
				Review:            stringFlag(cmd, "review", review),
				DNFDate:           date,
				CurrentPage:       intFlag(cmd, "page", page),
				CurrentPercentage: floatFlag(cmd, "percent", percent),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session #%d %s on %s\n", out.Session.SessionNumber, theme.Status(out.Session.Status), out.Session.DNFDate)
			if p := out.LastProgress; p != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped at page %d (%.1f%%)\n", p.CurrentPage, p.CurrentPercentage)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "rating 1-5")
	cmd.Flags().StringVar(&review, "review", "", "review text")
	cmd.Flags().StringVar(&date, "date", "", "dnf date YYYY-MM-DD (defaults to today)")
	cmd.Flags().IntVar(&page, "page", 0, "final page")
	cmd.Flags().Float64Var(&percent, "percent", 0, "final percentage")
	return cmd
}

func newRereadCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reread <book-id>",
		Short: "Start a new reading session for a finished book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			s, err := app.SessionCLI.Reread(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started session #%d (%s)\n", s.SessionNumber, s.ID)
			return nil
		}),
	}
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Inspect and maintain reading sessions"}

	session.AddCommand(&cobra.Command{
		Use:   "active <book-id>",
		Short: "Show the active session of a book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			s, err := app.SessionCLI.Active(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSession(s))
			return nil
		}),
	})

	session.AddCommand(&cobra.Command{
		Use:   "history <book-id>",
		Short: "List every session of a book",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			sessions, err := app.SessionCLI.History(ctx, args[0])
			if err != nil {
				return err
			}
			for _, s := range sessions {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), sessionLine(s))
			}
			return nil
		}),
	})

	session.AddCommand(&cobra.Command{
		Use:   "archive <session-id>",
		Short: "Archive a session without changing its status",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			s, err := app.SessionCLI.Archive(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived session #%d\n", s.SessionNumber)
			return nil
		}),
	})

	session.AddCommand(&cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its progress",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := app.SessionCLI.Delete(ctx, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	})
	return session
}
