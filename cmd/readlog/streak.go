package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"readlog/internal/bootstrap"
)

func newStreakCmd(dataDir *string) *cobra.Command {
	streak := &cobra.Command{Use: "streak", Short: "Daily reading streak"}

	streak.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current streak",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			s, err := app.StreakCLI.Show(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStreak(s))
			return nil
		}),
	})

	streak.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Recompute the streak from the full progress history",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			s, err := app.StreakCLI.Rebuild(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStreak(s))
			return nil
		}),
	})

	streak.AddCommand(&cobra.Command{
		Use:   "threshold <pages>",
		Short: "Set the daily page threshold (1-9999)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			s, err := app.StreakCLI.SetThreshold(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "threshold %d pages/day, current streak %d\n", s.DailyThreshold, s.CurrentStreak)
			return nil
		}),
	})

	streak.AddCommand(&cobra.Command{
		Use:   "timezone <iana-zone>",
		Short: "Set the timezone used to bucket reading days",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error {
			s, err := app.StreakCLI.SetTimezone(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timezone %s, today is %s\n", s.Timezone, s.Today)
			return nil
		}),
	})
	return streak
}
