package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"readlog/internal/bootstrap"
	"readlog/internal/platform/config"
	"readlog/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "readlog",
		Short:         "Track reading sessions, progress and streaks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory holding readlog.yaml and the database")

	root.AddCommand(newBookCmd(&dataDir))
	root.AddCommand(newStatusCmd(&dataDir))
	root.AddCommand(newDNFCmd(&dataDir))
	root.AddCommand(newRereadCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newProgressCmd(&dataDir))
	root.AddCommand(newStreakCmd(&dataDir))
	root.AddCommand(newServeCmd(&dataDir))
	return root
}

func loadApp(ctx context.Context, dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return bootstrap.New(ctx, cfg, bootstrap.WithLogger(log))
}

// withApp opens the app for one command and closes it afterwards, which
// also waits for outstanding rating syncs.
func withApp(dataDir *string, fn func(ctx context.Context, cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		app, err := loadApp(ctx, *dataDir)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return fn(ctx, cmd, args, app)
	}
}

func intFlag(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func floatFlag(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func stringFlag(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
