package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"readlog/internal/bootstrap"
	"readlog/internal/server"
)

func newServeCmd(dataDir *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics",
		RunE: withApp(dataDir, func(ctx context.Context, cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if !cmd.Flags().Changed("addr") {
				addr = app.Config.HTTPAddr
			}
			return serve(ctx, app, addr)
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to http_addr from config)")
	return cmd
}

func serve(ctx context.Context, app *bootstrap.App, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr: addr,
		Handler: server.NewRouter(server.Deps{
			Books:    app.Books,
			Sessions: app.Sessions,
			Progress: app.Progress,
			Streak:   app.Streak,
			Metrics:  app.MetricsHandler(),
			Logger:   app.Logger.With("component", "http"),
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Logger.Info("api server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
