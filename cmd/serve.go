package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/fstat/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireConfig(); err != nil {
		return err
	}

	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Config:   cfg,
		Locale:   r.config.Locale.Default,
		Pipeline: r.pipeline,
		Renderer: r.renderer,
		Metrics:  r.metrics,
		Logger:   r.logger,
	})

	return srv.ListenAndServe(ctx)
}
