package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/fstat/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "fstat",
		Usage:    "FACEIT statistics for Steam profiles",
		Version:  version,
		Flags:    globalFlags(),
		Before:   r.Before,
		Commands: r.register(),
		// exit codes are applied by main
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := newApp(runner).Run(context.Background(), os.Args)
	if err == nil {
		return
	}

	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		os.Exit(exit.ExitCode())
	}
	logger.Fatalf("application error: %v", err)
}
