package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Lookup runs one lookup and renders the stats, or the localized failure, to the output.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.requireConfig(); err != nil {
		return err
	}

	id, err := resolveID(cmd.StringArg("id"), cmd.String("page"))
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidInput) {
			return err
		}
		f := tasks.Categorize(err, r.localizer)
		if rerr := r.renderer.RenderError(r.output, format, f); rerr != nil {
			return rerr
		}
		return exitFor(f)
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	stats, err := r.pipeline.Run(ctx, id, progress)
	close(progress)
	<-done

	if err != nil {
		if cmd.Bool("card") {
			r.writePlain("%s\n", r.renderer.ErrorCard(tasks.Categorize(err, r.localizer)))
		} else if rerr := r.renderer.RenderError(r.output, format, err); rerr != nil {
			return rerr
		}
		return exitFor(err)
	}

	if cmd.Bool("card") {
		return r.writePlain("%s\n", r.renderer.Card(stats))
	}
	return r.renderer.Render(r.output, format, stats)
}

// resolveID picks the external identifier from the positional argument or --page.
//
// --page accepts a profile URL or a saved profile page; the argument accepts a bare id or a profile URL.
func resolveID(arg, page string) (string, error) {
	arg = strings.TrimSpace(arg)
	page = strings.TrimSpace(page)

	switch {
	case page != "" && arg != "":
		return "", fmt.Errorf("%w: give either an id or --page, not both", shared.ErrInvalidInput)
	case page != "":
		if isURL(page) {
			return shared.SteamIDFromURL(page)
		}
		return shared.ExtractSteamIDFile(page)
	case isURL(arg):
		return shared.SteamIDFromURL(arg)
	default:
		return arg, nil
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
