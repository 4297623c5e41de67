package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Batch looks up every identifier in a file and prints one result per line, in file order.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireConfig(); err != nil {
		return err
	}

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	ids, err := r.readIDs(path)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no identifiers in %s", shared.ErrInvalidArgument, path)
	}

	opts := tasks.BatchOpts{Workers: r.config.Batch.Workers, RateLimit: r.config.Batch.RateLimit}
	if cmd.IsSet("workers") {
		opts.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	progress := make(chan tasks.ProgressUpdate, len(ids))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.pipeline.Batch(ctx, ids, opts, progress)
	close(progress)
	<-done

	if result != nil {
		if cmd.Bool("json") {
			if werr := r.writeJSON(result.Results, cmd.Bool("pretty")); werr != nil {
				return werr
			}
		} else {
			r.writeBatchText(result)
		}
	}
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}

func (r *Runner) writeBatchText(result *tasks.BatchResult) {
	for _, res := range result.Results {
		switch {
		case res.Stats != nil:
			s := res.Stats
			r.writePlain("%-20s %-5s lvl %-2d %5d ELO  %s%% WR  %d matches  %s K/D  %s%% HS\n",
				res.ExternalID, s.Variant, s.SkillLevel, s.Elo, formatter.Number(s.WinRatePct), s.Matches,
				formatter.Number(s.AvgKillDeathRatio), formatter.Number(s.AvgHeadshotPct))
		case res.Failure != nil:
			r.writePlain("%-20s %s\n", res.ExternalID, r.renderer.ErrorMessage(res.Failure))
		default:
			r.writePlain("%-20s skipped\n", res.ExternalID)
		}
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("%d found, %d failed", result.Succeeded, result.Failed))
}

// readIDs reads one identifier per line. Blank lines and lines starting with # are skipped;
// profile URLs are reduced to their numeric id.
func (r *Runner) readIDs(path string) ([]string, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open id file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var ids []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if isURL(line) {
			if id, err := shared.SteamIDFromURL(line); err == nil {
				line = id
			}
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read id file: %w", err)
	}
	return ids, nil
}
