package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/fstat/internal/models"
	"golang.org/x/time/rate"
)

const (
	defaultBatchWorkers   = 4
	defaultBatchRateLimit = 2.0
)

// BatchOpts configures [Pipeline.Batch].
//
// RateLimit is the number of lookups started per second; zero or less disables pacing.
type BatchOpts struct {
	Workers   int
	RateLimit float64
}

// LookupResult is the outcome of one identifier in a batch. Exactly one of Stats and Failure is set.
type LookupResult struct {
	ExternalID string                  `json:"externalId"`
	Stats      *models.NormalizedStats `json:"stats,omitempty"`
	Failure    *Failure                `json:"failure,omitempty"`
}

// BatchResult holds per-identifier results in input order.
type BatchResult struct {
	Results   []LookupResult
	Succeeded int
	Failed    int
}

// Batch runs the pipeline for every identifier using a bounded worker pool.
//
// Results keep the order of ids regardless of completion order. Each lookup is independent:
// a failure is recorded on its result and never stops the others. The returned error is
// non-nil only when ctx ends before every identifier was dispatched; the partial result is still returned.
func (p *Pipeline) Batch(ctx context.Context, ids []string, opts BatchOpts, progress chan<- ProgressUpdate) (*BatchResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if workers > len(ids) {
		workers = max(len(ids), 1)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	logger := p.logger
	logger.Info("starting batch lookup", "count", len(ids), "workers", workers, "rate", opts.RateLimit)

	results := make([]LookupResult, len(ids))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := LookupResult{ExternalID: ids[i]}
				stats, err := p.Run(ctx, ids[i], nil)
				if err != nil {
					r.Failure = Categorize(err, p.localizer)
				} else {
					r.Stats = stats
				}
				results[i] = r

				mu.Lock()
				done++
				p.sendProgress(progress, batchUpdate(done, len(ids), r))
				mu.Unlock()
			}
		}()
	}

	var dispatchErr error
dispatch:
	for i := range ids {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				dispatchErr = err
				break
			}
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	out := &BatchResult{Results: results}
	for i := range results {
		switch {
		case results[i].Stats != nil:
			out.Succeeded++
		case results[i].Failure != nil:
			out.Failed++
		}
	}

	logger.Info("batch lookup finished", "succeeded", out.Succeeded, "failed", out.Failed, "err", dispatchErr)
	return out, dispatchErr
}
