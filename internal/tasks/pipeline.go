package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/services"
	"github.com/desertthunder/fstat/internal/shared"
)

// Category is the user-facing class of a failed lookup.
type Category int

const (
	CategoryPlayerNotFound Category = iota + 1
	CategoryAPIRequest
	CategoryInvalidInput
)

func (c Category) String() string {
	switch c {
	case CategoryPlayerNotFound:
		return "player_not_found"
	case CategoryAPIRequest:
		return "api_request_error"
	case CategoryInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Failure is the only error type [Pipeline.Run] returns.
//
// Message is localized and ready for display; Err keeps the cause chain for logs and errors.Is.
type Failure struct {
	Category Category
	Message  string
	Err      error
}

func (f *Failure) Error() string { return f.Message }

// MarshalJSON renders the category and message; the cause chain stays out of API responses.
func (f *Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category string `json:"category"`
		Message  string `json:"message"`
	}{f.Category.String(), f.Message})
}

func (f *Failure) Unwrap() error { return f.Err }

// Categorize maps a stage error to a [Failure].
//
//   - [shared.ErrPlayerNotFound] → PlayerNotFound with the localized not-found message
//   - [shared.ErrInvalidInput] → InvalidInput with the localized identifier message
//   - anything else (resolution, transport, decoding) → ApiRequestError: "<localized prefix>: <cause>"
func Categorize(err error, l shared.Localizer) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	switch {
	case errors.Is(err, shared.ErrPlayerNotFound):
		return &Failure{Category: CategoryPlayerNotFound, Message: l.Localize(shared.MsgPlayerNotFound), Err: err}
	case errors.Is(err, shared.ErrInvalidInput):
		return &Failure{Category: CategoryInvalidInput, Message: l.Localize(shared.MsgSteamIDError), Err: err}
	default:
		msg := fmt.Sprintf("%s: %v", l.Localize(shared.MsgRequestAPIError), err)
		return &Failure{Category: CategoryAPIRequest, Message: msg, Err: err}
	}
}

// HandleResolver resolves an external identifier to a service handle.
type HandleResolver interface {
	Resolve(ctx context.Context, externalID string) (string, error)
}

// StatsAggregator builds normalized stats for a resolved handle.
type StatsAggregator interface {
	Aggregate(ctx context.Context, handle string) (*models.NormalizedStats, error)
}

// Observer receives one call per finished run. outcome is "ok" or a [Category] string.
type Observer interface {
	ObserveRun(outcome string, elapsed time.Duration)
}

// PipelineOpts contains the collaborators of a [Pipeline].
type PipelineOpts struct {
	Resolver   HandleResolver
	Aggregator StatsAggregator
	Localizer  shared.Localizer
	Logger     *log.Logger
	Observer   Observer
}

// Pipeline runs Resolver → Aggregator for one external identifier per call.
//
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	resolver   HandleResolver
	aggregator StatsAggregator
	localizer  shared.Localizer
	logger     *log.Logger
	observer   Observer
}

// NewPipeline creates a Pipeline. Localizer defaults to English, Logger to a discarding logger.
func NewPipeline(opts PipelineOpts) *Pipeline {
	if opts.Localizer == nil {
		opts.Localizer = shared.NewCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Pipeline{
		resolver:   opts.Resolver,
		aggregator: opts.Aggregator,
		localizer:  opts.Localizer,
		logger:     opts.Logger,
		observer:   opts.Observer,
	}
}

// NewFaceitPipeline wires a Pipeline to the FACEIT client described by cfg.
func NewFaceitPipeline(cfg shared.FaceitConfig, t services.Transport, opts PipelineOpts) *Pipeline {
	client := services.NewFaceitClientFromConfig(cfg, t)

	variants := make([]models.Variant, 0, len(cfg.SupportedVariants))
	for _, v := range cfg.SupportedVariants {
		variants = append(variants, models.Variant(v))
	}

	opts.Resolver = services.NewResolver(client)
	opts.Aggregator = services.NewAggregator(client, variants...)
	return NewPipeline(opts)
}

// WithLocalizer returns a copy of the pipeline that reports failures through l.
func (p *Pipeline) WithLocalizer(l shared.Localizer) *Pipeline {
	cp := *p
	cp.localizer = l
	return &cp
}

// sendProgress sends a progress update through the channel without blocking.
func (p *Pipeline) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run resolves externalID and aggregates its stats.
//
// On failure the error is always a [*Failure]. No stage is retried and nothing is kept between calls.
func (p *Pipeline) Run(ctx context.Context, externalID string, progress chan<- ProgressUpdate) (*models.NormalizedStats, error) {
	if p.resolver == nil || p.aggregator == nil {
		return nil, Categorize(fmt.Errorf("%w: pipeline stages not initialized", shared.ErrServiceUnavailable), p.localizer)
	}

	start := time.Now()
	logger := shared.WithLogger(p.logger, "run", shared.GenerateID(), "id", externalID)
	ctx = log.WithContext(ctx, logger)

	p.sendProgress(progress, startUpdate(externalID))

	if strings.TrimSpace(externalID) == "" {
		return nil, p.fail(logger, progress, 0, start, fmt.Errorf("%w: empty identifier", shared.ErrInvalidInput))
	}

	p.sendProgress(progress, resolvingUpdate(externalID))
	handle, err := p.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, p.fail(logger, progress, 1, start, err)
	}

	p.sendProgress(progress, aggregatingUpdate(handle))
	stats, err := p.aggregator.Aggregate(ctx, handle)
	if err != nil {
		return nil, p.fail(logger, progress, 2, start, err)
	}

	elapsed := time.Since(start)
	logger.Info("lookup complete", "handle", handle, "variant", stats.Variant, "elapsed", elapsed)
	p.observe("ok", elapsed)
	p.sendProgress(progress, doneUpdate(stats))
	return stats, nil
}

func (p *Pipeline) fail(logger *log.Logger, progress chan<- ProgressUpdate, step int, start time.Time, err error) *Failure {
	f := Categorize(err, p.localizer)
	elapsed := time.Since(start)

	if f.Category == CategoryAPIRequest {
		logger.Error("lookup failed", "category", f.Category, "err", err, "elapsed", elapsed)
	} else {
		logger.Warn("lookup failed", "category", f.Category, "err", err, "elapsed", elapsed)
	}

	p.observe(f.Category.String(), elapsed)
	p.sendProgress(progress, failedUpdate(step, f))
	return f
}

func (p *Pipeline) observe(outcome string, elapsed time.Duration) {
	if p.observer != nil {
		p.observer.ObserveRun(outcome, elapsed)
	}
}
