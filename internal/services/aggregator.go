package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
	"golang.org/x/sync/errgroup"
)

// DefaultVariants is the variant priority used when none is configured: current title first, then its predecessor.
var DefaultVariants = []models.Variant{"cs2", "csgo"}

// Aggregator joins profile metadata and lifetime stats into one [models.NormalizedStats].
type Aggregator struct {
	provider StatsProvider
	variants []models.Variant
}

// NewAggregator creates an Aggregator that evaluates variants in the given priority order.
func NewAggregator(provider StatsProvider, variants ...models.Variant) *Aggregator {
	if len(variants) == 0 {
		variants = DefaultVariants
	}
	return &Aggregator{provider: provider, variants: variants}
}

// Variants returns the configured priority order.
func (a *Aggregator) Variants() []models.Variant {
	return a.variants
}

// Aggregate fetches the profile and every variant's lifetime stats concurrently, then merges the first usable variant.
//
// A variant is usable when the profile has an entry for it and its lifetime section is non-empty.
// The first failing request fails the whole aggregation ([shared.ErrAPIRequest]); remaining requests are cancelled.
// When no variant is usable the error is [shared.ErrPlayerNotFound].
func (a *Aggregator) Aggregate(ctx context.Context, handle string) (*models.NormalizedStats, error) {
	logger := log.FromContext(ctx)

	var profile *models.ProfileSnapshot
	lifetime := make([]*models.GameVariantStats, len(a.variants))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := a.provider.Profile(gctx, handle)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		profile = p
		return nil
	})
	for i, v := range a.variants {
		g.Go(func() error {
			s, err := a.provider.LifetimeStats(gctx, handle, v)
			if err != nil {
				return fmt.Errorf("%s stats: %w", v, err)
			}
			lifetime[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	stats, ok := mergeFirstUsable(a.variants, profile, lifetime)
	if !ok {
		return nil, fmt.Errorf("%w: no usable statistics for %s", shared.ErrPlayerNotFound, handle)
	}

	logger.Debug("aggregated stats", "handle", handle, "variant", stats.Variant)
	return &stats, nil
}

// mergeFirstUsable walks variants in priority order and merges the first one with both a profile entry and lifetime stats.
func mergeFirstUsable(variants []models.Variant, profile *models.ProfileSnapshot, lifetime []*models.GameVariantStats) (models.NormalizedStats, bool) {
	if profile == nil {
		return models.NormalizedStats{}, false
	}

	for i, v := range variants {
		entry, ok := profile.Game(v)
		if !ok || lifetime[i] == nil {
			continue
		}
		return models.Merge(v, entry, *lifetime[i]), true
	}
	return models.NormalizedStats{}, false
}
