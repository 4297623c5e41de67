package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
)

// Resolver turns an external identifier into exactly one service handle.
type Resolver struct {
	searcher Searcher
}

// NewResolver creates a Resolver backed by searcher.
func NewResolver(searcher Searcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Resolve searches for externalID and picks a handle.
//
// Errors:
//   - [shared.ErrPlayerNotFound] when the search returns no candidates
//   - [shared.ErrResolution] wrapping the cause when the search request or its decoding fails
func (r *Resolver) Resolve(ctx context.Context, externalID string) (string, error) {
	logger := log.FromContext(ctx)

	candidates, err := r.searcher.Search(ctx, externalID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrResolution, err)
	}

	c, ok := PickCandidate(candidates)
	if !ok {
		return "", fmt.Errorf("%w: no search results for %s", shared.ErrPlayerNotFound, externalID)
	}

	logger.Debug("resolved player", "candidates", len(candidates), "handle", c.Handle, "status", c.Status)
	return c.Handle, nil
}

// PickCandidate returns the first AVAILABLE candidate, else the first one. It reports false for an empty list.
func PickCandidate(candidates []models.Candidate) (models.Candidate, bool) {
	if len(candidates) == 0 {
		return models.Candidate{}, false
	}

	for _, c := range candidates {
		if c.Status == models.StatusAvailable {
			return c, true
		}
	}
	return candidates[0], true
}
