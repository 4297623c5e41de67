// package services defines the ports and HTTP clients used by a stats lookup
//
// Transport, FACEIT search + Data API
package services

import (
	"context"

	"github.com/desertthunder/fstat/internal/models"
	"golang.org/x/oauth2"
)

// Transport executes a single HTTP request and returns the raw response body.
//
// Implementations make exactly one attempt. Failures are reported as [*TransportError].
type Transport interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// Request describes one outbound call.
//
// When Auth is set the transport fetches a token from it and sets the Authorization header.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Auth    oauth2.TokenSource
}

// Searcher finds service handles for an external identifier.
type Searcher interface {
	// Search returns at most the configured number of candidates, in relevance order.
	Search(ctx context.Context, externalID string) ([]models.Candidate, error)
}

// StatsProvider fetches per-handle profile metadata and lifetime statistics.
type StatsProvider interface {
	// Profile returns the per-variant profile entries for handle.
	Profile(ctx context.Context, handle string) (*models.ProfileSnapshot, error)

	// LifetimeStats returns the lifetime aggregate for one variant.
	// A nil result with a nil error means the player has no usable history for that variant.
	LifetimeStats(ctx context.Context, handle string, variant models.Variant) (*models.GameVariantStats, error)
}
