// Package services implements the lookup stages that talk to FACEIT: identifier resolution and stats aggregation.
//
// # Transport
//
// All HTTP goes through the [Transport] port. [HTTPTransport] makes exactly one attempt per request;
// there is no retry or backoff. Failures surface as [*TransportError], which matches [shared.ErrTransport].
//
// # FACEIT Client
//
// [FaceitClient] implements [Searcher] and [StatsProvider]:
//   - Search: GET <search-base>?limit=<cap>&query=<id>, unauthenticated
//   - Profile: GET <player-base>/<handle>, bearer token
//   - LifetimeStats: GET <player-base>/<handle>/stats/<variant>, bearer token
//
// Response documents are decoded into structs whose optional sections are pointers or maps,
// so presence is checked before any field is read.
//
// # Identifier Resolution
//
// [Resolver] picks one handle from the search candidates: the first AVAILABLE one, else the first one.
//
// # Stats Aggregation
//
// [Aggregator] requests the profile and every configured variant's lifetime stats at once
// (errgroup, fail-fast), then merges the first variant in priority order that has both a profile entry
// and a non-empty lifetime section.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrPlayerNotFound] : no candidates, or no usable variant
//   - [shared.ErrResolution] : search failed at the transport or decoding layer
//   - [shared.ErrAPIRequest] : a profile or stats request failed
//   - [shared.ErrMalformedResponse] : a document could not be decoded
package services
