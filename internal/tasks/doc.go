// Package tasks sequences player resolution and stats aggregation and reduces every failure to one user-facing outcome.
//
// # Core Operations
//
//  1. [Pipeline.Run] : single lookup
//     - Resolves the external identifier to a service handle
//     - Aggregates the profile and per-variant lifetime stats for that handle
//     - Returns [models.NormalizedStats] or a [*Failure]
//
//  2. [Pipeline.Batch] : many independent lookups
//     - Bounded worker pool, optionally paced by a token bucket
//     - Results keep input order
//
// # Failures
//
// Every error returned by Run is a [*Failure] with a [Category] and a localized message:
//   - PlayerNotFound: the search had no candidates, or no variant had usable data
//   - ApiRequestError: a request failed or a response could not be decoded
//   - InvalidInput: the identifier was empty
//
// # Progress Reporting
//
// Runs emit Start → Resolving → Aggregating → Done (or Failed) on an optional channel.
// Updates use select with default, so a slow reader loses updates instead of stalling the run.
package tasks
