// Package server exposes the lookup pipeline over HTTP for host pages such as Steam profiles.
//
// # Routes
//
//	GET  /health                              liveness
//	GET  /api/v1/players/{externalID}/stats   normalized stats as JSON
//	POST /api/v1/page/stats                   stats for the profile page HTML in the request body
//	GET  /embed/{externalID}                  HTML stats block (or error block) with its stylesheet
//	GET  /embed/styles.css                    the stylesheet alone
//	GET  /metrics                             Prometheus exposition
//
// Failures map to status codes by category: not found → 404, invalid input → 400, upstream API failure → 502.
// Messages are localized from the lang query parameter, then Accept-Language, then the configured default.
//
// # Middleware
//
// [Middleware] wraps handlers in the order they are added. The router uses chi's request id, real ip and
// recoverer middleware, plus [RequestLogger], [Instrument] and CORS restricted to the configured origins.
package server
