// Package middleware exposes HTTP adapters that enforce WebX403
// challenge–response authentication on top of webx403.Engine.
//
// # Handlers
//
//   - [Guard] — wraps a handler; verifies the Authorization header and
//     injects the authenticated [webx403.User] into the request context.
//   - [ChallengeHandler] — serves fresh challenges as a JSON payload for
//     clients that fetch them out-of-band.
//
// Every rejected request receives a generic 401 with a fresh challenge in
// a WWW-Authenticate header; the rejection reason is never exposed to the
// remote client.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement verification logic itself — all decisions are delegated to
// Engine.VerifyHeader.
//
// # What this package must NOT do
//
//   - Parse Authorization headers directly (delegates to the Engine).
//   - Distinguish failure reasons in responses.
//   - Hold state beyond the Engine reference.
package middleware
