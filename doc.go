// Package webx403 implements HTTP-native challenge–response authentication
// for holders of an Ed25519 wallet keypair. A server issues a short-lived
// random challenge; the client signs a canonical string derived from it and
// presents the signature in a WebX403 Authorization header; the server
// verifies the signature, checks the timestamp window, and consumes the
// nonce exactly once through a replay store.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// webx403 is the public surface. It exposes [Engine], [Builder], [Config],
// the wire types ([Challenge], [AuthorizationParams], [VerifyResult]), and
// the [ReplayStore] capability interface with in-memory and Redis reference
// implementations. HTTP framework glue lives under middleware/ and
// adapter/; client-side signing lives under client/.
//
// # What this package must NOT do
//
//   - Issue sessions, refresh tokens, or any long-lived credential. A
//     verified request authenticates exactly one request.
//   - Leak which verification step failed to the remote client. The
//     distinction (bad signature vs replay vs expiry) is retained in
//     [VerifyResult] for logging and metrics only.
//   - Perform network I/O outside Engine methods. Construction via Builder
//     is allocation-only until Build.
//
// # Performance contract
//
// VerifyAuthorization is the hot path. It performs exactly one replay-store
// round-trip per cryptographically valid, in-window request, and none for
// requests rejected earlier in the state machine.
package webx403
