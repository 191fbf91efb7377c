package webx403

import "errors"

var (
	// ErrMalformedEncoding is returned when a value is not valid unpadded
	// base64url.
	ErrMalformedEncoding = errors.New("malformed base64url value")
	// ErrMalformedHeader is returned when an Authorization header cannot be
	// parsed into [AuthorizationParams].
	ErrMalformedHeader = errors.New("malformed authorization header")
	// ErrInvalidConfig is returned by [Config.Validate] and [Builder.Build]
	// for out-of-range configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrReplayStoreUnavailable is returned when the replay store backend
	// cannot answer a mark or eviction call.
	ErrReplayStoreUnavailable = errors.New("replay store unavailable")
	// ErrNonceSource is returned when the entropy source cannot produce a
	// full nonce.
	ErrNonceSource = errors.New("nonce entropy source failed")
	// ErrInvalidKey is returned for public or private keys of the wrong
	// length.
	ErrInvalidKey = errors.New("invalid ed25519 key length")
)
