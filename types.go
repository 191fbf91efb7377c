package webx403

import (
	"context"
	"crypto/ed25519"
	"time"
)

// Challenge is a server-issued, time-bounded, single-use nonce structure
// that a client must sign to authenticate. It is immutable once created
// and exists only transiently: in transit to the client and, implicitly,
// inside the replay store once consumed.
type Challenge struct {
	Nonce     []byte
	IssuedAt  int64
	ExpiresAt int64
	Domain    string
}

// SigningString returns the canonical string a client signs for this
// challenge together with its declared bound fields. The declared
// timestamp is the challenge's IssuedAt.
func (c Challenge) SigningString(fields []BoundField) string {
	return BuildSigningString(c.Domain, c.Nonce, c.IssuedAt, fields)
}

// BoundField is one additional client-declared key/value parameter
// incorporated into the signing string, scoping the signature to a
// specific request context.
type BoundField struct {
	Key   string
	Value string
}

// AuthorizationParams is the structured form of a WebX403 Authorization
// header. Produced by [ParseAuthorizationHeader]; immutable; carries no
// derived state.
type AuthorizationParams struct {
	PublicKey ed25519.PublicKey
	Signature []byte
	Nonce     []byte
	Timestamp int64
	Domain    string

	// BoundFields preserves unrecognized header parameters in header
	// order so the verifier can feed them back into signing-string
	// reconstruction.
	BoundFields []BoundField
}

// Reason classifies why a verification attempt was rejected.
type Reason uint8

const (
	// ReasonNone means the attempt was not rejected.
	ReasonNone Reason = iota
	// ReasonMalformed covers headers that cannot be parsed and requests
	// whose declared domain does not match the configured audience. No
	// secret material is involved in the failure.
	ReasonMalformed
	// ReasonBadSignature is a cryptographic mismatch between the
	// reconstructed signing string and the presented signature.
	ReasonBadSignature
	// ReasonExpired means the declared timestamp is older than the
	// configured maximum challenge age.
	ReasonExpired
	// ReasonNotYetValid means the declared timestamp is further in the
	// future than the configured clock-skew tolerance.
	ReasonNotYetValid
	// ReasonReplayed means the (publicKey, nonce) pair was already
	// consumed by an earlier, cryptographically valid request.
	ReasonReplayed
)

// String returns the stable name used in metrics and audit events.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformed:
		return "malformed"
	case ReasonBadSignature:
		return "bad_signature"
	case ReasonExpired:
		return "expired"
	case ReasonNotYetValid:
		return "not_yet_valid"
	case ReasonReplayed:
		return "replayed"
	default:
		return "unknown"
	}
}

// VerifyResult is the outcome of one verification attempt. OK is true for
// exactly one attempt per consumed nonce; every rejection carries a Reason.
// The HTTP layer should expose a generic 401 regardless of Reason — the
// distinction exists for logging and metrics, not for remote clients.
type VerifyResult struct {
	OK          bool
	Reason      Reason
	PublicKey   ed25519.PublicKey
	BoundFields []BoundField
}

// User is the authenticated identity attached to a request context by the
// middleware after a successful verification.
type User struct {
	PublicKey   ed25519.PublicKey
	BoundFields []BoundField
}

// Address returns the canonical base64url text encoding of the user's
// public key.
func (u User) Address() string {
	return EncodeBase64URL(u.PublicKey)
}

// ReplayStore tracks which (publicKey, nonce) pairs have been consumed so
// each challenge authenticates at most once. Implementations must make
// MarkIfAbsent a single atomic check-and-set: under concurrent calls with
// the same pair, exactly one caller observes first use.
//
// Entries must be retained at least until expiresAt; eviction after that
// point is a memory optimization, never a correctness requirement.
type ReplayStore interface {
	// MarkIfAbsent records the pair and reports whether this call was the
	// first to do so. It never returns a retry-required state: concurrent
	// callers always get a definitive answer.
	MarkIfAbsent(ctx context.Context, publicKey, nonce []byte, expiresAt time.Time) (bool, error)

	// Seen reports whether the pair has already been consumed, without
	// consuming it.
	Seen(ctx context.Context, publicKey, nonce []byte) (bool, error)

	// EvictExpired removes entries whose retention deadline has passed and
	// returns how many were removed. It must never remove an entry before
	// its deadline.
	EvictExpired(ctx context.Context, now time.Time) (int, error)
}

func replayKey(publicKey, nonce []byte) string {
	return EncodeBase64URL(publicKey) + "." + EncodeBase64URL(nonce)
}
