package webx403

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// MinNonceLength is the smallest nonce the protocol accepts, in bytes.
// Generated nonces default to [DefaultNonceLength]; anything shorter than
// the minimum is rejected at parse time.
const (
	MinNonceLength     = 16
	MaxNonceLength     = 64
	DefaultNonceLength = 32
)

// GenerateNonce reads length cryptographically random bytes from source.
// A nil source falls back to crypto/rand. Short reads fail with
// [ErrNonceSource]; a seeded or reused pseudo-random generator must never
// be passed here outside of tests.
func GenerateNonce(source io.Reader, length int) ([]byte, error) {
	if source == nil {
		source = rand.Reader
	}
	nonce := make([]byte, length)
	if _, err := io.ReadFull(source, nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonceSource, err)
	}
	return nonce, nil
}

// CurrentTimestamp returns the current epoch time in whole seconds. It
// reads the wall clock on every call; nothing is cached.
func CurrentTimestamp() int64 {
	return time.Now().Unix()
}
