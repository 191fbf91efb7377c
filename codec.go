package webx403

import "encoding/base64"

// base64url is the unpadded, strict URL-safe alphabet used for every binary
// value that crosses a header boundary (nonces, signatures, public keys).
// Strict mode rejects non-zero trailing padding bits, so decoding is the
// exact inverse of encoding: Decode(Encode(x)) == x for all x, and no two
// distinct inputs decode to the same bytes.
var base64url = base64.RawURLEncoding.Strict()

// EncodeBase64URL encodes b using the unpadded URL-safe base64 alphabet.
// The result contains only [A-Za-z0-9_-].
func EncodeBase64URL(b []byte) string {
	return base64url.EncodeToString(b)
}

// DecodeBase64URL decodes an unpadded URL-safe base64 string. Padding
// characters, bytes outside the alphabet, lengths impossible for an
// unpadded encoding, and non-canonical trailing bits all fail with
// [ErrMalformedEncoding].
func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64url.DecodeString(s)
	if err != nil {
		return nil, ErrMalformedEncoding
	}
	return b, nil
}
