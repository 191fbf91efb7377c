package webx403

import (
	"crypto/ed25519"
	"fmt"
	"strconv"
	"strings"
)

// Scheme is the Authorization scheme name. Scheme matching is
// case-insensitive per RFC 7235; parameter keys are case-sensitive.
const Scheme = "WebX403"

// Header parameter keys required on every request.
const (
	paramPublicKey = "publicKey"
	paramSignature = "signature"
	paramNonce     = "nonce"
	paramTimestamp = "timestamp"
	paramDomain    = "domain"
)

// ParseAuthorizationHeader parses a raw Authorization header of the form
//
//	WebX403 publicKey="<b64url>", signature="<b64url>", nonce="<b64url>",
//	        timestamp="<int>", domain="<string>"[, <extra>="<value>", ...]
//
// into [AuthorizationParams]. Parsing tolerates arbitrary whitespace
// between comma-separated parameters, rejects duplicate keys, missing
// required keys, and values that fail their expected encoding, and
// captures unrecognized keys into BoundFields in header order. All
// failures wrap [ErrMalformedHeader].
func ParseAuthorizationHeader(raw string) (*AuthorizationParams, error) {
	raw = strings.TrimSpace(raw)

	scheme, rest, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, Scheme) {
		return nil, fmt.Errorf("%w: missing %s scheme", ErrMalformedHeader, Scheme)
	}

	pairs, err := parseAuthParams(rest)
	if err != nil {
		return nil, err
	}

	params := &AuthorizationParams{}
	seen := make(map[string]bool, len(pairs))
	required := 0

	for _, pair := range pairs {
		if seen[pair.Key] {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrMalformedHeader, pair.Key)
		}
		seen[pair.Key] = true

		switch pair.Key {
		case paramPublicKey:
			key, err := DecodeBase64URL(pair.Value)
			if err != nil || len(key) != ed25519.PublicKeySize {
				return nil, fmt.Errorf("%w: invalid publicKey", ErrMalformedHeader)
			}
			params.PublicKey = key
			required++
		case paramSignature:
			sig, err := DecodeBase64URL(pair.Value)
			if err != nil || len(sig) != ed25519.SignatureSize {
				return nil, fmt.Errorf("%w: invalid signature", ErrMalformedHeader)
			}
			params.Signature = sig
			required++
		case paramNonce:
			nonce, err := DecodeBase64URL(pair.Value)
			if err != nil || len(nonce) < MinNonceLength || len(nonce) > MaxNonceLength {
				return nil, fmt.Errorf("%w: invalid nonce", ErrMalformedHeader)
			}
			params.Nonce = nonce
			required++
		case paramTimestamp:
			ts, err := strconv.ParseInt(pair.Value, 10, 64)
			if err != nil || ts < 0 {
				return nil, fmt.Errorf("%w: invalid timestamp", ErrMalformedHeader)
			}
			params.Timestamp = ts
			required++
		case paramDomain:
			if pair.Value == "" {
				return nil, fmt.Errorf("%w: empty domain", ErrMalformedHeader)
			}
			params.Domain = pair.Value
			required++
		default:
			params.BoundFields = append(params.BoundFields, pair)
		}
	}

	if required != 5 {
		return nil, fmt.Errorf("%w: missing required key", ErrMalformedHeader)
	}

	return params, nil
}

// parseAuthParams scans `key="value"` pairs separated by commas. Values
// support \" and \\ escapes; keys are bare tokens.
func parseAuthParams(s string) ([]BoundField, error) {
	var pairs []BoundField
	i := 0

	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && isTokenByte(s[i]) {
			i++
		}
		if i == start {
			return nil, fmt.Errorf("%w: expected parameter key", ErrMalformedHeader)
		}
		key := s[start:i]

		i = skipSpace(s, i)
		if i >= len(s) || s[i] != '=' {
			return nil, fmt.Errorf("%w: expected '=' after %q", ErrMalformedHeader, key)
		}
		i = skipSpace(s, i+1)
		if i >= len(s) || s[i] != '"' {
			return nil, fmt.Errorf("%w: expected quoted value for %q", ErrMalformedHeader, key)
		}
		i++

		var value strings.Builder
		closed := false
		for i < len(s) {
			switch s[i] {
			case '\\':
				if i+1 >= len(s) || (s[i+1] != '"' && s[i+1] != '\\') {
					return nil, fmt.Errorf("%w: invalid escape in value of %q", ErrMalformedHeader, key)
				}
				value.WriteByte(s[i+1])
				i += 2
			case '"':
				closed = true
				i++
			default:
				value.WriteByte(s[i])
				i++
			}
			if closed {
				break
			}
		}
		if !closed {
			return nil, fmt.Errorf("%w: unterminated value for %q", ErrMalformedHeader, key)
		}

		pairs = append(pairs, BoundField{Key: key, Value: value.String()})

		i = skipSpace(s, i)
		if i >= len(s) {
			break
		}
		if s[i] != ',' {
			return nil, fmt.Errorf("%w: expected ',' between parameters", ErrMalformedHeader)
		}
		i++
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no parameters", ErrMalformedHeader)
	}

	return pairs, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isTokenByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.':
		return true
	}
	return false
}
