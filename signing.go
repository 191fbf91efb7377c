package webx403

import (
	"strconv"
	"strings"
)

// SigningStringTag is the fixed protocol tag that starts every signing
// string. Bumping the version invalidates all previously issued challenges.
const SigningStringTag = "webx403/v1"

// BuildSigningString returns the canonical byte sequence a client signs for
// the given challenge parameters and bound fields. It is the single source
// of truth for both issuance and verification; the client and server must
// produce byte-identical output or every signature check fails.
//
// Layout, newline-joined:
//
//	webx403/v1
//	domain=<domain>
//	nonce=<base64url nonce>
//	timestamp=<epoch seconds>
//	<key>=<value>        (one line per bound field, in header order)
//
// Newlines, carriage returns, and percent signs in the domain and in field
// values are percent-escaped, and '=' is additionally escaped in keys, so
// no two distinct (domain, nonce, timestamp, boundFields) tuples collide.
func BuildSigningString(domain string, nonce []byte, timestamp int64, fields []BoundField) string {
	var b strings.Builder
	b.Grow(len(SigningStringTag) + len(domain) + len(nonce)*2 + 32 + len(fields)*16)

	b.WriteString(SigningStringTag)
	b.WriteString("\ndomain=")
	b.WriteString(escapeFieldValue(domain))
	b.WriteString("\nnonce=")
	b.WriteString(EncodeBase64URL(nonce))
	b.WriteString("\ntimestamp=")
	b.WriteString(strconv.FormatInt(timestamp, 10))

	for _, f := range fields {
		b.WriteByte('\n')
		b.WriteString(escapeFieldKey(f.Key))
		b.WriteByte('=')
		b.WriteString(escapeFieldValue(f.Value))
	}

	return b.String()
}

var valueEscaper = strings.NewReplacer(
	"%", "%25",
	"\n", "%0A",
	"\r", "%0D",
)

var keyEscaper = strings.NewReplacer(
	"%", "%25",
	"\n", "%0A",
	"\r", "%0D",
	"=", "%3D",
)

func escapeFieldValue(v string) string {
	return valueEscaper.Replace(v)
}

func escapeFieldKey(k string) string {
	return keyEscaper.Replace(k)
}
