package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"strconv"
	"strings"

	webx403 "github.com/webx403/webx403-go"
)

// Client signs challenges on behalf of one wallet keypair.
type Client struct {
	priv ed25519.PrivateKey
}

// New creates a client for the given Ed25519 private key.
func New(priv ed25519.PrivateKey) (*Client, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, webx403.ErrInvalidKey
	}
	return &Client{priv: priv}, nil
}

// Generate creates a client with a fresh random keypair.
func Generate() (*Client, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Client{priv: priv}, nil
}

// PublicKey returns the wallet's public key.
func (c *Client) PublicKey() ed25519.PublicKey {
	return c.priv.Public().(ed25519.PublicKey)
}

// Address returns the canonical base64url text encoding of the wallet's
// public key.
func (c *Client) Address() string {
	return webx403.EncodeBase64URL(c.PublicKey())
}

// Authorization signs the challenge together with the given bound fields
// and returns the complete Authorization header value. The declared
// timestamp is the challenge's IssuedAt, matching what the server will
// reconstruct.
func (c *Client) Authorization(challenge webx403.Challenge, fields []webx403.BoundField) string {
	return c.Sign(challenge.Domain, challenge.Nonce, challenge.IssuedAt, fields)
}

// Sign builds the canonical signing string for the given parameters,
// signs it, and returns the Authorization header value.
func (c *Client) Sign(domain string, nonce []byte, timestamp int64, fields []webx403.BoundField) string {
	message := webx403.BuildSigningString(domain, nonce, timestamp, fields)
	signature := ed25519.Sign(c.priv, []byte(message))

	var b strings.Builder
	b.Grow(256 + len(fields)*32)
	b.WriteString(webx403.Scheme)
	b.WriteString(` publicKey="`)
	b.WriteString(webx403.EncodeBase64URL(c.PublicKey()))
	b.WriteString(`", signature="`)
	b.WriteString(webx403.EncodeBase64URL(signature))
	b.WriteString(`", nonce="`)
	b.WriteString(webx403.EncodeBase64URL(nonce))
	b.WriteString(`", timestamp="`)
	b.WriteString(strconv.FormatInt(timestamp, 10))
	b.WriteString(`", domain="`)
	b.WriteString(quoteValue(domain))
	b.WriteString(`"`)

	for _, f := range fields {
		b.WriteString(`, `)
		b.WriteString(f.Key)
		b.WriteString(`="`)
		b.WriteString(quoteValue(f.Value))
		b.WriteString(`"`)
	}

	return b.String()
}

var headerValueQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteValue(v string) string {
	return headerValueQuoter.Replace(v)
}
