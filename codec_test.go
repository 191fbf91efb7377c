package webx403

import (
	"bytes"
	"testing"
)

func TestBase64URLRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		{0xFF, 0xFE, 0xFD},
		[]byte("exactly sixteen!"),
		bytes.Repeat([]byte{0xAB}, 64),
	}

	for _, in := range inputs {
		encoded := EncodeBase64URL(in)
		decoded, err := DecodeBase64URL(encoded)
		if err != nil {
			t.Fatalf("decode of %q failed: %v", encoded, err)
		}
		if !bytes.Equal(decoded, in) {
			t.Fatalf("round trip changed bytes: got %x want %x", decoded, in)
		}
	}
}

func TestDecodeBase64URLRejectsPadding(t *testing.T) {
	if _, err := DecodeBase64URL("QQ=="); err == nil {
		t.Fatal("expected padded input to be rejected")
	}
}

func TestDecodeBase64URLRejectsStandardAlphabet(t *testing.T) {
	// '+' and '/' belong to the standard alphabet, not the URL-safe one.
	for _, in := range []string{"a+b1", "a/b1"} {
		if _, err := DecodeBase64URL(in); err == nil {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestDecodeBase64URLRejectsNonCanonicalTrailingBits(t *testing.T) {
	// "QR" decodes to one byte; the strict decoder must reject the form
	// with non-zero trailing bits so each byte string has one encoding.
	canonical := EncodeBase64URL([]byte{0x41})
	if canonical != "QQ" {
		t.Fatalf("unexpected canonical encoding %q", canonical)
	}
	if _, err := DecodeBase64URL("QR"); err == nil {
		t.Fatal("expected non-canonical trailing bits to be rejected")
	}
}

func TestDecodeBase64URLRejectsImpossibleLength(t *testing.T) {
	// No unpadded base64 encoding has length 1 mod 4.
	if _, err := DecodeBase64URL("QQQQQ"); err == nil {
		t.Fatal("expected impossible length to be rejected")
	}
}
