package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	in := Entry{
		FetchedAtMs: 1700000000123,
		MaxAgeMs:    60_000,
		StaleMs:     300_000,
		Token:       `"abc123"`,
		Payload:     []byte(`{"title":"home"}`),
	}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.FetchedAtMs != in.FetchedAtMs || out.MaxAgeMs != in.MaxAgeMs || out.StaleMs != in.StaleMs {
		t.Fatalf("windows mismatch: %+v vs %+v", out, in)
	}
	if out.Token != in.Token || !bytes.Equal(out.Payload, in.Payload) {
		t.Fatalf("token/payload mismatch: %+v", out)
	}
}

func TestRoundTripEmptyTokenAndPayload(t *testing.T) {
	b, err := Encode(Entry{FetchedAtMs: 1})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Token != "" || len(out.Payload) != 0 {
		t.Fatalf("expected empty token and payload, got %+v", out)
	}
}

// Decode must reject trailing bytes (strict framing).
func TestDecodeRejectsTrailing(t *testing.T) {
	b, err := Encode(Entry{Token: "t", Payload: []byte("x")})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b = append(b, 0xDE, 0xAD) // trailing junk
	if _, err := Decode(b); err == nil {
		t.Fatalf("Decode should reject trailing bytes")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"empty":         nil,
		"short":         []byte("PUB"),
		"bad_magic":     []byte("XXXX\x01aaaaaaaaaaaaaaaaaaaaaaaaaa"),
		"not_wire":      []byte("not-wire-format"),
		"truncated_hdr": append([]byte("PUBC"), 1, 0, 0),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(b); err == nil {
				t.Fatalf("Decode should fail on %s", name)
			}
		})
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	b, err := Encode(Entry{Payload: []byte("x")})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b[4] = 99
	if _, err := Decode(b); err == nil {
		t.Fatalf("Decode should reject unknown version")
	}
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	b, err := Encode(Entry{Token: "tok", Payload: []byte("payload bytes")})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(b[:len(b)-3]); err == nil {
		t.Fatalf("Decode should reject truncated payload")
	}
}

// Encode should error on tokens exceeding the u16 length field, and succeed
// on the boundary length.
func TestEncodeTokenLengthValidation(t *testing.T) {
	if _, err := Encode(Entry{Token: strings.Repeat("a", 0x10000)}); err == nil {
		t.Fatalf("Encode should error on token length > 0xFFFF")
	}
	if _, err := Encode(Entry{Token: strings.Repeat("b", 0xFFFF)}); err != nil {
		t.Fatalf("Encode should succeed at 0xFFFF token length, got err: %v", err)
	}
}
