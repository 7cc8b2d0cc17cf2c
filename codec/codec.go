// Package codec serializes published-document payloads for pubcache.
package codec

// Codec encodes/decodes values V to []byte. Decode runs on both fetched
// response bodies and bytes loaded from the durable tier, so the codec must
// match the format the endpoint publishes.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// ContentTyper is an optional extension: a Codec that implements it
// advertises the media type the client should request via the Accept header.
// Codecs without it are assumed to handle "application/json".
type ContentTyper interface {
	ContentType() string
}
