// Package wire frames cache entries for the durable tier. The format is
// strict: bad magic, truncation, or trailing bytes all decode as ErrCorrupt,
// and callers treat ErrCorrupt as a cache miss.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("pubcache: corrupt entry")
	magic4     = [...]byte{'P', 'U', 'B', 'C'}
)

// Entry is the persisted shape of a cache record. Times and windows are
// millisecond integers so the format has no dependency on Go time encoding;
// Payload stays opaque (the value codec runs above this layer).
type Entry struct {
	FetchedAtMs int64
	MaxAgeMs    int64
	StaleMs     int64
	Token       string
	Payload     []byte
}

const tokenMax = 0xFFFF

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode serializes e:
//
//	magic(4) | ver(1) | fetchedAtMs(i64 be) | maxAgeMs(i64 be) | staleMs(i64 be)
//	| tokenLen(u16 be) | token | payloadLen(u32 be) | payload
//
// It returns ErrCorrupt when the token exceeds the u16 length field.
func Encode(e Entry) ([]byte, error) {
	if len(e.Token) > tokenMax {
		return nil, ErrCorrupt
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 8*3 + 2 + len(e.Token) + 4 + len(e.Payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	for _, v := range [...]int64{e.FetchedAtMs, e.MaxAgeMs, e.StaleMs} {
		binary.BigEndian.PutUint64(u8[:], uint64(v))
		buf.Write(u8[:])
	}

	binary.BigEndian.PutUint16(u2[:], uint16(len(e.Token)))
	buf.Write(u2[:])
	buf.WriteString(e.Token)

	binary.BigEndian.PutUint32(u4[:], uint32(len(e.Payload)))
	buf.Write(u4[:])
	buf.Write(e.Payload)

	return buf.Bytes(), nil
}

// Decode parses b into an Entry. The returned Payload aliases b.
func Decode(b []byte) (Entry, error) {
	const hdr = 4 + 1 + 8*3 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return Entry{}, ErrCorrupt
	}

	off := 5

	var ts [3]int64
	for i := range ts {
		ts[i] = int64(binary.BigEndian.Uint64(b[off : off+8]))
		off += 8
	}

	tlen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if tlen > len(b)-off {
		return Entry{}, ErrCorrupt
	}
	token := string(b[off : off+tlen])
	off += tlen

	if off+4 > len(b) {
		return Entry{}, ErrCorrupt
	}
	plen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if plen < 0 || plen != len(b)-off { // strict framing: no trailing bytes
		return Entry{}, ErrCorrupt
	}

	return Entry{
		FetchedAtMs: ts[0],
		MaxAgeMs:    ts[1],
		StaleMs:     ts[2],
		Token:       token,
		Payload:     b[off : off+plen],
	}, nil
}
