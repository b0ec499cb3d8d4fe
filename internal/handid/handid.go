// Package handid mints the identifiers that name a hand in the display log
// and in logging output. Two forms exist: FromSession derives an ID from
// the host's randomness-session handle and the hand's sequence number, so a
// replay of the same events mints the same ID; New mints a time-ordered,
// random-suffixed ID for naming things outside the engine, such as a demo
// run. Both render as 26 characters of Crockford base32 that sort
// lexicographically in creation order.
package handid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// alphabet is Crockford's base32: digits and lowercase letters minus the
// easily confused i, l, o, and u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// FromSession derives the ID for the seq'th hand dealt from the given
// randomness session. It is a pure function of its inputs: identical
// session handles and sequence numbers always yield the same ID, and IDs
// minted from one session sort by sequence number.
func FromSession(session, seq uint64) string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], session)
	binary.BigEndian.PutUint64(b[8:], seq)
	return encode(b)
}

// New mints a fresh ID from the current millisecond timestamp and 80 random
// bits.
func New() string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixMilli())<<16)
	if _, err := rand.Read(b[6:]); err != nil {
		panic("handid: failed to read random bytes: " + err.Error())
	}
	return encode(b)
}

// encode renders 128 bits as 26 base32 characters, most significant bits
// first, through a streaming bit accumulator. 26 characters hold 130 bits,
// so the final character carries two bits of zero padding.
func encode(b [16]byte) string {
	out := make([]byte, 0, 26)
	var acc, width uint
	for _, by := range b {
		acc = acc<<8 | uint(by)
		width += 8
		for width >= 5 {
			width -= 5
			out = append(out, alphabet[(acc>>width)&31])
			acc &= 1<<width - 1
		}
	}
	out = append(out, alphabet[(acc<<(5-width))&31])
	return string(out)
}

// Validate reports whether id has the shape FromSession and New produce:
// exactly 26 characters, all drawn from the Crockford alphabet.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("handid: must be exactly 26 characters, got %d", len(id))
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("handid: invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
