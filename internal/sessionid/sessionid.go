// Package sessionid generates short identifiers for table sessions. An ID
// is a 48-bit millisecond timestamp followed by 20 random bits, encoded in
// Crockford's base32, so IDs sort roughly by creation time and stay easy to
// read aloud over a log line.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in a session ID.
const Length = 14

// New returns a fresh session ID.
func New() string {
	var buf [Length]byte

	ms := uint64(time.Now().UnixMilli())
	for i := 9; i >= 0; i-- {
		buf[i] = alphabet[ms&0x1f]
		ms >>= 5
	}

	var random [4]byte
	if _, err := rand.Read(random[:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}
	for i, b := range random {
		buf[10+i] = alphabet[b&0x1f]
	}

	return string(buf[:])
}

// Validate reports whether id has the shape New produces.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		valid := false
		for _, validChar := range alphabet {
			if char == validChar {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
