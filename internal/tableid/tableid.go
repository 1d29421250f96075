// Package tableid generates table identifiers: UUIDv7 encoded as a
// 26-character Crockford base32 string, so IDs sort roughly by creation time.
package tableid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New creates a new table ID.
func New() string {
	return encodeBase32(newUUIDv7())
}

func newUUIDv7() [16]byte {
	var u [16]byte

	// 48-bit millisecond timestamp, then version and variant bits over
	// crypto/rand filler.
	now := time.Now().UnixMilli()
	u[0] = byte(now >> 40)
	u[1] = byte(now >> 32)
	u[2] = byte(now >> 24)
	u[3] = byte(now >> 16)
	u[4] = byte(now >> 8)
	u[5] = byte(now)

	if _, err := rand.Read(u[6:]); err != nil {
		panic("tableid: " + err.Error())
	}
	u[6] = (u[6] & 0x0f) | 0x70
	u[8] = (u[8] & 0x3f) | 0x80
	return u
}

// encodeBase32 encodes 128 bits as 26 base32 characters, five bits per
// character, left aligned.
func encodeBase32(data [16]byte) string {
	var b strings.Builder
	b.Grow(26)

	// Two leading zero bits pad 128 bits out to 26 full characters, which
	// keeps the first character in 0-7.
	var acc uint32
	nbits := 2
	i := 0
	for b.Len() < 26 {
		for nbits < 5 {
			var next uint32
			if i < len(data) {
				next = uint32(data[i])
				i++
			}
			acc = acc<<8 | next
			nbits += 8
		}
		b.WriteByte(alphabet[(acc>>(nbits-5))&0x1f])
		nbits -= 5
		acc &= (1 << nbits) - 1
	}
	return b.String()
}

// Validate checks that an ID is 26 valid base32 characters.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("table ID must be exactly 26 characters, got %d", len(id))
	}
	// The leading character carries only three significant bits.
	if id[0] > '7' {
		return fmt.Errorf("table ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if !strings.ContainsRune(alphabet, rune(id[i])) {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
