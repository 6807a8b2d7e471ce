package uniuri

import (
	"crypto/rand"
	"math"
)

const (
	// StdLen is the default token length, ~95 bits of entropy over StdChars.
	StdLen = 16
	// UUIDLen gives ~119 bits of entropy, the closest length that still
	// converts losslessly to a UUIDv4 (122 bits).
	UUIDLen = 20
)

// StdChars is the default alphabet, URL-safe without escaping.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// New returns a random string of StdLen characters from StdChars.
func New() string {
	return NewLenChars(StdLen, StdChars)
}

// NewLen returns a random string of the provided length from StdChars.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

const (
	// maxBufLen caps the temporary buffer requested from crypto/rand.
	maxBufLen = 2048

	// minRegenBufLen floors follow-up rand.Read requests when rejection left
	// the result incomplete; smaller reads are not worth the call.
	minRegenBufLen = 16

	// maxByteValue is the maximum value of a byte (2^8 - 1).
	maxByteValue = 255

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
)

// estimatedBufLen estimates how many random bytes to request, accounting for
// the share above maxByte that rejection will discard.
func estimatedBufLen(need, maxByte int) int {
	return int(math.Ceil(float64(need) * (maxByteValue / float64(maxByte))))
}

// NewLenCharsBytes returns a random byte slice of the provided length drawn
// from chars (at most 256 distinct values).
func NewLenCharsBytes(length int, chars []byte) []byte {
	if length == 0 {
		return nil
	}
	clen := len(chars)
	if clen < 2 || clen > byteRange {
		panic("uniuri: wrong charset length for NewLenChars")
	}

	maxRb := maxByteValue - (byteRange % clen)
	bufLen := estimatedBufLen(length, maxRb)
	if bufLen < length {
		bufLen = length
	}

	if bufLen > maxBufLen {
		bufLen = maxBufLen
	}

	buf := make([]byte, bufLen)
	out := make([]byte, length)

	var i int // next position in out
	for {
		if _, err := rand.Read(buf[:bufLen]); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf[:bufLen] {
			c := int(rb)
			if c > maxRb {
				// rejected to keep the distribution uniform
				continue
			}
			out[i] = chars[c%clen]
			i++
			if i == length {
				return out
			}
		}
		// request only what is still missing, floored at minRegenBufLen
		bufLen = estimatedBufLen(length-i, maxRb)
		if bufLen < minRegenBufLen && minRegenBufLen < cap(buf) {
			bufLen = minRegenBufLen
		}
		if bufLen > maxBufLen {
			bufLen = maxBufLen
		}
	}
}

// NewLenChars returns a random string of the provided length drawn from
// chars (at most 256 distinct values).
func NewLenChars(length int, chars []byte) string {
	return string(NewLenCharsBytes(length, chars))
}
