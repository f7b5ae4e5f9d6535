// Package payload implements the Matter onboarding payload: the QR code
// string (MT: prefix, Base38 text) and the 11 or 21 digit manual pairing code.
package payload

import "errors"

const (
	// base38Alphabet is indexed by digit value.
	base38Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-."
	base38Radix    = 38

	base38MaxBytesPerChunk = 3
	base38MaxCharsPerChunk = 5
)

// base38CharsPerChunk[n-1] is the character quota for a chunk of n bytes.
// 38^2 > 0xFF, 38^4 > 0xFFFF, 38^5 > 0xFFFFFF.
var base38CharsPerChunk = [base38MaxBytesPerChunk]int{2, 4, 5}

// base38Values maps an ASCII byte to its digit value, or -1.
var base38Values = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(base38Alphabet); i++ {
		t[base38Alphabet[i]] = int8(i)
	}
	return t
}()

// Base38 errors
var (
	ErrBase38InvalidChar   = errors.New("base38: invalid character")
	ErrBase38InvalidLength = errors.New("base38: invalid string length")
	ErrBase38Overflow      = errors.New("base38: encoded value too large for chunk")
)

// Base38Encode encodes data as Base38 text.
//
// Input is consumed in chunks of up to three bytes, packed little-endian.
// Each chunk emits 2, 4 or 5 characters, least significant digit first.
func Base38Encode(data []byte) string {
	out := make([]byte, 0, Base38EncodedLength(len(data)))

	for pos := 0; pos < len(data); pos += base38MaxBytesPerChunk {
		n := min(base38MaxBytesPerChunk, len(data)-pos)

		var value uint32
		for i := n - 1; i >= 0; i-- {
			value = value<<8 | uint32(data[pos+i])
		}

		for i := 0; i < base38CharsPerChunk[n-1]; i++ {
			out = append(out, base38Alphabet[value%base38Radix])
			value /= base38Radix
		}
	}

	return string(out)
}

// Base38Decode decodes Base38 text produced by Base38Encode.
//
// Chunks are 5 characters (3 bytes) with an optional trailing chunk of
// 4 (2 bytes) or 2 (1 byte) characters. Decoding is case sensitive.
// A chunk whose value does not fit in its byte count, such as "S6" (256)
// for one byte, fails with ErrBase38Overflow; Base38Encode never emits one.
func Base38Decode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/base38MaxCharsPerChunk*base38MaxBytesPerChunk+2)

	for pos := 0; pos < len(s); {
		chars := min(base38MaxCharsPerChunk, len(s)-pos)

		var n int
		switch chars {
		case base38CharsPerChunk[2]:
			n = 3
		case base38CharsPerChunk[1]:
			n = 2
		case base38CharsPerChunk[0]:
			n = 1
		default:
			return nil, ErrBase38InvalidLength
		}

		var value uint32
		for i := chars - 1; i >= 0; i-- {
			v := base38Values[s[pos+i]]
			if v < 0 {
				return nil, ErrBase38InvalidChar
			}
			value = value*base38Radix + uint32(v)
		}
		pos += chars

		for i := 0; i < n; i++ {
			out = append(out, byte(value))
			value >>= 8
		}
		if value != 0 {
			return nil, ErrBase38Overflow
		}
	}

	return out, nil
}

// Base38EncodedLength returns the number of characters needed to encode n bytes.
func Base38EncodedLength(n int) int {
	length := n / base38MaxBytesPerChunk * base38MaxCharsPerChunk
	if rem := n % base38MaxBytesPerChunk; rem > 0 {
		length += base38CharsPerChunk[rem-1]
	}
	return length
}
