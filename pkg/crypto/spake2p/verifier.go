// Package spake2p derives and compares Matter SPAKE2+ (P-256) passcode
// verifiers as stored in device factory data.
package spake2p

import (
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

// Sizes from Matter Specification Section 3.10.
const (
	// GroupSizeBytes is the size of a P-256 scalar.
	GroupSizeBytes = 32

	// PointSizeBytes is the size of an uncompressed P-256 point.
	PointSizeBytes = 65

	// WsSizeBytes is the size of w0s and w1s (32 + 8 for bias reduction).
	WsSizeBytes = 40

	// VerifierSizeBytes is the size of a serialized verifier, W0 || L.
	VerifierSizeBytes = GroupSizeBytes + PointSizeBytes
)

// PBKDF2 parameter limits from Matter Specification Section 3.9.
const (
	MinIterations = 1000
	MaxIterations = 100000
	MinSaltLength = 16
	MaxSaltLength = 32
)

var (
	ErrInvalidSalt       = errors.New("spake2p: salt must be 16-32 bytes")
	ErrInvalidIterations = errors.New("spake2p: iteration count must be 1000-100000")
	ErrInvalidVerifier   = errors.New("spake2p: serialized verifier must be 97 bytes")
)

var p256 = elliptic.P256()

// Verifier is the registration record a device stores in its factory data.
// The commissioner proves knowledge of the passcode against it.
type Verifier struct {
	W0 []byte // w0s mod n, 32 bytes
	L  []byte // w1*G, 65 byte uncompressed point
}

// NewVerifier derives the verifier for passcode:
//
//	ws  = PBKDF2-SHA256(passcode as 4 little-endian bytes, salt, iterations, 80)
//	w0  = ws[0:40] mod n
//	w1  = ws[40:80] mod n
//	L   = w1*G
func NewVerifier(passcode uint32, salt []byte, iterations uint32) (*Verifier, error) {
	if len(salt) < MinSaltLength || len(salt) > MaxSaltLength {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSalt, len(salt))
	}
	if iterations < MinIterations || iterations > MaxIterations {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}

	var pin [4]byte
	binary.LittleEndian.PutUint32(pin[:], passcode)
	ws := pbkdf2.Key(pin[:], salt, int(iterations), 2*WsSizeBytes, sha256.New)

	w0 := reduce(ws[:WsSizeBytes])
	w1 := reduce(ws[WsSizeBytes:])

	x, y := p256.ScalarBaseMult(w1)
	L := make([]byte, PointSizeBytes)
	L[0] = 0x04
	x.FillBytes(L[1:33])
	y.FillBytes(L[33:65])

	return &Verifier{W0: w0, L: L}, nil
}

// reduce interprets ws as a big-endian integer and reduces it modulo the
// P-256 group order, returning a 32 byte scalar.
func reduce(ws []byte) []byte {
	v := new(big.Int).SetBytes(ws)
	v.Mod(v, p256.Params().N)
	out := make([]byte, GroupSizeBytes)
	v.FillBytes(out)
	return out
}

// Bytes returns W0 || L.
func (v *Verifier) Bytes() []byte {
	out := make([]byte, 0, VerifierSizeBytes)
	out = append(out, v.W0...)
	return append(out, v.L...)
}

// Equal reports whether two verifiers hold the same W0 and L.
func (v *Verifier) Equal(other *Verifier) bool {
	return subtle.ConstantTimeCompare(v.Bytes(), other.Bytes()) == 1
}

// ParseVerifier splits a serialized W0 || L verifier.
func ParseVerifier(data []byte) (*Verifier, error) {
	if len(data) != VerifierSizeBytes {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVerifier, len(data))
	}
	return &Verifier{
		W0: append([]byte(nil), data[:GroupSizeBytes]...),
		L:  append([]byte(nil), data[GroupSizeBytes:]...),
	}, nil
}
