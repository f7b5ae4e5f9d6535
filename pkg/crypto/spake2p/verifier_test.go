package spake2p

import (
	"bytes"
	"errors"
	"testing"
)

// Test Set #01 of the Matter SDK SPAKE2+ parameters.
var (
	testPasscode   = uint32(20202021)
	testIterations = uint32(1000)
	testSalt       = []byte("SPAKE2P Key Salt")

	testW0 = []byte{
		0xB9, 0x61, 0x70, 0xAA, 0xE8, 0x03, 0x34, 0x68, 0x84, 0x72, 0x4F, 0xE9, 0xA3, 0xB2, 0x87, 0xC3,
		0x03, 0x30, 0xC2, 0xA6, 0x60, 0x37, 0x5D, 0x17, 0xBB, 0x20, 0x5A, 0x8C, 0xF1, 0xAE, 0xCB, 0x35,
	}

	testL = []byte{
		0x04, 0x57, 0xF8, 0xAB, 0x79, 0xEE, 0x25, 0x3A, 0xB6, 0xA8, 0xE4, 0x6B, 0xB0, 0x9E, 0x54, 0x3A,
		0xE4, 0x22, 0x73, 0x6D, 0xE5, 0x01, 0xE3, 0xDB, 0x37, 0xD4, 0x41, 0xFE, 0x34, 0x49, 0x20, 0xD0,
		0x95, 0x48, 0xE4, 0xC1, 0x82, 0x40, 0x63, 0x0C, 0x4F, 0xF4, 0x91, 0x3C, 0x53, 0x51, 0x38, 0x39,
		0xB7, 0xC0, 0x7F, 0xCC, 0x06, 0x27, 0xA1, 0xB8, 0x57, 0x3A, 0x14, 0x9F, 0xCD, 0x1F, 0xA4, 0x66,
		0xCF,
	}
)

func TestNewVerifier(t *testing.T) {
	v, err := NewVerifier(testPasscode, testSalt, testIterations)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	if !bytes.Equal(v.W0, testW0) {
		t.Errorf("W0 mismatch:\ngot:  %x\nwant: %x", v.W0, testW0)
	}
	if !bytes.Equal(v.L, testL) {
		t.Errorf("L mismatch:\ngot:  %x\nwant: %x", v.L, testL)
	}

	serialized := v.Bytes()
	if len(serialized) != VerifierSizeBytes {
		t.Fatalf("len(Bytes()) = %d, want %d", len(serialized), VerifierSizeBytes)
	}
	if !bytes.Equal(serialized, append(append([]byte{}, testW0...), testL...)) {
		t.Error("Bytes() is not W0 || L")
	}
}

func TestVerifierEqual(t *testing.T) {
	v, err := NewVerifier(testPasscode, testSalt, testIterations)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseVerifier(v.Bytes())
	if err != nil {
		t.Fatalf("ParseVerifier failed: %v", err)
	}
	if !v.Equal(parsed) {
		t.Error("parsed verifier differs")
	}

	other, err := NewVerifier(testPasscode+1, testSalt, testIterations)
	if err != nil {
		t.Fatal(err)
	}
	if v.Equal(other) {
		t.Error("verifiers for different passcodes compare equal")
	}
}

func TestNewVerifierInvalidParams(t *testing.T) {
	tests := []struct {
		name       string
		salt       []byte
		iterations uint32
		wantErr    error
	}{
		{"salt too short", make([]byte, 15), 1000, ErrInvalidSalt},
		{"salt too long", make([]byte, 33), 1000, ErrInvalidSalt},
		{"too few iterations", testSalt, 999, ErrInvalidIterations},
		{"too many iterations", testSalt, 100001, ErrInvalidIterations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(testPasscode, tt.salt, tt.iterations)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseVerifierInvalidLength(t *testing.T) {
	for _, n := range []int{0, 96, 98} {
		if _, err := ParseVerifier(make([]byte, n)); !errors.Is(err, ErrInvalidVerifier) {
			t.Errorf("ParseVerifier(%d bytes) error = %v, want %v", n, err, ErrInvalidVerifier)
		}
	}
}
