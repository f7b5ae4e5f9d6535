package factorydata

import (
	"github.com/backkem/matter-setup/pkg/crypto/spake2p"
)

// HasSpake2 reports whether the record carries SPAKE2+ material.
func (r *Record) HasSpake2() bool {
	return r.Spake2Iterations != 0 && len(r.Spake2Salt) != 0 && len(r.Spake2Verifier) != 0
}

// VerifySpake2 recomputes the SPAKE2+ verifier from the passcode, salt and
// iteration count and compares it with the stored one. A mismatch means
// the passcode printed on the device would not commission it.
func (r *Record) VerifySpake2() error {
	if !r.HasSpake2() {
		return ErrNoSpake2Data
	}

	stored, err := spake2p.ParseVerifier(r.Spake2Verifier)
	if err != nil {
		return err
	}
	computed, err := spake2p.NewVerifier(r.Passcode, r.Spake2Salt, r.Spake2Iterations)
	if err != nil {
		return err
	}
	if !stored.Equal(computed) {
		return ErrSpake2Mismatch
	}
	return nil
}
