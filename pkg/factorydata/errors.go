package factorydata

import (
	"errors"
	"io/fs"
)

// Log extraction errors
var (
	ErrLogDiscriminatorNotFound = errors.New("Could not parse discriminator from logs")
	ErrLogPasscodeNotFound      = errors.New("Could not parse pincode from logs")
)

// File and record errors
var (
	// ErrFileNotFound wraps fs.ErrNotExist, so errors.Is works with either.
	ErrFileNotFound = &notFoundError{}

	ErrInvalidJSON          = errors.New("Invalid JSON format")
	ErrMissingDiscriminator = errors.New("factorydata: missing discriminator")
	ErrMissingPasscode      = errors.New("factorydata: missing passcode")
	ErrInvalidDiscriminator = errors.New("factorydata: discriminator must be a number in 1-4095")
	ErrInvalidPasscode      = errors.New("factorydata: passcode must be a non-zero 27-bit number")
)

// SPAKE2+ errors
var (
	ErrNoSpake2Data   = errors.New("factorydata: record has no SPAKE2+ iterations, salt and verifier")
	ErrSpake2Mismatch = errors.New("factorydata: SPAKE2+ verifier does not match passcode")
)

type notFoundError struct{}

func (*notFoundError) Error() string { return "file not found" }

func (*notFoundError) Unwrap() error { return fs.ErrNotExist }
