package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Manual code constants
const (
	// Code lengths including the check digit
	ManualCodeShortLength = 11
	ManualCodeLongLength  = 21

	// Chunk lengths in decimal digits
	chunk1Length    = 1
	chunk2Length    = 5
	chunk3Length    = 4
	vendorIDLength  = 5
	productIDLength = 5

	chunk1Max = 7 // 8-9 reserved
)

// Bit positions within chunks
const (
	// Chunk 1 (value 0-7):
	//   Bits 0-1: Discriminator MSBs (2 bits)
	//   Bit 2: VID/PID present flag
	chunk1DiscMSBsPos   = 0
	chunk1DiscMSBsLen   = 2
	chunk1VIDPIDFlagPos = 2

	// Chunk 2 (value 0-65535):
	//   Bits 0-13: Passcode LSBs (14 bits)
	//   Bits 14-15: Discriminator LSBs (2 bits)
	chunk2PasscodeLSBsPos = 0
	chunk2PasscodeLSBsLen = 14
	chunk2DiscLSBsPos     = 14
	chunk2DiscLSBsLen     = 2

	// Chunk 3 (value 0-8191):
	//   Bits 0-12: Passcode MSBs (13 bits)
	chunk3PasscodeMSBsPos = 0
	chunk3PasscodeMSBsLen = 13
)

// Manual code errors
var (
	ErrManualCodeInvalidLength    = errors.New("manualcode: invalid length")
	ErrManualCodeInvalidChecksum  = errors.New("manualcode: invalid check digit")
	ErrManualCodeInvalidDigit     = errors.New("manualcode: invalid digit character")
	ErrManualCodeInvalidChunk1    = errors.New("manualcode: chunk1 value 8-9 reserved")
	ErrManualCodeVIDPIDMismatch   = errors.New("manualcode: VID/PID flag set in a short code")
	ErrManualCodeInvalidVendorID  = errors.New("manualcode: vendor ID exceeds 16 bits")
	ErrManualCodeInvalidProductID = errors.New("manualcode: product ID exceeds 16 bits")
)

// DecodeManualCode parses an 11 or 21 digit manual pairing code.
//
// Dashes and spaces are removed first. The discriminator in the result is
// short (4 bits); VID/PID are present, and the flow is Custom, only when
// the VID/PID flag in the first digit is set. A 21 digit code with the
// flag clear decodes as Standard and its last ten data digits are ignored.
//
// Interactive callers that prefer a logged nil over an error should use
// Decoder.ParseManualCode.
func DecodeManualCode(code string) (*SetupPayload, error) {
	code = StripFormatting(code)

	if len(code) != ManualCodeShortLength && len(code) != ManualCodeLongLength {
		return nil, fmt.Errorf("%w: %d digits", ErrManualCodeInvalidLength, len(code))
	}
	if code[0] < '0' || code[0] > '9' {
		return nil, ErrManualCodeInvalidDigit
	}
	if code[0]-'0' > chunk1Max {
		return nil, ErrManualCodeInvalidChunk1
	}

	data, check := code[:len(code)-1], code[len(code)-1]
	expected, err := VerhoeffCompute(data)
	if err != nil {
		return nil, ErrManualCodeInvalidDigit
	}
	if check != expected {
		return nil, ErrManualCodeInvalidChecksum
	}

	pos := 0
	chunk1, err := parseDigits(data, &pos, chunk1Length)
	if err != nil {
		return nil, err
	}
	chunk2, err := parseDigits(data, &pos, chunk2Length)
	if err != nil {
		return nil, err
	}
	chunk3, err := parseDigits(data, &pos, chunk3Length)
	if err != nil {
		return nil, err
	}

	hasVIDPID := (chunk1>>chunk1VIDPIDFlagPos)&1 == 1
	if hasVIDPID && len(code) != ManualCodeLongLength {
		return nil, ErrManualCodeVIDPIDMismatch
	}

	discMSBs := (chunk1 >> chunk1DiscMSBsPos) & (1<<chunk1DiscMSBsLen - 1)
	discLSBs := (chunk2 >> chunk2DiscLSBsPos) & (1<<chunk2DiscLSBsLen - 1)
	discriminator := discMSBs<<chunk2DiscLSBsLen | discLSBs

	passcodeLSBs := (chunk2 >> chunk2PasscodeLSBsPos) & (1<<chunk2PasscodeLSBsLen - 1)
	passcodeMSBs := (chunk3 >> chunk3PasscodeMSBsPos) & (1<<chunk3PasscodeMSBsLen - 1)
	passcode := passcodeMSBs<<chunk2PasscodeLSBsLen | passcodeLSBs

	p := &SetupPayload{
		Discriminator:         NewShortDiscriminator(uint8(discriminator)),
		Passcode:              passcode,
		DiscoveryCapabilities: DefaultDiscoveryCapabilities,
		CommissioningFlow:     CommissioningFlowStandard,
	}

	if hasVIDPID {
		vendorID, err := parseDigits(data, &pos, vendorIDLength)
		if err != nil {
			return nil, err
		}
		if vendorID > 0xFFFF {
			return nil, ErrManualCodeInvalidVendorID
		}
		productID, err := parseDigits(data, &pos, productIDLength)
		if err != nil {
			return nil, err
		}
		if productID > 0xFFFF {
			return nil, ErrManualCodeInvalidProductID
		}
		p.VendorID = uint16(vendorID)
		p.ProductID = uint16(productID)
		p.CommissioningFlow = CommissioningFlowCustom
	}

	return p, nil
}

// EncodeManualCode encodes a SetupPayload as a manual pairing code.
//
// Returns 21 digits (with VID/PID) for any non-standard flow, else 11.
func EncodeManualCode(p *SetupPayload) (string, error) {
	if p.Passcode > PasscodeMask {
		return "", ErrInvalidPasscode
	}

	discriminator := uint32(p.Discriminator.Short())
	passcode := p.Passcode
	long := p.HasVendorProduct()

	var vidPidFlag uint32
	if long {
		vidPidFlag = 1
	}
	discMSBs := (discriminator >> chunk2DiscLSBsLen) & (1<<chunk1DiscMSBsLen - 1)
	chunk1 := discMSBs<<chunk1DiscMSBsPos | vidPidFlag<<chunk1VIDPIDFlagPos

	discLSBs := discriminator & (1<<chunk2DiscLSBsLen - 1)
	passcodeLSBs := passcode & (1<<chunk2PasscodeLSBsLen - 1)
	chunk2 := passcodeLSBs<<chunk2PasscodeLSBsPos | discLSBs<<chunk2DiscLSBsPos

	passcodeMSBs := (passcode >> chunk2PasscodeLSBsLen) & (1<<chunk3PasscodeMSBsLen - 1)
	chunk3 := passcodeMSBs << chunk3PasscodeMSBsPos

	var sb strings.Builder
	sb.Grow(ManualCodeLongLength)
	writeDigits(&sb, chunk1, chunk1Length)
	writeDigits(&sb, chunk2, chunk2Length)
	writeDigits(&sb, chunk3, chunk3Length)
	if long {
		writeDigits(&sb, uint32(p.VendorID), vendorIDLength)
		writeDigits(&sb, uint32(p.ProductID), productIDLength)
	}

	checkDigit, err := VerhoeffCompute(sb.String())
	if err != nil {
		return "", err
	}
	sb.WriteByte(checkDigit)

	return sb.String(), nil
}

// FormatManualCode groups a manual code for printing: 4-3-4 for the short
// form, 4-3-4-5-5 for the long form. Other inputs are returned unchanged.
func FormatManualCode(code string) string {
	switch len(code) {
	case ManualCodeShortLength:
		return code[:4] + "-" + code[4:7] + "-" + code[7:]
	case ManualCodeLongLength:
		return code[:4] + "-" + code[4:7] + "-" + code[7:11] + "-" + code[11:16] + "-" + code[16:]
	}
	return code
}

// StripFormatting removes the dashes and spaces people type into manual codes.
func StripFormatting(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, code)
}

// parseDigits parses n decimal digits from code starting at *pos.
func parseDigits(code string, pos *int, n int) (uint32, error) {
	if *pos+n > len(code) {
		return 0, ErrManualCodeInvalidLength
	}
	value, err := strconv.ParseUint(code[*pos:*pos+n], 10, 32)
	if err != nil {
		return 0, ErrManualCodeInvalidDigit
	}
	*pos += n
	return uint32(value), nil
}

func writeDigits(sb *strings.Builder, v uint32, width int) {
	s := strconv.FormatUint(uint64(v), 10)
	for i := len(s); i < width; i++ {
		sb.WriteByte('0')
	}
	sb.WriteString(s)
}
