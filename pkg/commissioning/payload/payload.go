package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Discriminator bit lengths
const (
	DiscriminatorLongBits  = 12 // QR code discriminator
	DiscriminatorShortBits = 4  // Manual code discriminator (MSBs of long)

	discriminatorShortShift = DiscriminatorLongBits - DiscriminatorShortBits
)

// Passcode is a 27-bit field in both encodings.
const (
	PasscodeBits = 27
	PasscodeMask = 1<<PasscodeBits - 1
)

// Discriminator represents a Matter setup discriminator.
//
// QR codes carry the full 12-bit value. Manual pairing codes carry only the
// 4 most significant bits, so a discriminator recovered from a manual code
// is "short": its Long form is the 4 bits shifted back into place with the
// low 8 bits zero.
type Discriminator struct {
	value   uint16
	isShort bool
}

// NewLongDiscriminator creates a 12-bit discriminator.
// Panics if value exceeds 12 bits (0xFFF).
func NewLongDiscriminator(value uint16) Discriminator {
	if value > 0xFFF {
		panic(fmt.Sprintf("discriminator value %d exceeds 12 bits", value))
	}
	return Discriminator{value: value}
}

// NewShortDiscriminator creates a 4-bit discriminator reconstructed from a
// manual pairing code. Panics if value exceeds 4 bits (0xF).
func NewShortDiscriminator(value uint8) Discriminator {
	if value > 0xF {
		panic(fmt.Sprintf("discriminator value %d exceeds 4 bits", value))
	}
	return Discriminator{value: uint16(value), isShort: true}
}

// IsShort returns true if this discriminator came from a manual code.
func (d Discriminator) IsShort() bool {
	return d.isShort
}

// Long returns the 12-bit discriminator value. For a short discriminator
// this is the 4-bit value shifted into the top bits.
func (d Discriminator) Long() uint16 {
	if d.isShort {
		return d.value << discriminatorShortShift
	}
	return d.value
}

// Short returns the 4 most significant bits of the discriminator.
func (d Discriminator) Short() uint8 {
	if d.isShort {
		return uint8(d.value)
	}
	return uint8(d.value >> discriminatorShortShift)
}

// Matches reports whether a 12-bit discriminator advertised by a device
// matches this one. Short discriminators compare the 4 MSBs only.
func (d Discriminator) Matches(longValue uint16) bool {
	if d.isShort {
		return uint8(longValue>>discriminatorShortShift) == uint8(d.value)
	}
	return d.value == longValue
}

func (d Discriminator) String() string {
	if d.isShort {
		return fmt.Sprintf("short:%d", d.value)
	}
	return fmt.Sprintf("long:%d", d.value)
}

// DiscoveryCapabilities is the 8-bit rendezvous bitmask carried in QR codes.
type DiscoveryCapabilities uint8

const (
	DiscoveryCapabilitySoftAP    DiscoveryCapabilities = 1 << 0 // Bit 0: SoftAP (deprecated)
	DiscoveryCapabilityBLE       DiscoveryCapabilities = 1 << 1 // Bit 1: BLE
	DiscoveryCapabilityOnNetwork DiscoveryCapabilities = 1 << 2 // Bit 2: On IP network
	DiscoveryCapabilityWiFiPAF   DiscoveryCapabilities = 1 << 3 // Bit 3: Wi-Fi Public Action Frame
	DiscoveryCapabilityNFC       DiscoveryCapabilities = 1 << 4 // Bit 4: NFC
)

var discoveryNames = []struct {
	flag DiscoveryCapabilities
	name string
}{
	{DiscoveryCapabilitySoftAP, "SoftAP"},
	{DiscoveryCapabilityBLE, "BLE"},
	{DiscoveryCapabilityOnNetwork, "OnNetwork"},
	{DiscoveryCapabilityWiFiPAF, "WiFiPAF"},
	{DiscoveryCapabilityNFC, "NFC"},
}

// Has returns true if the specified capability flag is set.
func (d DiscoveryCapabilities) Has(flag DiscoveryCapabilities) bool {
	return d&flag != 0
}

// String returns the set flags joined by '|', e.g. "BLE|OnNetwork".
func (d DiscoveryCapabilities) String() string {
	if d == 0 {
		return "none"
	}

	var caps []string
	for _, n := range discoveryNames {
		if d.Has(n.flag) {
			caps = append(caps, n.name)
		}
	}
	if unknown := d &^ knownDiscoveryBits; unknown != 0 {
		caps = append(caps, fmt.Sprintf("0x%02X", uint8(unknown)))
	}
	return strings.Join(caps, "|")
}

// Name returns the capability name when exactly one known flag is set,
// otherwise the decimal value.
func (d DiscoveryCapabilities) Name() string {
	for _, n := range discoveryNames {
		if d == n.flag {
			return n.name
		}
	}
	return fmt.Sprintf("%d", uint8(d))
}

const knownDiscoveryBits = DiscoveryCapabilitySoftAP | DiscoveryCapabilityBLE |
	DiscoveryCapabilityOnNetwork | DiscoveryCapabilityWiFiPAF | DiscoveryCapabilityNFC

// ParseDiscoveryCapabilities parses a capability name ("ble", "softap",
// "onnetwork", ...), a '|' separated list of names, or a number. "none"
// is the empty mask, as printed by String.
func ParseDiscoveryCapabilities(s string) (DiscoveryCapabilities, error) {
	var caps DiscoveryCapabilities
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "none") {
			continue
		}
		found := false
		for _, n := range discoveryNames {
			if strings.EqualFold(part, n.name) {
				caps |= n.flag
				found = true
				break
			}
		}
		if found {
			continue
		}
		v, err := strconv.ParseUint(part, 0, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDiscoveryCapabilities, part)
		}
		caps |= DiscoveryCapabilities(v)
	}
	return caps, nil
}

// CommissioningFlow represents the commissioning flow type.
type CommissioningFlow uint8

const (
	// CommissioningFlowStandard indicates the device automatically enters
	// pairing mode upon power-up.
	CommissioningFlowStandard CommissioningFlow = 0

	// CommissioningFlowUserIntent indicates the device requires user
	// interaction (e.g., button press) to enter pairing mode.
	CommissioningFlowUserIntent CommissioningFlow = 1

	// CommissioningFlowCustom indicates commissioning steps should be
	// retrieved from the Distributed Compliance Ledger or vendor docs.
	CommissioningFlowCustom CommissioningFlow = 2
)

func (c CommissioningFlow) String() string {
	switch c {
	case CommissioningFlowStandard:
		return "Standard"
	case CommissioningFlowUserIntent:
		return "UserIntent"
	case CommissioningFlowCustom:
		return "Custom"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ParseCommissioningFlow accepts "standard", "userintent", "custom" or 0-2.
func ParseCommissioningFlow(s string) (CommissioningFlow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "0":
		return CommissioningFlowStandard, nil
	case "userintent", "user-intent", "1":
		return CommissioningFlowUserIntent, nil
	case "custom", "2":
		return CommissioningFlowCustom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCommissioningFlow, s)
}

// SetupPayload holds the commissioning fields shared by the QR code and the
// manual pairing code. Encoders are pure functions of these fields.
type SetupPayload struct {
	// Discriminator for device discovery.
	Discriminator Discriminator

	// Passcode is the 27-bit setup PIN code.
	Passcode uint32

	// DiscoveryCapabilities indicates supported discovery methods.
	// Manual codes do not carry it; parsed manual codes get the default.
	DiscoveryCapabilities DiscoveryCapabilities

	// CommissioningFlow indicates how the device enters pairing mode.
	CommissioningFlow CommissioningFlow

	// VendorID is the 16-bit vendor identifier.
	VendorID uint16

	// ProductID is the 16-bit product identifier.
	ProductID uint16
}

// DefaultDiscoveryCapabilities is used by NewSetupPayload.
const DefaultDiscoveryCapabilities = DiscoveryCapabilityOnNetwork

// NewSetupPayload builds a payload from a 12-bit discriminator and a
// passcode, with on-network discovery, standard flow and zero VID/PID.
// Panics if discriminator exceeds 12 bits.
func NewSetupPayload(discriminator uint16, passcode uint32) *SetupPayload {
	return &SetupPayload{
		Discriminator:         NewLongDiscriminator(discriminator),
		Passcode:              passcode,
		DiscoveryCapabilities: DefaultDiscoveryCapabilities,
		CommissioningFlow:     CommissioningFlowStandard,
	}
}

// HasVendorProduct reports whether VID/PID are carried by the manual code.
// They are only meaningful for non-standard flows.
func (p *SetupPayload) HasVendorProduct() bool {
	return p.CommissioningFlow != CommissioningFlowStandard
}

// Invalid passcodes per Matter Section 5.1.7.1
var invalidPasscodes = map[uint32]bool{
	0:        true,
	11111111: true,
	22222222: true,
	33333333: true,
	44444444: true,
	55555555: true,
	66666666: true,
	77777777: true,
	88888888: true,
	99999999: true,
	12345678: true,
	87654321: true,
}

// Passcode constraints (Section 5.1.7)
const (
	PasscodeMin = 1
	PasscodeMax = 99999998
)

// Validation errors
var (
	ErrInvalidPasscode              = errors.New("payload: invalid passcode")
	ErrInvalidDiscriminator         = errors.New("payload: invalid discriminator")
	ErrInvalidCommissioningFlow     = errors.New("payload: invalid commissioning flow")
	ErrInvalidDiscoveryCapabilities = errors.New("payload: invalid discovery capabilities")
)

// ValidatePasscode applies the Matter passcode rules (range and reserved
// values). The encoders do not call it; devices in the field do ship test
// passcodes and those must still round-trip.
func ValidatePasscode(passcode uint32) error {
	if passcode < PasscodeMin || passcode > PasscodeMax {
		return ErrInvalidPasscode
	}
	if invalidPasscodes[passcode] {
		return ErrInvalidPasscode
	}
	return nil
}

// Validate checks the fields against the Matter rules for producing a
// payload: valid passcode, known flow, known discovery bits.
func (p *SetupPayload) Validate() error {
	if err := ValidatePasscode(p.Passcode); err != nil {
		return err
	}
	if p.CommissioningFlow > CommissioningFlowCustom {
		return ErrInvalidCommissioningFlow
	}
	if p.DiscoveryCapabilities&^knownDiscoveryBits != 0 {
		return ErrInvalidDiscoveryCapabilities
	}
	return nil
}

// SupportsOnNetworkDiscovery returns true if the device supports IP discovery.
func (p *SetupPayload) SupportsOnNetworkDiscovery() bool {
	return p.DiscoveryCapabilities.Has(DiscoveryCapabilityOnNetwork)
}

// SupportsBLE returns true if the device supports BLE discovery.
func (p *SetupPayload) SupportsBLE() bool {
	return p.DiscoveryCapabilities.Has(DiscoveryCapabilityBLE)
}

// PrettyString renders a human readable summary of the payload.
func (p *SetupPayload) PrettyString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Flow:                 %s\n", p.CommissioningFlow)
	fmt.Fprintf(&sb, "Passcode:             %d\n", p.Passcode)
	fmt.Fprintf(&sb, "Short discriminator:  %d\n", p.Discriminator.Short())
	fmt.Fprintf(&sb, "Long discriminator:   %d\n", p.Discriminator.Long())
	fmt.Fprintf(&sb, "Discovery:            %s\n", p.DiscoveryCapabilities.Name())
	fmt.Fprintf(&sb, "Vendor ID:            %d (0x%04X)\n", p.VendorID, p.VendorID)
	fmt.Fprintf(&sb, "Product ID:           %d (0x%04X)\n", p.ProductID, p.ProductID)
	return sb.String()
}
