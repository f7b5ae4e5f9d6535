package factorydata

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
)

// Factory data keys
const (
	KeyDiscriminator  = "discriminator"
	KeyPasscode       = "passcode"
	KeyVendorID       = "vendor_id"
	KeyProductID      = "product_id"
	KeySpake2It       = "spake2_it"
	KeySpake2Salt     = "spake2_salt"
	KeySpake2Verifier = "spake2_verifier"
	KeySerialNumber   = "sn"
	KeyDate           = "date"
	KeyHWVersion      = "hw_ver"
	KeyHWVersionStr   = "hw_ver_str"
	KeyVendorName     = "vendor_name"
	KeyProductName    = "product_name"
)

// hexPrefix marks byte fields stored as hex text in factory data JSON.
const hexPrefix = "hex:"

// Record is a device factory data record. Only Discriminator and Passcode
// are required; the SPAKE2+ fields are set when the record carries them.
type Record struct {
	Discriminator uint16 `json:"discriminator" yaml:"discriminator"`
	Passcode      uint32 `json:"passcode" yaml:"passcode"`
	VendorID      uint16 `json:"vendor_id" yaml:"vendor_id"`
	ProductID     uint16 `json:"product_id" yaml:"product_id"`

	Spake2Iterations uint32 `json:"spake2_it,omitempty" yaml:"spake2_it,omitempty"`
	Spake2Salt       []byte `json:"spake2_salt,omitempty" yaml:"spake2_salt,omitempty"`
	Spake2Verifier   []byte `json:"spake2_verifier,omitempty" yaml:"spake2_verifier,omitempty"`

	SerialNumber       string `json:"sn,omitempty" yaml:"sn,omitempty"`
	ManufacturingDate  string `json:"date,omitempty" yaml:"date,omitempty"`
	HardwareVersion    uint16 `json:"hw_ver,omitempty" yaml:"hw_ver,omitempty"`
	HardwareVersionStr string `json:"hw_ver_str,omitempty" yaml:"hw_ver_str,omitempty"`
	VendorName         string `json:"vendor_name,omitempty" yaml:"vendor_name,omitempty"`
	ProductName        string `json:"product_name,omitempty" yaml:"product_name,omitempty"`
}

// ParseRecord builds a Record from decoded JSON or CBOR fields.
//
// Numeric fields may be numbers or numeric strings (decimal, or hex with a
// 0x prefix). Discriminator and passcode are required and must be non-zero;
// vendor and product IDs fall back to 0 when absent or not numeric.
func ParseRecord(fields map[string]any) (*Record, error) {
	raw, ok := fields[KeyDiscriminator]
	if !ok || raw == nil {
		return nil, ErrMissingDiscriminator
	}
	disc, ok := toUint(raw)
	if !ok || disc == 0 || disc > 0xFFF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDiscriminator, raw)
	}

	raw, ok = fields[KeyPasscode]
	if !ok || raw == nil {
		return nil, ErrMissingPasscode
	}
	pin, ok := toUint(raw)
	if !ok || pin == 0 || pin > payload.PasscodeMask {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPasscode, raw)
	}

	r := &Record{
		Discriminator: uint16(disc),
		Passcode:      uint32(pin),
		VendorID:      uint16(optionalUint(fields, KeyVendorID, math.MaxUint16)),
		ProductID:     uint16(optionalUint(fields, KeyProductID, math.MaxUint16)),

		Spake2Iterations: uint32(optionalUint(fields, KeySpake2It, math.MaxUint32)),
		HardwareVersion:  uint16(optionalUint(fields, KeyHWVersion, math.MaxUint16)),

		SerialNumber:       optionalString(fields, KeySerialNumber),
		ManufacturingDate:  optionalString(fields, KeyDate),
		HardwareVersionStr: optionalString(fields, KeyHWVersionStr),
		VendorName:         optionalString(fields, KeyVendorName),
		ProductName:        optionalString(fields, KeyProductName),
	}

	var err error
	if r.Spake2Salt, err = optionalBytes(fields, KeySpake2Salt); err != nil {
		return nil, err
	}
	if r.Spake2Verifier, err = optionalBytes(fields, KeySpake2Verifier); err != nil {
		return nil, err
	}

	return r, nil
}

// toUint accepts the shapes numbers take after JSON or CBOR decoding.
func toUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		return uint64(n), n >= 0
	case int:
		return uint64(n), n >= 0
	case float64:
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint32 {
			return 0, false
		}
		return uint64(n), true
	case json.Number:
		return parseUint(string(n))
	case string:
		return parseUint(n)
	}
	return 0, false
}

func parseUint(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = rest, 16
	}
	n, err := strconv.ParseUint(s, base, 64)
	return n, err == nil
}

func optionalUint(fields map[string]any, key string, limit uint64) uint64 {
	n, ok := toUint(fields[key])
	if !ok || n > limit {
		return 0
	}
	return n
}

func optionalString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// optionalBytes decodes a byte field stored as CBOR bytes, "hex:" text or
// standard base64 text.
func optionalBytes(fields map[string]any, key string) ([]byte, error) {
	switch v := fields[key].(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		if h, ok := strings.CutPrefix(v, hexPrefix); ok {
			b, err := hex.DecodeString(h)
			if err != nil {
				return nil, fmt.Errorf("factorydata: %s: %w", key, err)
			}
			return b, nil
		}
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("factorydata: %s: %w", key, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("factorydata: %s: unsupported type %T", key, fields[key])
}
