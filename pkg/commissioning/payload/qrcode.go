package payload

import (
	"errors"
	"strings"
)

// QR code constants
const (
	// QRCodePrefix is the prefix for all Matter QR codes.
	QRCodePrefix = "MT:"

	// PayloadDelimiter separates multiple payloads in concatenated QR codes.
	PayloadDelimiter = '*'
)

// Bit field lengths, in the order they are packed from bit 0 upwards.
const (
	versionFieldBits           = 3
	vendorIDFieldBits          = 16
	productIDFieldBits         = 16
	commissioningFlowFieldBits = 2
	rendezvousInfoFieldBits    = 8
	discriminatorFieldBits     = DiscriminatorLongBits
	passcodeFieldBits          = PasscodeBits
	paddingFieldBits           = 4

	// Total: 3+16+16+2+8+12+27+4 = 88 bits = 11 bytes
	totalPayloadBits  = 88
	totalPayloadBytes = totalPayloadBits / 8
)

// QR code errors
var (
	ErrQRCodeInvalidPrefix = errors.New("qrcode: invalid QR code payload format (expected MT: prefix)")
	ErrQRCodeTooShort      = errors.New("qrcode: payload too short")
	ErrQRCodeConcatenated  = errors.New("qrcode: use ParseQRCodes for concatenated QR codes")
)

// ParseQRCode decodes a Matter QR code string ("MT:" + Base38) into a
// SetupPayload. Version and padding bits are not checked.
func ParseQRCode(qrCode string) (*SetupPayload, error) {
	payloads, err := ParseQRCodes(qrCode)
	if err != nil {
		return nil, err
	}
	if len(payloads) > 1 {
		return nil, ErrQRCodeConcatenated
	}
	return payloads[0], nil
}

// ParseQRCodes decodes a QR code string that may carry several payloads
// separated by '*', as printed on multi-device packaging.
func ParseQRCodes(qrCode string) ([]*SetupPayload, error) {
	data, ok := strings.CutPrefix(qrCode, QRCodePrefix)
	if !ok {
		return nil, ErrQRCodeInvalidPrefix
	}

	var payloads []*SetupPayload
	for _, chunk := range strings.Split(data, string(PayloadDelimiter)) {
		if chunk == "" {
			continue
		}
		p, err := parseBase38Payload(chunk)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, p)
	}
	if len(payloads) == 0 {
		return nil, ErrQRCodeTooShort
	}

	return payloads, nil
}

func parseBase38Payload(base38 string) (*SetupPayload, error) {
	data, err := Base38Decode(base38)
	if err != nil {
		return nil, err
	}
	if len(data) < totalPayloadBytes {
		return nil, ErrQRCodeTooShort
	}

	r := &bitReader{data: data[:totalPayloadBytes]}
	r.skip(versionFieldBits)
	vendorID := r.readBits(vendorIDFieldBits)
	productID := r.readBits(productIDFieldBits)
	flow := r.readBits(commissioningFlowFieldBits)
	rendezvous := r.readBits(rendezvousInfoFieldBits)
	discriminator := r.readBits(discriminatorFieldBits)
	passcode := r.readBits(passcodeFieldBits)

	return &SetupPayload{
		Discriminator:         NewLongDiscriminator(uint16(discriminator)),
		Passcode:              uint32(passcode),
		DiscoveryCapabilities: DiscoveryCapabilities(rendezvous),
		CommissioningFlow:     CommissioningFlow(flow),
		VendorID:              uint16(vendorID),
		ProductID:             uint16(productID),
	}, nil
}

// EncodeQRCode encodes a SetupPayload as "MT:" + Base38.
//
// The 88-bit packing is little-endian: version (always 0) occupies bits
// 0-2 and the padding the top 4 bits. Equivalently, the fields written
// MSB-first from padding down to version, with the resulting bytes
// reversed.
func EncodeQRCode(p *SetupPayload) (string, error) {
	if p.Passcode > PasscodeMask {
		return "", ErrInvalidPasscode
	}
	if p.CommissioningFlow > CommissioningFlowCustom {
		return "", ErrInvalidCommissioningFlow
	}

	w := &bitWriter{}
	w.writeBits(0, versionFieldBits)
	w.writeBits(uint64(p.VendorID), vendorIDFieldBits)
	w.writeBits(uint64(p.ProductID), productIDFieldBits)
	w.writeBits(uint64(p.CommissioningFlow), commissioningFlowFieldBits)
	w.writeBits(uint64(p.DiscoveryCapabilities), rendezvousInfoFieldBits)
	w.writeBits(uint64(p.Discriminator.Long()), discriminatorFieldBits)
	w.writeBits(uint64(p.Passcode), passcodeFieldBits)
	w.writeBits(0, paddingFieldBits)

	return QRCodePrefix + Base38Encode(w.bytes()), nil
}

// bitReader reads bits from a byte slice, LSB of byte 0 first.
// Callers bound reads to len(data)*8.
type bitReader struct {
	data  []byte
	index int
}

func (r *bitReader) readBits(n int) uint64 {
	var value uint64
	for i := 0; i < n; i++ {
		bit := r.index + i
		if r.data[bit/8]&(1<<(bit%8)) != 0 {
			value |= 1 << i
		}
	}
	r.index += n
	return value
}

func (r *bitReader) skip(n int) {
	r.index += n
}

// bitWriter writes bits to a byte slice, LSB of byte 0 first.
type bitWriter struct {
	data  []byte
	index int
}

func (w *bitWriter) writeBits(value uint64, n int) {
	for len(w.data) < (w.index+n+7)/8 {
		w.data = append(w.data, 0)
	}

	for i := 0; i < n; i++ {
		if value&(1<<i) != 0 {
			bit := w.index + i
			w.data[bit/8] |= 1 << (bit % 8)
		}
	}

	w.index += n
}

func (w *bitWriter) bytes() []byte {
	return w.data
}
