package payload

import (
	"strings"

	"github.com/pion/logging"
)

// DecoderConfig configures a Decoder.
type DecoderConfig struct {
	// LoggerFactory for creating loggers. If nil, rejections are not logged.
	LoggerFactory logging.LoggerFactory
}

// Decoder parses user-supplied onboarding codes.
//
// QR code failures are returned as errors. Manual pairing codes are typed
// in by people and retried, so a rejected manual code is logged and
// reported as a nil payload instead.
type Decoder struct {
	log logging.LeveledLogger
}

// NewDecoder creates a Decoder.
func NewDecoder(config DecoderConfig) *Decoder {
	d := &Decoder{}
	if config.LoggerFactory != nil {
		d.log = config.LoggerFactory.NewLogger("payload")
	}
	return d
}

// Parse decodes a QR code ("MT:" prefix) or a manual pairing code.
//
// For manual codes a nil payload with a nil error means the code was
// rejected; the reason has been logged.
func (d *Decoder) Parse(code string) (*SetupPayload, error) {
	if strings.HasPrefix(code, QRCodePrefix) {
		return d.ParseQRCode(code)
	}
	return d.ParseManualCode(code), nil
}

// ParseQRCode decodes a QR code string.
func (d *Decoder) ParseQRCode(code string) (*SetupPayload, error) {
	p, err := ParseQRCode(code)
	if err != nil {
		return nil, err
	}
	if d.log != nil {
		d.log.Debugf("parsed QR code: discriminator=%d flow=%s", p.Discriminator.Long(), p.CommissioningFlow)
	}
	return p, nil
}

// ParseManualCode decodes a manual pairing code, returning nil if it is
// rejected.
func (d *Decoder) ParseManualCode(code string) *SetupPayload {
	p, err := DecodeManualCode(code)
	if err != nil {
		if d.log != nil {
			d.log.Warnf("rejected manual pairing code: %v", err)
		}
		return nil
	}
	if d.log != nil {
		d.log.Debugf("parsed manual code: discriminator=%d flow=%s", p.Discriminator.Short(), p.CommissioningFlow)
	}
	return p
}
