package factorydata

import (
	"regexp"
	"strconv"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
)

var (
	logDiscriminatorRe = regexp.MustCompile(`Setup Discriminator[^:]*:\s*(\d+)`)
	logPasscodeRe      = regexp.MustCompile(`Setup Pin Code[^:]*:\s*(\d+)`)
	logVendorIDRe      = regexp.MustCompile(`Vendor Id:\s*(\d+)`)
	logProductIDRe     = regexp.MustCompile(`Product Id:\s*(\d+)`)
)

// FromLogs extracts the setup fields a device prints at boot, e.g.
//
//	Setup Discriminator (0xFFFF for UNKNOWN/ERROR): 3840 (0xF00)
//	Setup Pin Code (0 for UNKNOWN/ERROR): 20202021
//	Vendor Id: 65521 (0xFFF1)
//	Product Id: 32774 (0x8006)
//
// The first match of each line wins. Missing vendor and product IDs are 0.
func (l *Loader) FromLogs(logs string) (*payload.SetupPayload, error) {
	disc := matchUint(logDiscriminatorRe, logs, 16)
	pin := matchUint(logPasscodeRe, logs, 32)
	if disc == 0 || disc > 0xFFF {
		return nil, ErrLogDiscriminatorNotFound
	}
	if pin == 0 || pin > payload.PasscodeMask {
		return nil, ErrLogPasscodeNotFound
	}

	r := &Record{
		Discriminator: uint16(disc),
		Passcode:      uint32(pin),
		VendorID:      uint16(matchUint(logVendorIDRe, logs, 16)),
		ProductID:     uint16(matchUint(logProductIDRe, logs, 16)),
	}
	if l.log != nil {
		l.log.Debugf("parsed logs: discriminator=%d vendor=%d product=%d", r.Discriminator, r.VendorID, r.ProductID)
	}
	return l.Payload(r), nil
}

// matchUint returns the first capture of re in s, or 0 when there is no
// match or the number does not fit in bits.
func matchUint(re *regexp.Regexp, s string, bits int) uint64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseUint(m[1], 10, bits)
	if err != nil {
		return 0
	}
	return n
}
