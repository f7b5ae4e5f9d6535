// Package factorydata builds setup payloads from device provisioning
// artifacts: console logs, factory data JSON and factory data CBOR stored
// in Intel HEX images.
package factorydata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
	"github.com/pion/logging"
)

// DefaultDiscovery is used when LoaderConfig.Discovery is nil. Freshly
// provisioned devices are commissioned over BLE.
const DefaultDiscovery = payload.DiscoveryCapabilityBLE

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	// Discovery is copied into every payload. Nil means DefaultDiscovery;
	// a pointer to zero produces payloads without discovery bits.
	Discovery *payload.DiscoveryCapabilities

	// Flow is copied into every payload.
	Flow payload.CommissioningFlow

	// LoggerFactory for creating loggers. Optional.
	LoggerFactory logging.LoggerFactory
}

// Loader turns provisioning artifacts into setup payloads.
type Loader struct {
	discovery payload.DiscoveryCapabilities
	flow      payload.CommissioningFlow
	log       logging.LeveledLogger
}

// NewLoader creates a Loader.
func NewLoader(config LoaderConfig) *Loader {
	l := &Loader{
		discovery: DefaultDiscovery,
		flow:      config.Flow,
	}
	if config.Discovery != nil {
		l.discovery = *config.Discovery
	}
	if config.LoggerFactory != nil {
		l.log = config.LoggerFactory.NewLogger("factorydata")
	}
	return l
}

// Payload builds the setup payload for a record using the loader's
// discovery capabilities and commissioning flow.
func (l *Loader) Payload(r *Record) *payload.SetupPayload {
	return &payload.SetupPayload{
		Discriminator:         payload.NewLongDiscriminator(r.Discriminator),
		Passcode:              r.Passcode,
		DiscoveryCapabilities: l.discovery,
		CommissioningFlow:     l.flow,
		VendorID:              r.VendorID,
		ProductID:             r.ProductID,
	}
}

// readFile maps a missing file to ErrFileNotFound and returns other I/O
// errors unchanged.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return data, err
}
