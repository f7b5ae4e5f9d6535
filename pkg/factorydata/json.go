package factorydata

import (
	"encoding/json"
	"fmt"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
)

// FromJSON loads a factory data JSON file and builds its setup payload.
func (l *Loader) FromJSON(path string) (*payload.SetupPayload, error) {
	r, err := l.RecordFromJSON(path)
	if err != nil {
		return nil, err
	}
	return l.Payload(r), nil
}

// RecordFromJSON loads a factory data JSON file.
func (l *Loader) RecordFromJSON(path string) (*Record, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	fields, err := decodeJSONObject(data)
	if err != nil {
		return nil, err
	}

	r, err := ParseRecord(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.log != nil {
		l.log.Debugf("loaded %s: discriminator=%d vendor=%d product=%d", path, r.Discriminator, r.VendorID, r.ProductID)
	}
	return r, nil
}

func decodeJSONObject(data []byte) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidJSON)
	}
	return fields, nil
}
