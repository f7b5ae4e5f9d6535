package factorydata

import (
	"fmt"
	"reflect"

	fxcbor "github.com/fxamacker/cbor/v2"

	"github.com/backkem/matter-setup/pkg/cbor"
	"github.com/backkem/matter-setup/pkg/commissioning/payload"
	"github.com/backkem/matter-setup/pkg/ihex"
)

// decMode decodes factory data maps with text keys and plain Go values.
var decMode fxcbor.DecMode

func init() {
	decOpts := fxcbor.DecOptions{
		DupMapKey:      fxcbor.DupMapKeyQuiet, // last wins, as the fallback reader does
		IndefLength:    fxcbor.IndefLengthAllowed,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}
	var err error
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// FromCBORHex loads a factory data partition image in Intel HEX format and
// builds its setup payload.
func (l *Loader) FromCBORHex(path string) (*payload.SetupPayload, error) {
	r, err := l.RecordFromCBORHex(path)
	if err != nil {
		return nil, err
	}
	return l.Payload(r), nil
}

// RecordFromCBORHex loads a factory data partition image in Intel HEX
// format.
func (l *Loader) RecordFromCBORHex(path string) (*Record, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}

	image, err := ihex.Extract(string(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fields, err := l.decodeCBORMap(image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r, err := ParseRecord(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// decodeCBORMap decodes the record at the start of image. Images with
// framing in front of the record are handed to the scanning reader.
func (l *Loader) decodeCBORMap(image []byte) (map[string]any, error) {
	var fields map[string]any
	_, err := decMode.UnmarshalFirst(image, &fields)
	if err == nil && fields != nil {
		return fields, nil
	}
	if l.log != nil {
		l.log.Debugf("CBOR record not at offset 0 (%v), scanning", err)
	}

	m, off, scanErr := cbor.ScanMap(image)
	if scanErr != nil {
		return nil, scanErr
	}
	if l.log != nil {
		l.log.Debugf("CBOR record found at offset %d", off)
	}
	return cbor.ToGo(m).(map[string]any), nil
}
