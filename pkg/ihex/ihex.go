// Package ihex reassembles a flat binary image from Intel HEX text.
//
// Only data (00) and extended linear address (04) records affect the
// result. End-of-file and the segment address records are accepted and
// ignored.
package ihex

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Record types
const (
	RecordData                   = 0x00
	RecordEndOfFile              = 0x01
	RecordExtendedSegmentAddress = 0x02
	RecordStartSegmentAddress    = 0x03
	RecordExtendedLinearAddress  = 0x04
	RecordStartLinearAddress     = 0x05
)

var (
	// ErrMalformedRecord is returned for a ':' line that cannot be decoded.
	ErrMalformedRecord = errors.New("ihex: malformed record")

	// ErrNoDataSegments is returned by Extract when the input holds no data records.
	ErrNoDataSegments = errors.New("ihex: no data segments found")

	// ErrImageTooLarge is returned by Extract when the segments span more
	// than MaxImageSize bytes.
	ErrImageTooLarge = errors.New("ihex: image too large")
)

// MaxImageSize bounds the buffer Extract allocates.
const MaxImageSize = 64 << 20

// Segment is the payload of one data record placed at its absolute address.
type Segment struct {
	Address uint32
	Data    []byte
}

// End returns the address one past the last byte of the segment.
func (s Segment) End() uint64 {
	return uint64(s.Address) + uint64(len(s.Data))
}

// Parse returns the data segments of text in file order. Lines that do not
// start with ':' are skipped. Checksums are not verified.
func Parse(text string) ([]Segment, error) {
	var (
		segments []Segment
		base     uint32
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 1024), 1<<20)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, ":") {
			continue
		}

		raw, err := hex.DecodeString(line[1:])
		if err != nil || len(raw) < 4 {
			return nil, fmt.Errorf("%w: line %d", ErrMalformedRecord, lineNo)
		}
		count := int(raw[0])
		if len(raw) < 4+count {
			return nil, fmt.Errorf("%w: line %d: %d data bytes declared, %d present",
				ErrMalformedRecord, lineNo, count, len(raw)-4)
		}
		address := uint32(raw[1])<<8 | uint32(raw[2])
		data := raw[4 : 4+count]

		switch raw[3] {
		case RecordData:
			segments = append(segments, Segment{Address: base + address, Data: data})
		case RecordExtendedLinearAddress:
			if count < 2 {
				return nil, fmt.Errorf("%w: line %d: short extended linear address", ErrMalformedRecord, lineNo)
			}
			base = (uint32(data[0])<<8 | uint32(data[1])) << 16
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return segments, nil
}

// Extract parses text and lays its segments out in one buffer spanning the
// lowest start address to the highest end address. Uncovered bytes are zero.
func Extract(text string) ([]byte, error) {
	data, _, err := ExtractImage(text)
	return data, err
}

// ExtractImage is Extract that also returns the address of the first byte.
func ExtractImage(text string) ([]byte, uint32, error) {
	segments, err := Parse(text)
	if err != nil {
		return nil, 0, err
	}
	if len(segments) == 0 {
		return nil, 0, ErrNoDataSegments
	}

	slices.SortStableFunc(segments, func(a, b Segment) int {
		switch {
		case a.Address < b.Address:
			return -1
		case a.Address > b.Address:
			return 1
		}
		return 0
	})

	start := segments[0].Address
	var end uint64
	for _, s := range segments {
		end = max(end, s.End())
	}

	if end-uint64(start) > MaxImageSize {
		return nil, 0, fmt.Errorf("%w: %d bytes from 0x%08X", ErrImageTooLarge, end-uint64(start), start)
	}

	out := make([]byte, end-uint64(start))
	for _, s := range segments {
		copy(out[s.Address-start:], s.Data)
	}
	return out, start, nil
}
