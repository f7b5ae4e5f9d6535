package ihex

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record formats one Intel HEX line with a valid checksum.
func record(typ byte, addr uint16, data []byte) string {
	raw := append([]byte{byte(len(data)), byte(addr >> 8), byte(addr), typ}, data...)
	var sum byte
	for _, b := range raw {
		sum += b
	}
	return fmt.Sprintf(":%X%02X", raw, -sum)
}

func TestRecordHelper(t *testing.T) {
	// Canonical end-of-file record.
	assert.Equal(t, ":00000001FF", record(RecordEndOfFile, 0, nil))
}

func TestExtract(t *testing.T) {
	text := strings.Join([]string{
		record(RecordExtendedLinearAddress, 0, []byte{0x00, 0x0F}),
		record(RecordData, 0x0010, []byte{0x04, 0x05}),
		record(RecordData, 0x0000, []byte{0x01, 0x02, 0x03}),
		record(RecordEndOfFile, 0, nil),
	}, "\n")

	data, base, err := ExtractImage(text)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x000F0000), base)

	want := make([]byte, 0x12)
	copy(want, []byte{0x01, 0x02, 0x03})
	want[0x10], want[0x11] = 0x04, 0x05
	assert.Equal(t, want, data)

	flat, err := Extract(text)
	require.NoError(t, err)
	assert.Equal(t, want, flat)
}

func TestExtractAcrossLinearBases(t *testing.T) {
	text := strings.Join([]string{
		record(RecordExtendedLinearAddress, 0, []byte{0x00, 0x01}),
		record(RecordData, 0xFFFE, []byte{0xAA, 0xBB}),
		record(RecordExtendedLinearAddress, 0, []byte{0x00, 0x02}),
		record(RecordData, 0x0000, []byte{0xCC}),
	}, "\r\n")

	data, base, err := ExtractImage(text)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0001FFFE), base)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, data)
}

func TestParseSkipsNonRecordLines(t *testing.T) {
	text := "# factory data\n\n   \n" +
		record(RecordData, 0x0100, []byte{0xDE, 0xAD}) + "\n" +
		"garbage\n" +
		record(RecordStartLinearAddress, 0, []byte{0, 0, 0, 0}) + "\n" +
		record(RecordExtendedSegmentAddress, 0, []byte{0x10, 0x00}) + "\n"

	segments, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, Segment{Address: 0x0100, Data: []byte{0xDE, 0xAD}}, segments[0])
	assert.Equal(t, uint64(0x0102), segments[0].End())
}

func TestOverlappingSegments(t *testing.T) {
	text := record(RecordData, 0, []byte{1, 2, 3, 4}) + "\n" +
		record(RecordData, 2, []byte{9})

	data, err := Extract(text)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 9, 4}, data)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", ErrNoDataSegments},
		{"eof only", record(RecordEndOfFile, 0, nil), ErrNoDataSegments},
		{"address only", record(RecordExtendedLinearAddress, 0, []byte{0, 1}), ErrNoDataSegments},
		{"bad hex", ":10zz000000", ErrMalformedRecord},
		{"odd length", ":0000000", ErrMalformedRecord},
		{"too short", ":0000", ErrMalformedRecord},
		{"missing data", ":04000000AABB", ErrMalformedRecord},
		{"short linear address", record(RecordExtendedLinearAddress, 0, []byte{1}), ErrMalformedRecord},
		{
			"image too large",
			record(RecordData, 0, []byte{1}) + "\n" +
				record(RecordExtendedLinearAddress, 0, []byte{0x10, 0x00}) + "\n" +
				record(RecordData, 0, []byte{2}),
			ErrImageTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMalformedRecordReportsLine(t *testing.T) {
	text := record(RecordData, 0, []byte{1}) + "\n\n:XYZ\n"
	_, err := Parse(text)
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 3")
}
