package cbor

// MaxScanOffset bounds how far into a buffer Scan looks for the first value.
const MaxScanOffset = 100

// Scan finds the first offset in buf at which a complete data item decodes
// and returns that item together with the offset.
//
// Factory data partitions carry framing or padding in front of the CBOR
// record, so offsets 0 up to (but excluding) min(len(buf)-1, MaxScanOffset)
// are tried in turn. This is a heuristic for those files, not a stream
// parser.
func Scan(buf []byte) (Value, int, error) {
	return scan(buf, func(Value) bool { return true })
}

// ScanMap is Scan restricted to top-level maps. Leading bytes that happen
// to decode as some other item, such as a 0x00 pad read as the integer 0,
// are skipped.
func ScanMap(buf []byte) (Map, int, error) {
	v, off, err := scan(buf, func(v Value) bool {
		_, ok := v.(Map)
		return ok
	})
	if err != nil {
		return nil, 0, err
	}
	return v.(Map), off, nil
}

func scan(buf []byte, accept func(Value) bool) (Value, int, error) {
	limit := min(len(buf)-1, MaxScanOffset)
	for off := 0; off < limit; off++ {
		v, _, err := DecodeAt(buf, off)
		if err == nil && accept(v) {
			return v, off, nil
		}
	}
	return nil, 0, ErrNoCBORData
}
