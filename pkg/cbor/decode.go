package cbor

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Major types
const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
)

// Additional information values
const (
	infoUint8      = 24
	infoUint16     = 25
	infoUint32     = 26
	infoUint64     = 27
	infoIndefinite = 31

	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
)

// MaxDepth bounds array and map nesting.
const MaxDepth = 32

// Decode decodes one data item from the start of buf and returns it with
// the number of bytes it occupied. Trailing bytes are not an error.
func Decode(buf []byte) (Value, int, error) {
	return DecodeAt(buf, 0)
}

// DecodeAt decodes one data item starting at buf[offset].
func DecodeAt(buf []byte, offset int) (Value, int, error) {
	if offset < 0 || offset > len(buf) {
		return nil, 0, fmt.Errorf("cbor: offset %d out of range", offset)
	}
	d := &decoder{buf: buf, pos: offset}
	v, err := d.value()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos - offset, nil
}

type decoder struct {
	buf   []byte
	pos   int
	depth int
}

func (d *decoder) value() (Value, error) {
	if d.pos >= len(d.buf) {
		return nil, ErrUnexpectedEOF
	}
	initial := d.buf[d.pos]
	d.pos++
	major, info := initial>>5, initial&0x1F

	if major == majorTag {
		return nil, fmt.Errorf("%w: tag", ErrUnsupported)
	}
	if major == majorSimple {
		return d.simple(info)
	}

	arg, err := d.argument(info)
	if err != nil {
		return nil, err
	}

	switch major {
	case majorUnsigned:
		return Unsigned(arg), nil
	case majorNegative:
		return Negative(-1 - int64(arg)), nil
	case majorBytes:
		b, err := d.take(arg)
		if err != nil {
			return nil, err
		}
		return Bytes(bytes.Clone(b)), nil
	case majorText:
		b, err := d.take(arg)
		if err != nil {
			return nil, err
		}
		return Text(b), nil
	case majorArray:
		return d.array(arg)
	default:
		return d.dict(arg)
	}
}

// argument reads the inline, 1, 2 or 4 byte argument that follows the
// initial byte.
func (d *decoder) argument(info byte) (uint64, error) {
	switch {
	case info < infoUint8:
		return uint64(info), nil
	case info == infoUint8:
		b, err := d.take(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case info == infoUint16:
		b, err := d.take(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case info == infoUint32:
		b, err := d.take(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	case info == infoUint64:
		return 0, fmt.Errorf("%w: 8-byte argument", ErrUnsupported)
	case info == infoIndefinite:
		return 0, fmt.Errorf("%w: indefinite length", ErrUnsupported)
	default:
		return 0, fmt.Errorf("%w: reserved additional info %d", ErrUnsupported, info)
	}
}

func (d *decoder) simple(info byte) (Value, error) {
	switch info {
	case simpleFalse:
		return Bool(false), nil
	case simpleTrue:
		return Bool(true), nil
	case simpleNull:
		return Null{}, nil
	case simpleUndefined:
		return Undefined{}, nil
	}
	return nil, fmt.Errorf("%w: simple value or float %d", ErrUnsupported, info)
}

func (d *decoder) take(n uint64) ([]byte, error) {
	if n > uint64(len(d.buf)-d.pos) {
		return nil, ErrUnexpectedEOF
	}
	b := d.buf[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > MaxDepth {
		return ErrNestingTooDeep
	}
	return nil
}

func (d *decoder) array(n uint64) (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	// Every element takes at least one byte.
	if n > uint64(len(d.buf)-d.pos) {
		return nil, ErrUnexpectedEOF
	}
	arr := make(Array, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (d *decoder) dict(n uint64) (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	if n > uint64(len(d.buf)-d.pos)/2 {
		return nil, ErrUnexpectedEOF
	}
	m := make(Map, 0, n)
	for i := uint64(0); i < n; i++ {
		k, err := d.value()
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		m = append(m, Pair{Key: k, Value: v})
	}
	return m, nil
}
