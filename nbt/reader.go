// Package nbt decodes Minecraft's Named Binary Tag format: a self-describing,
// recursive tree of typed values read from an already-decompressed stream.
package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader decodes big-endian primitives from an already-decompressed byte
// source, wrapping an io.Reader as a single reusable type.
type Reader struct {
	r     io.Reader
	buf   [8]byte
	nread int64
}

// NewReader wraps r for big-endian primitive decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// BytesRead returns the number of bytes consumed so far. It has no effect on
// correctness; it exists so a caller can bound reads if it wants to.
func (d *Reader) BytesRead() int64 {
	return d.nread
}

// Bytes reads exactly n bytes, failing with ErrUnexpectedEOF otherwise.
func (d *Reader) Bytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, wrapEOF(err)
	}
	d.nread += int64(n)
	return buf, nil
}

func (d *Reader) fixed(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.buf[:n]); err != nil {
		return nil, wrapEOF(err)
	}
	d.nread += int64(n)
	return d.buf[:n], nil
}

// Uint8 reads a single byte.
func (d *Reader) Uint8() (uint8, error) {
	b, err := d.fixed(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads a signed byte.
func (d *Reader) Int8() (int8, error) {
	v, err := d.Uint8()
	return int8(v), err
}

// Int16 reads a big-endian 16-bit signed integer.
func (d *Reader) Int16() (int16, error) {
	b, err := d.fixed(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// Uint16 reads a big-endian 16-bit unsigned integer.
func (d *Reader) Uint16() (uint16, error) {
	b, err := d.fixed(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Int32 reads a big-endian 32-bit signed integer.
func (d *Reader) Int32() (int32, error) {
	b, err := d.fixed(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Int64 reads a big-endian 64-bit signed integer.
func (d *Reader) Int64() (int64, error) {
	b, err := d.fixed(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Float32 reads a big-endian IEEE 754 single-precision float by
// reinterpreting the raw bit pattern, not by an integer-to-float cast.
func (d *Reader) Float32() (float32, error) {
	b, err := d.fixed(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// Float64 reads a big-endian IEEE 754 double-precision float.
func (d *Reader) Float64() (float64, error) {
	b, err := d.fixed(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func wrapEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %v", ErrUnderlyingIO, err)
}
