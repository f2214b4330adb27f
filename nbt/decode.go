package nbt

import (
	"errors"
	"io"
)

// Decode reads r (already decompressed) and returns the ordered list of root
// tags, or a typed error. In practice there is exactly one root tag, a
// Compound, but the format allows any number.
//
// readPayload calls itself recursively for nested Compounds and Lists; the Go
// call stack plays the role an explicit stack of open containers would play
// in a language without recursion-friendly garbage collection, and a
// partially-built tree is simply dropped on error instead of requiring
// manual teardown.
func Decode(r io.Reader) ([]Tag, error) {
	d := NewReader(r)
	var roots []Tag
	for {
		id, err := d.Uint8()
		if err != nil {
			if errors.Is(err, ErrUnexpectedEOF) {
				// Clean end of stream between root tags.
				break
			}
			return nil, err
		}
		if Kind(id) == KindEnd {
			return nil, ErrMismatchedEnd
		}
		tag, err := readNamedTag(d, Kind(id))
		if err != nil {
			return nil, err
		}
		roots = append(roots, tag)
	}
	return roots, nil
}

// readNamedTag reads a tag's name followed by its payload.
func readNamedTag(d *Reader, kind Kind) (Tag, error) {
	name, err := readName(d)
	if err != nil {
		return Tag{}, err
	}
	tag, err := readPayload(d, kind)
	if err != nil {
		return Tag{}, err
	}
	tag.Name = name
	return tag, nil
}

// readName reads a length-prefixed UTF-8 string: a big-endian 16-bit length
// (read as unsigned) followed by that many bytes. Invalid UTF-8 is not an error here — strings are treated
// as opaque bytes and kept as-is.
func readName(d *Reader) (string, error) {
	n, err := d.Uint16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := d.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readPayload reads the payload only for the given kind: no id byte, no
// name. This is used both for named tags (after the name has been read) and
// for List elements, which carry no id and no name of their own.
func readPayload(d *Reader, kind Kind) (Tag, error) {
	switch kind {
	case KindByte:
		v, err := d.Int8()
		return Tag{Kind: kind, Byte: v}, err
	case KindShort:
		v, err := d.Int16()
		return Tag{Kind: kind, Short: v}, err
	case KindInt:
		v, err := d.Int32()
		return Tag{Kind: kind, Int: v}, err
	case KindLong:
		v, err := d.Int64()
		return Tag{Kind: kind, Long: v}, err
	case KindFloat:
		v, err := d.Float32()
		return Tag{Kind: kind, Float: v}, err
	case KindDouble:
		v, err := d.Float64()
		return Tag{Kind: kind, Double: v}, err
	case KindString:
		return readString(d)
	case KindByteArray:
		return readByteArray(d)
	case KindIntArray:
		return readIntArray(d)
	case KindList:
		return readList(d)
	case KindCompound:
		return readCompound(d)
	default:
		return Tag{}, &UnknownTagError{ID: byte(kind)}
	}
}

func readString(d *Reader) (Tag, error) {
	n, err := d.Uint16()
	if err != nil {
		return Tag{}, err
	}
	if n == 0 {
		return Tag{Kind: KindString, Str: ""}, nil
	}
	b, err := d.Bytes(int(n))
	if err != nil {
		return Tag{}, err
	}
	return Tag{Kind: KindString, Str: string(b)}, nil
}

func readByteArray(d *Reader) (Tag, error) {
	n, err := d.Int32()
	if err != nil {
		return Tag{}, err
	}
	if n < 0 {
		return Tag{}, &MalformedLengthError{Length: n, Field: "ByteArray"}
	}
	if n == 0 {
		return Tag{Kind: KindByteArray, Bytes: []byte{}}, nil
	}
	b, err := d.Bytes(int(n))
	if err != nil {
		return Tag{}, err
	}
	return Tag{Kind: KindByteArray, Bytes: b}, nil
}

func readIntArray(d *Reader) (Tag, error) {
	n, err := d.Int32()
	if err != nil {
		return Tag{}, err
	}
	if n < 0 {
		return Tag{}, &MalformedLengthError{Length: n, Field: "IntArray"}
	}
	ints := make([]int32, n)
	for i := range ints {
		v, err := d.Int32()
		if err != nil {
			return Tag{}, err
		}
		ints[i] = v
	}
	return Tag{Kind: KindIntArray, Ints: ints}, nil
}

func readList(d *Reader) (Tag, error) {
	elemIDRaw, err := d.Uint8()
	if err != nil {
		return Tag{}, err
	}
	count, err := d.Int32()
	if err != nil {
		return Tag{}, err
	}
	elemKind := Kind(elemIDRaw)
	if count <= 0 {
		// A non-positive count yields an empty list regardless of the
		// declared element kind; a count of 0 with element kind End is the
		// conventional empty-list encoding.
		return Tag{Kind: KindList, ElemKind: elemKind, List: nil}, nil
	}
	children := make([]Tag, count)
	for i := int32(0); i < count; i++ {
		child, err := readPayload(d, elemKind)
		if err != nil {
			return Tag{}, err
		}
		children[i] = child
	}
	return Tag{Kind: KindList, ElemKind: elemKind, List: children}, nil
}

func readCompound(d *Reader) (Tag, error) {
	var children []Tag
	for {
		id, err := d.Uint8()
		if err != nil {
			return Tag{}, err
		}
		if Kind(id) == KindEnd {
			break
		}
		child, err := readNamedTag(d, Kind(id))
		if err != nil {
			return Tag{}, err
		}
		children = append(children, child)
	}
	return Tag{Kind: KindCompound, Compound: children}, nil
}
