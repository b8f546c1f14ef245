// Package mstd is the Go side of the msgpack primitive set generated code is
// written against: 32-bit integers, length-prefixed byte strings, array
// headers, and a decoded object tree addressed by position.
package mstd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrNotArray        = errors.New("object is not an array")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrType            = errors.New("unexpected object type")
)

// region Pack

func PackArray(e *msgpack.Encoder, n int) error {
	return e.EncodeArrayLen(n)
}

// PackInt32 and PackUint32 use the shortest encoding, as msgpack-c does.
func PackInt32(e *msgpack.Encoder, v int32) error {
	return e.EncodeInt(int64(v))
}

func PackUint32(e *msgpack.Encoder, v uint32) error {
	return e.EncodeUint(uint64(v))
}

// PackString writes a bin object. An empty or nil buffer still gets a
// zero-length header, never a nil object.
func PackString(e *msgpack.Encoder, b []byte) error {
	if b == nil {
		b = []byte{}
	}
	return e.EncodeBytes(b)
}

//endregion

// region Decode

// Decode reads one object tree.
func Decode(b []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	return dec.DecodeInterfaceLoose()
}

// DecodeAll reads consecutive top-level objects until b is exhausted. Group
// encodings have no array of their own, so they decode to a sequence.
func DecodeAll(b []byte) ([]any, error) {
	r := bytes.NewReader(b)
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)

	var out []any
	for r.Len() > 0 {
		v, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", len(out), err)
		}
		out = append(out, v)
	}
	return out, nil
}

//endregion

// region Object access

// ObjectAt returns element i of a decoded array. Unlike the generated C,
// which reads without checking, it reports positions past the end.
func ObjectAt(o any, i int) (any, error) {
	arr, ok := o.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotArray, o)
	}
	if i < 0 || i >= len(arr) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(arr))
	}
	return arr[i], nil
}

// U64 reads an integer object the way generated code reads .u64: signed
// values are reinterpreted, not range checked.
func U64(x any) (uint64, error) {
	switch v := x.(type) {
	case int8:
		return uint64(int64(v)), nil
	case int16:
		return uint64(int64(v)), nil
	case int32:
		return uint64(int64(v)), nil
	case int64:
		return uint64(v), nil
	case int:
		return uint64(int64(v)), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	}
	return 0, fmt.Errorf("%w: want integer, got %T", ErrType, x)
}

func UnpackInt32At(o any, i *int) (int32, error) {
	u, err := u64At(o, i)
	return int32(u), err
}

func UnpackUint32At(o any, i *int) (uint32, error) {
	u, err := u64At(o, i)
	return uint32(u), err
}

// UnpackStringAt copies the byte string at *i into a new buffer. A zero
// length yields nil with no allocation.
func UnpackStringAt(o any, i *int) ([]byte, error) {
	x, err := ObjectAt(o, *i)
	if err != nil {
		return nil, err
	}
	*i++

	var src []byte
	switch v := x.(type) {
	case []byte:
		src = v
	case string:
		src = []byte(v)
	case nil:
	default:
		return nil, fmt.Errorf("%w: want bytes, got %T", ErrType, x)
	}

	if len(src) == 0 {
		return nil, nil
	}
	buf := make([]byte, len(src))
	copy(buf, src)
	return buf, nil
}

// ElementAt returns the nested object at position i for delegation to
// another unpack function.
func ElementAt(o any, i int) (any, error) {
	return ObjectAt(o, i)
}

func u64At(o any, i *int) (uint64, error) {
	x, err := ObjectAt(o, *i)
	if err != nil {
		return 0, err
	}
	*i++
	return U64(x)
}

//endregion
