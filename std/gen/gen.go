// Package gen produces random field values and compares decoded ones for
// round-trip tests of generated codecs.
package gen

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
)

// MaxBytes bounds generated byte strings.
const MaxBytes = 64

// region Generators

// GenerateInt32 covers the whole signed range, including negatives.
func GenerateInt32(r *rand.Rand, _ int) int32 {
	return int32(r.Uint32())
}

func GenerateUint32(r *rand.Rand, _ int) uint32 {
	return r.Uint32()
}

// GenerateBytes returns an empty buffer about one time in four.
func GenerateBytes(r *rand.Rand, _ int) []byte {
	if r.Intn(4) == 0 {
		return []byte{}
	}
	return RandomBytes(r, 1+r.Intn(MaxBytes))
}

//endregion

// Boundary values every integer codec must survive.
var (
	Int32Edges  = []int32{0, 1, -1, 127, 128, -32, -33, 255, 256, math.MaxInt16, math.MinInt16, math.MaxInt32, math.MinInt32}
	Uint32Edges = []uint32{0, 1, 127, 128, 255, 256, math.MaxUint16, math.MaxUint16 + 1, math.MaxUint32}
)

func RandomBytes(r *rand.Rand, length int) []byte {
	b := make([]byte, length)
	r.Read(b)
	return b
}

// region Comparers

func CompareField(name string, cmp func() error) error {
	if err := cmp(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func ComparePrimitive[T comparable](a, b T) error {
	if a != b {
		return fmt.Errorf("mismatch: %v != %v", a, b)
	}
	return nil
}

// CompareBytes treats nil and empty as equal: decoders return nil for
// zero-length strings.
func CompareBytes(a, b []byte) error {
	if !bytes.Equal(a, b) {
		return fmt.Errorf("mismatch: %x != %x", a, b)
	}
	return nil
}

//endregion
