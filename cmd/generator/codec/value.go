package codec

import (
	"fmt"
	"math"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
)

// get walks p through nested values. Missing members read as nil, which
// scalars treat as zero, like a zeroed C struct.
func get(v Value, p ir.Path) any {
	var cur any = v
	for _, name := range p {
		m, ok := cur.(Value)
		if !ok {
			return nil
		}
		cur = m[name]
	}
	return cur
}

func set(v Value, p ir.Path, x any) {
	for _, name := range p[:len(p)-1] {
		next, ok := v[name].(Value)
		if !ok {
			next = Value{}
			v[name] = next
		}
		v = next
	}
	v[p[len(p)-1]] = x
}

// member returns the nested value at p, or an empty one when absent.
func member(v Value, p ir.Path) (Value, error) {
	switch m := get(v, p).(type) {
	case Value:
		return m, nil
	case map[string]any:
		return Value(m), nil
	case nil:
		return Value{}, nil
	default:
		return nil, fmt.Errorf("%w: %v is %T, want Value", ErrFieldType, p, m)
	}
}

func asInt32(x any, p ir.Path) (int32, error) {
	switch n := x.(type) {
	case nil:
		return 0, nil
	case int32:
		return n, nil
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %v = %d overflows int32", ErrFieldType, p, n)
		}
		return int32(n), nil
	}
	return 0, fmt.Errorf("%w: %v is %T, want int32", ErrFieldType, p, x)
}

func asUint32(x any, p ir.Path) (uint32, error) {
	switch n := x.(type) {
	case nil:
		return 0, nil
	case uint32:
		return n, nil
	case int:
		if n < 0 || uint64(n) > math.MaxUint32 {
			return 0, fmt.Errorf("%w: %v = %d overflows uint32", ErrFieldType, p, n)
		}
		return uint32(n), nil
	}
	return 0, fmt.Errorf("%w: %v is %T, want uint32", ErrFieldType, p, x)
}

func asBytes(x any, p ir.Path) ([]byte, error) {
	switch b := x.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return nil, fmt.Errorf("%w: %v is %T, want []byte", ErrFieldType, p, x)
}
