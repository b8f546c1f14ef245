// Package codec executes lowered pack/unpack bodies in Go. It emits the same
// msgpack stream the generated C produces for the same schema, so wire-level
// properties of a schema can be checked without a C toolchain.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
	mstd "github.com/banditmoscow1337/genpack/std"
)

var (
	ErrUnknownFunc     = errors.New("unknown function")
	ErrWrongRole       = errors.New("function has the wrong role")
	ErrNoDiscriminator = errors.New("no discriminator value")
	ErrFieldType       = errors.New("field has the wrong type")
)

// Value mirrors a native struct. Members hold int32, uint32, []byte or a
// nested Value. Strings are keyed by field name rather than split into
// length and buffer. A union is {"type": uint32, "u": {member: Value}}.
type Value map[string]any

// Union builds a union value holding member under discriminator kind.
func Union(kind uint32, member string, v Value) Value {
	return Value{"type": kind, "u": Value{member: v}}
}

type Codec struct {
	unit  *ir.Unit
	funcs map[string]*ir.Func
}

func New(u *ir.Unit) *Codec {
	c := &Codec{unit: u, funcs: make(map[string]*ir.Func, len(u.Funcs))}
	for _, f := range u.Funcs {
		c.funcs[f.Name] = f
	}
	return c
}

// Kind returns the numeric value of a discriminator constant.
func (c *Codec) Kind(tag string) (uint32, bool) {
	k, ok := c.unit.Kinds[tag]
	return k, ok
}

// Pack runs the named pack function over v.
func (c *Codec) Pack(fn string, v Value) ([]byte, error) {
	f, err := c.lookup(fn, ir.RolePack)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := c.pack(enc, f, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unpack runs the named unpack function over b. Functions taking a cursor,
// which groups do, read b as a sequence of objects starting at position 0.
func (c *Codec) Unpack(fn string, b []byte) (Value, error) {
	f, err := c.lookup(fn, ir.RoleUnpack)
	if err != nil {
		return nil, err
	}

	var o any
	if f.Cursor {
		o, err = mstd.DecodeAll(b)
	} else {
		o, err = mstd.Decode(b)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", fn, err)
	}

	v := Value{}
	i := 0
	if err := c.unpack(f, o, &i, v); err != nil {
		return nil, err
	}
	return v, nil
}

// PackType and UnpackType address a type's public entry points.
func (c *Codec) PackType(typ string, v Value) ([]byte, error) {
	return c.Pack(ir.PackName(typ), v)
}

func (c *Codec) UnpackType(typ string, b []byte) (Value, error) {
	if _, ok := c.funcs[ir.UnpackAtName(typ)]; ok {
		return c.Unpack(ir.UnpackAtName(typ), b)
	}
	return c.Unpack(ir.UnpackName(typ), b)
}

func (c *Codec) lookup(fn string, role ir.Role) (*ir.Func, error) {
	f, ok := c.funcs[fn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunc, fn)
	}
	if f.Role != role {
		return nil, fmt.Errorf("%w: %s", ErrWrongRole, fn)
	}
	return f, nil
}

func (c *Codec) pack(enc *msgpack.Encoder, f *ir.Func, v Value) error {
	if err := c.packBody(enc, f.Body, v); err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return nil
}

func (c *Codec) packBody(enc *msgpack.Encoder, body []ir.Stmt, v Value) error {
	for _, st := range body {
		var err error
		switch st := st.(type) {
		case ir.PackArray:
			err = mstd.PackArray(enc, st.Len)
		case ir.PackKind:
			k, ok := c.unit.Kinds[st.Tag]
			if !ok {
				return fmt.Errorf("%w: %s", ErrNoDiscriminator, st.Tag)
			}
			err = mstd.PackInt32(enc, int32(k))
		case ir.PackScalar:
			err = c.packScalar(enc, st, v)
		case ir.PackCall:
			callee, lerr := c.lookup(st.Func, ir.RolePack)
			if lerr != nil {
				return lerr
			}
			sub, serr := member(v, st.Field)
			if serr != nil {
				return serr
			}
			err = c.pack(enc, callee, sub)
		case ir.Switch:
			body, ok, serr := c.selectCase(st, v)
			if serr != nil {
				return serr
			}
			if ok {
				err = c.packBody(enc, body, v)
			}
		default:
			return fmt.Errorf("pack: unsupported statement %T", st)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec) packScalar(enc *msgpack.Encoder, st ir.PackScalar, v Value) error {
	x := get(v, st.Field)
	switch st.Kind {
	case schema.KindInt32:
		n, err := asInt32(x, st.Field)
		if err != nil {
			return err
		}
		return mstd.PackInt32(enc, n)
	case schema.KindUInt32:
		n, err := asUint32(x, st.Field)
		if err != nil {
			return err
		}
		return mstd.PackUint32(enc, n)
	case schema.KindString:
		b, err := asBytes(x, st.Field)
		if err != nil {
			return err
		}
		return mstd.PackString(enc, b)
	}
	return fmt.Errorf("pack: %v is not a scalar", st.Kind)
}

func (c *Codec) unpack(f *ir.Func, o any, cur *int, v Value) error {
	if err := c.unpackBody(f.Body, o, cur, v); err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return nil
}

func (c *Codec) unpackBody(body []ir.Stmt, o any, cur *int, v Value) error {
	for _, st := range body {
		switch st := st.(type) {
		case ir.InitCursor:
			*cur = st.Start
		case ir.UnpackScalar:
			x, err := unpackScalar(st.Kind, o, cur)
			if err != nil {
				return fmt.Errorf("%v: %w", st.Field, err)
			}
			set(v, st.Field, x)
		case ir.UnpackGroup:
			callee, err := c.lookup(st.Func, ir.RoleUnpack)
			if err != nil {
				return err
			}
			sub := Value{}
			if err := c.unpack(callee, o, cur, sub); err != nil {
				return err
			}
			set(v, st.Field, sub)
		case ir.UnpackElement:
			callee, err := c.lookup(st.Func, ir.RoleUnpack)
			if err != nil {
				return err
			}
			elem, err := mstd.ElementAt(o, *cur)
			if err != nil {
				return fmt.Errorf("%v: %w", st.Field, err)
			}
			sub := Value{}
			var local int
			if err := c.unpack(callee, elem, &local, sub); err != nil {
				return err
			}
			set(v, st.Field, sub)
			*cur++
		case ir.UnpackWhole:
			callee, err := c.lookup(st.Func, ir.RoleUnpack)
			if err != nil {
				return err
			}
			sub := Value{}
			var local int
			if err := c.unpack(callee, o, &local, sub); err != nil {
				return err
			}
			set(v, st.Field, sub)
		case ir.ReadKind:
			x, err := mstd.ObjectAt(o, st.Slot)
			if err != nil {
				return err
			}
			k, err := mstd.U64(x)
			if err != nil {
				return err
			}
			set(v, st.Field, uint32(k))
		case ir.Switch:
			body, ok, err := c.selectCase(st, v)
			if err != nil {
				return err
			}
			if ok {
				if err := c.unpackBody(body, o, cur, v); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unpack: unsupported statement %T", st)
		}
	}
	return nil
}

func unpackScalar(k schema.Kind, o any, cur *int) (any, error) {
	switch k {
	case schema.KindInt32:
		return mstd.UnpackInt32At(o, cur)
	case schema.KindUInt32:
		return mstd.UnpackUint32At(o, cur)
	case schema.KindString:
		return mstd.UnpackStringAt(o, cur)
	}
	return nil, fmt.Errorf("unpack: %v is not a scalar", k)
}

// selectCase finds the case whose constant equals the discriminator held at
// sw.On.
func (c *Codec) selectCase(sw ir.Switch, v Value) ([]ir.Stmt, bool, error) {
	kind, err := asUint32(get(v, sw.On), sw.On)
	if err != nil {
		return nil, false, err
	}
	for _, cs := range sw.Cases {
		k, ok := c.unit.Kinds[cs.Tag]
		if !ok {
			return nil, false, fmt.Errorf("%w: %s", ErrNoDiscriminator, cs.Tag)
		}
		if k == kind {
			return cs.Body, true, nil
		}
	}
	return nil, false, nil
}
