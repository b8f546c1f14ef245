package ir

import (
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

// FieldCount selects how a record's wire array is sized.
type FieldCount int

const (
	// FieldCountFlattened expands group references to their flattened
	// slot count.
	FieldCountFlattened FieldCount = iota
	// FieldCountFieldName sizes arrays with the legacy by-name count, see
	// schema.Entry.FieldNameTotalFields.
	FieldCountFieldName
)

type Options struct {
	FieldCount FieldCount
}

// Lower builds the full unit for a schema.
func Lower(s *schema.Schema, opts Options) *Unit {
	return &Unit{
		Name:       s.Name(),
		Decls:      Structs(s),
		Prototypes: Prototypes(s),
		Funcs:      Code(s, opts),
		Kinds:      s.Kinds(),
	}
}

// Structs lowers the native declarations in declaration order. A union
// becomes an enumeration followed by its tagged aggregate. References only
// point backwards, so every declaration follows the types it embeds.
func Structs(s *schema.Schema) []Decl {
	var decls []Decl
	for _, e := range s.Entries() {
		if e.Category() == schema.CategoryUnion {
			enum := Enum{Name: e.Name() + "_type"}
			un := Union{Name: e.Name(), Enum: enum.Name}
			for _, f := range e.Fields() {
				enum.Tags = append(enum.Tags, schema.Tag(f.Type.Name()))
				un.Variants = append(un.Variants, f.Type.Declare(f.Name)...)
			}
			decls = append(decls, enum, un)
			continue
		}

		st := Struct{Name: e.Name()}
		for _, f := range e.Fields() {
			st.Members = append(st.Members, f.Type.Declare(f.Name)...)
		}
		decls = append(decls, st)
	}
	return decls
}

// Prototypes lists the public entry points of records and unions. Group
// functions are static and never prototyped.
func Prototypes(s *schema.Schema) []Signature {
	var sigs []Signature
	for _, e := range append(s.Records(), s.Unions()...) {
		sigs = append(sigs, packSignature(e), unpackSignature(e))
	}
	return sigs
}

// Code lowers every function body, in the order they are emitted.
func Code(s *schema.Schema, opts Options) []*Func {
	var funcs []*Func
	for _, g := range s.Groups() {
		funcs = append(funcs, packGroup(g), unpackGroup(g))
	}
	for _, r := range s.Records() {
		funcs = append(funcs, packRecord(r, opts), unpackRecord(r))
	}
	for _, un := range s.Unions() {
		funcs = append(funcs, packUnion(un), unpackUnion(un))
	}
	return funcs
}

func packSignature(e *schema.Entry) Signature {
	return Signature{
		Name:   PackName(e.Name()),
		Target: e.Name(),
		Role:   RolePack,
		Static: e.Category() == schema.CategoryGroup,
	}
}

func unpackSignature(e *schema.Entry) Signature {
	if e.Category() == schema.CategoryGroup {
		return Signature{
			Name:   UnpackAtName(e.Name()),
			Target: e.Name(),
			Role:   RoleUnpack,
			Static: true,
			Cursor: true,
		}
	}
	return Signature{Name: UnpackName(e.Name()), Target: e.Name(), Role: RoleUnpack}
}

func packGroup(g *schema.Entry) *Func {
	f := &Func{Signature: packSignature(g)}
	for _, fld := range g.Fields() {
		f.Body = append(f.Body, packField(fld))
	}
	return f
}

func unpackGroup(g *schema.Entry) *Func {
	f := &Func{Signature: unpackSignature(g)}
	for _, fld := range g.Fields() {
		f.Body = append(f.Body, unpackField(fld, CursorParam))
	}
	return f
}

func packRecord(r *schema.Entry, opts Options) *Func {
	n := r.TotalFields()
	if opts.FieldCount == FieldCountFieldName {
		n = r.FieldNameTotalFields()
	}

	f := &Func{Signature: packSignature(r)}
	f.Body = append(f.Body, PackArray{Len: n + 1}, PackKind{Tag: r.Tag()})
	for _, fld := range r.Fields() {
		f.Body = append(f.Body, packField(fld))
	}
	return f
}

func unpackRecord(r *schema.Entry) *Func {
	f := &Func{Signature: unpackSignature(r)}
	f.Body = append(f.Body, InitCursor{Start: 1})
	for _, fld := range r.Fields() {
		f.Body = append(f.Body, unpackField(fld, CursorLocal))
	}
	return f
}

func packUnion(un *schema.Entry) *Func {
	sw := Switch{On: Path{"type"}}
	for _, v := range un.Fields() {
		sw.Cases = append(sw.Cases, Case{
			Tag:  schema.Tag(v.Type.Name()),
			Body: []Stmt{PackCall{Func: PackName(v.Type.Name()), Field: Path{"u", v.Name}}},
		})
	}
	return &Func{Signature: packSignature(un), Body: []Stmt{sw}}
}

func unpackUnion(un *schema.Entry) *Func {
	sw := Switch{On: Path{"type"}}
	for _, v := range un.Fields() {
		sw.Cases = append(sw.Cases, Case{
			Tag:  schema.Tag(v.Type.Name()),
			Body: []Stmt{UnpackWhole{Func: UnpackName(v.Type.Name()), Field: Path{"u", v.Name}}},
		})
	}
	return &Func{
		Signature: unpackSignature(un),
		Body:      []Stmt{ReadKind{Field: Path{"type"}, Slot: 0}, sw},
	}
}

func packField(f schema.Field) Stmt {
	switch f.Type.Kind() {
	case schema.KindGroupRef, schema.KindRecordRef:
		return PackCall{Func: PackName(f.Type.Name()), Field: Path{f.Name}}
	default:
		return PackScalar{Kind: f.Type.Kind(), Field: Path{f.Name}}
	}
}

func unpackField(f schema.Field, c Cursor) Stmt {
	switch f.Type.Kind() {
	case schema.KindGroupRef:
		return UnpackGroup{Func: UnpackAtName(f.Type.Name()), Field: Path{f.Name}, Cursor: c}
	case schema.KindRecordRef:
		return UnpackElement{Func: UnpackName(f.Type.Name()), Field: Path{f.Name}, Cursor: c}
	default:
		return UnpackScalar{Kind: f.Type.Kind(), Field: Path{f.Name}, Cursor: c}
	}
}
