package schema

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrDuplicateType    = errors.New("duplicate type")
	ErrNotVariant       = errors.New("union variant is not a record")
)

// Builder declares entries into a schema under construction. Errors are
// sticky: after the first failure every later declaration is ignored and
// Define reports that failure.
type Builder struct {
	s   *Schema
	err error
}

// Define builds a schema by running build against a fresh Builder.
func Define(name string, build func(*Builder)) (*Schema, error) {
	b := &Builder{s: &Schema{
		name:     name,
		registry: make(map[string]*Entry),
	}}

	build(b)

	if b.err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, b.err)
	}

	b.s.index()
	return b.s, nil
}

// Group declares an inlined field bundle.
func (b *Builder) Group(name string, fields func(*Fields)) {
	if e := b.open(CategoryGroup, name); e != nil {
		fields(&Fields{b: b, e: e})
		b.commit(e)
	}
}

// Record declares a wire-tagged message.
func (b *Builder) Record(name string, fields func(*Fields)) {
	if e := b.open(CategoryRecord, name); e != nil {
		fields(&Fields{b: b, e: e})
		b.commit(e)
	}
}

// Union declares a tagged sum over previously declared records.
func (b *Builder) Union(name string, variants func(*Variants)) {
	if e := b.open(CategoryUnion, name); e != nil {
		variants(&Variants{b: b, e: e})
		b.commit(e)
	}
}

// Err reports the first declaration failure, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) open(c Category, name string) *Entry {
	if b.err != nil {
		return nil
	}
	if _, ok := b.s.registry[name]; ok {
		b.err = fmt.Errorf("%w: %s", ErrDuplicateType, name)
		return nil
	}
	return &Entry{schema: b.s, category: c, name: name}
}

// commit registers a populated entry. An entry only becomes visible to
// declarations that follow it, so self references do not resolve.
func (b *Builder) commit(e *Entry) {
	if b.err != nil {
		return
	}
	b.s.entries = append(b.s.entries, e)
	b.s.registry[e.name] = e
}

// Fields declares the fields of a group or record.
type Fields struct {
	b *Builder
	e *Entry
}

func (f *Fields) Int(name string)    { f.add(name, Int32{}) }
func (f *Fields) Uint(name string)   { f.add(name, UInt32{}) }
func (f *Fields) String(name string) { f.add(name, String{}) }

// Ref declares a field of a previously declared type. Groups are inlined,
// records and unions are delegated to.
func (f *Fields) Ref(typeName, name string) {
	if f.b.err != nil {
		return
	}
	t, ok := f.b.s.Lookup(typeName)
	if !ok {
		f.b.err = fmt.Errorf("%s.%s: %w %q", f.e.name, name, ErrUnknownFieldType, typeName)
		return
	}
	if t.category == CategoryGroup {
		f.add(name, GroupRef{Target: t.name})
	} else {
		f.add(name, RecordRef{Target: t.name})
	}
}

func (f *Fields) add(name string, t Type) {
	if f.b.err != nil {
		return
	}
	f.e.fields = append(f.e.fields, Field{Name: name, Type: t})
}

// Variants declares the members of a union.
type Variants struct {
	b *Builder
	e *Entry
}

// Variant adds the record recordType to the union under the member name.
func (v *Variants) Variant(recordType, name string) {
	if v.b.err != nil {
		return
	}
	t, ok := v.b.s.Lookup(recordType)
	if !ok {
		v.b.err = fmt.Errorf("%s.%s: %w %q", v.e.name, name, ErrUnknownFieldType, recordType)
		return
	}
	if t.category != CategoryRecord {
		v.b.err = fmt.Errorf("%s.%s: %w: %s is a %s", v.e.name, name, ErrNotVariant, recordType, t.category)
		return
	}
	v.e.fields = append(v.e.fields, Field{Name: name, Type: RecordRef{Target: t.name}})
}
