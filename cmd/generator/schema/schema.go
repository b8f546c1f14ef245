// Package schema holds the typed record definitions genpack generates code
// from. A Schema is built once through Define or FromSpec and is read-only
// afterwards.
package schema

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Category is the kind of a declared type entry.
type Category int

const (
	// CategoryGroup is an inlined field bundle with no wire tag.
	CategoryGroup Category = iota
	// CategoryRecord is a wire-tagged, self-describing message.
	CategoryRecord
	// CategoryUnion is a tagged sum over records.
	CategoryUnion
)

func (c Category) String() string {
	switch c {
	case CategoryGroup:
		return "group"
	case CategoryRecord:
		return "record"
	case CategoryUnion:
		return "union"
	}
	return "unknown"
}

type Field struct {
	Name string
	Type Type
}

// Entry is a named group, record or union.
type Entry struct {
	schema   *Schema
	category Category
	name     string
	fields   []Field
}

func (e *Entry) Name() string       { return e.name }
func (e *Entry) Category() Category { return e.category }

// Fields returns the entry's fields in declaration order.
func (e *Entry) Fields() []Field { return slices.Clone(e.fields) }

// Tag is the discriminator constant naming this entry on the wire.
func (e *Entry) Tag() string { return Tag(e.name) }

// TotalFields is the flattened number of wire slots the entry's fields
// occupy. Group references expand to the group's own flattened count; every
// other field takes one slot.
func (e *Entry) TotalFields() int {
	n := 0
	for _, f := range e.fields {
		if f.Type.Kind() == KindGroupRef {
			if g, ok := e.schema.Lookup(f.Type.Name()); ok {
				n += g.TotalFields()
				continue
			}
		}
		n++
	}
	return n
}

// FieldNameTotalFields is the legacy by-name count, kept for output that is
// byte-compatible with existing libpaxos sources. A field expands to the
// field count of the type whose name equals the field's own name, otherwise
// it takes one slot. It disagrees with TotalFields whenever a multi-field
// group is referenced under a name that is not the group's.
func (e *Entry) FieldNameTotalFields() int {
	n := 0
	for _, f := range e.fields {
		if t, ok := e.schema.Lookup(f.Name); ok {
			n += len(t.fields)
		} else {
			n++
		}
	}
	return n
}

// Schema is an ordered, immutable collection of type entries.
type Schema struct {
	name     string
	entries  []*Entry
	registry map[string]*Entry
	kinds    map[string]uint32
}

func (s *Schema) Name() string { return s.name }

// Entries returns every entry in declaration order.
func (s *Schema) Entries() []*Entry { return slices.Clone(s.entries) }

// Lookup resolves a declared type by name.
func (s *Schema) Lookup(name string) (*Entry, bool) {
	e, ok := s.registry[name]
	return e, ok
}

func (s *Schema) Groups() []*Entry  { return s.byCategory(CategoryGroup) }
func (s *Schema) Records() []*Entry { return s.byCategory(CategoryRecord) }
func (s *Schema) Unions() []*Entry  { return s.byCategory(CategoryUnion) }

func (s *Schema) byCategory(c Category) []*Entry {
	var out []*Entry
	for _, e := range s.entries {
		if e.category == c {
			out = append(out, e)
		}
	}
	return out
}

// Discriminator returns the numeric value of a tag constant. Values come
// from the union enumerations in declaration order; the first union listing
// a tag fixes its value.
func (s *Schema) Discriminator(tag string) (uint32, bool) {
	v, ok := s.kinds[tag]
	return v, ok
}

// Kinds returns a copy of the full discriminator table.
func (s *Schema) Kinds() map[string]uint32 {
	out := make(map[string]uint32, len(s.kinds))
	for k, v := range s.kinds {
		out[k] = v
	}
	return out
}

func (s *Schema) index() {
	s.kinds = make(map[string]uint32)
	for _, u := range s.Unions() {
		for i, f := range u.fields {
			tag := Tag(f.Type.Name())
			if _, ok := s.kinds[tag]; !ok {
				s.kinds[tag] = uint32(i)
			}
		}
	}
}

// Tag returns the discriminator constant for a type name.
func Tag(name string) string { return strings.ToUpper(name) }
