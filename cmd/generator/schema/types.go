package schema

// Kind identifies one of the field type descriptors.
type Kind int

const (
	KindInt32 Kind = iota
	KindUInt32
	KindString
	KindRecordRef
	KindGroupRef
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindUInt32:
		return "uint32"
	case KindString:
		return "string"
	case KindRecordRef:
		return "record"
	case KindGroupRef:
		return "group"
	}
	return "unknown"
}

// Member is a single native declaration inside an aggregate.
type Member struct {
	CType   string
	Name    string
	Pointer bool
}

// Type describes how a field is declared natively and encoded on the wire.
// The set of implementations is closed to this package.
type Type interface {
	Kind() Kind
	// Name is the msgpack primitive suffix for scalars, or the referenced
	// type name for references.
	Name() string
	// Declare returns the native members a field of this type expands to.
	Declare(field string) []Member

	sealed()
}

type Int32 struct{}

func (Int32) Kind() Kind   { return KindInt32 }
func (Int32) Name() string { return "int32" }
func (Int32) Declare(field string) []Member {
	return []Member{{CType: "int32_t", Name: field}}
}
func (Int32) sealed() {}

type UInt32 struct{}

func (UInt32) Kind() Kind   { return KindUInt32 }
func (UInt32) Name() string { return "uint32" }
func (UInt32) Declare(field string) []Member {
	return []Member{{CType: "uint32_t", Name: field}}
}
func (UInt32) sealed() {}

// String is a length-prefixed byte buffer, declared as a length and an
// owned pointer.
type String struct{}

func (String) Kind() Kind   { return KindString }
func (String) Name() string { return "string" }
func (String) Declare(field string) []Member {
	return []Member{
		{CType: "int", Name: LenMember(field)},
		{CType: "char", Name: ValMember(field), Pointer: true},
	}
}
func (String) sealed() {}

// RecordRef delegates encoding to the referenced record or union.
type RecordRef struct{ Target string }

func (r RecordRef) Kind() Kind   { return KindRecordRef }
func (r RecordRef) Name() string { return r.Target }
func (r RecordRef) Declare(field string) []Member {
	return []Member{{CType: r.Target, Name: field}}
}
func (RecordRef) sealed() {}

// GroupRef inlines the referenced group's fields with no framing of its own.
type GroupRef struct{ Target string }

func (g GroupRef) Kind() Kind   { return KindGroupRef }
func (g GroupRef) Name() string { return g.Target }
func (g GroupRef) Declare(field string) []Member {
	return []Member{{CType: g.Target, Name: field}}
}
func (GroupRef) sealed() {}

// LenMember and ValMember name the two native members of a string field.
func LenMember(field string) string { return field + "_len" }
func ValMember(field string) string { return field + "_val" }
