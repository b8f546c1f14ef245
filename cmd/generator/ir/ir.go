// Package ir is the intermediate form between a schema and generated text.
// Declarations and function bodies are plain ordered data, so backends only
// format and the evaluator in package codec can execute the same bodies.
package ir

import "github.com/banditmoscow1337/genpack/cmd/generator/schema"

// Path addresses a member of the value a function operates on, e.g.
// {"u", "prepare"} for a union member.
type Path []string

type Role int

const (
	RolePack Role = iota
	RoleUnpack
)

// Cursor says where an unpack statement's decode position lives.
type Cursor int

const (
	// CursorLocal is a record's own position counter.
	CursorLocal Cursor = iota
	// CursorParam is a position shared with the caller, as groups use.
	CursorParam
)

// Signature identifies a generated function.
type Signature struct {
	Name   string
	Target string // native type the function reads or fills
	Role   Role
	Static bool
	// Cursor is set when the function takes the caller's decode position.
	Cursor bool
}

type Func struct {
	Signature
	Body []Stmt
}

type Stmt interface{ stmt() }

// PackArray writes an array header of Len elements.
type PackArray struct{ Len int }

// PackKind writes the discriminator constant Tag as an int32.
type PackKind struct{ Tag string }

// PackScalar writes an int32, uint32 or string field.
type PackScalar struct {
	Kind  schema.Kind
	Field Path
}

// PackCall hands a field to another pack function.
type PackCall struct {
	Func  string
	Field Path
}

// InitCursor starts a record's local cursor past the discriminator slot.
type InitCursor struct{ Start int }

// UnpackScalar reads one slot at the cursor and advances it.
type UnpackScalar struct {
	Kind   schema.Kind
	Field  Path
	Cursor Cursor
}

// UnpackGroup fills a group field from consecutive slots, sharing the
// cursor with the group's unpack function.
type UnpackGroup struct {
	Func   string
	Field  Path
	Cursor Cursor
}

// UnpackElement fills a record field from the nested array at the cursor,
// then advances the cursor past it.
type UnpackElement struct {
	Func   string
	Field  Path
	Cursor Cursor
}

// UnpackWhole hands the current object unchanged to another unpack
// function. Unions use it to delegate to their variants.
type UnpackWhole struct {
	Func  string
	Field Path
}

// ReadKind stores the discriminator found at Slot of the current object.
type ReadKind struct {
	Field Path
	Slot  int
}

// Switch runs the body of the case whose tag matches the discriminator at
// On. No case matching is a no-op.
type Switch struct {
	On    Path
	Cases []Case
}

type Case struct {
	Tag  string
	Body []Stmt
}

func (PackArray) stmt()     {}
func (PackKind) stmt()      {}
func (PackScalar) stmt()    {}
func (PackCall) stmt()      {}
func (InitCursor) stmt()    {}
func (UnpackScalar) stmt()  {}
func (UnpackGroup) stmt()   {}
func (UnpackElement) stmt() {}
func (UnpackWhole) stmt()   {}
func (ReadKind) stmt()      {}
func (Switch) stmt()        {}

// Decl is a native type declaration.
type Decl interface{ decl() }

type Struct struct {
	Name    string
	Members []schema.Member
}

// Enum lists the discriminator constants of a union, valued from zero.
type Enum struct {
	Name string
	Tags []string
}

// Union is the tagged aggregate: a discriminator member named "type" of
// type Enum, and an anonymous union "u" holding one member per variant.
type Union struct {
	Name     string
	Enum     string
	Variants []schema.Member
}

func (Struct) decl() {}
func (Enum) decl()   {}
func (Union) decl()  {}

// Unit is everything generated for one schema.
type Unit struct {
	Name       string
	Decls      []Decl
	Prototypes []Signature
	Funcs      []*Func
	// Kinds maps discriminator constants to their numeric values.
	Kinds map[string]uint32
}

// Func returns the function with the given name.
func (u *Unit) Func(name string) (*Func, bool) {
	for _, f := range u.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// PackName and UnpackName name the entry points of a record or union.
// Groups unpack through UnpackAtName, which takes the caller's cursor.
func PackName(typ string) string     { return "msgpack_pack_" + typ }
func UnpackName(typ string) string   { return "msgpack_unpack_" + typ }
func UnpackAtName(typ string) string { return "msgpack_unpack_" + typ + "_at" }
