package schema

// FieldSpec is one field of a declarative schema literal. Type is "int",
// "uint", "string", or the name of an earlier entry.
type FieldSpec struct {
	Type string
	Name string
}

type EntrySpec struct {
	Category Category
	Name     string
	Fields   []FieldSpec
}

// Spec is a schema written as a static Go data literal.
type Spec struct {
	Name    string
	Entries []EntrySpec
}

// FromSpec replays a literal through the builder, in order.
func FromSpec(sp Spec) (*Schema, error) {
	return Define(sp.Name, func(b *Builder) {
		for _, es := range sp.Entries {
			fields := es.Fields
			switch es.Category {
			case CategoryGroup:
				b.Group(es.Name, func(f *Fields) { declareFields(f, fields) })
			case CategoryRecord:
				b.Record(es.Name, func(f *Fields) { declareFields(f, fields) })
			case CategoryUnion:
				b.Union(es.Name, func(v *Variants) {
					for _, fs := range fields {
						v.Variant(fs.Type, fs.Name)
					}
				})
			}
		}
	})
}

func declareFields(f *Fields, fields []FieldSpec) {
	for _, fs := range fields {
		switch fs.Type {
		case "int":
			f.Int(fs.Name)
		case "uint":
			f.Uint(fs.Name)
		case "string":
			f.String(fs.Name)
		default:
			f.Ref(fs.Type, fs.Name)
		}
	}
}
