package c

import (
	"fmt"
	"strings"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

// --- Type Header (<n>.h) ---

func (g *generator) generateStructs() error {
	hGuard := guard(g.BaseName + "_H")
	g.printf("#ifndef %s\n#define %s\n\n", hGuard, hGuard)
	g.printf("#include <stdint.h>\n\n")

	for _, d := range g.Unit.Decls {
		switch d := d.(type) {
		case ir.Struct:
			g.openStruct(d.Name)
			for _, m := range d.Members {
				g.printf("\t%s\n", declare(m))
			}
			g.closeStruct(d.Name)
		case ir.Enum:
			g.printf("enum %s\n{\n", d.Name)
			tags := make([]string, len(d.Tags))
			for i, tag := range d.Tags {
				tags[i] = "\t" + tag
			}
			g.printf("%s\n", strings.Join(tags, ",\n"))
			g.printf("};\n")
			g.printf("typedef enum %s %s;\n\n", d.Name, d.Name)
		case ir.Union:
			g.openStruct(d.Name)
			g.printf("\t%s type;\n", d.Enum)
			g.printf("\tunion\n\t{\n")
			for _, m := range d.Variants {
				g.printf("\t\t%s\n", declare(m))
			}
			g.printf("\t} u;\n")
			g.closeStruct(d.Name)
		default:
			return fmt.Errorf("unsupported declaration %T", d)
		}
	}

	g.printf("#endif\n")
	return nil
}

func (g *generator) openStruct(name string) {
	g.printf("struct %s\n{\n", name)
}

func (g *generator) closeStruct(name string) {
	g.printf("};\n")
	g.printf("typedef struct %s %s;\n\n", name, name)
}

func declare(m schema.Member) string {
	if m.Pointer {
		return fmt.Sprintf("%s *%s;", m.CType, m.Name)
	}
	return fmt.Sprintf("%s %s;", m.CType, m.Name)
}

// --- Prototype Header (<n>_pack.h) ---

func (g *generator) generatePrototypes() error {
	hGuard := guard(g.BaseName + "_PACK_H")
	g.printf("#ifndef %s\n#define %s\n\n", hGuard, hGuard)
	g.printf("#include \"%s.h\"\n", g.BaseName)
	g.printf("#include <msgpack.h>\n\n")

	for _, sig := range g.Unit.Prototypes {
		g.printf("%s;\n", signature(sig))
	}

	g.printf("\n#endif\n")
	return nil
}

// signature renders a function head without the trailing semicolon.
func signature(sig ir.Signature) string {
	var b strings.Builder
	if sig.Static {
		b.WriteString("static ")
	}
	switch sig.Role {
	case ir.RolePack:
		fmt.Fprintf(&b, "void %s(msgpack_packer* p, %s* v)", sig.Name, sig.Target)
	case ir.RoleUnpack:
		if sig.Cursor {
			fmt.Fprintf(&b, "void %s(msgpack_object* o, %s* v, int* i)", sig.Name, sig.Target)
		} else {
			fmt.Fprintf(&b, "void %s(msgpack_object* o, %s* v)", sig.Name, sig.Target)
		}
	}
	return b.String()
}
