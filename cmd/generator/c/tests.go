package c

import (
	"fmt"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

// --- Test Program (<n>_pack_test.c) ---

func (g *generator) generateTests() error {
	g.generateTestHeader()

	// References only point backwards, so declaration order needs no
	// forward declarations.
	for _, e := range g.Schema.Entries() {
		if e.Category() == schema.CategoryUnion {
			g.generateUnionFill(e)
			g.generateUnionCompare(e)
			g.generateUnionFree(e)
			continue
		}
		g.generateFill(e)
		g.generateCompare(e)
		g.generateFree(e)
	}

	g.generateTestRunners()
	g.generateTestMain()
	return nil
}

func (g *generator) generateTestHeader() {
	g.printf("#include <stdio.h>\n")
	g.printf("#include <stdlib.h>\n")
	g.printf("#include <string.h>\n")
	g.printf("#include \"%s_pack.h\"\n\n", g.BaseName)
	g.printf("%s", harness)
}

// generateFill writes values derived from seed, so a failing run is
// reproducible. Every fourth string seed yields an empty string.
func (g *generator) generateFill(e *schema.Entry) {
	name := e.Name()
	g.printf("static void fill_%s(%s* v, int seed)\n{\n", name, name)
	for k, f := range e.Fields() {
		seed := fmt.Sprintf("seed * 31 + %d", k)
		switch f.Type.Kind() {
		case schema.KindInt32:
			g.printf("\tv->%s = (int32_t)-(%s);\n", f.Name, seed)
		case schema.KindUInt32:
			g.printf("\tv->%s = (uint32_t)(%s);\n", f.Name, seed)
		case schema.KindString:
			g.printf("\tfill_string(&v->%s_val, &v->%s_len, %s);\n", f.Name, f.Name, seed)
		default:
			g.printf("\tfill_%s(&v->%s, %s);\n", f.Type.Name(), f.Name, seed)
		}
	}
	g.printf("}\n\n")
}

func (g *generator) generateCompare(e *schema.Entry) {
	name := e.Name()
	g.printf("static int compare_%s(const %s* a, const %s* b)\n{\n", name, name, name)
	for _, f := range e.Fields() {
		switch f.Type.Kind() {
		case schema.KindInt32, schema.KindUInt32:
			g.printf("\tif (a->%s != b->%s) return 0;\n", f.Name, f.Name)
		case schema.KindString:
			g.printf("\tif (!compare_string(a->%s_val, a->%s_len, b->%s_val, b->%s_len)) return 0;\n",
				f.Name, f.Name, f.Name, f.Name)
		default:
			g.printf("\tif (!compare_%s(&a->%s, &b->%s)) return 0;\n", f.Type.Name(), f.Name, f.Name)
		}
	}
	g.printf("\treturn 1;\n}\n\n")
}

// generateFree releases what fill_ and the generated unpack allocate.
func (g *generator) generateFree(e *schema.Entry) {
	name := e.Name()
	g.printf("static void free_%s(%s* v)\n{\n", name, name)
	for _, f := range e.Fields() {
		switch f.Type.Kind() {
		case schema.KindString:
			g.printf("\tfree(v->%s_val);\n", f.Name)
		case schema.KindGroupRef, schema.KindRecordRef:
			g.printf("\tfree_%s(&v->%s);\n", f.Type.Name(), f.Name)
		}
	}
	g.printf("\t(void)v;\n}\n\n")
}

// generateUnionFill picks the variant from seed and fills it.
func (g *generator) generateUnionFill(u *schema.Entry) {
	name := u.Name()
	variants := u.Fields()
	g.printf("static void fill_%s(%s* v, int seed)\n{\n", name, name)
	if len(variants) == 0 {
		g.printf("\t(void)v;\n\t(void)seed;\n}\n\n")
		return
	}
	g.printf("\tswitch ((unsigned)seed %% %du) {\n", len(variants))
	for k, f := range variants {
		target := f.Type.Name()
		g.printf("\tcase %d:\n", k)
		g.printf("\t\tv->type = %s;\n", schema.Tag(target))
		g.printf("\t\tfill_%s(&v->u.%s, seed);\n", target, f.Name)
		g.printf("\t\tbreak;\n")
	}
	g.printf("\t}\n}\n\n")
}

func (g *generator) generateUnionCompare(u *schema.Entry) {
	name := u.Name()
	g.printf("static int compare_%s(const %s* a, const %s* b)\n{\n", name, name, name)
	g.printf("\tif (a->type != b->type) return 0;\n")
	g.printf("\tswitch (a->type) {\n")
	for _, f := range u.Fields() {
		g.printf("\tcase %s:\n", schema.Tag(f.Type.Name()))
		g.printf("\t\treturn compare_%s(&a->u.%s, &b->u.%s);\n", f.Type.Name(), f.Name, f.Name)
	}
	g.printf("\tdefault:\n\t\treturn 0;\n")
	g.printf("\t}\n}\n\n")
}

func (g *generator) generateUnionFree(u *schema.Entry) {
	name := u.Name()
	g.printf("static void free_%s(%s* v)\n{\n", name, name)
	g.printf("\tswitch (v->type) {\n")
	for _, f := range u.Fields() {
		g.printf("\tcase %s:\n", schema.Tag(f.Type.Name()))
		g.printf("\t\tfree_%s(&v->u.%s);\n", f.Type.Name(), f.Name)
		g.printf("\t\tbreak;\n")
	}
	g.printf("\tdefault:\n\t\tbreak;\n")
	g.printf("\t}\n}\n\n")
}

func (g *generator) generateTestRunners() {
	g.printf("// --- Test Runners ---\n")
	for _, e := range g.Schema.Records() {
		name := e.Name()
		g.printf("static void test_%s(void)\n{\n", name)
		g.printf("\tprintf(\"Testing %s... \");\n", name)
		g.printf("\t%s original;\n", name)
		g.printf("\tmemset(&original, 0, sizeof(original));\n")
		g.printf("\tfill_%s(&original, 1);\n", name)
		g.packAndUnpack(ir.PackName(name), ir.UnpackName(name), name)
		g.printf("\tif (!compare_%s(&original, &copy)) {\n", name)
		g.failure("Comparison failed!")
		g.printf("\t}\n")
		g.printf("\tfree_%s(&original);\n", name)
		g.printf("\tfree_%s(&copy);\n", name)
		g.cleanup()
	}

	for _, u := range g.Schema.Unions() {
		for k, variant := range u.Fields() {
			name := u.Name()
			target := variant.Type.Name()
			g.printf("static void test_%s_%s(void)\n{\n", name, variant.Name)
			g.printf("\tprintf(\"Testing %s.%s... \");\n", name, variant.Name)
			g.printf("\t%s original;\n", name)
			g.printf("\tmemset(&original, 0, sizeof(original));\n")
			g.printf("\toriginal.type = %s;\n", schema.Tag(target))
			g.printf("\tfill_%s(&original.u.%s, %d);\n", target, variant.Name, k+2)
			g.packAndUnpack(ir.PackName(name), ir.UnpackName(name), name)
			g.printf("\tif (copy.type != original.type || !compare_%s(&original.u.%s, &copy.u.%s)) {\n",
				target, variant.Name, variant.Name)
			g.failure("Comparison failed!")
			g.printf("\t}\n")
			g.printf("\tfree_%s(&original.u.%s);\n", target, variant.Name)
			g.printf("\tfree_%s(&copy.u.%s);\n", target, variant.Name)
			g.cleanup()
		}
	}
}

// packAndUnpack packs original into a fresh buffer and decodes it into copy.
func (g *generator) packAndUnpack(pack, unpack, typ string) {
	g.printf("\tmsgpack_sbuffer sbuf;\n")
	g.printf("\tmsgpack_sbuffer_init(&sbuf);\n")
	g.printf("\tmsgpack_packer pk;\n")
	g.printf("\tmsgpack_packer_init(&pk, &sbuf, msgpack_sbuffer_write);\n")
	g.printf("\t%s(&pk, &original);\n", pack)
	g.printf("\tmsgpack_unpacked msg;\n")
	g.printf("\tif (!unpack_one(&sbuf, &msg)) {\n")
	g.failure("Unpack failed")
	g.printf("\t}\n")
	g.printf("\t%s copy;\n", typ)
	g.printf("\tmemset(&copy, 0, sizeof(copy));\n")
	g.printf("\t%s(&msg.data, &copy);\n", unpack)
}

func (g *generator) failure(msg string) {
	g.printf("\t\tprintf(\"%s\\n\");\n", msg)
	g.printf("\t\texit(1);\n")
}

func (g *generator) cleanup() {
	g.printf("\tmsgpack_unpacked_destroy(&msg);\n")
	g.printf("\tmsgpack_sbuffer_destroy(&sbuf);\n")
	g.printf("\tprintf(\"OK\\n\");\n")
	g.printf("}\n\n")
}

func (g *generator) generateTestMain() {
	g.printf("int main(void)\n{\n")
	for _, e := range g.Schema.Records() {
		g.printf("\ttest_%s();\n", e.Name())
	}
	for _, u := range g.Schema.Unions() {
		for _, variant := range u.Fields() {
			g.printf("\ttest_%s_%s();\n", u.Name(), variant.Name)
		}
	}
	g.printf("\tprintf(\"All tests passed!\\n\");\n")
	g.printf("\treturn 0;\n")
	g.printf("}\n")
}
