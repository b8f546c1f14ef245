package c

import (
	"fmt"
	"strings"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

// --- Source Generation (<n>_pack.c) ---

func (g *generator) generateCode() error {
	g.printf("#include \"%s_pack.h\"\n", g.BaseName)
	g.printf("#include <stdlib.h>\n")
	g.printf("#include <string.h>\n\n")
	g.printf("%s", helpers)

	for _, f := range g.Unit.Funcs {
		g.printf("%s\n{\n", signature(f.Signature))
		if err := g.body(f.Body, 1); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		g.printf("}\n\n")
	}
	return nil
}

func (g *generator) body(stmts []ir.Stmt, depth int) error {
	for _, st := range stmts {
		line, err := g.statement(st, depth)
		if err != nil {
			return err
		}
		if line != "" {
			g.line(depth, line)
		}
	}
	return nil
}

// statement renders one simple statement. Switches are written directly and
// return an empty line.
func (g *generator) statement(st ir.Stmt, depth int) (string, error) {
	switch st := st.(type) {
	case ir.PackArray:
		return fmt.Sprintf("msgpack_pack_array(p, %d);", st.Len), nil
	case ir.PackKind:
		return fmt.Sprintf("msgpack_pack_int32(p, %s);", st.Tag), nil
	case ir.PackScalar:
		if st.Kind == schema.KindString {
			return fmt.Sprintf("msgpack_pack_string(p, %s, %s);",
				access(st.Field, "_val"), access(st.Field, "_len")), nil
		}
		return fmt.Sprintf("msgpack_pack_%s(p, %s);", st.Kind, access(st.Field, "")), nil
	case ir.PackCall:
		return fmt.Sprintf("%s(p, &%s);", st.Func, access(st.Field, "")), nil
	case ir.InitCursor:
		return fmt.Sprintf("int i = %d;", st.Start), nil
	case ir.UnpackScalar:
		if st.Kind == schema.KindString {
			return fmt.Sprintf("msgpack_unpack_string_at(o, &%s, &%s, %s);",
				access(st.Field, "_val"), access(st.Field, "_len"), cursorRef(st.Cursor)), nil
		}
		return fmt.Sprintf("msgpack_unpack_%s_at(o, &%s, %s);",
			st.Kind, access(st.Field, ""), cursorRef(st.Cursor)), nil
	case ir.UnpackGroup:
		return fmt.Sprintf("%s(o, &%s, %s);", st.Func, access(st.Field, ""), cursorRef(st.Cursor)), nil
	case ir.UnpackElement:
		g.line(depth, fmt.Sprintf("%s(MSGPACK_ELEMENT_AT(o, %s), &%s);",
			st.Func, cursorValue(st.Cursor), access(st.Field, "")))
		return cursorIncrement(st.Cursor), nil
	case ir.UnpackWhole:
		return fmt.Sprintf("%s(o, &%s);", st.Func, access(st.Field, "")), nil
	case ir.ReadKind:
		return fmt.Sprintf("%s = MSGPACK_OBJECT_AT(o,%d).u64;", access(st.Field, ""), st.Slot), nil
	case ir.Switch:
		g.line(depth, fmt.Sprintf("switch (%s) {", access(st.On, "")))
		for _, cs := range st.Cases {
			g.line(depth, fmt.Sprintf("case %s:", cs.Tag))
			if err := g.body(cs.Body, depth+1); err != nil {
				return "", err
			}
			g.line(depth+1, "break;")
		}
		g.line(depth, "}")
		return "", nil
	}
	return "", fmt.Errorf("unsupported statement %T", st)
}

func (g *generator) line(depth int, s string) {
	g.printf("%s%s\n", strings.Repeat("\t", depth), s)
}

// access renders the member at p of the struct behind v. suffix selects the
// length or buffer half of a string.
func access(p ir.Path, suffix string) string {
	return "v->" + strings.Join(p, ".") + suffix
}

// cursorRef passes the cursor on to a helper taking int*.
func cursorRef(c ir.Cursor) string {
	if c == ir.CursorParam {
		return "i"
	}
	return "&i"
}

func cursorValue(c ir.Cursor) string {
	if c == ir.CursorParam {
		return "*i"
	}
	return "i"
}

func cursorIncrement(c ir.Cursor) string {
	if c == ir.CursorParam {
		return "(*i)++;"
	}
	return "i++;"
}
