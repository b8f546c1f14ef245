package c

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/banditmoscow1337/genpack/cmd/generator/common"
	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

func demoSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Define("demo", func(b *schema.Builder) {
		b.Group("pair", func(f *schema.Fields) {
			f.Int("a")
			f.String("b")
		})
		b.Record("ping", func(f *schema.Fields) {
			f.Uint("seq")
			f.Ref("pair", "p")
		})
		b.Record("wrap", func(f *schema.Fields) {
			f.Ref("ping", "inner")
			f.Uint("tail")
		})
		b.Union("msg", func(v *schema.Variants) {
			v.Variant("ping", "ping")
			v.Variant("wrap", "wrap")
		})
	})
	require.NoError(t, err)
	return s
}

func generate(t *testing.T, opts ir.Options) (string, *common.Context) {
	t.Helper()
	dir := t.TempDir()
	ctx := common.NewContext(demoSchema(t), opts, dir)
	require.NoError(t, New(ctx).Generate())
	return dir, ctx
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func TestGolden(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join("testdata", "demo.txtar"))
	require.NoError(t, err)
	want := make(map[string]string)
	for _, f := range ar.Files {
		want[f.Name] = string(f.Data)
	}

	dir, _ := generate(t, ir.Options{})

	assert.Equal(t, want["demo.h"], readFile(t, dir, "demo.h"))
	assert.Equal(t, want["demo_pack.h"], readFile(t, dir, "demo_pack.h"))

	code := readFile(t, dir, "demo_pack.c")
	head, body, ok := strings.Cut(code, helpers)
	require.True(t, ok, "runtime helpers are emitted verbatim")
	assert.Equal(t, want["demo_pack.c.head"], head)
	assert.Equal(t, want["demo_pack.c.body"], body)
	assert.Equal(t, 1, strings.Count(code, "#define MSGPACK_OBJECT_AT"))
}

func TestLicensePrepended(t *testing.T) {
	dir := t.TempDir()
	ctx := common.NewContext(demoSchema(t), ir.Options{}, dir)
	ctx.License = []byte("/* demo license */\n\n")
	require.NoError(t, New(ctx).Generate())

	for _, name := range []string{"demo.h", "demo_pack.h", "demo_pack.c"} {
		assert.True(t, strings.HasPrefix(readFile(t, dir, name), "/* demo license */\n\n#"), name)
	}
}

func TestFieldNameCount(t *testing.T) {
	dir, _ := generate(t, ir.Options{FieldCount: ir.FieldCountFieldName})
	code := readFile(t, dir, "demo_pack.c")

	// ping's group field is named p, not pair, so it counts as one slot.
	assert.Contains(t, code, "msgpack_pack_array(p, 3);\n\tmsgpack_pack_int32(p, PING);")
	assert.Contains(t, code, "msgpack_pack_array(p, 3);\n\tmsgpack_pack_int32(p, WRAP);")
}

func TestTests(t *testing.T) {
	dir, ctx := generate(t, ir.Options{})
	require.NoError(t, New(ctx).Tests())

	src := readFile(t, dir, "demo_pack_test.c")
	assert.True(t, strings.HasPrefix(src, "#include <stdio.h>\n"))
	assert.Contains(t, src, "#include \"demo_pack.h\"\n")
	assert.Contains(t, src, harness)

	for _, fn := range []string{
		"static void fill_pair(pair* v, int seed)",
		"static int compare_ping(const ping* a, const ping* b)",
		"static void free_wrap(wrap* v)",
		"static void test_ping(void)",
		"static void test_msg_wrap(void)",
	} {
		assert.Contains(t, src, fn)
	}

	assert.Contains(t, src, "\tfill_string(&v->b_val, &v->b_len, seed * 31 + 1);\n")
	assert.Contains(t, src, "\tfill_ping(&v->inner, seed * 31 + 0);\n")
	assert.Contains(t, src, "\tfree_pair(&v->p);\n")
	assert.Contains(t, src, "\toriginal.type = WRAP;\n")
	assert.Contains(t, src, "\tmsgpack_unpack_msg(&msg.data, &copy);\n")
	assert.True(t, strings.HasSuffix(src, "\ttest_ping();\n\ttest_wrap();\n\ttest_msg_ping();\n\ttest_msg_wrap();\n"+
		"\tprintf(\"All tests passed!\\n\");\n\treturn 0;\n}\n"))
}

func envelopeSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Define("env", func(b *schema.Builder) {
		b.Record("ping", func(f *schema.Fields) { f.Uint("seq") })
		b.Union("msg", func(v *schema.Variants) { v.Variant("ping", "ping") })
		b.Record("envelope", func(f *schema.Fields) {
			f.Uint("hop")
			f.Ref("msg", "body")
		})
		b.Group("hdr", func(f *schema.Fields) { f.Ref("ping", "last") })
		b.Union("outer", func(v *schema.Variants) {
			v.Variant("ping", "ping")
			v.Variant("envelope", "envelope")
		})
	})
	require.NoError(t, err)
	return s
}

func TestHeaderDeclaresBeforeUse(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, New(common.NewContext(envelopeSchema(t), ir.Options{}, dir)).Generate())
	h := readFile(t, dir, "env.h")

	order := []string{
		"typedef struct ping ping;",
		"typedef enum msg_type msg_type;",
		"typedef struct msg msg;",
		"\tmsg body;",
		"\tping last;",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(h, s)
		require.NotEqual(t, -1, i, s)
		assert.Greater(t, i, last, s)
		last = i
	}
}

func TestTestsUnionField(t *testing.T) {
	dir := t.TempDir()
	ctx := common.NewContext(envelopeSchema(t), ir.Options{}, dir)
	require.NoError(t, New(ctx).Tests())
	src := readFile(t, dir, "env_pack_test.c")

	assert.Contains(t, src, "\tfill_msg(&v->body, seed * 31 + 1);\n")
	assert.Contains(t, src, "\tswitch ((unsigned)seed % 1u) {\n\tcase 0:\n\t\tv->type = PING;\n")
	assert.Contains(t, src, "\t\treturn compare_ping(&a->u.ping, &b->u.ping);\n")
	assert.Contains(t, src, "\tcase ENVELOPE:\n\t\tfree_envelope(&v->u.envelope);\n")

	calls := regexp.MustCompile(`\b(fill|compare|free)_(\w+)\(`)
	for _, m := range calls.FindAllStringSubmatchIndex(src, -1) {
		helper := src[m[2]:m[5]]
		if helper == "fill_string" || helper == "compare_string" {
			continue
		}
		def := regexp.MustCompile(`static (void|int) ` + helper + `\(`).FindStringIndex(src)
		require.NotNil(t, def, "%s is never defined", helper)
		assert.LessOrEqual(t, def[0], m[0], "%s is used before its definition", helper)
	}
}

func TestMissingOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	ctx := common.NewContext(demoSchema(t), ir.Options{}, dir)

	err := New(ctx).Generate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(dir, "demo.h"))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCursorModes(t *testing.T) {
	s, err := schema.Define("nest", func(b *schema.Builder) {
		b.Group("inner", func(f *schema.Fields) {
			f.Uint("x")
		})
		b.Record("rec", func(f *schema.Fields) {
			f.Uint("y")
		})
		b.Group("outer", func(f *schema.Fields) {
			f.Ref("inner", "in")
			f.Ref("rec", "r")
			f.String("s")
		})
	})
	require.NoError(t, err)

	files, err := New(common.NewContext(s, ir.Options{}, t.TempDir())).(*generator).Render()
	require.NoError(t, err)
	require.Len(t, files, 3)
	code := string(files[2].Content)

	// A group passes its own cursor on, never its address.
	assert.Contains(t, code, "\tmsgpack_unpack_inner_at(o, &v->in, i);\n")
	assert.Contains(t, code, "\tmsgpack_unpack_rec(MSGPACK_ELEMENT_AT(o, *i), &v->r);\n\t(*i)++;\n")
	assert.Contains(t, code, "\tmsgpack_unpack_string_at(o, &v->s_val, &v->s_len, i);\n")
	assert.Contains(t, code, "\tmsgpack_unpack_uint32_at(o, &v->y, &i);\n")
}
