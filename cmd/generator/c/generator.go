// Package c renders a lowered schema as C over msgpack-c: the native type
// header, the prototype header, the pack/unpack source and, on request, a
// round-trip test program.
package c

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/banditmoscow1337/genpack/cmd/generator/common"
)

//go:embed runtime/helpers.c
var helpers string

//go:embed runtime/harness.c
var harness string

type generator struct {
	*common.Context
	buf bytes.Buffer
}

func New(ctx *common.Context) common.Generator {
	return &generator{Context: ctx}
}

// Generate renders all three artifacts before opening any file.
func (g *generator) Generate() error {
	files, err := g.Render()
	if err != nil {
		return err
	}
	return g.WriteFiles(files...)
}

// Render produces the artifacts in generation order: types, prototypes,
// code.
func (g *generator) Render() ([]common.File, error) {
	steps := []struct {
		name   string
		render func() error
	}{
		{g.BaseName + ".h", g.generateStructs},
		{g.BaseName + "_pack.h", g.generatePrototypes},
		{g.BaseName + "_pack.c", g.generateCode},
	}

	files := make([]common.File, 0, len(steps))
	for _, s := range steps {
		f, err := g.render(s.name, s.render)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (g *generator) Tests() error {
	f, err := g.render(g.BaseName+"_pack_test.c", g.generateTests)
	if err != nil {
		return err
	}
	return g.WriteFile(f)
}

func (g *generator) render(name string, fn func() error) (common.File, error) {
	g.buf.Reset()
	if err := fn(); err != nil {
		return common.File{}, fmt.Errorf("render %s: %w", name, err)
	}
	content := bytes.Clone(g.buf.Bytes())
	g.buf.Reset()
	return common.File{Name: name, Content: content}, nil
}

func guard(name string) string {
	return "_" + strings.ToUpper(name) + "_"
}

func (g *generator) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(&g.buf, format, args...)
}
