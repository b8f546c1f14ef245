// Package generator runs a full generation: schema, lowering, then every
// artifact of the C backend.
package generator

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/banditmoscow1337/genpack/cmd/generator/c"
	"github.com/banditmoscow1337/genpack/cmd/generator/common"
	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

type Options struct {
	OutputDir  string
	License    []byte
	FieldCount ir.FieldCount
	Tests      bool
	Log        zerolog.Logger
}

// Run builds sp and writes its artifacts. A schema error returns before any
// file is created.
func Run(sp schema.Spec, opts Options) error {
	s, err := schema.FromSpec(sp)
	if err != nil {
		return err
	}
	return Generate(s, opts)
}

func Generate(s *schema.Schema, opts Options) error {
	ctx := common.NewContext(s, ir.Options{FieldCount: opts.FieldCount}, opts.OutputDir)
	ctx.License = opts.License
	ctx.Log = opts.Log.With().Str("schema", s.Name()).Logger()

	var generator common.Generator = c.New(ctx)
	if err := generator.Generate(); err != nil {
		return fmt.Errorf("%s: generation failed: %w", s.Name(), err)
	}
	if opts.Tests {
		if err := generator.Tests(); err != nil {
			return fmt.Errorf("%s: test generation failed: %w", s.Name(), err)
		}
	}
	return nil
}
