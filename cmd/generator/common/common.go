package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

type Generator interface {
	Generate() error
	Tests() error
}

// Context holds the shared state of the generation process.
type Context struct {
	Schema              *schema.Schema
	Unit                *ir.Unit
	BaseName, OutputDir string
	// License is written verbatim ahead of every artifact.
	License []byte
	Log     zerolog.Logger
}

// NewContext lowers s once; every generator reads the same unit.
func NewContext(s *schema.Schema, opts ir.Options, outputDir string) *Context {
	return &Context{
		Schema:    s,
		Unit:      ir.Lower(s, opts),
		BaseName:  s.Name(),
		OutputDir: outputDir,
		Log:       zerolog.Nop(),
	}
}

// File is a rendered artifact waiting to be written.
type File struct {
	Name    string
	Content []byte
}

func (ctx *Context) Path(name string) string {
	return filepath.Join(ctx.OutputDir, name)
}

// WriteFiles writes already rendered artifacts in order and stops at the
// first failure.
func (ctx *Context) WriteFiles(files ...File) error {
	for _, f := range files {
		if err := ctx.WriteFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) WriteFile(f File) (err error) {
	path := ctx.Path(f.Name)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if _, err := out.Write(ctx.License); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := out.Write(f.Content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	ctx.Log.Info().
		Str("path", path).
		Int("bytes", len(ctx.License)+len(f.Content)).
		Msg("generated")
	return nil
}
