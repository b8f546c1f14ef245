// Package catalog holds the schemas genpack ships with.
package catalog

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

var ErrUnknownSchema = errors.New("unknown schema")

// Entry is a built-in schema with the license its generated files carry.
type Entry struct {
	Spec    schema.Spec
	License string
}

var builtin = map[string]Entry{
	PaxosTypes.Name: {Spec: PaxosTypes, License: luganoLicense},
}

// Names lists the built-in schemas, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Lookup(name string) (Entry, bool) {
	e, ok := builtin[name]
	return e, ok
}

// Build replays the named catalogue through the schema builder.
func Build(name string) (*schema.Schema, Entry, error) {
	e, ok := Lookup(name)
	if !ok {
		return nil, Entry{}, fmt.Errorf("%w %q (have %v)", ErrUnknownSchema, name, Names())
	}
	s, err := schema.FromSpec(e.Spec)
	if err != nil {
		return nil, Entry{}, err
	}
	return s, e, nil
}
