package generator

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banditmoscow1337/genpack/cmd/generator/catalog"
	"github.com/banditmoscow1337/genpack/cmd/generator/schema"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunPaxos(t *testing.T) {
	dir := t.TempDir()
	e, ok := catalog.Lookup("paxos_types")
	require.True(t, ok)

	require.NoError(t, Run(e.Spec, Options{
		OutputDir: dir,
		License:   []byte(e.License),
		Tests:     true,
		Log:       zerolog.Nop(),
	}))

	assert.ElementsMatch(t, []string{
		"paxos_types.h",
		"paxos_types_pack.h",
		"paxos_types_pack.c",
		"paxos_types_pack_test.c",
	}, listDir(t, dir))
}

func TestRunWithoutTests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Run(catalog.PaxosTypes, Options{OutputDir: dir, Log: zerolog.Nop()}))
	assert.Len(t, listDir(t, dir), 3)
}

func TestUndeclaredReferenceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	sp := schema.Spec{
		Name: "broken",
		Entries: []schema.EntrySpec{
			{Category: schema.CategoryRecord, Name: "paxos_accept", Fields: []schema.FieldSpec{
				{Type: "uint", Name: "iid"},
				{Type: "paxos_value", Name: "value"},
			}},
		},
	}

	err := Run(sp, Options{OutputDir: dir, Tests: true, Log: zerolog.Nop()})
	require.ErrorIs(t, err, schema.ErrUnknownFieldType)
	assert.Contains(t, err.Error(), "paxos_accept.value")
	assert.Empty(t, listDir(t, dir))
}
