package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSpec(t *testing.T) {
	s, err := FromSpec(Spec{
		Name: "demo",
		Entries: []EntrySpec{
			{Category: CategoryGroup, Name: "blob", Fields: []FieldSpec{{"string", "data"}}},
			{Category: CategoryRecord, Name: "put", Fields: []FieldSpec{
				{"int", "key"},
				{"uint", "seq"},
				{"blob", "value"},
			}},
			{Category: CategoryUnion, Name: "op", Fields: []FieldSpec{{"put", "put"}}},
		},
	})
	require.NoError(t, err)

	put, ok := s.Lookup("put")
	require.True(t, ok)
	kinds := []Kind{}
	for _, f := range put.Fields() {
		kinds = append(kinds, f.Type.Kind())
	}
	assert.Equal(t, []Kind{KindInt32, KindUInt32, KindGroupRef}, kinds)

	op, _ := s.Lookup("op")
	assert.Equal(t, CategoryUnion, op.Category())
}

func TestFromSpecUnknownType(t *testing.T) {
	_, err := FromSpec(Spec{
		Name: "demo",
		Entries: []EntrySpec{
			{Category: CategoryRecord, Name: "put", Fields: []FieldSpec{{"blob", "value"}}},
		},
	})
	require.ErrorIs(t, err, ErrUnknownFieldType)
}
