package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banditmoscow1337/genpack/cmd/generator/codec"
	"github.com/banditmoscow1337/genpack/cmd/generator/ir"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"paxos_types"}, Names())
}

func TestBuildPaxos(t *testing.T) {
	s, e, err := Build("paxos_types")
	require.NoError(t, err)

	assert.Equal(t, "paxos_types", s.Name())
	assert.Len(t, s.Groups(), 1)
	assert.Len(t, s.Records(), 9)
	assert.Len(t, s.Unions(), 1)
	assert.True(t, strings.HasPrefix(e.License, "/*\n * Copyright (c) 2013-2015, University of Lugano\n"))

	tags := []string{
		"PAXOS_PREPARE", "PAXOS_PROMISE", "PAXOS_ACCEPT", "PAXOS_ACCEPTED", "PAXOS_PREEMPTED",
		"PAXOS_REPEAT", "PAXOS_TRIM", "PAXOS_ACCEPTOR_STATE", "PAXOS_CLIENT_VALUE",
	}
	for i, tag := range tags {
		v, ok := s.Discriminator(tag)
		require.True(t, ok, tag)
		assert.Equal(t, uint32(i), v, tag)
	}

	// A single-field value group makes both counting modes agree.
	for _, r := range s.Records() {
		assert.Equal(t, r.TotalFields(), r.FieldNameTotalFields(), r.Name())
	}
	promise, _ := s.Lookup("paxos_promise")
	assert.Equal(t, 5, promise.TotalFields())
}

func TestBuildUnknown(t *testing.T) {
	_, _, err := Build("raft_types")
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestPaxosWire(t *testing.T) {
	s, _, err := Build("paxos_types")
	require.NoError(t, err)
	c := codec.New(ir.Lower(s, ir.Options{}))

	prepare := codec.Value{"iid": uint32(5), "ballot": uint32(1)}
	b, err := c.PackType("paxos_prepare", prepare)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x93, 0x00, 0x05, 0x01}, b)

	viaUnion, err := c.PackType("paxos_message", codec.Union(0, "prepare", prepare))
	require.NoError(t, err)
	assert.Equal(t, b, viaUnion)

	accept := codec.Value{
		"iid":    uint32(7),
		"ballot": uint32(2),
		"value":  codec.Value{"paxos_value": []byte("hi")},
	}
	b, err = c.PackType("paxos_accept", accept)
	require.NoError(t, err)
	// [PAXOS_ACCEPT, 7, 2, bin "hi"]
	assert.Equal(t, []byte{0x94, 0x02, 0x07, 0x02, 0xc4, 0x02, 'h', 'i'}, b)

	kind, _ := c.Kind("PAXOS_ACCEPT")
	out, err := c.UnpackType("paxos_message", b)
	require.NoError(t, err)
	assert.Equal(t, codec.Union(kind, "accept", accept), out)
}
