package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banditmoscow1337/genpack/cmd/generator/catalog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "paxos_types\n", out)
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "--schema", "paxos_types")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "schema paxos_types\n"))
	lines := strings.Split(out, "\n")
	var prepare, message string
	for _, l := range lines {
		f := strings.Fields(l)
		if len(f) < 2 {
			continue
		}
		switch f[1] {
		case "paxos_prepare":
			prepare = l
		case "paxos_message":
			message = l
		}
	}
	assert.Equal(t, []string{"record", "paxos_prepare", "2", "3", "3", "PAXOS_PREPARE=0"}, strings.Fields(prepare))
	assert.Equal(t, []string{"union", "paxos_message", "9", "-", "-", "paxos_message_type"}, strings.Fields(message))
}

func TestInspectUnknown(t *testing.T) {
	_, err := run(t, "inspect", "--schema", "nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownSchema)
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gen")
	_, err := run(t, "generate", "--out", dir, "--tests")
	require.NoError(t, err)

	for _, name := range []string{"paxos_types.h", "paxos_types_pack.h", "paxos_types_pack.c", "paxos_types_pack_test.c"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(b), "/*\n * Copyright (c) 2013-2015, University of Lugano"), name)
	}
}

func TestGenerateFromConfig(t *testing.T) {
	tmp := t.TempDir()
	license := filepath.Join(tmp, "LICENSE.h")
	require.NoError(t, os.WriteFile(license, []byte("/* custom */\n"), 0644))

	cfgFile := filepath.Join(tmp, "genpack.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(
		"output_dir: "+filepath.Join(tmp, "out")+"\n"+
			"license_file: "+license+"\n"+
			"field_count: field_name\n"+
			"logging:\n  level: error\n"), 0644))

	_, err := run(t, "--config", cfgFile, "generate")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(tmp, "out", "paxos_types.h"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "/* custom */\n#ifndef _PAXOS_TYPES_H_\n"))

	_, err = os.Stat(filepath.Join(tmp, "out", "paxos_types_pack_test.c"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateBadConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "genpack.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("field_count: sideways\n"), 0644))

	_, err := run(t, "--config", cfgFile, "generate")
	assert.Error(t, err)
}

func TestWatchNeedsSomethingToWatch(t *testing.T) {
	_, err := run(t, "generate", "--out", t.TempDir(), "--watch")
	assert.ErrorIs(t, err, errNothingToWatch)
}
