package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dump(&buf, testSource, false, false))

	out := buf.String()
	for _, section := range []string{"Source:\n", "Tokens (", "Three-Address Code\n", "Symbols:\n"} {
		require.Contains(t, out, section)
	}
	require.Contains(t, out, "T0 = x < y\nif T0 goto L0\ngoto L1\nL0:\nT1 = y - x\nx = T1\nL1:\nreturn x\n")
}

func TestDump_Litter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dump(&buf, "int x = 1;", true, false))

	out := buf.String()
	require.Contains(t, out, "compiler.Token{")
	require.Contains(t, out, "compiler.Instruction{")
	require.Contains(t, out, `Name: "x"`)
	require.False(t, strings.Contains(out, "Symbols:\n"))
}

func TestDump_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, dump(&buf, `string s = "open`, false, false))
	require.Error(t, dump(&buf, "x = 1;", false, false))
}
