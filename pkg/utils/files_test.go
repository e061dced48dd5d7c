package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.tc")
	require.NoError(t, os.WriteFile(path, []byte("int x;"), 0o644))

	name, src, err := ReadSource(path, nil)
	require.NoError(t, err)
	require.Equal(t, "int x;", src)
	require.True(t, filepath.IsAbs(name))

	name, src, err = ReadSource(StdinPath, strings.NewReader("int y;"))
	require.NoError(t, err)
	require.Equal(t, "<stdin>", name)
	require.Equal(t, "int y;", src)

	_, _, err = ReadSource(filepath.Join(dir, "missing.tc"), nil)
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "prog.tac"), OutputPath(filepath.Join("a", "prog.tc"), ""))
	require.Equal(t, "prog.tac", OutputPath("prog", ""))
	require.Equal(t, filepath.Join("out", "prog.tac"), OutputPath(filepath.Join("src", "prog.tc"), "out"))
}
