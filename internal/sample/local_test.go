package sample

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New("", nil)
	require.Error(t, err)
	_, err = New("ftp", map[string]interface{}{})
	require.Error(t, err)
	_, err = New("local", nil)
	require.Error(t, err)
	_, err = New("local", map[string]interface{}{"dir": ""})
	require.Error(t, err)
}

func TestLocalSource_ReadAndList(t *testing.T) {
	root := t.TempDir()
	writeSample(t, root, "samples/plsql-1.txt", "select 1 from dual;")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "samples", "nested"), 0o755))

	src, err := New("LOCAL", map[string]interface{}{"dir": root})
	require.NoError(t, err)
	require.Equal(t, "local", src.Type())

	content, err := src.Read(context.Background(), "samples/plsql-1.txt")
	require.NoError(t, err)
	require.Equal(t, "select 1 from dual;", content)

	keys, err := src.List(context.Background(), "samples")
	require.NoError(t, err)
	require.Equal(t, []string{"samples/plsql-1.txt"}, keys)

	_, err = src.Read(context.Background(), "samples/missing.txt")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocalSource_StaysInsideDir(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "data")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o644))
	writeSample(t, root, "secret.txt", "inside")

	src, err := New("local", map[string]interface{}{"dir": root})
	require.NoError(t, err)

	content, err := src.Read(context.Background(), "../secret.txt")
	require.NoError(t, err)
	require.Equal(t, "inside", content)

	_, err = src.Read(context.Background(), "/")
	require.Error(t, err)
}
