package document

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.tsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_KeepsTerminators(t *testing.T) {
	path := writeFile(t, "alpha\nbeta\ngamma")

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, path, doc.Path)

	first, err := doc.Line(1)
	require.NoError(t, err)
	assert.Equal(t, Line{Number: 1, Text: "alpha\n"}, first)

	last, err := doc.Line(3)
	require.NoError(t, err)
	assert.Equal(t, "gamma", last.Text)
}

func TestLoad_NormalizesNewlines(t *testing.T) {
	path := writeFile(t, "one\r\ntwo\rthree\n")

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 3, doc.Len())
	for n, want := range map[int]string{1: "one\n", 2: "two\n", 3: "three\n"} {
		line, err := doc.Line(n)
		require.NoError(t, err)
		assert.Equal(t, want, line.Text, "line %d", n)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	doc, err := Load(context.Background(), writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
	assert.False(t, doc.Has(1))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := writeFile(t, "secret\n")
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "ok\nbad \xff byte\n")

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 7, decErr.Offset)
	assert.Equal(t, byte(0xff), decErr.Byte)
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, writeFile(t, "x\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocument_LineOutOfRange(t *testing.T) {
	doc, err := Parse("mem", []byte("a\nb\n"))
	require.NoError(t, err)

	for _, n := range []int{0, -1, 3} {
		_, err := doc.Line(n)
		assert.ErrorIs(t, err, ErrLineOutOfRange, "line %d", n)
	}
}
