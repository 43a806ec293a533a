package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".current-sessions")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("new\n"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file")
	assert.Error(t, WriteFileAtomic(path, []byte("x"), 0o600))
}

func TestCopyFileKeepsModeAndModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o640))
	mtime := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))
	assert.Equal(t, os.FileMode(0o640), FileMode(dst, 0o600))
	assert.Equal(t, os.FileMode(0o600), FileMode(filepath.Join(dir, "nope"), 0o600))
}

func TestCopyFileNewRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("first"), 0o644))

	err := CopyFileNew(src, dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrExist)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	require.NoError(t, CopyFileNew(src, filepath.Join(dir, "other")))
}
