package sshconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPersist_OwnerOnlyRegardlessOfUmask(t *testing.T) {
	old := unix.Umask(0)
	defer unix.Umask(old)

	path := filepath.Join(t.TempDir(), "prod.conf")
	require.NoError(t, Persist([]byte("Host a\n"), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Host a\n", string(content))
}

func TestPersist_TightensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prod.conf")
	require.NoError(t, os.WriteFile(path, []byte("a much longer previous fragment\n"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, Persist([]byte("short\n"), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short\n", string(content))
}

func TestPersist_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "prod.conf")

	err := Persist([]byte("x"), path)
	var persistErr *PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, path, persistErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPathIn(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ssmhosts")

	path, err := PathIn(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prod.conf"), path)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	path, err = PathIn(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.conf"), path)
}
