package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeOS_AbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "native.bin")

	fsys := NewNativeOS()
	require.NoError(t, util.WriteFile(fsys, path, []byte("native"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "native", string(got))
	assert.Equal(t, "/", fsys.Root())
}

func TestNativeOS_Chroot(t *testing.T) {
	dir := t.TempDir()

	chrooted, err := NewNativeOS().Chroot(dir)
	require.NoError(t, err)
	require.NoError(t, util.WriteFile(chrooted, "inner.txt", []byte("x"), 0o644))

	_, err = os.Stat(filepath.Join(dir, "inner.txt"))
	assert.NoError(t, err)
}

func TestNewInMemory(t *testing.T) {
	fsys := NewInMemory()
	require.NoError(t, util.WriteFile(fsys, "/tmp/mem.bin", []byte("mem"), 0o644))

	got, err := util.ReadFile(fsys, "/tmp/mem.bin")
	require.NoError(t, err)
	assert.Equal(t, "mem", string(got))
}
