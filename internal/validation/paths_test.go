package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPath_Resolve(t *testing.T) {
	d := &DataPath{home: "/home/nds"}

	got, err := d.Resolve("~/.nds.db")
	require.NoError(t, err)
	assert.Equal(t, "/home/nds/.nds.db", got)

	got, err = d.Resolve("/var/lib/nds/./nds.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/nds/nds.db", got)

	got, err = d.Resolve("rel.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	for _, bad := range []string{"", "  ", "../etc/passwd", "/tmp/../etc/x", "a\x00b"} {
		_, err := d.Resolve(bad)
		assert.ErrorIs(t, err, ErrUnsafePath, "%q", bad)
	}
}

func TestDataPath_PrepareFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDataPath()

	target := filepath.Join(dir, "nested", "deeper", "nds.db")
	got, err := d.PrepareFile(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = d.PrepareFile(dir)
	assert.ErrorIs(t, err, ErrUnsafePath)
}
