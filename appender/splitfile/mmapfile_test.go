package splitfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapFileMemFallbackWriteAndOffset(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := OpenMmapFile(fs, "/logs/seg.bin", 4096, 0o644)
	require.NoError(t, err)

	_, err = m.Write([]byte("hello"))
	require.NoError(t, err)

	off, err := m.Offset()
	require.NoError(t, err)
	assert.EqualValues(t, 5, off)

	size, err := m.Len()
	require.NoError(t, err)
	assert.EqualValues(t, 4096, size)
}

func TestMmapFileMemFallbackReopenRecoversOffset(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := OpenMmapFile(fs, "/logs/seg.bin", 4096, 0o644)
	require.NoError(t, err)
	_, err = m.Write([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, m.Flush())
	require.NoError(t, m.Close())

	m2, err := OpenMmapFile(fs, "/logs/seg.bin", 4096, 0o644)
	require.NoError(t, err)
	off, err := m2.Offset()
	require.NoError(t, err)
	assert.EqualValues(t, len("persisted"), off)
}

func TestMmapFileTruncateZeroesAndResets(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := OpenMmapFile(fs, "/logs/seg.bin", 4096, 0o644)
	require.NoError(t, err)
	_, err = m.Write([]byte("old"))
	require.NoError(t, err)

	require.NoError(t, m.Truncate())
	off, err := m.Offset()
	require.NoError(t, err)
	assert.EqualValues(t, 0, off)
}

func TestMmapFileWritePastEndErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := OpenMmapFile(fs, "/logs/seg.bin", 4, 0o644)
	require.NoError(t, err)

	_, err = m.Write([]byte("toolong"))
	assert.Error(t, err)
}
