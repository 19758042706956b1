package splitfile

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawFileWriteAndOffset(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := OpenRawFile(fs, "/logs/seg.log", 0o644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	off, err := f.Offset()
	require.NoError(t, err)
	assert.EqualValues(t, 5, off)

	size, err := f.Len()
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}

func TestRawFileReopenPreservesBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := OpenRawFile(fs, "/logs/seg.log", 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f2, err := OpenRawFile(fs, "/logs/seg.log", 0o644)
	require.NoError(t, err)
	off, err := f2.Offset()
	require.NoError(t, err)
	assert.EqualValues(t, len("persisted"), off)
}

func TestRawFileTruncateResetsToZero(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := OpenRawFile(fs, "/logs/seg.log", 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("old content"))
	require.NoError(t, err)

	require.NoError(t, f.Truncate())
	off, err := f.Offset()
	require.NoError(t, err)
	assert.EqualValues(t, 0, off)

	n, err := f.Write([]byte("new"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
}
