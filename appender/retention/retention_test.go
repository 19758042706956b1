package retention

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0o644))
}

func TestKeepAllNeverRemoves(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/logs/app_1.log")
	writeFile(t, fs, "/logs/app_2.log")

	removed, err := All{}.Enforce(fs, "/logs", "app.log")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestKeepNumRetainsNewestOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/logs/app_1.log")
	writeFile(t, fs, "/logs/app_2.log")
	writeFile(t, fs, "/logs/app_3.log")
	writeFile(t, fs, "/logs/app.log") // live segment, excluded

	removed, err := KeepNum{N: 1}.Enforce(fs, "/logs", "app.log")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := afero.ReadDir(fs, "/logs")
	require.NoError(t, err)
	assert.Len(t, entries, 2) // live segment + newest archive
}

func TestKeepDurationDeletesOlderThanWindow(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/logs/app_old.log")

	removed, err := KeepDuration{D: -time.Hour}.Enforce(fs, "/logs", "app.log")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
