package appender

import (
	"context"
	"testing"
	"time"

	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/barrier"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotateResumesFromHighestExistingIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/logs", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/logs/app_0.log", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/logs/app_1.log", []byte("x"), 0o644))

	a, err := NewRotate(fs, "/logs", "app.log", 1<<20, retention.All{}, packer.NoOp{})
	require.NoError(t, err)
	defer a.Close()

	entries, err := afero.ReadDir(fs, "/logs")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "app_2.log")
}

func TestRotateAdvancesIndexOnRotation(t *testing.T) {
	fs := afero.NewMemMapFs()
	a, err := NewRotate(fs, "/logs", "app.log", 16, retention.All{}, packer.NoOp{})
	require.NoError(t, err)
	defer a.Close()

	for i := 0; i < 3; i++ {
		a.WriteBatch([]*record.Record{{Command: record.CommandRecord, Rendered: "0123456789\n", Now: time.Now()}})
	}

	bar := barrier.New(0)
	a.WriteBatch([]*record.Record{{Command: record.CommandFlush, Now: time.Now(), Barrier: bar}})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bar.Wait(ctx))

	entries, err := afero.ReadDir(fs, "/logs")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 2, "at least the live segment plus one rotated archive")
}
