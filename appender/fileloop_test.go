package appender

import (
	"context"
	"testing"
	"time"

	"github.com/rbatis/fast-log/barrier"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoopKeepsAtMostOneArchive(t *testing.T) {
	fs := afero.NewMemMapFs()
	a, err := NewFileLoop(fs, "/logs", "loop.log", 16)
	require.NoError(t, err)
	defer a.Close()

	for i := 0; i < 5; i++ {
		a.WriteBatch([]*record.Record{{Command: record.CommandRecord, Rendered: "0123456789\n", Now: time.Now()}})
	}

	bar := barrier.New(0)
	a.WriteBatch([]*record.Record{{Command: record.CommandFlush, Now: time.Now(), Barrier: bar}})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bar.Wait(ctx))

	entries, err := afero.ReadDir(fs, "/logs")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), 2) // live segment + at most 1 archive
}
