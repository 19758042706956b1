package appender

import (
	"context"
	"testing"
	"time"

	"github.com/rbatis/fast-log/appender/packer"
	"github.com/rbatis/fast-log/appender/retention"
	"github.com/rbatis/fast-log/appender/rotation"
	"github.com/rbatis/fast-log/barrier"
	"github.com/rbatis/fast-log/record"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSplitAppender(t *testing.T, pred rotation.Predicate, keep retention.Keep) (*FileSplitAppender, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	a, err := NewFileSplitAppender(fs, "/logs", "app.log", pred, keep, packer.NoOp{}, false, 0)
	require.NoError(t, err)
	return a, fs
}

func TestFileSplitAppenderRotatesAndKeepsBoundedArchives(t *testing.T) {
	a, fs := newTestSplitAppender(t, rotation.BySize{Limit: 20}, retention.KeepNum{N: 2})
	defer a.Close()

	for i := 0; i < 10; i++ {
		a.WriteBatch([]*record.Record{{
			Command:  record.CommandRecord,
			Rendered: "0123456789\n",
			Now:      time.Now(),
		}})
	}

	bar := barrier.New(0)
	a.WriteBatch([]*record.Record{{Command: record.CommandFlush, Now: time.Now(), Barrier: bar}})
	require.NoError(t, bar.Wait(context.Background()))

	entries, err := afero.ReadDir(fs, "/logs")
	require.NoError(t, err)
	// The live segment plus at most KeepNum archives.
	assert.LessOrEqual(t, len(entries), 3)
}

func TestFileSplitAppenderFlushBarrierWaitsForPackerAck(t *testing.T) {
	a, _ := newTestSplitAppender(t, rotation.BySize{Limit: 1 << 20}, retention.All{})
	defer a.Close()

	bar := barrier.New(0)
	a.WriteBatch([]*record.Record{
		{Command: record.CommandRecord, Rendered: "hello\n", Now: time.Now()},
		{Command: record.CommandFlush, Now: time.Now(), Barrier: bar},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, bar.Wait(ctx))
}

func TestFileSplitAppenderCloseIsIdempotentSafe(t *testing.T) {
	a, _ := newTestSplitAppender(t, rotation.BySize{Limit: 1 << 20}, retention.All{})
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}
