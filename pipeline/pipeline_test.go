package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rbatis/fast-log/appender"
	"github.com/rbatis/fast-log/barrier"
	"github.com/rbatis/fast-log/format"
	"github.com/rbatis/fast-log/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAppender struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recordingAppender) WriteBatch(records []*record.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rendered []string
	for _, rec := range records {
		if rec.Command == record.CommandRecord {
			rendered = append(rendered, rec.Rendered)
		}
	}
	r.batches = append(r.batches, rendered)
}

func (r *recordingAppender) Flush() {}

func (r *recordingAppender) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func newTestPipeline(appenders ...appender.Appender) *Pipeline {
	return New(format.Custom(func(rec *record.Record) string { return rec.Args }), appenders)
}

func TestPipelineBroadcastsToEverySink(t *testing.T) {
	a1 := &recordingAppender{}
	a2 := &recordingAppender{}
	p := newTestPipeline(a1, a2)

	p.Enqueue(&record.Record{Command: record.CommandRecord, Args: "hello"})

	bar := barrier.New(0)
	p.Enqueue(&record.Record{Command: record.CommandFlush, Barrier: bar})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bar.Wait(ctx))

	assert.Contains(t, a1.all(), "hello")
	assert.Contains(t, a2.all(), "hello")
}

func TestPipelineNoSinksAcknowledgesImmediately(t *testing.T) {
	p := newTestPipeline()

	bar := barrier.New(0)
	p.Enqueue(&record.Record{Command: record.CommandFlush, Barrier: bar})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bar.Wait(ctx))
}

func TestPipelineExitTerminatesWorkers(t *testing.T) {
	a1 := &recordingAppender{}
	p := newTestPipeline(a1)

	bar := barrier.New(0)
	p.Enqueue(&record.Record{Command: record.CommandExit, Barrier: bar})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bar.Wait(ctx))
}
