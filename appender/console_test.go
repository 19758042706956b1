package appender

import (
	"bytes"
	"testing"

	"github.com/rbatis/fast-log/record"
	"github.com/stretchr/testify/assert"
)

func TestConsoleWriteBatchWritesRecordsOnly(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.WriteBatch([]*record.Record{
		{Command: record.CommandRecord, Rendered: "one\n"},
		{Command: record.CommandFlush},
		{Command: record.CommandRecord, Rendered: "two\n"},
	})

	assert.Equal(t, "one\ntwo\n", buf.String())
}
