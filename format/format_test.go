package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rbatis/fast-log/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainFormatHidesFileLineBelowThreshold(t *testing.T) {
	p := NewPlain()
	rec := &record.Record{
		Command: record.CommandRecord,
		Level:   record.LevelInfo,
		Args:    "hello",
		Now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		File:    "main.go",
		Line:    10,
	}
	line := p.Format(rec)
	assert.Contains(t, line, "hello")
	assert.NotContains(t, line, "main.go:10")
}

func TestPlainFormatShowsFileLineAtThreshold(t *testing.T) {
	p := NewPlain()
	rec := &record.Record{
		Command: record.CommandRecord,
		Level:   record.LevelWarn,
		Args:    "uh oh",
		Now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		File:    "main.go",
		Line:    10,
	}
	line := p.Format(rec)
	assert.Contains(t, line, "main.go:10")
}

func TestPlainFormatSkipsNonRecordCommands(t *testing.T) {
	p := NewPlain()
	assert.Equal(t, "", p.Format(&record.Record{Command: record.CommandFlush}))
}

func TestJSONFormatProducesValidObject(t *testing.T) {
	j := NewJSON()
	rec := &record.Record{
		Command: record.CommandRecord,
		Level:   record.LevelError,
		Args:    "boom",
		Now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		File:    "x.go",
		Line:    5,
	}
	line := j.Format(rec)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	assert.Equal(t, "boom", out["args"])
	assert.Equal(t, "ERROR", out["level"])
}
