package filter

import (
	"testing"

	"github.com/rbatis/fast-log/record"
	"github.com/stretchr/testify/assert"
)

func TestModuleFilterDropsOnlyRegisteredModules(t *testing.T) {
	f := NewModuleFilter()
	f.Add("noisy/pkg")

	assert.False(t, f.DoLog(&record.Record{ModulePath: "noisy/pkg"}))
	assert.True(t, f.DoLog(&record.Record{ModulePath: "quiet/pkg"}))
}

func TestModuleFilterEmptyNeverDrops(t *testing.T) {
	f := NewModuleFilter()
	assert.True(t, f.DoLog(&record.Record{ModulePath: "anything"}))
}

func TestCustomFilterDelegates(t *testing.T) {
	var c Filter = Custom(func(rec *record.Record) bool { return rec.Level >= record.LevelWarn })
	assert.False(t, c.DoLog(&record.Record{Level: record.LevelInfo}))
	assert.True(t, c.DoLog(&record.Record{Level: record.LevelError}))
}
