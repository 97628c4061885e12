package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agro/entities"
)

func observed(t *testing.T) (*gorm.DB, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Connect("sqlite", filepath.Join(t.TempDir(), "log.db"), zap.New(core))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db, logs
}

func TestGormLogger_RecordNotFoundIsSilent(t *testing.T) {
	db, logs := observed(t)

	var p entities.Producer
	err := db.First(&p, 42).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestGormLogger_QueryErrorsGoToZap(t *testing.T) {
	db, logs := observed(t)

	err := db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)

	entries := logs.FilterMessage("query failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "gorm", entries[0].LoggerName)
	assert.Contains(t, entries[0].ContextMap()["sql"], "no_such_table")
}

func TestGormLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core))
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Info(ctx, "hidden at warn")
	l.Warn(ctx, "shown %d", 1)
	l.Trace(ctx, time.Now(), sql, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown 1", logs.All()[0].Message)

	l.LogMode(logger.Info).Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 1, logs.FilterMessage("query").Len())

	l.LogMode(logger.Silent).Error(ctx, "dropped")
	assert.Zero(t, logs.FilterMessage("dropped").Len())

	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, 1, logs.FilterMessage("slow query").Len())
}
