package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observedLogger(t *testing.T, threshold time.Duration) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), threshold), logs
}

func trace(l gormlogger.Interface, took time.Duration, sql string, err error) {
	l.Trace(context.Background(), time.Now().Add(-took), func() (string, int64) { return sql, 1 }, err)
}

func TestGormLoggerTrace(t *testing.T) {
	tests := []struct {
		name  string
		took  time.Duration
		err   error
		level zapcore.Level
		msg   string
	}{
		{"fast query", time.Millisecond, nil, zapcore.DebugLevel, "query"},
		{"slow query", time.Second, nil, zapcore.WarnLevel, "slow-query"},
		{"failed query", time.Millisecond, errors.New("syntax error"), zapcore.ErrorLevel, "query failed"},
		{"missing row", time.Millisecond, gorm.ErrRecordNotFound, zapcore.DebugLevel, "query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := observedLogger(t, 100*time.Millisecond)
			trace(l, tt.took, "SELECT 1", tt.err)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.msg, entries[0].Message)
			assert.Equal(t, "gorm", entries[0].LoggerName)
		})
	}
}

func TestGormLoggerTruncatesSQL(t *testing.T) {
	l, logs := observedLogger(t, time.Second)
	trace(l, time.Millisecond, strings.Repeat("x", 500), nil)

	require.Equal(t, 1, logs.Len())
	sql := logs.All()[0].ContextMap()["sql"].(string)
	assert.Len(t, sql, maxLoggedSQL+len("..."))
}

func TestGormLoggerLogMode(t *testing.T) {
	l, logs := observedLogger(t, 100*time.Millisecond)

	silent := l.LogMode(gormlogger.Silent)
	trace(silent, time.Second, "SELECT 1", errors.New("boom"))
	assert.Zero(t, logs.Len())

	errorsOnly := l.LogMode(gormlogger.Error)
	trace(errorsOnly, time.Second, "SELECT 1", nil)
	assert.Zero(t, logs.Len(), "slow queries need warn level")
	trace(errorsOnly, time.Millisecond, "SELECT 1", errors.New("boom"))
	assert.Equal(t, 1, logs.Len())

	errorsOnly.Info(context.Background(), "migrating %s", "todos")
	assert.Equal(t, 1, logs.Len())
	l.Info(context.Background(), "migrating %s", "todos")
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "migrating todos", logs.All()[1].Message)
}

func TestGormLoggerDefaultThreshold(t *testing.T) {
	l := NewGormLogger(zap.NewNop(), 0)
	assert.Equal(t, 200*time.Millisecond, l.slowThreshold)
}
