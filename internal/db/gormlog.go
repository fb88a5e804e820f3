package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"threadchat/internal/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLog routes gorm's query log into the structured logger. Missing rows
// are an expected outcome here and are not logged.
type gormLog struct {
	level gormlogger.LogLevel
	slow  time.Duration
}

func newGormLogger(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLog{level: level, slow: slowQueryThreshold}
}

func (l *gormLog) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *gormLog) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.InfoWithFields("gorm", logger.Fields{"detail": fmt.Sprintf(msg, data...)})
	}
}

func (l *gormLog) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.WarnWithFields("gorm", logger.Fields{"detail": fmt.Sprintf(msg, data...)})
	}
}

func (l *gormLog) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.ErrorWithFields("gorm", logger.Fields{"detail": fmt.Sprintf(msg, data...)})
	}
}

func (l *gormLog) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	fields := func() logger.Fields {
		sql, rows := fc()
		return logger.Fields{
			"sql":        sql,
			"rows":       rows,
			"elapsed_ms": float64(elapsed) / float64(time.Millisecond),
		}
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		f := fields()
		f["error"] = err.Error()
		logger.ErrorWithFields("sql failed", f)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		logger.WarnWithFields("slow sql", fields())
	case l.level >= gormlogger.Info:
		logger.DebugWithFields("sql", fields())
	}
}
