package gorm

import (
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// zapWriter adapts a zap logger to gorm's printf-style writer
type zapWriter struct {
	logger *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.logger.Infof(format, args...)
}

// NewLogger creates a gorm logger that writes through zap
func NewLogger(log *zap.Logger, level string, slowThreshold time.Duration) gormlogger.Interface {
	return gormlogger.New(
		zapWriter{logger: log.Named("gorm").Sugar()},
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  ParseLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ParseLogLevel maps an application log level onto gorm's levels
func ParseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
