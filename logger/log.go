package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// Init initializes the global logger. Production mode is selected with
// ENV=production, anything else gets the development encoder.
func Init() {
	var err error
	var l *zap.Logger
	if os.Getenv("ENV") == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = l
}

// L returns the global logger, initializing it on first use.
func L() *zap.Logger {
	if Logger == nil {
		Init()
	}
	return Logger
}

// Close flushes buffered log entries.
func Close() {
	if Logger == nil {
		return
	}
	if err := Logger.Sync(); err != nil {
		log.Printf("failed to flush log entries: %v", err)
	}
}

// Global shorthands to avoid logger.Logger repetition.

func Info(msg string, fields ...zapcore.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	L().Error(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	L().Debug(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	L().Fatal(msg, fields...)
}
