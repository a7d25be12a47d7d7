package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger returns a logger with datetime and caller information, which splits output between
// stdout and stderr based on level.
func newLogger() *zap.SugaredLogger {
	return newLoggerTo(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
}

func newLoggerTo(stdout, stderr zapcore.WriteSyncer) *zap.SugaredLogger {
	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(config)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, stderr, isErrorLevel),
		zapcore.NewCore(encoder, stdout, isInfoLevel),
	)

	return zap.New(core, zap.AddCaller()).Sugar()
}
