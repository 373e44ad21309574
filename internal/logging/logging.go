// Package logging builds the zap logger used across vigil. Console output
// follows the configured format (text or JSON); an optional rotating file
// sink always receives JSON.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New constructs a logger writing to stderr in the given format, and, when
// file is non-empty, additionally to a size-rotated JSON log file.
func New(format, file string) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	if format == FormatJSON {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	} else {
		textCfg := encCfg
		textCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(textCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.AddSync(os.Stderr), zap.InfoLevel),
	}

	if file != "" {
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, zap.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// Nop returns a logger that discards everything; used by tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
