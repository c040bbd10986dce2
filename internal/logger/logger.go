// Package logger builds the diagnostic zap logger.
//
// The diagnostic log is separate from operator-facing output: it is quiet by
// default (warn level on stderr) and is meant for troubleshooting a run with
// --log-level debug or for keeping an audit trail with --log-file.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes the diagnostic logger.
type Config struct {
	// Level (debug, info, warn, error)
	Level string
	// Format (console, json)
	Format string
	// FilePath appends to a file when set, otherwise logs go to Output
	FilePath string
	// Output defaults to os.Stderr
	Output io.Writer
}

// New creates the logger described by config. The returned close function
// flushes the logger and closes the log file, if any.
func New(config Config) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch config.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", config.Format)
	}

	closeFile := func() error { return nil }
	var sink zapcore.WriteSyncer
	switch {
	case config.FilePath != "":
		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = zapcore.AddSync(file)
		closeFile = file.Close
	case config.Output != nil:
		sink = zapcore.AddSync(config.Output)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	log := zap.New(zapcore.NewCore(encoder, sink, level), zap.AddStacktrace(zapcore.ErrorLevel))

	return log, func() error {
		_ = log.Sync()
		return closeFile()
	}, nil
}
