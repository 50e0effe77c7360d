// Copyright 2017 Microsoft. All rights reserved.
// MIT License

package log

import (
	"strings"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultLevel      = "info"
	DefaultOutputPath = "stderr"

	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

func init() {
	// zap only knows json and console out of the box.
	_ = zap.RegisterEncoder(FormatLogfmt, func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return zaplogfmt.NewEncoder(cfg), nil
	})
}

type Config struct {
	Level            string
	Format           string // json (default) or logfmt
	OutputPaths      string // comma separated list of paths
	ErrorOutputPaths string // comma separated list of paths
}

// New creates a zap logger and a clean up function that flushes it.
func New(cfg *Config) (*zap.Logger, func(), error) {
	loggerCfg := &zap.Config{}

	levelName := cfg.Level
	if levelName == "" {
		levelName = DefaultLevel
	}

	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse log level")
	}
	loggerCfg.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "", FormatJSON:
		loggerCfg.Encoding = FormatJSON
	case FormatLogfmt:
		loggerCfg.Encoding = FormatLogfmt
	default:
		return nil, nil, errors.Errorf("unknown log format %q", cfg.Format)
	}
	loggerCfg.OutputPaths = splitPaths(cfg.OutputPaths)
	loggerCfg.ErrorOutputPaths = splitPaths(cfg.ErrorOutputPaths)
	loggerCfg.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:     "time",
		MessageKey:  "msg",
		LevelKey:    "level",
		NameKey:     "logger",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		EncodeName:  zapcore.FullNameEncoder,
	}

	logger, err := loggerCfg.Build()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to build zap logger")
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

func splitPaths(paths string) []string {
	if paths == "" {
		return []string{DefaultOutputPath}
	}
	return strings.Split(paths, ",")
}
