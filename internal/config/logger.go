package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a configured Zap logger from Viper settings.
// Reads "logging.level" (debug, info, warn, error; default "info")
// and "logging.format" (json, console; default "json").
//
// When "logging.file" is set, entries are also written as JSON to that file,
// rotated by size ("logging.max_size_mb", default 10), count
// ("logging.max_backups", default 5) and age ("logging.max_age_days",
// default 30).
func NewLogger(v *viper.Viper) (*zap.Logger, error) {
	level := v.GetString("logging.level")
	format := v.GetString("logging.format")

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	path := v.GetString("logging.file")
	if path == "" {
		return logger, nil
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(newRotatingFile(v, path)),
		cfg.Level,
	)
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	})), nil
}

func newRotatingFile(v *viper.Viper, path string) *lumberjack.Logger {
	orDefault := func(key string, def int) int {
		if n := v.GetInt(key); n > 0 {
			return n
		}
		return def
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault("logging.max_size_mb", 10),
		MaxBackups: orDefault("logging.max_backups", 5),
		MaxAge:     orDefault("logging.max_age_days", 30),
		Compress:   true,
	}
}
