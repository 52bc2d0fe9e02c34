// Package logging wraps zap with the process-wide logger used by every
// component. Components take a named child via Named.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global *zap.SugaredLogger
)

// Init builds the global logger. format is "json" for production output,
// anything else gives human-readable console output. Unknown levels fall
// back to info.
func Init(level, format string) error {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}

	mu.Lock()
	global = logger.Sugar()
	mu.Unlock()
	return nil
}

// L returns the global logger, falling back to a development logger when
// Init has not run
func L() *zap.SugaredLogger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		logger, err := zap.NewDevelopment()
		if err != nil {
			logger = zap.NewNop()
		}
		global = logger.Sugar()
	}
	return global
}

// Named returns a child logger tagged with a component name
func Named(component string) *zap.SugaredLogger {
	return L().Named(component)
}

// Set replaces the global logger. Tests use it with zap.NewNop or an
// observer core.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

// Sync flushes buffered log entries
func Sync() {
	_ = L().Sync()
}
