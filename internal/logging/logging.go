// Package logging provides the translator's process-wide logger.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// L returns the shared logger. It defaults to a no-op logger until
// Configure installs a real one.
func L() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// Configure installs a development-style console logger at debug level when
// debug is true, or a quiet warn-level logger otherwise. Call before L() is
// first used; it replaces whatever logger is currently installed.
func Configure(debug bool) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level.SetLevel(zap.WarnLevel)
	}
	built, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
		return
	}
	logger = built
}
