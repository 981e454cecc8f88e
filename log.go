package vkboot

import (
	"os"

	"golang.org/x/exp/slog"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Logger returns the logger used by this package.
func Logger() *slog.Logger {
	return logger
}

// SetLogger replaces the package logger. It must be called before Init.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
