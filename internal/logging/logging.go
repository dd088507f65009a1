// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging configures the zerolog loggers used by the command line
// tools.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Environment variables overriding the logger configuration.
const (
	EnvLogLevel   = "ASN1DUMP_LOG_LEVEL"
	EnvLogNoColor = "ASN1DUMP_LOG_NOCOLOR"
	EnvLogJSON    = "ASN1DUMP_LOG_JSON"
)

// Config describes a logger.
type Config struct {
	Level   zerolog.Level
	NoColor bool
	JSON    bool // write JSON lines instead of human readable output
}

// DefaultConfig returns the configuration used if nothing is overridden.
func DefaultConfig() Config {
	return Config{Level: zerolog.WarnLevel}
}

// FromEnv returns cfg with the overrides from the environment applied.
// Unparsable values are ignored.
func FromEnv(cfg Config) Config {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		cfg.JSON = v
	}
	return cfg
}

// New creates a logger writing to w. Human readable output is only colored if
// w is a terminal. The logger may be used concurrently.
func New(w io.Writer, cfg Config) zerolog.Logger {
	if !cfg.JSON {
		noColor := cfg.NoColor || !IsTerminal(w)
		if f, ok := w.(*os.File); ok && !noColor {
			w = colorable.NewColorable(f)
		}
		w = zerolog.ConsoleWriter{Out: zerolog.SyncWriter(w), NoColor: noColor, TimeFormat: "15:04:05"}
	} else {
		w = zerolog.SyncWriter(w)
	}
	return zerolog.New(w).Level(cfg.Level).With().Timestamp().Logger()
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// ParseLevel parses a level name. The second return value is false if raw is
// empty or not a known level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.WarnLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.WarnLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
