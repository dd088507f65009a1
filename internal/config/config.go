// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the settings of the asn1dump command from a TOML file.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"codello.dev/asn1tree/ber"
	"codello.dev/asn1tree/tlv"
)

// Output formats.
const (
	FormatTree = "tree"
	FormatJSON = "json"
	FormatHex  = "hex"
)

// Config holds the settings of a dump run.
type Config struct {
	Format       string // one of FormatTree, FormatJSON or FormatHex
	Input        string // input encoding, see package input
	MaxDepth     int
	FirstID      uint64
	MaxFrameSize int
	HexWidth     int // bytes per line in hex output
	Indent       string
	LogLevel     string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:       FormatTree,
		Input:        "auto",
		MaxDepth:     ber.DefaultMaxDepth,
		MaxFrameSize: tlv.DefaultMaxFrameSize,
		HexWidth:     16,
		Indent:       "  ",
		LogLevel:     "warn",
	}
}

type fileConfig struct {
	Format       string `toml:"format"`
	Input        string `toml:"input"`
	MaxDepth     int    `toml:"max_depth"`
	FirstID      int64  `toml:"first_id"`
	MaxFrameSize int    `toml:"max_frame_size"`
	Log          struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Output struct {
		HexWidth int    `toml:"hex_width"`
		Indent   string `toml:"indent"`
	} `toml:"output"`
}

// Load reads the file at path and applies the settings it defines to the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the settings defined in the file at path onto cfg. Keys
// missing from the file leave cfg unchanged.
func (cfg *Config) LoadFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	next := *cfg
	if meta.IsDefined("format") {
		next.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("input") {
		next.Input = strings.ToLower(strings.TrimSpace(raw.Input))
	}
	if meta.IsDefined("max_depth") {
		next.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("first_id") {
		if raw.FirstID < 0 {
			return errors.Errorf("load config: negative first_id %d", raw.FirstID)
		}
		next.FirstID = uint64(raw.FirstID)
	}
	if meta.IsDefined("max_frame_size") {
		next.MaxFrameSize = raw.MaxFrameSize
	}
	if meta.IsDefined("log", "level") {
		next.LogLevel = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("output", "hex_width") {
		next.HexWidth = raw.Output.HexWidth
	}
	if meta.IsDefined("output", "indent") {
		next.Indent = raw.Output.Indent
	}
	if err := next.Validate(); err != nil {
		return errors.Wrapf(err, "load config %s", path)
	}
	*cfg = next
	return nil
}

// Validate checks that all settings of cfg are in range.
func (cfg Config) Validate() error {
	switch cfg.Format {
	case FormatTree, FormatJSON, FormatHex:
	default:
		return errors.Errorf("unknown format %q", cfg.Format)
	}
	if cfg.MaxDepth < 0 {
		return errors.Errorf("invalid max_depth %d", cfg.MaxDepth)
	}
	if cfg.MaxFrameSize < 0 {
		return errors.Errorf("invalid max_frame_size %d", cfg.MaxFrameSize)
	}
	if cfg.HexWidth <= 0 {
		return errors.Errorf("invalid hex_width %d", cfg.HexWidth)
	}
	return nil
}

// Decoder returns a decoder using the settings of cfg.
func (cfg Config) Decoder() ber.Decoder {
	return ber.Decoder{FirstID: cfg.FirstID, MaxDepth: cfg.MaxDepth}
}
