// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"codello.dev/asn1tree/internal/config"
)

type options struct {
	configFile string
	flagConfig config.Config // values of the flags, only used if changed

	node     uint64
	match    string
	all      bool
	stream   bool
	reencode bool

	flags *pflag.FlagSet
}

func newRootCommand() *cobra.Command {
	opts := options{flagConfig: config.Default()}

	cmd := &cobra.Command{
		Use:           "asn1dump [OPTIONS] [FILE...]",
		Short:         "Decode BER encoded data and print the decoded trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.flags = cmd.Flags()
			return runDump(cmd, &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringVarP(&opts.configFile, "config", "c", "", "Read settings from a TOML file")
	installConfigFlags(&opts.flagConfig, flags)
	flags.Uint64VarP(&opts.node, "node", "n", 0, "Only print the node with this identifier")
	flags.StringVarP(&opts.match, "match", "m", "", "Only print nodes matching a selector such as \"tag:0,context\" or \"oid:2.5.4.3\"")
	flags.BoolVarP(&opts.all, "all", "a", false, "Decode a concatenation of TLVs")
	flags.BoolVar(&opts.stream, "stream", false, "Decode raw input frame by frame while reading")
	flags.BoolVar(&opts.reencode, "reencode", false, "Print the re-encoded bytes of every printed tree")
	return cmd
}

// installConfigFlags adds flags for the settings of cfg. Flags override the
// settings of a configuration file.
func installConfigFlags(cfg *config.Config, flags *pflag.FlagSet) {
	flags.StringVarP(&cfg.Format, "format", "f", cfg.Format, "Output format (tree, json, hex)")
	flags.StringVarP(&cfg.Input, "input", "i", cfg.Input, "Input format (auto, raw, hex, base64, decimal, pem)")
	flags.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum nesting depth")
	flags.Uint64Var(&cfg.FirstID, "first-id", cfg.FirstID, "Identifier of the first decoded node")
	flags.IntVar(&cfg.MaxFrameSize, "max-frame-size", cfg.MaxFrameSize, "Maximum size of a frame in stream mode")
	flags.IntVar(&cfg.HexWidth, "hex-width", cfg.HexWidth, "Bytes per line in hex output")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error, off)")
}

// loadConfig merges the defaults, the configuration file and the changed
// flags in this order.
func (opts *options) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		if err := cfg.LoadFile(opts.configFile); err != nil {
			return config.Config{}, err
		}
	}
	opts.flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = opts.flagConfig.Format
		case "input":
			cfg.Input = opts.flagConfig.Input
		case "max-depth":
			cfg.MaxDepth = opts.flagConfig.MaxDepth
		case "first-id":
			cfg.FirstID = opts.flagConfig.FirstID
		case "max-frame-size":
			cfg.MaxFrameSize = opts.flagConfig.MaxFrameSize
		case "hex-width":
			cfg.HexWidth = opts.flagConfig.HexWidth
		case "log-level":
			cfg.LogLevel = opts.flagConfig.LogLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if opts.stream && (opts.all || opts.flags.Changed("node")) {
		return config.Config{}, errors.New("--stream cannot be combined with --all or --node")
	}
	return cfg, nil
}
