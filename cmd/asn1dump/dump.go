// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"codello.dev/asn1tree/ber"
	"codello.dev/asn1tree/internal/config"
	"codello.dev/asn1tree/internal/dump"
	"codello.dev/asn1tree/internal/input"
	"codello.dev/asn1tree/internal/logging"
	"codello.dev/asn1tree/internal/tagspec"
	"codello.dev/asn1tree/tlv"
)

// stdinName is the file name denoting standard input.
const stdinName = "-"

func runDump(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	format, err := input.ParseFormat(cfg.Input)
	if err != nil {
		return err
	}
	var match *tagspec.Spec
	if opts.match != "" {
		s, err := tagspec.Parse(opts.match)
		if err != nil {
			return err
		}
		match = &s
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}
	stdin := 0
	for _, name := range args {
		if name == stdinName {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("standard input can only be read once")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]bytes.Buffer, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		d := &dumper{
			cfg:    cfg,
			opts:   opts,
			format: format,
			match:  match,
			log:    logger.With().Str("source", name).Logger(),
			out:    &results[i],
		}
		g.Go(func() error {
			return errors.Wrap(d.run(ctx, name, cmd.InOrStdin()), name)
		})
	}
	err = g.Wait()

	out := cmd.OutOrStdout()
	for i := range results {
		if len(args) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", args[i])
		}
		if _, werr := results[i].WriteTo(out); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func newLogger(w io.Writer, cfg config.Config) (zerolog.Logger, error) {
	lc := logging.DefaultConfig()
	lvl, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok && cfg.LogLevel != "" {
		return zerolog.Logger{}, errors.Errorf("unknown log level %q", cfg.LogLevel)
	}
	lc.Level = lvl
	return logging.New(w, logging.FromEnv(lc)), nil
}

// dumper decodes and prints a single source.
type dumper struct {
	cfg    config.Config
	opts   *options
	format input.Format
	match  *tagspec.Spec
	log    zerolog.Logger
	out    *bytes.Buffer
}

func (d *dumper) run(ctx context.Context, name string, stdin io.Reader) error {
	r := stdin
	if name != stdinName {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if d.opts.stream {
		return d.stream(ctx, r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	blocks, err := input.Decode(data, d.format)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if err = ctx.Err(); err != nil {
			return err
		}
		if b.Label != "" {
			fmt.Fprintf(d.out, "# %s\n", b.Label)
		}
		if err = d.block(b.Data); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) decoder() ber.Decoder {
	dec := d.cfg.Decoder()
	dec.Logger = &d.log
	return dec
}

// block decodes and prints data.
func (d *dumper) block(data []byte) error {
	dec := d.decoder()
	var roots []*ber.Node
	if d.opts.all {
		var err error
		if roots, err = dec.DecodeAll(data); err != nil {
			return err
		}
	} else {
		n, err := dec.Decode(data)
		if err != nil {
			return err
		}
		roots = []*ber.Node{n}
	}
	d.log.Debug().Int("bytes", len(data)).Int("trees", len(roots)).Msg("decoded")

	if d.opts.flags.Changed("node") {
		n := find(roots, d.opts.node)
		if n == nil {
			return errors.Errorf("node %d not found", d.opts.node)
		}
		roots = []*ber.Node{n}
	}
	return d.print(data, roots)
}

// stream decodes r frame by frame. Byte ranges are relative to the frame.
func (d *dumper) stream(ctx context.Context, r io.Reader) error {
	f := tlv.NewFrameReader(r)
	f.MaxSize = d.cfg.MaxFrameSize
	next := d.cfg.FirstID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, off, err := f.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "frame at offset %d", off)
		}
		dec := d.decoder()
		dec.FirstID = next
		n, err := dec.Decode(frame)
		if err != nil {
			return errors.Wrapf(err, "frame at offset %d", off)
		}
		next += uint64(n.Len())
		fmt.Fprintf(d.out, "# frame at offset %d\n", off)
		if err = d.print(frame, []*ber.Node{n}); err != nil {
			return err
		}
	}
}

func (d *dumper) print(data []byte, roots []*ber.Node) error {
	opts := &dump.Options{Indent: d.cfg.Indent}
	if d.match != nil {
		opts.Match = d.match.MatchNode
	}
	switch d.cfg.Format {
	case config.FormatJSON:
		if err := dump.JSON(d.out, roots, opts); err != nil {
			return err
		}
	case config.FormatHex:
		var highlight tlv.Range
		if d.opts.flags.Changed("node") {
			highlight = roots[0].Metadata().Range()
		}
		if err := dump.Hex(d.out, data, 0, highlight, d.cfg.HexWidth); err != nil {
			return err
		}
	default:
		for _, n := range roots {
			if err := dump.Tree(d.out, n, opts); err != nil {
				return err
			}
		}
	}
	if d.opts.reencode {
		return d.reencode(roots)
	}
	return nil
}

// reencode prints the encoding of every tree in roots.
func (d *dumper) reencode(roots []*ber.Node) error {
	for _, n := range roots {
		h := ber.NewHandle(n)
		b, err := h.Encode()
		if err != nil {
			return errors.Wrapf(err, "encode node %d", n.ID())
		}
		if !bytes.Equal(b, n.Metadata().Raw()) {
			d.log.Info().Uint64("id", n.ID()).Int("before", len(n.Metadata().Raw())).Int("after", len(b)).
				Msg("encoding differs from input")
		}
		fmt.Fprintf(d.out, "reencoded %d: %s\n", n.ID(), hex.EncodeToString(b))
	}
	return nil
}

func find(roots []*ber.Node, id uint64) *ber.Node {
	for _, r := range roots {
		if n := r.Find(id); n != nil {
			return n
		}
	}
	return nil
}
