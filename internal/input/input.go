// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input converts textual representations of binary data into bytes.
package input

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Format is an input encoding.
type Format string

// Supported formats. FormatAuto selects one of the others by inspecting the
// data.
const (
	FormatAuto    Format = "auto"
	FormatRaw     Format = "raw"
	FormatHex     Format = "hex"
	FormatBase64  Format = "base64"
	FormatDecimal Format = "decimal"
	FormatPEM     Format = "pem"
)

// ParseFormat returns the format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatRaw, FormatHex, FormatBase64, FormatDecimal, FormatPEM:
		return f, nil
	case "":
		return FormatAuto, nil
	}
	return "", errors.Errorf("unknown input format %q", s)
}

// Block is a chunk of decoded input. Most formats produce a single block. PEM
// data produces one block per PEM block.
type Block struct {
	Label string // PEM type, empty for other formats
	Data  []byte
}

// Decode converts data from format f.
func Decode(data []byte, f Format) ([]Block, error) {
	if f == FormatAuto {
		f = Detect(data)
	}
	var (
		b   []byte
		err error
	)
	switch f {
	case FormatRaw:
		return []Block{{Data: data}}, nil
	case FormatPEM:
		return decodePEM(data)
	case FormatHex:
		b, err = decodeHex(data)
	case FormatBase64:
		b, err = decodeBase64(data)
	case FormatDecimal:
		b, err = decodeDecimal(data)
	default:
		return nil, errors.Errorf("unknown input format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return []Block{{Data: b}}, nil
}

// Detect guesses the format of data. Text that is neither PEM, hex nor base64
// is treated as raw bytes.
func Detect(data []byte) Format {
	text := bytes.TrimSpace(data)
	switch {
	case len(text) == 0:
		return FormatRaw
	case bytes.Contains(text, []byte("-----BEGIN ")):
		return FormatPEM
	case isText(text, isHexRune) && len(stripHex(text))%2 == 0:
		return FormatHex
	case isText(text, isBase64Rune):
		return FormatBase64
	}
	return FormatRaw
}

func isText(data []byte, valid func(rune) bool) bool {
	for _, c := range string(data) {
		if !valid(c) && !unicode.IsSpace(c) {
			return false
		}
	}
	return true
}

func isHexRune(c rune) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || c == ':'
}

func isBase64Rune(c rune) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' ||
		c == '+' || c == '/' || c == '-' || c == '_' || c == '='
}

// stripHex removes whitespace and colon separators.
func stripHex(data []byte) []byte {
	return bytes.Map(func(c rune) rune {
		if c == ':' || unicode.IsSpace(c) {
			return -1
		}
		return c
	}, data)
}

func decodeHex(data []byte) ([]byte, error) {
	text := stripHex(data)
	text = bytes.TrimPrefix(bytes.TrimPrefix(text, []byte("0x")), []byte("0X"))
	b := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(b, text); err != nil {
		return nil, errors.Wrap(err, "invalid hex input")
	}
	return b, nil
}

// decodeBase64 accepts the standard and the URL alphabet, with or without
// padding.
func decodeBase64(data []byte) ([]byte, error) {
	text := bytes.Map(func(c rune) rune {
		switch {
		case unicode.IsSpace(c), c == '=':
			return -1
		case c == '-':
			return '+'
		case c == '_':
			return '/'
		}
		return c
	}, data)
	b := make([]byte, base64.RawStdEncoding.DecodedLen(len(text)))
	n, err := base64.RawStdEncoding.Decode(b, text)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base64 input")
	}
	return b[:n], nil
}

// decodeDecimal parses whitespace separated byte values.
func decodeDecimal(data []byte) ([]byte, error) {
	fields := strings.Fields(string(data))
	b := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid decimal input %q", f)
		}
		b = append(b, byte(v))
	}
	return b, nil
}

func decodePEM(data []byte) ([]Block, error) {
	var blocks []Block
	for {
		var p *pem.Block
		p, data = pem.Decode(data)
		if p == nil {
			break
		}
		blocks = append(blocks, Block{Label: p.Type, Data: p.Bytes})
	}
	if len(blocks) == 0 {
		return nil, errors.New("invalid pem input: no PEM block found")
	}
	return blocks, nil
}
