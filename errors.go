// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"fmt"
	"strconv"
)

// These are the error kinds reported by the decoders and encoders of this
// module. Use [errors.Is] to test for a kind.
var (
	// ErrOutOfBounds indicates a read past the end of the available data.
	ErrOutOfBounds = errors.New("read out of bounds")
	// ErrTruncated indicates that a TLV announced more content than the input
	// holds. It is a refinement of ErrOutOfBounds.
	ErrTruncated = fmt.Errorf("truncated data value: %w", ErrOutOfBounds)

	ErrInvalidLength          = errors.New("invalid length")
	ErrInvalidCharacterSet    = errors.New("invalid character set")
	ErrInvalidTimeFormat      = errors.New("invalid time format")
	ErrTooManyBits            = errors.New("bit length exceeds available data")
	ErrTooManyUnusedBits      = errors.New("too many unused bits")
	ErrUnrecognizedTag        = errors.New("unrecognized tag")
	ErrUnconsumedImplicitData = errors.New("unconsumed data in implicit tag")
	ErrBufferTooSmall         = errors.New("buffer too small")
	ErrInvalidOID             = errors.New("invalid object identifier")

	// ErrTrailingData indicates that the input continues after the top-level
	// TLV.
	ErrTrailingData = errors.New("trailing data after top-level value")
	// ErrNestingTooDeep indicates that the input nests TLVs deeper than the
	// decoder permits.
	ErrNestingTooDeep = errors.New("nesting too deep")
)

// SyntaxError reports a decoding failure at a specific node. Offset is the
// absolute position of the node's identifier octet in the decoded buffer.
type SyntaxError struct {
	Tag    Tag
	Offset int
	Err    error
}

// WrapSyntaxError attaches tag and offset to err. If err already carries a
// [*SyntaxError] it is returned unchanged so that the innermost location is
// retained.
func WrapSyntaxError(tag Tag, offset int, err error) error {
	if err == nil {
		return nil
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return err
	}
	return &SyntaxError{Tag: tag, Offset: offset, Err: err}
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	b := []byte("asn1: syntax error in ")
	b = append(b, e.Tag.String()...)
	b = strconv.AppendInt(append(b, " at offset "...), int64(e.Offset), 10)
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}
