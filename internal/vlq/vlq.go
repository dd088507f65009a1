// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vlq implements [Variable-length quantity] encoding as used by the
// subidentifiers of a BER encoded OBJECT IDENTIFIER. A VLQ is a base-128
// representation of an unsigned integer with the eighth bit of each byte
// marking continuation. Only minimal encodings are accepted.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
package vlq

import (
	"errors"
	"io"
	"math/bits"
	"unsafe"
)

var (
	errNotMinimal = errors.New("vlq is not minimally encoded")
	errOverflow   = errors.New("vlq too large for target type")
)

// Unsigned is the set of types a VLQ can be decoded into.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Decode parses the minimally encoded VLQ at the start of b. It returns the
// value and the number of bytes consumed. The maximum value is limited by the
// size of T.
//
// If b is empty, the error is [io.EOF]. If b ends within the VLQ, the error is
// [io.ErrUnexpectedEOF].
func Decode[T Unsigned](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, io.EOF
	}
	if b[0] == 0x80 {
		return 0, 0, errNotMinimal
	}
	width := int(unsafe.Sizeof(ret) * 8)
	numBits := 0
	for n < len(b) {
		c := b[n]
		n++
		if numBits == 0 {
			numBits = bits.Len8(c & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > width {
			return 0, 0, errOverflow
		}
		ret = ret<<7 | T(c&0x7f)
		if c&0x80 == 0 {
			return ret, n, nil
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}

// Length returns the number of bytes needed to encode n as a VLQ.
func Length[T Unsigned](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the minimal VLQ encoding of i to b and returns the extended
// slice. Exactly [Length](i) bytes are appended.
func Append[T Unsigned](b []byte, i T) []byte {
	for j := Length(i) - 1; j >= 0; j-- {
		c := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			c |= 0x80
		}
		b = append(b, c)
	}
	return b
}
