// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 defines the basic vocabulary for working with ASN.1 data
// encoded in the Basic Encoding Rules as defined in [Rec. ITU-T X.680] and
// [Rec. ITU-T X.690]. The package itself does not decode anything. It provides
// the tag model, the error kinds reported by the decoders and a few value types
// that are shared by its subpackages:
//
//   - Package [codello.dev/asn1tree/tlv] implements the syntactic layer: a
//     byte cursor over the input, the length codec and per-node metadata that
//     records where each part of a TLV lives in the input.
//   - Package [codello.dev/asn1tree/ber] implements the semantic layer. It
//     decodes a complete input into a tree of typed nodes and encodes such a
//     tree back into bytes.
//
// # Tags
//
// Only the low-tag-number form is supported. A [Tag] is exactly one identifier
// octet. The two most significant bits hold the [Class], bit 6 indicates the
// constructed encoding and the remaining five bits hold the tag number. A tag
// number of 31 announces the high-tag-number form. Such tags can be
// represented by the [Tag] type but no decoder in this module accepts them.
//
// # Errors
//
// All decoding and encoding failures are reported through the sentinel errors
// defined in this package (such as [ErrOutOfBounds] or [ErrInvalidLength]).
// Callers should use [errors.Is] to test for a specific kind. Errors that
// originate at a specific node are wrapped in a [*SyntaxError] that records the
// tag and the absolute offset of that node.
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package asn1

import (
	"strconv"
	"strings"
)

// Tag is a single BER identifier octet. It combines a [Class], the constructed
// flag and a tag number in the range 0-30. For details, see Section 8.1.2 of
// Rec. ITU-T X.690.
type Tag byte

// Bit layout of a [Tag].
const (
	classMask       = 0xc0
	constructedFlag = 0x20
	numberMask      = 0x1f
)

// NewTag assembles a tag from its parts. Only the low five bits of number are
// used.
func NewTag(class Class, constructed bool, number uint8) Tag {
	t := Tag(class&0x3)<<6 | Tag(number&numberMask)
	if constructed {
		t |= constructedFlag
	}
	return t
}

// Class returns the class bits of t.
func (t Tag) Class() Class {
	return Class(t&classMask) >> 6
}

// Constructed reports whether t indicates the constructed encoding.
func (t Tag) Constructed() bool {
	return t&constructedFlag != 0
}

// Number returns the tag number of t. A value of 31 indicates that t is the
// first octet of a high-tag-number identifier.
func (t Tag) Number() uint8 {
	return uint8(t & numberMask)
}

// IsLongForm reports whether t announces the high-tag-number form.
func (t Tag) IsLongForm() bool {
	return t&numberMask == numberMask
}

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax. Constructed tags are
// suffixed with "/c".
func (t Tag) String() string {
	var s string
	if t.Class() == ClassContextSpecific {
		s = "[" + strconv.FormatUint(uint64(t.Number()), 10) + "]"
	} else {
		s = "[" + strings.ToUpper(t.Class().String()) + " " + strconv.FormatUint(uint64(t.Number()), 10) + "]"
	}
	if t.Constructed() {
		s += "/c"
	}
	return s
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// These are the ASN.1 tag numbers in the [ClassUniversal] namespace that have a
// decoder in this module. These assignments are defined in Rec. ITU-T X.680,
// Section 8, Table 1.
const (
	TagBoolean         uint8 = 1
	TagInteger         uint8 = 2
	TagBitString       uint8 = 3
	TagOctetString     uint8 = 4
	TagNull            uint8 = 5
	TagOID             uint8 = 6
	TagEnumerated      uint8 = 10
	TagUTF8String      uint8 = 12
	TagSequence        uint8 = 16
	TagSet             uint8 = 17
	TagNumericString   uint8 = 18
	TagPrintableString uint8 = 19
	TagIA5String       uint8 = 22
	TagUTCTime         uint8 = 23
	TagGeneralizedTime uint8 = 24
	TagVisibleString   uint8 = 26
	TagGeneralString   uint8 = 27
	TagBMPString       uint8 = 30
)
