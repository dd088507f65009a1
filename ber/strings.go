// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

// StringKind identifies one of the ASN.1 character string types supported by
// [String]. The set of implementations is closed. It consists of [UTF8], [IA5],
// [Printable], [Visible], [Numeric], [General] and [BMP].
type StringKind interface {
	tagNumber() uint8
	kind() Kind
	// validate checks that raw holds valid content octets.
	validate(raw []byte) error
	// text converts valid content octets into a Go string.
	text(raw []byte) string
	// encode converts s into content octets.
	encode(s string) ([]byte, error)
}

// utf8Kind implements the parts of [StringKind] shared by all kinds that store
// their characters as UTF-8 or ASCII.
type utf8Kind struct{}

func (utf8Kind) text(raw []byte) string { return string(raw) }

// UTF8 is the [StringKind] of the ASN.1 UTF8String type.
type UTF8 struct{ utf8Kind }

// IA5 is the [StringKind] of the ASN.1 IA5String type.
type IA5 struct{ utf8Kind }

// Printable is the [StringKind] of the ASN.1 PrintableString type.
type Printable struct{ utf8Kind }

// Visible is the [StringKind] of the ASN.1 VisibleString type.
type Visible struct{ utf8Kind }

// Numeric is the [StringKind] of the ASN.1 NumericString type.
type Numeric struct{ utf8Kind }

// General is the [StringKind] of the ASN.1 GeneralString type. Its content is
// only required to be valid UTF-8.
type General struct{ utf8Kind }

// BMP is the [StringKind] of the ASN.1 BMPString type. Its content is stored as
// big endian UTF-16 code units.
type BMP struct{}

func (UTF8) tagNumber() uint8      { return asn1.TagUTF8String }
func (IA5) tagNumber() uint8       { return asn1.TagIA5String }
func (Printable) tagNumber() uint8 { return asn1.TagPrintableString }
func (Visible) tagNumber() uint8   { return asn1.TagVisibleString }
func (Numeric) tagNumber() uint8   { return asn1.TagNumericString }
func (General) tagNumber() uint8   { return asn1.TagGeneralString }
func (BMP) tagNumber() uint8       { return asn1.TagBMPString }

func (UTF8) kind() Kind      { return KindUTF8String }
func (IA5) kind() Kind       { return KindIA5String }
func (Printable) kind() Kind { return KindPrintableString }
func (Visible) kind() Kind   { return KindVisibleString }
func (Numeric) kind() Kind   { return KindNumericString }
func (General) kind() Kind   { return KindGeneralString }
func (BMP) kind() Kind       { return KindBMPString }

func (k UTF8) validate(raw []byte) error      { return check(k, raw, asn1.IsUTF8) }
func (k IA5) validate(raw []byte) error       { return check(k, raw, asn1.IsIA5) }
func (k Printable) validate(raw []byte) error { return check(k, raw, asn1.IsPrintable) }
func (k Visible) validate(raw []byte) error   { return check(k, raw, asn1.IsVisible) }
func (k Numeric) validate(raw []byte) error   { return check(k, raw, asn1.IsNumeric) }
func (k General) validate(raw []byte) error   { return check(k, raw, asn1.IsUTF8) }

func (k UTF8) encode(s string) ([]byte, error)      { return encodeChecked(k, s) }
func (k IA5) encode(s string) ([]byte, error)       { return encodeChecked(k, s) }
func (k Printable) encode(s string) ([]byte, error) { return encodeChecked(k, s) }
func (k Visible) encode(s string) ([]byte, error)   { return encodeChecked(k, s) }
func (k Numeric) encode(s string) ([]byte, error)   { return encodeChecked(k, s) }
func (k General) encode(s string) ([]byte, error)   { return encodeChecked(k, s) }

// check validates raw using valid. Every kind except [BMP] also requires valid
// UTF-8.
func check(k StringKind, raw []byte, valid func([]byte) bool) error {
	if !utf8.Valid(raw) || !valid(raw) {
		return &CharacterSetError{Kind: k.kind(), Raw: raw}
	}
	return nil
}

func encodeChecked(k StringKind, s string) ([]byte, error) {
	raw := []byte(s)
	if err := k.validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// bmpEncoding is the storage encoding of BMPString values. Byte order marks are
// data, not markers.
var bmpEncoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// validate requires an even number of octets and rejects surrogate code units.
// Characters outside the Basic Multilingual Plane cannot be represented.
func (k BMP) validate(raw []byte) error {
	if len(raw)%2 != 0 {
		return asn1.ErrInvalidLength
	}
	for i := 0; i < len(raw); i += 2 {
		if u := uint16(raw[i])<<8 | uint16(raw[i+1]); u >= 0xd800 && u <= 0xdfff {
			return &CharacterSetError{Kind: k.kind(), Raw: raw}
		}
	}
	return nil
}

func (BMP) text(raw []byte) string {
	s, err := bmpEncoding.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(s)
}

func (k BMP) encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, &CharacterSetError{Kind: k.kind(), Raw: []byte(s)}
	}
	for _, r := range s {
		if r > 0xffff {
			return nil, &CharacterSetError{Kind: k.kind(), Raw: []byte(s)}
		}
	}
	return bmpEncoding.NewEncoder().Bytes([]byte(s))
}

// CharacterSetError indicates that the content of a string does not belong to
// the character set of its kind. The offending content is retained in Raw.
type CharacterSetError struct {
	Kind Kind
	Raw  []byte
}

func (e *CharacterSetError) Error() string {
	return "ber: invalid character in " + e.Kind.String()
}

// Unwrap returns [asn1.ErrInvalidCharacterSet].
func (e *CharacterSetError) Unwrap() error {
	return asn1.ErrInvalidCharacterSet
}

// String is the value of an ASN.1 character string of kind K. The content
// octets are kept verbatim and are valid for K.
type String[K StringKind] struct {
	raw []byte
}

// These are the string types decoded by this package.
type (
	UTF8String      = String[UTF8]
	IA5String       = String[IA5]
	PrintableString = String[Printable]
	VisibleString   = String[Visible]
	NumericString   = String[Numeric]
	GeneralString   = String[General]
	BMPString       = String[BMP]
)

// NewString converts s into a string of kind K. If s contains characters
// outside the character set of K, a [*CharacterSetError] is returned.
func NewString[K StringKind](s string) (String[K], error) {
	var k K
	raw, err := k.encode(s)
	if err != nil {
		return String[K]{}, err
	}
	return String[K]{raw}, nil
}

// StringFromBytes creates a string of kind K from its content octets. raw is
// not copied.
func StringFromBytes[K StringKind](raw []byte) (String[K], error) {
	var k K
	if err := k.validate(raw); err != nil {
		return String[K]{}, err
	}
	return String[K]{raw}, nil
}

// Bytes returns the content octets of s.
func (s String[K]) Bytes() []byte { return s.raw }

// String returns the characters of s as a Go string.
func (s String[K]) String() string {
	var k K
	return k.text(s.raw)
}

func (s String[K]) Tag() asn1.Tag {
	var k K
	return universal(k.tagNumber())
}

func (s String[K]) Kind() Kind {
	var k K
	return k.kind()
}

func (s String[K]) BerMatch(tag asn1.Tag) bool      { return tag == s.Tag() }
func (s String[K]) EncodedLen() int                 { return encodedLen(s) }
func (s String[K]) BerEncode(w *tlv.Writer) error   { return encodeTLV(w, s) }
func (s String[K]) contentLen() int                 { return len(s.raw) }
func (s String[K]) writeContent(w *tlv.Writer) error { _, err := w.Write(s.raw); return err }
func (String[K]) children() []*Node                 { return nil }
func (s String[K]) owned() Value                    { return String[K]{bytes.Clone(s.raw)} }

func decodeString[K StringKind](_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	s, err := StringFromBytes[K](r.ReadRemaining())
	if err != nil {
		return nil, err
	}
	return s, nil
}
