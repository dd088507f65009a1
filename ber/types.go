// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"math/big"
	"slices"
	"strconv"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

//region [UNIVERSAL 1] BOOLEAN

// Boolean is the value of an ASN.1 BOOLEAN. The value false is encoded as 0x00,
// true as 0xFF. When decoding, any non-zero byte is true.
type Boolean bool

func (Boolean) Tag() asn1.Tag                   { return universal(asn1.TagBoolean) }
func (Boolean) Kind() Kind                      { return KindBoolean }
func (Boolean) BerMatch(tag asn1.Tag) bool      { return tag == universal(asn1.TagBoolean) }
func (b Boolean) EncodedLen() int               { return encodedLen(b) }
func (b Boolean) BerEncode(w *tlv.Writer) error { return encodeTLV(w, b) }
func (Boolean) contentLen() int                 { return 1 }
func (Boolean) children() []*Node               { return nil }
func (b Boolean) owned() Value                  { return b }

func (b Boolean) writeContent(w *tlv.Writer) error {
	if b {
		return w.WriteByte(0xff)
	}
	return w.WriteByte(0x00)
}

// String returns "true" or "false".
func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

// decodeBoolean requires exactly one content octet. Empty content is accepted
// as true with a warning.
func decodeBoolean(s *decodeState, tag asn1.Tag, r *tlv.Reader) (Value, error) {
	switch r.Len() {
	case 0:
		s.log.Warn().Int("offset", r.Offset()).Stringer("tag", tag).Msg("empty BOOLEAN, assuming true")
		return Boolean(true), nil
	case 1:
		b, _ := r.ReadByte()
		return Boolean(b != 0), nil
	default:
		return nil, asn1.ErrInvalidLength
	}
}

//endregion

//region [UNIVERSAL 2] INTEGER and [UNIVERSAL 10] ENUMERATED

var bigOne = big.NewInt(1)

// integer holds the content octets of an INTEGER or ENUMERATED value. The
// octets are the big-endian two's complement representation of the value and
// are kept verbatim.
type integer struct {
	raw []byte
}

// Bytes returns the content octets of i.
func (i integer) Bytes() []byte { return i.raw }

// BigInt interprets the content octets of i as a two's complement number. Empty
// content is zero.
func (i integer) BigInt() *big.Int {
	n := new(big.Int)
	if len(i.raw) == 0 {
		return n
	}
	if i.raw[0]&0x80 == 0 {
		return n.SetBytes(i.raw)
	}
	// negative integer, calculate 2s complement
	bs := make([]byte, len(i.raw))
	for j, b := range i.raw {
		bs[j] = ^b
	}
	n.SetBytes(bs)
	n.Add(n, bigOne)
	return n.Neg(n)
}

// UnsignedBytes returns the content octets of i without the single leading
// zero octet that keeps a positive number from being read as negative.
func (i integer) UnsignedBytes() []byte {
	if len(i.raw) > 1 && i.raw[0] == 0x00 {
		return i.raw[1:]
	}
	return i.raw
}

// Unsigned interprets the content octets of i as an unsigned big-endian
// number. Empty content is zero.
func (i integer) Unsigned() *big.Int {
	return new(big.Int).SetBytes(i.UnsignedBytes())
}

// Int64 returns the value of i if it fits into an int64.
func (i integer) Int64() (int64, bool) {
	n := i.BigInt()
	return n.Int64(), n.IsInt64()
}

// String returns the decimal representation of i.
func (i integer) String() string {
	return i.BigInt().String()
}

// bigIntBytes returns the minimal two's complement representation of n.
func bigIntBytes(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		// Zero is written as a single zero byte rather than no bytes.
		return []byte{0x00}
	case -1:
		// A negative number has to be converted to two's-complement
		// form. So we'll invert and subtract 1. If the
		// most-significant-bit isn't set then we'll need to pad the
		// beginning with 0xff in order to keep the number negative.
		nMinus1 := new(big.Int).Neg(n)
		nMinus1.Sub(nMinus1, bigOne)
		bs := nMinus1.Bytes()
		for i := range bs {
			bs[i] ^= 0xff
		}
		if len(bs) == 0 || bs[0]&0x80 == 0 {
			return append([]byte{0xff}, bs...)
		}
		return bs
	default:
		bs := n.Bytes()
		if bs[0]&0x80 != 0 {
			// We'll have to pad this with 0x00 in order to stop it
			// looking like a negative number.
			return append([]byte{0x00}, bs...)
		}
		return bs
	}
}

// Integer is the value of an ASN.1 INTEGER. The content octets are kept
// verbatim so that non-minimal encodings survive a round trip.
type Integer struct{ integer }

// NewInteger creates an INTEGER from its content octets. raw is not copied.
func NewInteger(raw []byte) Integer { return Integer{integer{raw}} }

// IntegerFromBig creates an INTEGER holding n.
func IntegerFromBig(n *big.Int) Integer { return NewInteger(bigIntBytes(n)) }

// IntegerFromInt64 creates an INTEGER holding n.
func IntegerFromInt64(n int64) Integer { return IntegerFromBig(big.NewInt(n)) }

func (Integer) Tag() asn1.Tag                      { return universal(asn1.TagInteger) }
func (Integer) Kind() Kind                         { return KindInteger }
func (Integer) BerMatch(tag asn1.Tag) bool         { return tag == universal(asn1.TagInteger) }
func (i Integer) EncodedLen() int                  { return encodedLen(i) }
func (i Integer) BerEncode(w *tlv.Writer) error    { return encodeTLV(w, i) }
func (i Integer) contentLen() int                  { return len(i.raw) }
func (i Integer) writeContent(w *tlv.Writer) error { _, err := w.Write(i.raw); return err }
func (Integer) children() []*Node                  { return nil }
func (i Integer) owned() Value                     { return NewInteger(bytes.Clone(i.raw)) }

func decodeInteger(_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	return NewInteger(r.ReadRemaining()), nil
}

// Enumerated is the value of an ASN.1 ENUMERATED. It is represented like an
// [Integer].
type Enumerated struct{ integer }

// NewEnumerated creates an ENUMERATED from its content octets. raw is not
// copied.
func NewEnumerated(raw []byte) Enumerated { return Enumerated{integer{raw}} }

// EnumeratedFromInt64 creates an ENUMERATED holding n.
func EnumeratedFromInt64(n int64) Enumerated { return NewEnumerated(bigIntBytes(big.NewInt(n))) }

func (Enumerated) Tag() asn1.Tag                      { return universal(asn1.TagEnumerated) }
func (Enumerated) Kind() Kind                         { return KindEnumerated }
func (Enumerated) BerMatch(tag asn1.Tag) bool         { return tag == universal(asn1.TagEnumerated) }
func (e Enumerated) EncodedLen() int                  { return encodedLen(e) }
func (e Enumerated) BerEncode(w *tlv.Writer) error    { return encodeTLV(w, e) }
func (e Enumerated) contentLen() int                  { return len(e.raw) }
func (e Enumerated) writeContent(w *tlv.Writer) error { _, err := w.Write(e.raw); return err }
func (Enumerated) children() []*Node                  { return nil }
func (e Enumerated) owned() Value                     { return NewEnumerated(bytes.Clone(e.raw)) }

func decodeEnumerated(_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	return NewEnumerated(r.ReadRemaining()), nil
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// BitString is the value of an ASN.1 BIT STRING. The first content octet holds
// the number of unused bits in the final octet. The remaining octets hold the
// bits.
//
// If the bit string has no unused bits and its data is a single valid TLV, the
// decoded TLV is available via [BitString.Inner]. This is common for keys and
// signatures embedded in certificates.
type BitString struct {
	raw   []byte
	inner *Node
}

// NewBitString creates a bit string of bitLen bits stored in data. The bits
// are taken from the most significant bits of data. data must not contain
// unnecessary octets. bitLen must not exceed the bits available in data
// ([asn1.ErrTooManyBits]) and there must be fewer than 8 unused bits
// ([asn1.ErrTooManyUnusedBits]).
func NewBitString(bitLen int, data []byte) (*BitString, error) {
	total := 8 * len(data)
	if bitLen < 0 || bitLen > total {
		return nil, asn1.ErrTooManyBits
	}
	if total-bitLen >= 8 {
		return nil, asn1.ErrTooManyUnusedBits
	}
	raw := make([]byte, 1+len(data))
	raw[0] = byte(total - bitLen)
	copy(raw[1:], data)
	b := &BitString{raw: raw}
	if raw[0] == 0 {
		if inner, leftovers := reinterpretDetached(raw[1:]); !leftovers {
			b.inner = inner
		}
	}
	return b, nil
}

// Raw returns the content octets of b including the unused bits octet.
func (b *BitString) Raw() []byte { return b.raw }

// UnusedBits returns the number of unused bits in the last octet of b.
func (b *BitString) UnusedBits() int {
	if len(b.raw) == 0 {
		return 0
	}
	return int(b.raw[0])
}

// Bytes returns the octets holding the bits of b.
func (b *BitString) Bytes() []byte {
	if len(b.raw) == 0 {
		return nil
	}
	return b.raw[1:]
}

// BitLen returns the number of bits in b.
func (b *BitString) BitLen() int {
	return 8*len(b.Bytes()) - b.UnusedBits()
}

// Value returns the bits of b as an [asn1.BitString].
func (b *BitString) Value() asn1.BitString {
	return asn1.BitString{Bytes: b.Bytes(), BitLength: b.BitLen()}
}

// Inner returns the TLV nested in b or nil.
func (b *BitString) Inner() *Node { return b.inner }

// String formats the bits of b as binary digits.
func (b *BitString) String() string { return b.Value().String() }

func (*BitString) Tag() asn1.Tag                   { return universal(asn1.TagBitString) }
func (*BitString) Kind() Kind                      { return KindBitString }
func (*BitString) BerMatch(tag asn1.Tag) bool      { return tag == universal(asn1.TagBitString) }
func (b *BitString) EncodedLen() int               { return encodedLen(b) }
func (b *BitString) BerEncode(w *tlv.Writer) error { return encodeTLV(w, b) }
func (b *BitString) contentLen() int               { return max(len(b.raw), 1) }

func (b *BitString) writeContent(w *tlv.Writer) error {
	if len(b.raw) == 0 {
		// zero value, an empty bit string
		return w.WriteByte(0x00)
	}
	_, err := w.Write(b.raw)
	return err
}

func (b *BitString) children() []*Node {
	if b.inner == nil {
		return nil
	}
	return []*Node{b.inner}
}

func (b *BitString) owned() Value {
	c := &BitString{raw: bytes.Clone(b.raw)}
	if b.inner != nil {
		c.inner = b.inner.Owned()
	}
	return c
}

func decodeBitString(s *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	offset := r.Offset()
	raw := r.ReadRemaining()
	if len(raw) == 0 {
		return nil, asn1.ErrInvalidLength
	}
	if raw[0] > 7 || (raw[0] > 0 && len(raw) == 1) {
		return nil, asn1.ErrTooManyUnusedBits
	}
	b := &BitString{raw: raw}
	if raw[0] == 0 {
		if inner, leftovers := s.reinterpret(r, raw[1:], offset+1); !leftovers {
			b.inner = inner
		}
	}
	return b, nil
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// OctetString is the value of an ASN.1 OCTET STRING. If the octets are a single
// valid TLV, the decoded TLV is available via [OctetString.Inner]. Otherwise
// Inner returns nil. The octets are always authoritative for encoding.
type OctetString struct {
	octets []byte
	inner  *Node
}

// NewOctetString creates an OCTET STRING holding octets. octets is not copied.
// If octets is a single valid TLV, it is decoded into the inner node.
func NewOctetString(octets []byte) *OctetString {
	o := &OctetString{octets: octets}
	if inner, leftovers := reinterpretDetached(octets); !leftovers {
		o.inner = inner
	}
	return o
}

// Octets returns the content octets of o.
func (o *OctetString) Octets() []byte { return o.octets }

// Inner returns the TLV nested in o or nil.
func (o *OctetString) Inner() *Node { return o.inner }

// SetInner replaces the content of o by the encoding of n.
func (o *OctetString) SetInner(n *Node) error {
	b, err := Marshal(n)
	if err != nil {
		return err
	}
	o.octets = b
	o.inner = n.Owned()
	o.inner.ClearMetadata()
	return nil
}

func (*OctetString) Tag() asn1.Tag                      { return universal(asn1.TagOctetString) }
func (*OctetString) Kind() Kind                         { return KindOctetString }
func (*OctetString) BerMatch(tag asn1.Tag) bool         { return tag == universal(asn1.TagOctetString) }
func (o *OctetString) EncodedLen() int                  { return encodedLen(o) }
func (o *OctetString) BerEncode(w *tlv.Writer) error    { return encodeTLV(w, o) }
func (o *OctetString) contentLen() int                  { return len(o.octets) }
func (o *OctetString) writeContent(w *tlv.Writer) error { _, err := w.Write(o.octets); return err }

func (o *OctetString) children() []*Node {
	if o.inner == nil {
		return nil
	}
	return []*Node{o.inner}
}

func (o *OctetString) owned() Value {
	c := &OctetString{octets: bytes.Clone(o.octets)}
	if o.inner != nil {
		c.inner = o.inner.Owned()
	}
	return c
}

// decodeOctetString never fails. Content that is not exactly one TLV stays
// opaque.
func decodeOctetString(s *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	offset := r.Offset()
	octets := r.ReadRemaining()
	o := &OctetString{octets: octets}
	if inner, leftovers := s.reinterpret(r, octets, offset); !leftovers {
		o.inner = inner
	}
	return o, nil
}

//endregion

//region [UNIVERSAL 5] NULL

// Null is the value of an ASN.1 NULL. Its content is always empty.
type Null struct{}

func (Null) Tag() asn1.Tag                   { return universal(asn1.TagNull) }
func (Null) Kind() Kind                      { return KindNull }
func (Null) BerMatch(tag asn1.Tag) bool      { return tag == universal(asn1.TagNull) }
func (n Null) EncodedLen() int               { return encodedLen(n) }
func (n Null) BerEncode(w *tlv.Writer) error { return encodeTLV(w, n) }
func (Null) contentLen() int                 { return 0 }
func (Null) writeContent(*tlv.Writer) error  { return nil }
func (Null) children() []*Node               { return nil }
func (n Null) owned() Value                  { return n }
func (Null) String() string                  { return "NULL" }

func decodeNull(_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	if r.Len() != 0 {
		return nil, asn1.ErrInvalidLength
	}
	return Null{}, nil
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// ObjectIdentifier is the value of an ASN.1 OBJECT IDENTIFIER.
type ObjectIdentifier struct {
	oid asn1.ObjectIdentifier
}

// NewObjectIdentifier creates an OBJECT IDENTIFIER value. If oid cannot be
// encoded, [asn1.ErrInvalidOID] is returned.
func NewObjectIdentifier(oid asn1.ObjectIdentifier) (ObjectIdentifier, error) {
	if !oid.IsValid() {
		return ObjectIdentifier{}, asn1.ErrInvalidOID
	}
	return ObjectIdentifier{slices.Clone(oid)}, nil
}

// OID returns the arcs of o.
func (o ObjectIdentifier) OID() asn1.ObjectIdentifier { return o.oid }

// String returns the dot-separated notation of o.
func (o ObjectIdentifier) String() string { return o.oid.String() }

func (ObjectIdentifier) Tag() asn1.Tag                   { return universal(asn1.TagOID) }
func (ObjectIdentifier) Kind() Kind                      { return KindObjectIdentifier }
func (ObjectIdentifier) BerMatch(tag asn1.Tag) bool      { return tag == universal(asn1.TagOID) }
func (o ObjectIdentifier) EncodedLen() int               { return encodedLen(o) }
func (o ObjectIdentifier) BerEncode(w *tlv.Writer) error { return encodeTLV(w, o) }
func (o ObjectIdentifier) contentLen() int               { return o.oid.BinaryLen() }
func (ObjectIdentifier) children() []*Node               { return nil }
func (o ObjectIdentifier) owned() Value                  { return ObjectIdentifier{slices.Clone(o.oid)} }

func (o ObjectIdentifier) writeContent(w *tlv.Writer) error {
	b, err := o.oid.AppendBinary(make([]byte, 0, o.oid.BinaryLen()))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func decodeObjectIdentifier(_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	var oid asn1.ObjectIdentifier
	if err := oid.UnmarshalBinary(r.ReadRemaining()); err != nil {
		return nil, err
	}
	return ObjectIdentifier{oid}, nil
}

//endregion
