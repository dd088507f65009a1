// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber decodes BER encoded ASN.1 data into a tree of typed nodes and
// encodes such trees back into bytes. The Basic Encoding Rules are defined in
// [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// The decoder does not need a schema. Every TLV is classified by its
// identifier octet alone and decoded into one of the [Value] types of this
// package. The result of a decode is a [*Node] tree. Each node carries
//
//   - an identifier that is unique within the decode pass. Identifiers are
//     assigned in pre-order and are contiguous, starting at
//     [Decoder.FirstID].
//   - the [tlv.Metadata] of the TLV it was decoded from, which records the
//     exact bytes and the positions of the length and content octets.
//   - its [Value].
//
// # Borrowed and Owned Trees
//
// Decoding does not copy. Byte and string payloads of a decoded tree share
// memory with the input buffer and must not outlive it. [Node.Owned] returns a
// deep copy that is independent of the input. A [Handle] always holds an owned
// tree.
//
// # Ambiguous Content
//
// Implicitly tagged values ([ImplicitTag]), OCTET STRING and BIT STRING
// values are opaque octets by definition. Because many protocols nest BER
// encodings inside these types, the decoder attempts to decode their content
// as exactly one nested TLV. If that succeeds, the nested node is available via
// the Inner method. If it fails, the value is kept as opaque octets. This is
// a heuristic. Without a schema it is impossible to know whether content is
// meant to be nested.
//
// The following limitations apply:
//
//   - Only the low-tag-number form of identifier octets is supported. Tags with
//     a tag number of 31 are reported as [asn1.ErrUnrecognizedTag].
//   - Only the definite-length form is supported.
//   - Universal types use the primitive encoding only (except SEQUENCE and
//     SET). Constructed strings are reported as [asn1.ErrUnrecognizedTag].
//   - Tags of the PRIVATE class are not supported.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package ber

import (
	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

// Kind identifies the variant of a [Value].
//
//go:generate stringer -type=Kind -trimprefix=Kind
type Kind uint8

// These are the possible [Kind] values. The order of the constants is the
// priority in which the decoder offers a tag to the value types.
const (
	KindInvalid Kind = iota
	KindBoolean
	KindInteger
	KindBitString
	KindOctetString
	KindNull
	KindObjectIdentifier
	KindEnumerated
	KindUTF8String
	KindSequence
	KindSet
	KindNumericString
	KindPrintableString
	KindIA5String
	KindUTCTime
	KindGeneralizedTime
	KindVisibleString
	KindGeneralString
	KindBMPString
	KindExplicitTag
	KindImplicitTag
	KindApplicationTag
)

// Value is the decoded value of a [Node]. The set of implementations is closed.
// It consists of the following types:
//
//	Boolean, Null, Integer, Enumerated, ObjectIdentifier,
//	*BitString, *OctetString,
//	UTF8String, IA5String, PrintableString, VisibleString,
//	NumericString, GeneralString, BMPString,
//	UTCTime, GeneralizedTime,
//	*Sequence, *Set, *ExplicitTag, *ImplicitTag, *ApplicationTag
//
// Types holding child nodes are used by pointer.
type Value interface {
	// Tag returns the identifier octet used to encode the value.
	Tag() asn1.Tag
	// Kind returns the variant of the value.
	Kind() Kind
	// EncodedLen returns the number of bytes of the complete TLV encoding of the
	// value.
	EncodedLen() int
	// BerEncode writes the complete TLV encoding of the value to w.
	BerEncode(w *tlv.Writer) error

	contentLen() int
	writeContent(w *tlv.Writer) error
	children() []*Node
	owned() Value
}

// encodedLen implements [Value.EncodedLen] in terms of the content length.
func encodedLen(v Value) int {
	l := v.contentLen()
	return tlv.HeaderSize(l) + l
}

// encodeTLV implements [Value.BerEncode] by writing the identifier and length
// octets followed by the content of v.
func encodeTLV(w *tlv.Writer, v Value) error {
	if err := w.WriteByte(byte(v.Tag())); err != nil {
		return err
	}
	if err := tlv.WriteLength(w, v.contentLen()); err != nil {
		return err
	}
	return v.writeContent(w)
}

// universal returns the primitive tag for the given universal tag number.
func universal(number uint8) asn1.Tag {
	return asn1.NewTag(asn1.ClassUniversal, false, number)
}
