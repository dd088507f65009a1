// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"github.com/rs/zerolog"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

// DefaultMaxDepth is the nesting limit used by a [Decoder] with a zero
// MaxDepth.
const DefaultMaxDepth = 128

// A Decoder decodes BER encoded buffers into trees of [*Node] values. The zero
// value is ready to use. A Decoder does not keep state between calls and can be
// used concurrently.
type Decoder struct {
	// Logger receives diagnostics about lenient decoding decisions, such as an
	// empty BOOLEAN or content that could not be reinterpreted as a nested TLV.
	// If Logger is nil, nothing is logged.
	Logger *zerolog.Logger

	// FirstID is the identifier assigned to the first decoded node. Subsequent
	// nodes are numbered consecutively in pre-order.
	FirstID uint64

	// MaxDepth limits how deeply TLVs may be nested. This includes content that
	// is reinterpreted as a nested TLV. If MaxDepth is 0, DefaultMaxDepth is
	// used.
	MaxDepth int
}

// Decode parses a single BER encoded TLV from data using the default
// [Decoder]. See [Decoder.Decode] for details.
func Decode(data []byte) (*Node, error) {
	var d Decoder
	return d.Decode(data)
}

// Decode parses data as exactly one BER encoded TLV and returns the decoded
// tree. The returned tree shares memory with data. If data contains bytes after
// the TLV, an error wrapping [asn1.ErrTrailingData] is returned.
//
// If decoding fails anywhere within the tree, no tree is returned. The error
// wraps one of the error kinds defined in package asn1 and is usually a
// [*asn1.SyntaxError] locating the node that could not be decoded.
func (d *Decoder) Decode(data []byte) (*Node, error) {
	r := tlv.NewReader(data)
	r.SetNextID(d.FirstID)
	s := d.state()
	n, err := s.decodeNode(r)
	if err != nil {
		return nil, err
	}
	if !r.Empty() {
		return nil, &asn1.SyntaxError{Tag: asn1.Tag(data[r.Pos()]), Offset: r.Offset(), Err: asn1.ErrTrailingData}
	}
	return n, nil
}

// DecodeAll parses data as a concatenation of BER encoded TLVs. Identifiers are
// assigned consecutively across all returned trees.
func (d *Decoder) DecodeAll(data []byte) ([]*Node, error) {
	r := tlv.NewReader(data)
	r.SetNextID(d.FirstID)
	s := d.state()
	var nodes []*Node
	for !r.Empty() {
		n, err := s.decodeNode(r)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// state returns the decoding state for a single call to d.
func (d *Decoder) state() *decodeState {
	s := &decodeState{maxDepth: d.MaxDepth, log: d.Logger}
	if s.maxDepth <= 0 {
		s.maxDepth = DefaultMaxDepth
	}
	if s.log == nil {
		nop := zerolog.Nop()
		s.log = &nop
	}
	return s
}

// decodeState holds the configuration of a single decode pass.
type decodeState struct {
	maxDepth int
	log      *zerolog.Logger
}

// decodeFunc decodes the content octets of a TLV identified by tag. r reads
// exactly the content octets and must be consumed completely.
type decodeFunc func(s *decodeState, tag asn1.Tag, r *tlv.Reader) (Value, error)

// codecFor returns the decode function of the first value type that claims
// tag. The order of the cases defines the dispatch priority. If no value type
// claims tag, nil is returned.
func codecFor(tag asn1.Tag) decodeFunc {
	switch {
	case Boolean(false).BerMatch(tag):
		return decodeBoolean
	case Integer{}.BerMatch(tag):
		return decodeInteger
	case (*BitString)(nil).BerMatch(tag):
		return decodeBitString
	case (*OctetString)(nil).BerMatch(tag):
		return decodeOctetString
	case Null{}.BerMatch(tag):
		return decodeNull
	case ObjectIdentifier{}.BerMatch(tag):
		return decodeObjectIdentifier
	case Enumerated{}.BerMatch(tag):
		return decodeEnumerated
	case UTF8String{}.BerMatch(tag):
		return decodeString[UTF8]
	case (*Sequence)(nil).BerMatch(tag):
		return decodeSequence
	case (*Set)(nil).BerMatch(tag):
		return decodeSet
	case NumericString{}.BerMatch(tag):
		return decodeString[Numeric]
	case PrintableString{}.BerMatch(tag):
		return decodeString[Printable]
	case IA5String{}.BerMatch(tag):
		return decodeString[IA5]
	case UTCTime{}.BerMatch(tag):
		return decodeUTCTime
	case GeneralizedTime{}.BerMatch(tag):
		return decodeGeneralizedTime
	case VisibleString{}.BerMatch(tag):
		return decodeString[Visible]
	case GeneralString{}.BerMatch(tag):
		return decodeString[General]
	case BMPString{}.BerMatch(tag):
		return decodeString[BMP]
	case (*ExplicitTag)(nil).BerMatch(tag):
		return decodeExplicitTag
	case (*ImplicitTag)(nil).BerMatch(tag):
		return decodeImplicitTag
	case (*ApplicationTag)(nil).BerMatch(tag):
		return decodeApplicationTag
	}
	return nil
}

// decodeNode decodes the TLV at the current position of r. The node receives
// the next identifier of r before any of its descendants so that identifiers
// are increasing in pre-order.
func (s *decodeState) decodeNode(r *tlv.Reader) (*Node, error) {
	start := r.Pos()
	offset := r.Offset()
	b, err := r.ReadByte()
	if err != nil {
		return nil, asn1.ErrTruncated
	}
	tag := asn1.Tag(b)
	l, err := tlv.ReadLength(r)
	if err != nil {
		return nil, &asn1.SyntaxError{Tag: tag, Offset: offset, Err: err}
	}
	contentStart := r.Pos()
	content, err := r.ReadN(l)
	if err != nil {
		return nil, &asn1.SyntaxError{Tag: tag, Offset: offset, Err: asn1.ErrTruncated}
	}
	decode := codecFor(tag)
	if decode == nil {
		return nil, &asn1.SyntaxError{Tag: tag, Offset: offset, Err: asn1.ErrUnrecognizedTag}
	}
	if r.Depth() >= s.maxDepth {
		return nil, &asn1.SyntaxError{Tag: tag, Offset: offset, Err: asn1.ErrNestingTooDeep}
	}

	id := r.NextID()
	sub := r.Sub(content, offset+contentStart-start)
	v, err := decode(s, tag, sub)
	if err == nil && !sub.Empty() {
		err = asn1.ErrInvalidLength
	}
	if err != nil {
		return nil, asn1.WrapSyntaxError(tag, offset, err)
	}
	r.Join(sub)

	raw := r.Data()[start:r.Pos():r.Pos()]
	return &Node{
		id:    id,
		meta:  tlv.NewMetadata(raw, offset, contentStart-start),
		value: v,
	}, nil
}

// decodeFields decodes the content of r as a sequence of complete TLVs.
func (s *decodeState) decodeFields(r *tlv.Reader) ([]*Node, error) {
	var fields []*Node
	for !r.Empty() {
		n, err := s.decodeNode(r)
		if err != nil {
			return nil, err
		}
		fields = append(fields, n)
	}
	return fields, nil
}

// reinterpret attempts to decode data as a single nested TLV. offset is the
// absolute position of data. If decoding fails, inner is nil. If decoding
// succeeds but data contains bytes after the TLV, inner is returned with
// leftovers set to true.
//
// The identifier counter of r is only advanced if inner is non-nil and there
// are no leftovers.
func (s *decodeState) reinterpret(r *tlv.Reader, data []byte, offset int) (inner *Node, leftovers bool) {
	if len(data) == 0 {
		return nil, false
	}
	sub := r.Sub(data, offset)
	inner, err := s.decodeNode(sub)
	if err != nil {
		s.log.Debug().Err(err).Int("offset", offset).Msg("content is not a nested TLV")
		return nil, false
	}
	if !sub.Empty() {
		s.log.Debug().Int("offset", offset).Int("leftover", sub.Len()).Msg("nested TLV does not span the content")
		return inner, true
	}
	r.Join(sub)
	return inner, false
}

// reinterpretDetached decodes data as a single nested TLV outside a decode
// pass. The returned node has no identifiers or metadata.
func reinterpretDetached(data []byte) (inner *Node, leftovers bool) {
	var d Decoder
	r := tlv.NewReader(nil)
	inner, leftovers = d.state().reinterpret(r, data, 0)
	if inner != nil {
		inner = inner.Owned()
		inner.ClearMetadata()
	}
	return inner, leftovers
}
