// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"fmt"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

// maxTagNumber is the largest tag number that fits into a single identifier
// octet.
const maxTagNumber = 30

// checkTagNumber rejects tag numbers that would need the high-tag-number form.
func checkTagNumber(n uint8) error {
	if n > maxTagNumber {
		return fmt.Errorf("%w: tag number %d", asn1.ErrUnrecognizedTag, n)
	}
	return nil
}

// fieldsLen returns the number of content octets of a constructed value with
// the given fields.
func fieldsLen(fields []*Node) int {
	l := 0
	for _, f := range fields {
		l += f.EncodedLen()
	}
	return l
}

func writeFields(w *tlv.Writer, fields []*Node) error {
	for _, f := range fields {
		if err := f.BerEncode(w); err != nil {
			return err
		}
	}
	return nil
}

func ownedFields(fields []*Node) []*Node {
	if fields == nil {
		return nil
	}
	c := make([]*Node, len(fields))
	for i, f := range fields {
		c[i] = f.Owned()
	}
	return c
}

// newNodes wraps each value in a node without metadata.
func newNodes(values []Value) []*Node {
	if len(values) == 0 {
		return nil
	}
	nodes := make([]*Node, len(values))
	for i, v := range values {
		nodes[i] = NewNode(v)
	}
	return nodes
}

//region [UNIVERSAL 16] SEQUENCE

// Sequence is the value of an ASN.1 SEQUENCE or SEQUENCE OF. Fields are kept in
// encoding order.
type Sequence struct {
	Fields []*Node
}

// NewSequence creates a SEQUENCE holding the given values in order.
func NewSequence(values ...Value) *Sequence {
	return &Sequence{Fields: newNodes(values)}
}

func (*Sequence) Tag() asn1.Tag                      { return asn1.NewTag(asn1.ClassUniversal, true, asn1.TagSequence) }
func (*Sequence) Kind() Kind                         { return KindSequence }
func (s *Sequence) BerMatch(tag asn1.Tag) bool       { return tag == s.Tag() }
func (s *Sequence) EncodedLen() int                  { return encodedLen(s) }
func (s *Sequence) BerEncode(w *tlv.Writer) error    { return encodeTLV(w, s) }
func (s *Sequence) contentLen() int                  { return fieldsLen(s.Fields) }
func (s *Sequence) writeContent(w *tlv.Writer) error { return writeFields(w, s.Fields) }
func (s *Sequence) children() []*Node                { return s.Fields }
func (s *Sequence) owned() Value                     { return &Sequence{Fields: ownedFields(s.Fields)} }

func decodeSequence(s *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	fields, err := s.decodeFields(r)
	if err != nil {
		return nil, err
	}
	return &Sequence{Fields: fields}, nil
}

//endregion

//region [UNIVERSAL 17] SET

// Set is the value of an ASN.1 SET or SET OF. Fields are kept in encoding order.
// DER sorting is not enforced.
type Set struct {
	Fields []*Node
}

// NewSet creates a SET holding the given values in order.
func NewSet(values ...Value) *Set {
	return &Set{Fields: newNodes(values)}
}

func (*Set) Tag() asn1.Tag                      { return asn1.NewTag(asn1.ClassUniversal, true, asn1.TagSet) }
func (*Set) Kind() Kind                         { return KindSet }
func (s *Set) BerMatch(tag asn1.Tag) bool       { return tag == s.Tag() }
func (s *Set) EncodedLen() int                  { return encodedLen(s) }
func (s *Set) BerEncode(w *tlv.Writer) error    { return encodeTLV(w, s) }
func (s *Set) contentLen() int                  { return fieldsLen(s.Fields) }
func (s *Set) writeContent(w *tlv.Writer) error { return writeFields(w, s.Fields) }
func (s *Set) children() []*Node                { return s.Fields }
func (s *Set) owned() Value                     { return &Set{Fields: ownedFields(s.Fields)} }

func decodeSet(s *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	fields, err := s.decodeFields(r)
	if err != nil {
		return nil, err
	}
	return &Set{Fields: fields}, nil
}

//endregion

//region [n] Explicit Tags

// ExplicitTag is a constructed context-specific value. An explicit tag usually
// wraps exactly one value but any number of fields is decoded.
type ExplicitTag struct {
	Number uint8
	Fields []*Node
}

// NewExplicitTag creates the explicit tag [number] wrapping the given values.
// Tag numbers above 30 are rejected with [asn1.ErrUnrecognizedTag].
func NewExplicitTag(number uint8, values ...Value) (*ExplicitTag, error) {
	if err := checkTagNumber(number); err != nil {
		return nil, err
	}
	return &ExplicitTag{Number: number, Fields: newNodes(values)}, nil
}

// Inner returns the first field of t or nil if t is empty.
func (t *ExplicitTag) Inner() *Node {
	if len(t.Fields) == 0 {
		return nil
	}
	return t.Fields[0]
}

func (t *ExplicitTag) Tag() asn1.Tag { return asn1.NewTag(asn1.ClassContextSpecific, true, t.Number) }
func (*ExplicitTag) Kind() Kind      { return KindExplicitTag }

func (*ExplicitTag) BerMatch(tag asn1.Tag) bool {
	return tag.Class() == asn1.ClassContextSpecific && tag.Constructed() && !tag.IsLongForm()
}

func (t *ExplicitTag) BerEncode(w *tlv.Writer) error {
	if err := checkTagNumber(t.Number); err != nil {
		return err
	}
	return encodeTLV(w, t)
}

func (t *ExplicitTag) EncodedLen() int                  { return encodedLen(t) }
func (t *ExplicitTag) contentLen() int                  { return fieldsLen(t.Fields) }
func (t *ExplicitTag) writeContent(w *tlv.Writer) error { return writeFields(w, t.Fields) }
func (t *ExplicitTag) children() []*Node                { return t.Fields }

func (t *ExplicitTag) owned() Value {
	return &ExplicitTag{Number: t.Number, Fields: ownedFields(t.Fields)}
}

func decodeExplicitTag(s *decodeState, tag asn1.Tag, r *tlv.Reader) (Value, error) {
	fields, err := s.decodeFields(r)
	if err != nil {
		return nil, err
	}
	return &ExplicitTag{Number: tag.Number(), Fields: fields}, nil
}

//endregion

//region [APPLICATION n] Application Tags

// ApplicationTag is a constructed value of the APPLICATION class. It is
// structured like an [ExplicitTag].
type ApplicationTag struct {
	Number uint8
	Fields []*Node
}

// NewApplicationTag creates the application tag [APPLICATION number] wrapping
// the given values. Tag numbers above 30 are rejected with
// [asn1.ErrUnrecognizedTag].
func NewApplicationTag(number uint8, values ...Value) (*ApplicationTag, error) {
	if err := checkTagNumber(number); err != nil {
		return nil, err
	}
	return &ApplicationTag{Number: number, Fields: newNodes(values)}, nil
}

// Inner returns the first field of t or nil if t is empty.
func (t *ApplicationTag) Inner() *Node {
	if len(t.Fields) == 0 {
		return nil
	}
	return t.Fields[0]
}

func (t *ApplicationTag) Tag() asn1.Tag { return asn1.NewTag(asn1.ClassApplication, true, t.Number) }
func (*ApplicationTag) Kind() Kind      { return KindApplicationTag }

func (*ApplicationTag) BerMatch(tag asn1.Tag) bool {
	return tag.Class() == asn1.ClassApplication && tag.Constructed() && !tag.IsLongForm()
}

func (t *ApplicationTag) BerEncode(w *tlv.Writer) error {
	if err := checkTagNumber(t.Number); err != nil {
		return err
	}
	return encodeTLV(w, t)
}

func (t *ApplicationTag) EncodedLen() int                  { return encodedLen(t) }
func (t *ApplicationTag) contentLen() int                  { return fieldsLen(t.Fields) }
func (t *ApplicationTag) writeContent(w *tlv.Writer) error { return writeFields(w, t.Fields) }
func (t *ApplicationTag) children() []*Node                { return t.Fields }

func (t *ApplicationTag) owned() Value {
	return &ApplicationTag{Number: t.Number, Fields: ownedFields(t.Fields)}
}

func decodeApplicationTag(s *decodeState, tag asn1.Tag, r *tlv.Reader) (Value, error) {
	fields, err := s.decodeFields(r)
	if err != nil {
		return nil, err
	}
	return &ApplicationTag{Number: tag.Number(), Fields: fields}, nil
}

//endregion

//region [n] Implicit Tags

// ImplicitTag is a primitive context-specific value. Without a schema the type
// of the tagged value is unknown. The content is kept as opaque octets. If the
// octets are a single valid TLV, it is available via [ImplicitTag.Inner].
type ImplicitTag struct {
	Number uint8
	octets []byte
	inner  *Node
}

// NewImplicitTag creates the implicit tag [number] holding octets. octets is not
// copied. If octets is a single valid TLV, it is decoded into the inner node.
//
// Tag numbers above 30 are rejected with [asn1.ErrUnrecognizedTag]. Octets
// that start with a valid TLV but hold more bytes after it are rejected with
// [asn1.ErrUnconsumedImplicitData], as they are by the decoder.
func NewImplicitTag(number uint8, octets []byte) (*ImplicitTag, error) {
	if err := checkTagNumber(number); err != nil {
		return nil, err
	}
	inner, leftovers := reinterpretDetached(octets)
	if leftovers {
		return nil, asn1.ErrUnconsumedImplicitData
	}
	return &ImplicitTag{Number: number, octets: octets, inner: inner}, nil
}

// Octets returns the content octets of t.
func (t *ImplicitTag) Octets() []byte { return t.octets }

// Inner returns the TLV nested in t or nil.
func (t *ImplicitTag) Inner() *Node { return t.inner }

// SetInner replaces the content of t by the encoding of n.
func (t *ImplicitTag) SetInner(n *Node) error {
	b, err := Marshal(n)
	if err != nil {
		return err
	}
	t.octets = b
	t.inner = n.Owned()
	t.inner.ClearMetadata()
	return nil
}

func (t *ImplicitTag) Tag() asn1.Tag { return asn1.NewTag(asn1.ClassContextSpecific, false, t.Number) }
func (*ImplicitTag) Kind() Kind      { return KindImplicitTag }

func (*ImplicitTag) BerMatch(tag asn1.Tag) bool {
	return tag.Class() == asn1.ClassContextSpecific && !tag.Constructed() && !tag.IsLongForm()
}

func (t *ImplicitTag) BerEncode(w *tlv.Writer) error {
	if err := checkTagNumber(t.Number); err != nil {
		return err
	}
	return encodeTLV(w, t)
}

func (t *ImplicitTag) EncodedLen() int                  { return encodedLen(t) }
func (t *ImplicitTag) contentLen() int                  { return len(t.octets) }
func (t *ImplicitTag) writeContent(w *tlv.Writer) error { _, err := w.Write(t.octets); return err }

func (t *ImplicitTag) children() []*Node {
	if t.inner == nil {
		return nil
	}
	return []*Node{t.inner}
}

func (t *ImplicitTag) owned() Value {
	c := &ImplicitTag{Number: t.Number, octets: bytes.Clone(t.octets)}
	if t.inner != nil {
		c.inner = t.inner.Owned()
	}
	return c
}

// decodeImplicitTag keeps the content as octets. If the content starts with a
// valid TLV but does not end with it, the content is rejected.
func decodeImplicitTag(s *decodeState, tag asn1.Tag, r *tlv.Reader) (Value, error) {
	offset := r.Offset()
	octets := r.ReadRemaining()
	inner, leftovers := s.reinterpret(r, octets, offset)
	if leftovers {
		return nil, asn1.ErrUnconsumedImplicitData
	}
	return &ImplicitTag{Number: tag.Number(), octets: octets, inner: inner}, nil
}

//endregion
