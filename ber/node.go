// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

// Node is an element of a decoded tree. A node combines the [Value] of a TLV
// with its identifier and its [tlv.Metadata]. Nodes are never shared between
// parents.
type Node struct {
	id    uint64
	meta  tlv.Metadata
	value Value
}

// NewNode creates a node holding v. The node has the identifier 0 and no
// metadata.
func NewNode(v Value) *Node {
	return &Node{value: v}
}

// ID returns the identifier assigned to n during decoding.
func (n *Node) ID() uint64 { return n.id }

// Metadata returns the byte provenance of n. The metadata is zero for nodes
// that were not decoded or whose metadata has been cleared.
func (n *Node) Metadata() tlv.Metadata { return n.meta }

// Value returns the value of n.
func (n *Node) Value() Value { return n.value }

// Tag returns the identifier octet of the value of n.
func (n *Node) Tag() asn1.Tag { return n.value.Tag() }

// Kind returns the variant of the value of n.
func (n *Node) Kind() Kind { return n.value.Kind() }

// SetValue replaces the value of n. The metadata of n no longer describes the
// value and is cleared. The metadata of the ancestors of n is not updated, use
// Handle.Update or ClearMetadata on the root to keep the tree consistent.
func (n *Node) SetValue(v Value) {
	n.value = v
	n.meta = tlv.Metadata{}
}

// ClearMetadata resets the identifier and metadata of n and all of its
// descendants. Two trees that only differ in provenance are equal after their
// metadata has been cleared.
func (n *Node) ClearMetadata() {
	n.id = 0
	n.meta = tlv.Metadata{}
	for _, c := range n.value.children() {
		c.ClearMetadata()
	}
}

// Owned returns a deep copy of n that does not share memory with the buffer n
// was decoded from. Identifiers and metadata are retained.
func (n *Node) Owned() *Node {
	return &Node{
		id:    n.id,
		meta:  n.meta.Clone(),
		value: n.value.owned(),
	}
}

// Children returns the nodes nested directly within n. For constructed values
// these are the fields. For values with reinterpreted content this is the
// inner node, if any.
func (n *Node) Children() []*Node {
	return n.value.children()
}

// Walk traverses the tree rooted at n in pre-order. If fn returns false the
// children of the current node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.value.children() {
		c.Walk(fn)
	}
}

// Find returns the node with the given identifier in the tree rooted at n or
// nil if no such node exists.
func (n *Node) Find(id uint64) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.id == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Len returns the number of nodes in the tree rooted at n.
func (n *Node) Len() int {
	l := 0
	n.Walk(func(*Node) bool {
		l++
		return true
	})
	return l
}

// EncodedLen returns the number of bytes [Node.BerEncode] writes.
func (n *Node) EncodedLen() int { return n.value.EncodedLen() }

// BerEncode writes the TLV encoding of n to w.
func (n *Node) BerEncode(w *tlv.Writer) error { return n.value.BerEncode(w) }

// EncodeTo encodes n into buf and returns the number of bytes written. If buf
// is smaller than [Node.EncodedLen] an error wrapping
// [asn1.ErrBufferTooSmall] is returned.
func (n *Node) EncodeTo(buf []byte) (int, error) {
	w := tlv.NewWriter(buf)
	err := n.BerEncode(w)
	return w.Pos(), err
}

// Encoder is implemented by all types that can be encoded by [Marshal].
type Encoder interface {
	EncodedLen() int
	BerEncode(w *tlv.Writer) error
}

// errSizeMismatch indicates that an encoder wrote fewer bytes than it
// announced.
var errSizeMismatch = errors.New("ber: encoded size differs from computed size")

// Marshal returns the BER encoding of v. v is usually a [*Node] or a [Value].
func Marshal(v Encoder) ([]byte, error) {
	buf := make([]byte, v.EncodedLen())
	w := tlv.NewWriter(buf)
	if err := v.BerEncode(w); err != nil {
		return nil, err
	}
	if w.Pos() != len(buf) {
		return nil, errSizeMismatch
	}
	return buf, nil
}
