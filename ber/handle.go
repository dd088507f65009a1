// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBorrowConflict is the panic value used by a [Handle] if a borrow would
// violate the single writer rule. It is wrapped with additional context.
var ErrBorrowConflict = errors.New("ber: conflicting borrow of handle")

// cell is the storage shared by all clones of a [Handle].
type cell struct {
	mu      sync.Mutex
	node    *Node
	readers int
	writer  bool
}

// Handle provides checked shared and exclusive access to an owned tree. Clones
// of a handle refer to the same tree. At any time a tree is either borrowed
// exclusively once or shared any number of times. Borrows that violate this
// rule are programming errors and cause a panic with [ErrBorrowConflict].
//
// A Handle is safe for concurrent use but it does not block. It detects
// conflicting access rather than serializing it.
type Handle struct {
	c *cell
}

// NewHandle creates a handle holding an owned copy of n.
func NewHandle(n *Node) *Handle {
	return &Handle{&cell{node: n.Owned()}}
}

// Clone returns a handle referring to the same tree as h.
func (h *Handle) Clone() *Handle {
	return &Handle{h.c}
}

// Borrow returns the tree of h for reading. The tree must not be modified.
// The borrow ends when release is called. Calling release more than once has no
// effect.
func (h *Handle) Borrow() (n *Node, release func()) {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	if h.c.writer {
		panic(fmt.Errorf("%w: already borrowed exclusively", ErrBorrowConflict))
	}
	h.c.readers++
	var once sync.Once
	return h.c.node, func() {
		once.Do(func() {
			h.c.mu.Lock()
			h.c.readers--
			h.c.mu.Unlock()
		})
	}
}

// BorrowMut returns the tree of h for modification. The borrow ends when
// release is called. Calling release more than once has no effect.
func (h *Handle) BorrowMut() (n *Node, release func()) {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	if h.c.writer {
		panic(fmt.Errorf("%w: already borrowed exclusively", ErrBorrowConflict))
	}
	if h.c.readers > 0 {
		panic(fmt.Errorf("%w: %d shared borrows outstanding", ErrBorrowConflict, h.c.readers))
	}
	h.c.writer = true
	var once sync.Once
	return h.c.node, func() {
		once.Do(func() {
			h.c.mu.Lock()
			h.c.writer = false
			h.c.mu.Unlock()
		})
	}
}

// View calls fn with shared access to the tree of h.
func (h *Handle) View(fn func(n *Node)) {
	n, release := h.Borrow()
	defer release()
	fn(n)
}

// Update calls fn with exclusive access to the tree of h. If fn succeeds, the
// tree is re-encoded and decoded again so that identifiers and metadata
// describe the new encoding. The identifier of the root node is retained.
//
// If fn fails or the modified tree cannot be encoded, the metadata of the
// whole tree is cleared and the error is returned. Nodes modified by fn are
// kept.
func (h *Handle) Update(fn func(n *Node) error) error {
	n, release := h.BorrowMut()
	defer release()
	if err := fn(n); err != nil {
		n.ClearMetadata()
		return err
	}
	b, err := Marshal(n)
	if err == nil {
		d := Decoder{FirstID: n.ID()}
		var fresh *Node
		if fresh, err = d.Decode(b); err == nil {
			h.c.node = fresh
			return nil
		}
	}
	n.ClearMetadata()
	return err
}

// Replace replaces the tree of h by an owned copy of n.
func (h *Handle) Replace(n *Node) {
	_, release := h.BorrowMut()
	defer release()
	h.c.node = n.Owned()
}

// Encode returns the BER encoding of the tree of h.
func (h *Handle) Encode() ([]byte, error) {
	n, release := h.Borrow()
	defer release()
	return Marshal(n)
}
