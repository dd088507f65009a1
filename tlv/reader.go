package tlv

import (
	asn1 "codello.dev/asn1tree"
)

// Reader is a bounds-checked cursor over an input buffer. Slices returned by a
// Reader share memory with the input.
//
// A Reader also carries the identifier counter of a decode pass and the
// absolute offset of its buffer within the root input. Use [Reader.Sub] to
// create a reader over a content window and [Reader.Join] to take over the
// advanced counter once the sub-reader is done.
type Reader struct {
	data   []byte
	pos    int
	offset int // absolute position of data[0]
	depth  int // number of enclosing sub-readers

	nextID uint64
}

// NewReader creates a new [Reader] over data. Positions reported by the reader
// are relative to the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Sub creates a reader over data whose first byte lives at the absolute
// position offset. The new reader starts with the current identifier counter
// of r.
func (r *Reader) Sub(data []byte, offset int) *Reader {
	return &Reader{
		data:   data,
		offset: offset,
		depth:  r.depth + 1,
		nextID: r.nextID,
	}
}

// Join takes over the identifier counter of sub. sub must have been created by
// r.Sub.
func (r *Reader) Join(sub *Reader) {
	r.nextID = sub.nextID
}

// NextID returns the current value of the identifier counter and advances it.
func (r *Reader) NextID() uint64 {
	id := r.nextID
	r.nextID++
	return id
}

// PeekID returns the current value of the identifier counter.
func (r *Reader) PeekID() uint64 { return r.nextID }

// SetNextID sets the identifier counter of r.
func (r *Reader) SetNextID(id uint64) { r.nextID = id }

// Depth returns the number of sub-readers between r and the root reader.
func (r *Reader) Depth() int { return r.depth }

// Pos returns the position of r relative to the start of its buffer.
func (r *Reader) Pos() int { return r.pos }

// Offset returns the absolute position of r within the root input.
func (r *Reader) Offset() int { return r.offset + r.pos }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.pos }

// Empty reports whether all bytes have been read.
func (r *Reader) Empty() bool { return r.pos >= len(r.data) }

// Data returns the complete buffer of r, including bytes that have already
// been read.
func (r *Reader) Data() []byte { return r.data }

// ReadByte reads the next byte. If no bytes remain, [asn1.ErrOutOfBounds] is
// returned.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, asn1.ErrOutOfBounds
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// PeekByte returns the next byte without advancing.
func (r *Reader) PeekByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, asn1.ErrOutOfBounds
	}
	return r.data[r.pos], nil
}

// ReadN reads exactly n bytes. If fewer than n bytes remain, nothing is read
// and [asn1.ErrOutOfBounds] is returned.
func (r *Reader) ReadN(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, asn1.ErrOutOfBounds
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// Remaining returns the unread bytes without advancing.
func (r *Reader) Remaining() []byte {
	return r.data[r.pos:]
}

// ReadRemaining reads and returns all unread bytes.
func (r *Reader) ReadRemaining() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}
