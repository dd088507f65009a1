package tlv

import (
	asn1 "codello.dev/asn1tree"
)

// Writer is a bounds-checked cursor over an output buffer. The buffer is
// expected to have exactly the size computed for the data being encoded. A
// write exceeding the buffer fails with [asn1.ErrBufferTooSmall].
type Writer struct {
	buf []byte
	pos int
}

// NewWriter creates a new [Writer] that writes into buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int { return w.pos }

// Available returns the number of bytes that can still be written.
func (w *Writer) Available() int { return len(w.buf) - w.pos }

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

// WriteByte implements [io.ByteWriter].
func (w *Writer) WriteByte(b byte) error {
	if w.pos >= len(w.buf) {
		return asn1.ErrBufferTooSmall
	}
	w.buf[w.pos] = b
	w.pos++
	return nil
}

// Write implements [io.Writer]. Either all of p is written or nothing is.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) > w.Available() {
		return 0, asn1.ErrBufferTooSmall
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}
