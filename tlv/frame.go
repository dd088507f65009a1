package tlv

import (
	"bufio"
	"errors"
	"io"
	"math"

	asn1 "codello.dev/asn1tree"
)

// DefaultMaxFrameSize is the frame size limit of a [FrameReader] with a zero
// MaxSize.
const DefaultMaxFrameSize = 16 << 20

// ErrFrameTooLarge indicates that a TLV in a stream announces more content than
// a [FrameReader] accepts.
var ErrFrameTooLarge = errors.New("tlv: frame exceeds size limit")

// FrameReader splits a stream of concatenated TLVs into frames. Each frame is
// the complete encoding of one top-level TLV. The content of a frame is not
// inspected. Frames can be decoded independently, e.g. by package ber.
//
// Only the definite-length form is supported.
type FrameReader struct {
	r *bufio.Reader

	// MaxSize limits the size of a single frame. If MaxSize is 0,
	// DefaultMaxFrameSize is used.
	MaxSize int

	offset int64
}

// NewFrameReader creates a new [FrameReader] reading from r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// InputOffset returns the number of bytes consumed from the underlying reader.
// This is the offset of the next frame.
func (f *FrameReader) InputOffset() int64 {
	return f.offset
}

// Next returns the next frame and its offset in the stream. At the end of the
// stream Next returns [io.EOF]. If the stream ends within a frame, an error
// wrapping [asn1.ErrTruncated] is returned.
func (f *FrameReader) Next() (frame []byte, offset int64, err error) {
	offset = f.offset
	tag, err := f.readByte()
	if err != nil {
		// io.EOF stays io.EOF
		return nil, offset, err
	}
	header := []byte{tag}
	b, err := f.readByte()
	if err != nil {
		return nil, offset, noEOF(err)
	}
	header = append(header, b)

	var l uint64
	switch {
	case b&0x80 == 0:
		l = uint64(b)
	case b == 0x80 || b&0x7f > maxLengthOctets:
		return nil, offset, &asn1.SyntaxError{Tag: asn1.Tag(tag), Offset: int(offset), Err: asn1.ErrInvalidLength}
	default:
		for range b & 0x7f {
			if b, err = f.readByte(); err != nil {
				return nil, offset, noEOF(err)
			}
			header = append(header, b)
			l = l<<8 | uint64(b)
		}
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxFrameSize
	}
	if l > math.MaxInt-uint64(len(header)) || len(header)+int(l) > limit {
		return nil, offset, ErrFrameTooLarge
	}
	frame = make([]byte, len(header)+int(l))
	copy(frame, header)
	n, err := io.ReadFull(f.r, frame[len(header):])
	f.offset += int64(n)
	if err != nil {
		return nil, offset, &asn1.SyntaxError{Tag: asn1.Tag(tag), Offset: int(offset), Err: noEOF(err)}
	}
	return frame, offset, nil
}

func (f *FrameReader) readByte() (byte, error) {
	b, err := f.r.ReadByte()
	if err == nil {
		f.offset++
	}
	return b, err
}

// noEOF converts io.EOF and io.ErrUnexpectedEOF into [asn1.ErrTruncated].
func noEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return asn1.ErrTruncated
	}
	return err
}
