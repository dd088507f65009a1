package tlv

import (
	"math"

	asn1 "codello.dev/asn1tree"
)

// maxLengthOctets is the maximum number of subsequent length octets accepted
// by [ReadLength]. Larger lengths do not fit into an int.
const maxLengthOctets = 8

// ReadLength reads the length octets of a TLV from r. Both the short form
// (a single byte below 0x80) and the long form (0x80 | n followed by n
// big-endian bytes) are supported.
//
// The indefinite form (0x80) is not supported. It is reported as
// [asn1.ErrInvalidLength] as are long form lengths with more than 8 octets or
// values that do not fit into an int. If r ends before all length octets could
// be read, [asn1.ErrTruncated] is returned.
func ReadLength(r *Reader) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, asn1.ErrTruncated
	}
	if b&0x80 == 0 {
		return int(b), nil
	}
	n := int(b & 0x7f)
	if n == 0 || n > maxLengthOctets {
		return 0, asn1.ErrInvalidLength
	}
	bs, err := r.ReadN(n)
	if err != nil {
		return 0, asn1.ErrTruncated
	}
	var l uint64
	for _, c := range bs {
		l = l<<8 | uint64(c)
	}
	if l > math.MaxInt {
		return 0, asn1.ErrInvalidLength
	}
	return int(l), nil
}

// LengthSize returns the number of bytes [WriteLength] writes for l.
func LengthSize(l int) int {
	if l < 0x80 {
		return 1
	}
	n := 1
	for ; l > 0; l >>= 8 {
		n++
	}
	return n
}

// WriteLength writes the shortest encoding of l to w. Lengths below 128 use the
// short form. Any other length uses the long form without leading zero bytes.
func WriteLength(w *Writer, l int) error {
	if l < 0 {
		return asn1.ErrInvalidLength
	}
	if l < 0x80 {
		return w.WriteByte(byte(l))
	}
	n := LengthSize(l) - 1
	if err := w.WriteByte(0x80 | byte(n)); err != nil {
		return err
	}
	for ; n > 0; n-- {
		if err := w.WriteByte(byte(l >> uint((n-1)*8))); err != nil {
			return err
		}
	}
	return nil
}

// HeaderSize returns the number of bytes of the identifier and length octets of
// a TLV with content length l.
func HeaderSize(l int) int {
	return 1 + LengthSize(l)
}
