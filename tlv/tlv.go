// Package tlv implements the syntactic layer of the tag-length-value (TLV)
// format used by the Basic Encoding Rules (BER) as specified in
// [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// The package operates on in-memory buffers. A [Reader] is a bounds-checked
// cursor over an input buffer that also carries the node identifier counter
// of a decode pass. A [Writer] is a bounds-checked cursor over an output
// buffer of a precomputed size. [ReadLength] and [WriteLength] implement the
// definite-length forms of the length octets. Package
// [codello.dev/asn1tree/ber] builds the semantic layer on top of these types.
//
// # Byte Provenance
//
// Every decoded TLV is described by a [Metadata] value. It holds the complete
// encoding of the TLV (identifier, length and content octets) and records
// where the length and content octets are located within that encoding. The
// absolute position of the TLV within the decoded buffer is retained as well,
// so that consumers can map a node back to the bytes that produced it.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import "strconv"

// Range is a half-open span [Start, End) of byte positions.
type Range struct {
	Start, End int
}

// Len returns the number of bytes in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Shift returns r moved by off positions.
func (r Range) Shift(off int) Range {
	return Range{r.Start + off, r.End + off}
}

// Contains reports whether pos lies within r.
func (r Range) Contains(pos int) bool {
	return r.Start <= pos && pos < r.End
}

// String returns r in interval notation.
func (r Range) String() string {
	return "[" + strconv.Itoa(r.Start) + ", " + strconv.Itoa(r.End) + ")"
}
