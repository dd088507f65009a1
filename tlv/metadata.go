package tlv

import "bytes"

// Metadata records the byte provenance of a single decoded TLV. Raw holds the
// complete encoding of the TLV (identifier, length and content octets). The
// length and content ranges are relative to the start of Raw. Offset is the
// absolute position of the identifier octet within the root input.
//
// The zero value represents a TLV without provenance, such as one that was
// constructed programmatically or whose metadata has been cleared.
type Metadata struct {
	raw     []byte
	offset  int
	length  Range
	content Range
}

// NewMetadata creates metadata for the TLV encoded in raw. raw must start with
// the identifier octet. The length octets occupy raw[1:contentStart] and the
// content octets occupy raw[contentStart:].
func NewMetadata(raw []byte, offset int, contentStart int) Metadata {
	return Metadata{
		raw:     raw,
		offset:  offset,
		length:  Range{1, contentStart},
		content: Range{contentStart, len(raw)},
	}
}

// IsZero reports whether m carries no provenance.
func (m Metadata) IsZero() bool {
	return m.raw == nil && m.offset == 0 && m.length == Range{} && m.content == Range{}
}

// Raw returns the complete encoding of the TLV.
func (m Metadata) Raw() []byte { return m.raw }

// Offset returns the absolute position of the identifier octet within the root
// input.
func (m Metadata) Offset() int { return m.offset }

// TagPosition returns the position of the identifier octet relative to Raw.
func (m Metadata) TagPosition() int { return 0 }

// LengthRange returns the range of the length octets relative to Raw.
func (m Metadata) LengthRange() Range { return m.length }

// ContentRange returns the range of the content octets relative to Raw.
func (m Metadata) ContentRange() Range { return m.content }

// LengthBytes returns the length octets.
func (m Metadata) LengthBytes() []byte {
	if m.raw == nil {
		return nil
	}
	return m.raw[m.length.Start:m.length.End]
}

// ContentBytes returns the content octets.
func (m Metadata) ContentBytes() []byte {
	if m.raw == nil {
		return nil
	}
	return m.raw[m.content.Start:m.content.End]
}

// Range returns the absolute range of the whole TLV within the root input.
func (m Metadata) Range() Range {
	return Range{m.offset, m.offset + len(m.raw)}
}

// AbsoluteRange translates r from a range relative to Raw into a range within
// the root input.
func (m Metadata) AbsoluteRange(r Range) Range {
	return r.Shift(m.offset)
}

// Clone returns a copy of m that does not share memory with the input.
func (m Metadata) Clone() Metadata {
	m.raw = bytes.Clone(m.raw)
	return m
}
