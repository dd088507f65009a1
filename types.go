// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"codello.dev/asn1tree/internal/vlq"
)

//region [UNIVERSAL 3] BIT STRING

// BitString is a view of the bits of an ASN.1 BIT STRING. A bit string is
// padded up to the nearest byte in memory and the number of valid bits is
// recorded.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String formats the valid bits of s as binary digits. Bits are grouped into
// bytes. The last group may have fewer than 8 characters.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.BitLength + s.BitLength/8)
	for i := 0; i < s.BitLength; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660].
//
// See also section 32 of Rec. ITU-T X.680.
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier.
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	oid := make(ObjectIdentifier, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, strconv.IntSize)
		if err != nil {
			return nil, ErrInvalidOID
		}
		oid[i] = uint(v)
	}
	if !oid.IsValid() {
		return nil, ErrInvalidOID
	}
	return oid, nil
}

// IsValid reports whether oid can be encoded. An encodable identifier has at
// least two arcs and the first arc is 0, 1 or 2. The second arc is below 40
// unless the first arc is 2, in which case the packed first subidentifier
// must still fit into a uint.
func (oid ObjectIdentifier) IsValid() bool {
	if len(oid) < 2 || oid[0] > 2 {
		return false
	}
	if oid[0] == 2 {
		return oid[1] <= math.MaxUint-80
	}
	return oid[1] < 40
}

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 19)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, uint64(v), 10))
	}

	return s.String()
}

// BinaryLen returns the number of content octets of the BER encoding of oid.
func (oid ObjectIdentifier) BinaryLen() int {
	if !oid.IsValid() {
		return 0
	}
	l := vlq.Length(oid[0]*40 + oid[1])
	for _, v := range oid[2:] {
		l += vlq.Length(v)
	}
	return l
}

// AppendBinary appends the content octets of the BER encoding of oid to b. The
// first two arcs are packed into a single subidentifier. All subidentifiers use
// the minimal base-128 encoding.
func (oid ObjectIdentifier) AppendBinary(b []byte) ([]byte, error) {
	if !oid.IsValid() {
		return b, ErrInvalidOID
	}
	b = vlq.Append(b, oid[0]*40+oid[1])
	for _, v := range oid[2:] {
		b = vlq.Append(b, v)
	}
	return b, nil
}

// MarshalBinary returns the content octets of the BER encoding of oid.
func (oid ObjectIdentifier) MarshalBinary() ([]byte, error) {
	return oid.AppendBinary(make([]byte, 0, oid.BinaryLen()))
}

// UnmarshalBinary parses the content octets of a BER encoded object identifier.
// Subidentifiers must be minimally encoded so that encoding the result
// reproduces data exactly.
func (oid *ObjectIdentifier) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidOID
	}
	// The first subidentifier is 40*value1 + value2. value1 can take the values
	// 0, 1 and 2 only. When value1 = 0 or value1 = 1, then value2 is <= 39. When
	// value1 = 2, then there are no restrictions on value2.
	v, n, err := vlq.Decode[uint](data)
	if err != nil {
		return errors.Join(ErrInvalidOID, err)
	}
	data = data[n:]

	// In the worst case every remaining subidentifier is a single byte long.
	s := make(ObjectIdentifier, 2, len(data)+2)
	if v < 80 {
		s[0] = v / 40
		s[1] = v % 40
	} else {
		s[0] = 2
		s[1] = v - 80
	}
	for len(data) > 0 {
		if v, n, err = vlq.Decode[uint](data); err != nil {
			return errors.Join(ErrInvalidOID, err)
		}
		s = append(s, v)
		data = data[n:]
	}
	*oid = s
	return nil
}

//endregion

//region Character Sets

// IsUTF8 reports whether b is valid UTF-8. This is the character set of the
// ASN.1 UTF8String and GeneralString types.
func IsUTF8(b []byte) bool {
	return utf8.Valid(b)
}

// IsNumeric reports whether s consists only of the digits 0-9 and space. This
// is the character set of the ASN.1 NumericString type.
func IsNumeric(s []byte) bool {
	for _, b := range s {
		if !('0' <= b && b <= '9' || b == ' ') {
			return false
		}
	}
	return true
}

// IsPrintable reports whether s consists only of characters of the ASN.1
// PrintableString type:
//
//	A-Z	// upper case letters
//	a-z	// lower case letters
//	0-9	// digits
//	 	// space
//	'	// apostrophe
//	()	// Parenthesis
//	+-/	// plus, hyphen, solidus
//	.,:	// fill stop, comma, colon
//	=	// equals sign
//	?	// question mark
func IsPrintable(s []byte) bool {
	for _, b := range s {
		if !isPrintable(b) {
			return false
		}
	}
	return true
}

func isPrintable(b byte) bool {
	return 'a' <= b && b <= 'z' ||
		'A' <= b && b <= 'Z' ||
		'0' <= b && b <= '9' ||
		'\'' <= b && b <= ')' ||
		'+' <= b && b <= '/' ||
		b == ' ' ||
		b == ':' ||
		b == '=' ||
		b == '?'
}

// IsIA5 reports whether s consists only of ASCII characters. This is the
// character set of the ASN.1 IA5String type.
func IsIA5(s []byte) bool {
	for _, b := range s {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// IsVisible reports whether s consists only of printable ASCII characters
// (no control characters). This is the character set of the ASN.1
// VisibleString type.
func IsVisible(s []byte) bool {
	for _, b := range s {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}

//endregion
