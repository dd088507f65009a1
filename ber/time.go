// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"strconv"
	"strings"
	"time"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/tlv"
)

// readDigits reads n ASCII digits from r and returns their decimal value.
func readDigits(r *tlv.Reader, n int) (int, error) {
	v := 0
	for range n {
		b, err := r.ReadByte()
		if err != nil || b < '0' || b > '9' {
			return 0, asn1.ErrInvalidTimeFormat
		}
		v = v*10 + int(b-'0')
	}
	return v, nil
}

// appendDigits appends v to b as exactly n decimal digits.
func appendDigits(b []byte, v int, n int) []byte {
	s := strconv.Itoa(v)
	for range n - len(s) {
		b = append(b, '0')
	}
	return append(b, s...)
}

// validClock reports whether the fields are within the ranges of a calendar date
// and a time of day. Leap seconds are not supported.
func validClock(month, day, hour, minute, second uint8) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31 &&
		hour <= 23 && minute <= 59 && second <= 59
}

//region [UNIVERSAL 23] UTCTime

// UTCTime is the value of an ASN.1 UTCTime. The year is stored with two digits
// exactly as encoded. Use [UTCTime.FullYear] to pick a century. The seconds are
// optional. A UTCTime always refers to UTC.
type UTCTime struct {
	Year, Month, Day     uint8
	Hour, Minute, Second uint8
	HasSecond            bool
}

// UTCTimeFromTime converts t into a UTCTime with seconds. t is converted to
// UTC and its year is truncated to two digits.
func UTCTimeFromTime(t time.Time) UTCTime {
	t = t.UTC()
	return UTCTime{
		Year:      uint8(t.Year() % 100),
		Month:     uint8(t.Month()),
		Day:       uint8(t.Day()),
		Hour:      uint8(t.Hour()),
		Minute:    uint8(t.Minute()),
		Second:    uint8(t.Second()),
		HasSecond: true,
	}
}

// IsValid reports whether t can be encoded.
func (t UTCTime) IsValid() bool {
	return t.Year <= 99 && validClock(t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// FullYear returns the four digit year of t. Two digit years below pivot are
// placed in the 21st century, all others in the 20th century. RFC 5280 uses a
// pivot of 50.
func (t UTCTime) FullYear(pivot int) int {
	if int(t.Year) < pivot {
		return 2000 + int(t.Year)
	}
	return 1900 + int(t.Year)
}

// ToTime converts t into a [time.Time] using [UTCTime.FullYear] with the given
// pivot.
func (t UTCTime) ToTime(pivot int) time.Time {
	return time.Date(t.FullYear(pivot), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// String returns the content octets of t as a string.
func (t UTCTime) String() string {
	return string(t.appendContent(make([]byte, 0, 13)))
}

func (t UTCTime) appendContent(b []byte) []byte {
	b = appendDigits(b, int(t.Year), 2)
	b = appendDigits(b, int(t.Month), 2)
	b = appendDigits(b, int(t.Day), 2)
	b = appendDigits(b, int(t.Hour), 2)
	b = appendDigits(b, int(t.Minute), 2)
	if t.HasSecond {
		b = appendDigits(b, int(t.Second), 2)
	}
	return append(b, 'Z')
}

func (UTCTime) Tag() asn1.Tag                   { return universal(asn1.TagUTCTime) }
func (UTCTime) Kind() Kind                      { return KindUTCTime }
func (UTCTime) BerMatch(tag asn1.Tag) bool      { return tag == universal(asn1.TagUTCTime) }
func (t UTCTime) EncodedLen() int               { return encodedLen(t) }
func (t UTCTime) BerEncode(w *tlv.Writer) error { return encodeTLV(w, t) }
func (UTCTime) children() []*Node               { return nil }
func (t UTCTime) owned() Value                  { return t }

func (t UTCTime) contentLen() int {
	if t.HasSecond {
		return 13
	}
	return 11
}

func (t UTCTime) writeContent(w *tlv.Writer) error {
	if !t.IsValid() {
		return asn1.ErrInvalidTimeFormat
	}
	_, err := w.Write(t.appendContent(make([]byte, 0, 13)))
	return err
}

// decodeUTCTime parses YYMMDDhhmm[ss]Z.
func decodeUTCTime(_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	var t UTCTime
	var v [5]int
	for i := range v {
		var err error
		if v[i], err = readDigits(r, 2); err != nil {
			return nil, err
		}
	}
	t.Year, t.Month, t.Day, t.Hour, t.Minute = uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(v[3]), uint8(v[4])
	if b, err := r.PeekByte(); err == nil && b != 'Z' {
		s, err := readDigits(r, 2)
		if err != nil {
			return nil, err
		}
		t.Second, t.HasSecond = uint8(s), true
	}
	if b, err := r.ReadByte(); err != nil || b != 'Z' {
		return nil, asn1.ErrInvalidTimeFormat
	}
	if !r.Empty() || !t.IsValid() {
		return nil, asn1.ErrInvalidTimeFormat
	}
	return t, nil
}

//endregion

//region [UNIVERSAL 24] GeneralizedTime

// ZoneKind distinguishes the forms of the time zone of a [GeneralizedTime].
type ZoneKind uint8

const (
	// ZoneUTC is indicated by a trailing 'Z'.
	ZoneUTC ZoneKind = iota
	// ZoneLocal is indicated by the absence of any zone designator.
	ZoneLocal
	// ZoneOffset is indicated by a trailing +hhmm or -hhmm.
	ZoneOffset
)

// Zone is the time zone of a [GeneralizedTime]. Hour, Minute and Negative are
// only used if Kind is [ZoneOffset].
type Zone struct {
	Kind         ZoneKind
	Negative     bool
	Hour, Minute uint8
}

// Location returns the [time.Location] described by z.
func (z Zone) Location() *time.Location {
	switch z.Kind {
	case ZoneLocal:
		return time.Local
	case ZoneOffset:
		offset := int(z.Hour)*3600 + int(z.Minute)*60
		if z.Negative {
			offset = -offset
		}
		return time.FixedZone("", offset)
	default:
		return time.UTC
	}
}

func (z Zone) encodedLen() int {
	switch z.Kind {
	case ZoneLocal:
		return 0
	case ZoneOffset:
		return 5
	default:
		return 1
	}
}

func (z Zone) appendTo(b []byte) []byte {
	switch z.Kind {
	case ZoneLocal:
		return b
	case ZoneOffset:
		if z.Negative {
			b = append(b, '-')
		} else {
			b = append(b, '+')
		}
		b = appendDigits(b, int(z.Hour), 2)
		return appendDigits(b, int(z.Minute), 2)
	default:
		return append(b, 'Z')
	}
}

// GeneralizedTime is the value of an ASN.1 GeneralizedTime. Fractional seconds
// are kept as the digits following the decimal point so that precision and
// trailing zeros survive a round trip.
type GeneralizedTime struct {
	Year                 uint16
	Month, Day           uint8
	Hour, Minute, Second uint8
	// Fraction holds the digits of the fractional seconds, if any.
	Fraction string
	Zone     Zone
}

// GeneralizedTimeFromTime converts t into a GeneralizedTime in UTC.
// Nanoseconds are kept as a fraction without trailing zeros.
func GeneralizedTimeFromTime(t time.Time) GeneralizedTime {
	t = t.UTC()
	g := GeneralizedTime{
		Year:   uint16(t.Year()),
		Month:  uint8(t.Month()),
		Day:    uint8(t.Day()),
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
		Second: uint8(t.Second()),
	}
	if ns := t.Nanosecond(); ns > 0 {
		g.Fraction = strings.TrimRight(string(appendDigits(nil, ns, 9)), "0")
	}
	return g
}

// IsValid reports whether t can be encoded.
func (t GeneralizedTime) IsValid() bool {
	if t.Year > 9999 || !validClock(t.Month, t.Day, t.Hour, t.Minute, t.Second) {
		return false
	}
	for i := 0; i < len(t.Fraction); i++ {
		if t.Fraction[i] < '0' || t.Fraction[i] > '9' {
			return false
		}
	}
	switch t.Zone.Kind {
	case ZoneUTC, ZoneLocal:
		return true
	case ZoneOffset:
		return t.Zone.Hour <= 23 && t.Zone.Minute <= 59
	}
	return false
}

// ToTime converts t into a [time.Time]. Fractional digits beyond nanosecond
// precision are truncated.
func (t GeneralizedTime) ToTime() time.Time {
	ns := 0
	if t.Fraction != "" {
		f := t.Fraction
		if len(f) > 9 {
			f = f[:9]
		}
		ns, _ = strconv.Atoi(f + strings.Repeat("0", 9-len(f)))
	}
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), ns, t.Zone.Location())
}

// String returns the content octets of t as a string.
func (t GeneralizedTime) String() string {
	return string(t.appendContent(make([]byte, 0, t.contentLen())))
}

func (t GeneralizedTime) appendContent(b []byte) []byte {
	b = appendDigits(b, int(t.Year), 4)
	b = appendDigits(b, int(t.Month), 2)
	b = appendDigits(b, int(t.Day), 2)
	b = appendDigits(b, int(t.Hour), 2)
	b = appendDigits(b, int(t.Minute), 2)
	b = appendDigits(b, int(t.Second), 2)
	if t.Fraction != "" {
		b = append(b, '.')
		b = append(b, t.Fraction...)
	}
	return t.Zone.appendTo(b)
}

func (GeneralizedTime) Tag() asn1.Tag                   { return universal(asn1.TagGeneralizedTime) }
func (GeneralizedTime) Kind() Kind                      { return KindGeneralizedTime }
func (GeneralizedTime) BerMatch(tag asn1.Tag) bool      { return tag == universal(asn1.TagGeneralizedTime) }
func (t GeneralizedTime) EncodedLen() int               { return encodedLen(t) }
func (t GeneralizedTime) BerEncode(w *tlv.Writer) error { return encodeTLV(w, t) }
func (GeneralizedTime) children() []*Node               { return nil }
func (t GeneralizedTime) owned() Value                  { return t }

func (t GeneralizedTime) contentLen() int {
	l := 14 + t.Zone.encodedLen()
	if t.Fraction != "" {
		l += 1 + len(t.Fraction)
	}
	return l
}

func (t GeneralizedTime) writeContent(w *tlv.Writer) error {
	if !t.IsValid() {
		return asn1.ErrInvalidTimeFormat
	}
	_, err := w.Write(t.appendContent(make([]byte, 0, t.contentLen())))
	return err
}

// decodeGeneralizedTime parses YYYYMMDDhhmmss[.f+][Z|(+|-)hhmm].
func decodeGeneralizedTime(_ *decodeState, _ asn1.Tag, r *tlv.Reader) (Value, error) {
	var t GeneralizedTime
	year, err := readDigits(r, 4)
	if err != nil {
		return nil, err
	}
	t.Year = uint16(year)
	fields := [...]*uint8{&t.Month, &t.Day, &t.Hour, &t.Minute, &t.Second}
	for _, f := range fields {
		v, err := readDigits(r, 2)
		if err != nil {
			return nil, err
		}
		*f = uint8(v)
	}

	if b, err := r.PeekByte(); err == nil && b == '.' {
		_, _ = r.ReadByte()
		start := r.Pos()
		for {
			b, err := r.PeekByte()
			if err != nil || b < '0' || b > '9' {
				break
			}
			_, _ = r.ReadByte()
		}
		if r.Pos() == start {
			return nil, asn1.ErrInvalidTimeFormat
		}
		t.Fraction = string(r.Data()[start:r.Pos()])
	}

	t.Zone.Kind = ZoneLocal
	if b, err := r.ReadByte(); err == nil {
		switch b {
		case 'Z':
			t.Zone.Kind = ZoneUTC
		case '+', '-':
			t.Zone.Kind = ZoneOffset
			t.Zone.Negative = b == '-'
			h, err := readDigits(r, 2)
			if err != nil {
				return nil, err
			}
			m, err := readDigits(r, 2)
			if err != nil {
				return nil, err
			}
			t.Zone.Hour, t.Zone.Minute = uint8(h), uint8(m)
		default:
			return nil, asn1.ErrInvalidTimeFormat
		}
	}
	if !r.Empty() || !t.IsValid() {
		return nil, asn1.ErrInvalidTimeFormat
	}
	return t, nil
}

//endregion
