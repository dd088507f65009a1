// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestBitString_At(t *testing.T) {
	s := BitString{Bytes: []byte{0b10100000, 0b01000000}, BitLength: 10}
	want := []int{1, 0, 1, 0, 0, 0, 0, 0, 0, 1}
	for i, w := range want {
		if got := s.At(i); got != w {
			t.Errorf("At(%d) = %d, want %d", i, got, w)
		}
	}
	if got := s.String(); got != "10100000 01" {
		t.Errorf("String() = %q, want %q", got, "10100000 01")
	}
}

func TestObjectIdentifier_MarshalBinary(t *testing.T) {
	tests := map[string]struct {
		oid     ObjectIdentifier
		want    []byte
		wantErr error
	}{
		"RSA":        {ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}, []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D, 0x01, 0x01, 0x01}, nil},
		"CommonName": {ObjectIdentifier{2, 5, 4, 3}, []byte{0x55, 0x04, 0x03}, nil},
		"LargeArc2":  {ObjectIdentifier{2, 999, 3}, []byte{0x88, 0x37, 0x03}, nil},
		"TooShort":   {ObjectIdentifier{1}, nil, ErrInvalidOID},
		"BadFirst":   {ObjectIdentifier{3, 1}, nil, ErrInvalidOID},
		"BadSecond":  {ObjectIdentifier{1, 40}, nil, ErrInvalidOID},
		"Overflow":   {ObjectIdentifier{2, math.MaxUint}, nil, ErrInvalidOID},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.oid.MarshalBinary()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("MarshalBinary() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("MarshalBinary() = %# x, want %# x", got, tc.want)
			}
			if l := tc.oid.BinaryLen(); l != len(tc.want) {
				t.Errorf("BinaryLen() = %d, want %d", l, len(tc.want))
			}
			var back ObjectIdentifier
			if err = back.UnmarshalBinary(got); err != nil {
				t.Fatalf("UnmarshalBinary() error = %v", err)
			}
			if !back.Equal(tc.oid) {
				t.Errorf("UnmarshalBinary() = %v, want %v", back, tc.oid)
			}
		})
	}
}

func TestObjectIdentifier_IsValid(t *testing.T) {
	tests := map[string]struct {
		oid  ObjectIdentifier
		want bool
	}{
		"Arc0":        {ObjectIdentifier{0, 39}, true},
		"Arc1Large":   {ObjectIdentifier{1, 40}, false},
		"Arc2Largest": {ObjectIdentifier{2, math.MaxUint - 80}, true},
		"Arc2Wraps":   {ObjectIdentifier{2, math.MaxUint - 79}, false},
		"Arc3":        {ObjectIdentifier{3, 0}, false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.oid.IsValid(); got != tc.want {
				t.Errorf("IsValid() = %v, want %v", got, tc.want)
			}
			if l := tc.oid.BinaryLen(); (l > 0) != tc.want {
				t.Errorf("BinaryLen() = %d, want valid = %v", l, tc.want)
			}
		})
	}
}

func TestObjectIdentifier_UnmarshalBinary(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    string
		wantErr error
	}{
		"Empty":      {nil, "", ErrInvalidOID},
		"Truncated":  {[]byte{0x2A, 0x86}, "", ErrInvalidOID},
		"NonMinimal": {[]byte{0x2A, 0x80, 0x01}, "", ErrInvalidOID},
		"FirstOnly":  {[]byte{0x2A}, "1.2", nil},
		"Zero":       {[]byte{0x00}, "0.0", nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var oid ObjectIdentifier
			err := oid.UnmarshalBinary(tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("UnmarshalBinary(%# x) error = %v, wantErr %v", tc.data, err, tc.wantErr)
			}
			if err == nil && oid.String() != tc.want {
				t.Errorf("UnmarshalBinary(%# x) = %v, want %v", tc.data, oid, tc.want)
			}
		})
	}
}

func TestParseObjectIdentifier(t *testing.T) {
	oid, err := ParseObjectIdentifier("1.2.840.113549")
	if err != nil {
		t.Fatalf("ParseObjectIdentifier() error = %v", err)
	}
	if !oid.Equal(ObjectIdentifier{1, 2, 840, 113549}) {
		t.Errorf("ParseObjectIdentifier() = %v", oid)
	}
	for _, s := range []string{"", "1", "1.x", "4.1"} {
		if _, err = ParseObjectIdentifier(s); !errors.Is(err, ErrInvalidOID) {
			t.Errorf("ParseObjectIdentifier(%q) error = %v, want %v", s, err, ErrInvalidOID)
		}
	}
}

func TestCharacterSets(t *testing.T) {
	tests := map[string]struct {
		f    func([]byte) bool
		s    string
		want bool
	}{
		"PrintableOK":       {IsPrintable, "Hello World (1+2)=3?", true},
		"PrintableAsterisk": {IsPrintable, "*.example.com", false},
		"PrintableAt":       {IsPrintable, "a@b", false},
		"NumericOK":         {IsNumeric, "123 456", true},
		"NumericLetter":     {IsNumeric, "12a", false},
		"IA5OK":             {IsIA5, "user@example.com\n", true},
		"IA5Umlaut":         {IsIA5, "ä", false},
		"VisibleOK":         {IsVisible, "~abc DEF", true},
		"VisibleNewline":    {IsVisible, "a\nb", false},
		"VisibleDelete":     {IsVisible, "\x7f", false},
		"UTF8OK":            {IsUTF8, "grüße", true},
		"UTF8Invalid":       {IsUTF8, "\xff\xfe", false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.f([]byte(tc.s)); got != tc.want {
				t.Errorf("f(%q) = %v, want %v", tc.s, got, tc.want)
			}
		})
	}
}
