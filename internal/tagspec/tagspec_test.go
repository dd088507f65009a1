// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tagspec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/ber"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		str     string
		want    Spec
		wantErr error
	}{
		"ContextDefault": {"tag:3", Spec{Tag: 0x83, AnyForm: true}, nil},
		"Universal":      {"universal,tag:16,constructed", Spec{Tag: 0x30}, nil},
		"Application":    {"tag:1,application", Spec{Tag: 0x41, AnyForm: true}, nil},
		"Private":        {"private,tag:0,primitive", Spec{Tag: 0xc0}, nil},
		"Spaces":         {" tag:2 , universal ", Spec{Tag: 0x02, AnyForm: true}, nil},
		"LongForm":       {"tag:31", Spec{}, ErrInvalidSpec},
		"BadNumber":      {"tag:x", Spec{}, ErrInvalidSpec},
		"MissingTag":     {"universal", Spec{}, ErrInvalidSpec},
		"Unknown":        {"tag:1,explicit", Spec{}, ErrInvalidSpec},
		"DuplicateClass": {"tag:1,universal,private", Spec{}, ErrInvalidSpec},
		"DuplicateForm":  {"tag:1,primitive,constructed", Spec{}, ErrInvalidSpec},
		"OID":            {"oid:2.5.4.3", Spec{Tag: 0x06, OID: asn1.ObjectIdentifier{2, 5, 4, 3}}, nil},
		"BadOID":         {"oid:1.x", Spec{}, asn1.ErrInvalidOID},
		"InvalidOID":     {"oid:3.1", Spec{}, ErrInvalidSpec},
		"DuplicateOID":   {"oid:1.2,oid:1.3", Spec{}, ErrInvalidSpec},
		"OIDWithTag":     {"oid:1.2,tag:6", Spec{}, ErrInvalidSpec},
		"OIDWithForm":    {"primitive,oid:1.2", Spec{}, ErrInvalidSpec},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tt.str)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.str, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.str, diff)
			}
		})
	}
}

func TestSpec_Match(t *testing.T) {
	tests := map[string]struct {
		spec string
		tag  asn1.Tag
		want bool
	}{
		"AnyFormPrimitive":   {"tag:4,universal", 0x04, true},
		"AnyFormConstructed": {"tag:4,universal", 0x24, true},
		"Primitive":          {"tag:4,universal,primitive", 0x24, false},
		"Constructed":        {"tag:16,universal,constructed", 0x30, true},
		"OtherClass":         {"tag:0", 0x00, false},
		"OtherNumber":        {"tag:0", 0x81, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.spec, err)
			}
			if got := s.Match(tt.tag); got != tt.want {
				t.Errorf("Match(%v) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestSpec_MatchNode(t *testing.T) {
	tests := map[string]struct {
		spec string
		data []byte
		want bool
	}{
		"OID":         {"oid:1.2.840", []byte{0x06, 0x03, 0x2a, 0x86, 0x48}, true},
		"OtherOID":    {"oid:1.2.841", []byte{0x06, 0x03, 0x2a, 0x86, 0x48}, false},
		"Prefix":      {"oid:1.2", []byte{0x06, 0x03, 0x2a, 0x86, 0x48}, false},
		"NotOID":      {"oid:1.2", []byte{0x04, 0x01, 0x2a}, false},
		"TagOnly":     {"universal,tag:6", []byte{0x06, 0x01, 0x2a}, true},
		"TagMismatch": {"tag:6", []byte{0x06, 0x01, 0x2a}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.spec, err)
			}
			n, err := new(ber.Decoder).Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := s.MatchNode(n); got != tt.want {
				t.Errorf("MatchNode(%v) = %v, want %v", n.Value(), got, tt.want)
			}
		})
	}
}

func TestSpec_String(t *testing.T) {
	for _, str := range []string{"tag:3,context", "tag:16,universal,constructed", "tag:7,private,primitive", "oid:1.2.840.113549"} {
		s, err := Parse(str)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", str, err)
		}
		if got := s.String(); got != str {
			t.Errorf("String() = %q, want %q", got, str)
		}
	}
}
