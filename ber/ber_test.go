// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	asn1 "codello.dev/asn1tree"
)

// treeOpts compares trees including unexported fields. Nil and empty slices are
// considered equal.
var treeOpts = cmp.Options{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
}

// testCase represents an encoding or decoding test case. For encoding cases
// encoding val should result in data. For decoding cases decoding data should
// result in val.
type testCase struct {
	val     Value
	data    []byte
	wantErr error
}

// testCodec runs the tests specified as arguments. Common tests are run in
// both directions. The encode and decode tests are only run for the respective
// direction.
func testCodec(t *testing.T, common, encode, decode map[string]testCase) {
	t.Helper()
	t.Run("Encode", func(t *testing.T) {
		t.Helper()
		testEncode(t, common)
		testEncode(t, encode)
	})
	t.Run("Decode", func(t *testing.T) {
		t.Helper()
		testDecode(t, common)
		testDecode(t, decode)
	})
}

// testEncode encodes tc.val and validates that the resulting data matches
// tc.data. If tc.wantErr is non-nil, encoding is expected to fail with an
// error matching tc.wantErr.
func testEncode(t *testing.T, tests map[string]testCase) {
	t.Helper()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Helper()
			got, err := Marshal(tc.val)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Marshal() error = %v, wantErr %v", err, tc.wantErr)
				}
				return
			} else if err != nil {
				t.Fatalf("Marshal() error = %v, wantErr nil", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Errorf("Marshal() = % X, want % X", got, tc.data)
			}
			if l := tc.val.EncodedLen(); l != len(got) {
				t.Errorf("EncodedLen() = %d, want %d", l, len(got))
			}
		})
	}
}

// testDecode decodes tc.data and compares the resulting value to tc.val after
// the metadata has been cleared. If tc.wantErr is non-nil, decoding is expected
// to fail with an error matching tc.wantErr.
func testDecode(t *testing.T, tests map[string]testCase) {
	t.Helper()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Helper()
			n, err := Decode(tc.data)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Decode() error = %v, wantErr %v", err, tc.wantErr)
				}
				if n != nil {
					t.Errorf("Decode() = %v, want nil", n)
				}
				return
			} else if err != nil {
				t.Fatalf("Decode() error = %v, wantErr nil", err)
			}
			n.ClearMetadata()
			if diff := cmp.Diff(tc.val, n.Value(), treeOpts); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// must returns v or panics if err is non-nil.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		KindBoolean:        "Boolean",
		KindUTF8String:     "UTF8String",
		KindBMPString:      "BMPString",
		KindApplicationTag: "ApplicationTag",
		Kind(200):          "Kind(200)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}

func TestCodecFor(t *testing.T) {
	tests := map[string]struct {
		tag  asn1.Tag
		want Kind
	}{
		"Boolean":               {0x01, KindBoolean},
		"Integer":               {0x02, KindInteger},
		"Sequence":              {0x30, KindSequence},
		"Set":                   {0x31, KindSet},
		"PrimitiveSequence":     {0x10, KindInvalid},
		"ConstructedOctets":     {0x24, KindInvalid},
		"Explicit":              {0xa3, KindExplicitTag},
		"Implicit":              {0x83, KindImplicitTag},
		"Application":           {0x65, KindApplicationTag},
		"PrimitiveApplication":  {0x45, KindInvalid},
		"Private":               {0xc0, KindInvalid},
		"LongFormUniversal":     {0x1f, KindInvalid},
		"LongFormContext":       {0xbf, KindInvalid},
		"LongFormImplicit":      {0x9f, KindInvalid},
		"UnsupportedUniversal":  {0x09, KindInvalid},
		"GeneralizedTime":       {0x18, KindGeneralizedTime},
		"UniversalStringNumber": {0x1c, KindInvalid},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			decode := codecFor(tt.tag)
			if (decode == nil) != (tt.want == KindInvalid) {
				t.Fatalf("codecFor(%v) = %v, want kind %v", tt.tag, decode != nil, tt.want)
			}
			if decode == nil {
				return
			}
			data := []byte{byte(tt.tag), 0x00}
			n, err := Decode(data)
			if err != nil {
				// Some kinds reject empty content. Only the dispatch matters here.
				var se *asn1.SyntaxError
				if errors.Is(err, asn1.ErrUnrecognizedTag) || !errors.As(err, &se) {
					t.Fatalf("Decode(% X) error = %v", data, err)
				}
				return
			}
			if n.Kind() != tt.want {
				t.Errorf("Decode(% X).Kind() = %v, want %v", data, n.Kind(), tt.want)
			}
		})
	}
}
