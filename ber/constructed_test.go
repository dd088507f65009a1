// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	asn1 "codello.dev/asn1tree"
)

func TestSequence(t *testing.T) {
	testCodec(t, map[string]testCase{
		"Empty":  {NewSequence(), []byte{0x30, 0x00}, nil},
		"Fields": {NewSequence(IntegerFromInt64(1), Boolean(true)), []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x01, 0x01, 0xff}, nil},
		"Nested": {NewSequence(NewSequence(Null{})), []byte{0x30, 0x04, 0x30, 0x02, 0x05, 0x00}, nil},
		"Set":    {NewSet(Null{}, Null{}), []byte{0x31, 0x04, 0x05, 0x00, 0x05, 0x00}, nil},
	}, nil, map[string]testCase{
		"Truncated":      {nil, []byte{0x30, 0x01, 0x02}, asn1.ErrOutOfBounds},
		"ChildTruncated": {nil, []byte{0x30, 0x03, 0x02, 0x02, 0x15}, asn1.ErrTruncated},
		"ParentTooLong":  {nil, []byte{0x30, 0x05, 0x05, 0x00}, asn1.ErrTruncated},
		"InvalidChild":   {nil, []byte{0x30, 0x03, 0x05, 0x01, 0x00}, asn1.ErrInvalidLength},
		"Unrecognized":   {nil, []byte{0x30, 0x02, 0xc0, 0x00}, asn1.ErrUnrecognizedTag},
		"Indefinite":     {nil, []byte{0x30, 0x80, 0x05, 0x00, 0x00, 0x00}, asn1.ErrInvalidLength},
	})
}

func TestExplicitTag(t *testing.T) {
	testCodec(t, map[string]testCase{
		"Single":      {must(NewExplicitTag(0, IntegerFromInt64(2))), []byte{0xa0, 0x03, 0x02, 0x01, 0x02}, nil},
		"Empty":       {must(NewExplicitTag(3)), []byte{0xa3, 0x00}, nil},
		"Multiple":    {must(NewExplicitTag(1, Null{}, Boolean(false))), []byte{0xa1, 0x05, 0x05, 0x00, 0x01, 0x01, 0x00}, nil},
		"Application": {must(NewApplicationTag(1, Null{})), []byte{0x61, 0x02, 0x05, 0x00}, nil},
		"HighNumber":  {must(NewApplicationTag(30, Null{})), []byte{0x7e, 0x02, 0x05, 0x00}, nil},
	}, map[string]testCase{
		"LongFormExplicit":    {&ExplicitTag{Number: 31}, nil, asn1.ErrUnrecognizedTag},
		"LongFormApplication": {&ApplicationTag{Number: 31, Fields: newNodes([]Value{Null{}})}, nil, asn1.ErrUnrecognizedTag},
		"NestedLongForm":      {NewSequence(&ExplicitTag{Number: 40}), nil, asn1.ErrUnrecognizedTag},
	}, map[string]testCase{
		"TrailingData": {nil, []byte{0xa0, 0x02, 0x01, 0x00, 0x00}, asn1.ErrTrailingData},
	})

	e := must(NewExplicitTag(2, Null{}))
	if e.Inner() == nil || e.Inner().Kind() != KindNull {
		t.Errorf("Inner() = %v, want NULL", e.Inner())
	}
	if got := must(NewExplicitTag(2)).Inner(); got != nil {
		t.Errorf("Inner() = %v, want nil", got)
	}
	if got, want := e.Tag(), asn1.Tag(0xa2); got != want {
		t.Errorf("Tag() = %v, want %v", got, want)
	}
}

func TestImplicitTag(t *testing.T) {
	testCodec(t, map[string]testCase{
		"Opaque":    {must(NewImplicitTag(0, []byte{0x01, 0x02})), []byte{0x80, 0x02, 0x01, 0x02}, nil},
		"Nested":    {must(NewImplicitTag(1, []byte{0x05, 0x00})), []byte{0x81, 0x02, 0x05, 0x00}, nil},
		"Empty":     {must(NewImplicitTag(2, nil)), []byte{0x82, 0x00}, nil},
		"Text":      {must(NewImplicitTag(6, []byte("example.com"))), append([]byte{0x86, 0x0b}, "example.com"...), nil},
		"Structure": {must(NewImplicitTag(0, []byte{0x30, 0x03, 0x02, 0x01, 0x07})), []byte{0x80, 0x05, 0x30, 0x03, 0x02, 0x01, 0x07}, nil},
	}, map[string]testCase{
		"LongForm": {&ImplicitTag{Number: 31}, nil, asn1.ErrUnrecognizedTag},
	}, map[string]testCase{
		"Leftovers": {nil, []byte{0x80, 0x04, 0x05, 0x00, 0x05, 0x00}, asn1.ErrUnconsumedImplicitData},
	})
}

func TestNewTagWrapper_Errors(t *testing.T) {
	tests := map[string]struct {
		fn      func() error
		wantErr error
	}{
		"ExplicitNumber": {func() error {
			_, err := NewExplicitTag(31, Null{})
			return err
		}, asn1.ErrUnrecognizedTag},
		"ApplicationNumber": {func() error {
			_, err := NewApplicationTag(31, Null{})
			return err
		}, asn1.ErrUnrecognizedTag},
		"ImplicitNumber": {func() error {
			_, err := NewImplicitTag(31, []byte{0x01})
			return err
		}, asn1.ErrUnrecognizedTag},
		"ImplicitLeftovers": {func() error {
			_, err := NewImplicitTag(0, []byte{0x05, 0x00, 0x05, 0x00})
			return err
		}, asn1.ErrUnconsumedImplicitData},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Every value accepted by a constructor decodes back to an equal value.
func TestTagWrapper_RoundTrip(t *testing.T) {
	values := map[string]Value{
		"Explicit":       must(NewExplicitTag(30, Null{})),
		"Application":    must(NewApplicationTag(30, Boolean(true))),
		"ImplicitNested": must(NewImplicitTag(30, []byte{0x05, 0x00})),
		"ImplicitOpaque": must(NewImplicitTag(0, []byte{0x05})),
	}
	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			b, err := Marshal(v)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			n, err := Decode(b)
			if err != nil {
				t.Fatalf("Decode(% X) error = %v", b, err)
			}
			n.ClearMetadata()
			if diff := cmp.Diff(v, n.Value(), treeOpts); diff != "" {
				t.Errorf("Decode(Marshal()) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImplicitTag_Inner(t *testing.T) {
	n := must(Decode([]byte{0x30, 0x06, 0x80, 0x02, 0x01, 0x02, 0x81, 0x00}))
	seq := n.Value().(*Sequence)
	opaque := seq.Fields[0].Value().(*ImplicitTag)
	if opaque.Inner() != nil {
		t.Errorf("Inner() = %v, want nil", opaque.Inner())
	}
	if opaque.Number != 0 || string(opaque.Octets()) != "\x01\x02" {
		t.Errorf("ImplicitTag = [%d] % X, want [0] 01 02", opaque.Number, opaque.Octets())
	}

	it := must(NewImplicitTag(4, nil))
	if err := it.SetInner(NewNode(NewSequence(Boolean(true)))); err != nil {
		t.Fatalf("SetInner() error = %v", err)
	}
	got, err := Marshal(it)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := []byte{0x84, 0x05, 0x30, 0x03, 0x01, 0x01, 0xff}
	if string(got) != string(want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}
}
