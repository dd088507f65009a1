// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"fmt"
	"testing"
)

func ExampleTag_String() {
	t1 := NewTag(ClassApplication, true, 17)
	t2 := NewTag(ClassContextSpecific, false, 8)
	t3 := Tag(0x02)
	fmt.Println(t1.String())
	fmt.Println(t2.String())
	fmt.Println(t3.String())
	// Output:
	// [APPLICATION 17]/c
	// [8]
	// [UNIVERSAL 2]
}

func TestTag(t *testing.T) {
	tests := map[string]struct {
		tag         Tag
		class       Class
		constructed bool
		number      uint8
		longForm    bool
	}{
		"Boolean":         {0x01, ClassUniversal, false, 1, false},
		"Sequence":        {0x30, ClassUniversal, true, 16, false},
		"Explicit3":       {0xA3, ClassContextSpecific, true, 3, false},
		"Implicit0":       {0x80, ClassContextSpecific, false, 0, false},
		"Application1":    {0x61, ClassApplication, true, 1, false},
		"Private":         {0xC4, ClassPrivate, false, 4, false},
		"HighTagNumber":   {0x1F, ClassUniversal, false, 31, true},
		"HighTagNumberCS": {0xBF, ClassContextSpecific, true, 31, true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.tag.Class(); got != tc.class {
				t.Errorf("Class() = %v, want %v", got, tc.class)
			}
			if got := tc.tag.Constructed(); got != tc.constructed {
				t.Errorf("Constructed() = %v, want %v", got, tc.constructed)
			}
			if got := tc.tag.Number(); got != tc.number {
				t.Errorf("Number() = %v, want %v", got, tc.number)
			}
			if got := tc.tag.IsLongForm(); got != tc.longForm {
				t.Errorf("IsLongForm() = %v, want %v", got, tc.longForm)
			}
			if got := NewTag(tc.class, tc.constructed, tc.number); got != tc.tag {
				t.Errorf("NewTag() = %#x, want %#x", byte(got), byte(tc.tag))
			}
		})
	}
}

func TestClass_String(t *testing.T) {
	if got := ClassContextSpecific.String(); got != "ContextSpecific" {
		t.Errorf("String() = %q, want %q", got, "ContextSpecific")
	}
	if got := Class(7).String(); got != "Class(7)" {
		t.Errorf("String() = %q, want %q", got, "Class(7)")
	}
}

func TestWrapSyntaxError(t *testing.T) {
	inner := WrapSyntaxError(0x04, 7, ErrTruncated)
	outer := WrapSyntaxError(0x30, 0, inner)
	if outer != inner {
		t.Errorf("WrapSyntaxError() rewrapped an existing syntax error")
	}
	var se *SyntaxError
	if !errors.As(outer, &se) {
		t.Fatalf("errors.As(%v) = false", outer)
	}
	if se.Offset != 7 || se.Tag != 0x04 {
		t.Errorf("SyntaxError = {%v, %d}, want {%v, %d}", se.Tag, se.Offset, Tag(0x04), 7)
	}
	if !errors.Is(outer, ErrOutOfBounds) {
		t.Errorf("errors.Is(%v, ErrOutOfBounds) = false", outer)
	}
	if WrapSyntaxError(0x01, 0, nil) != nil {
		t.Errorf("WrapSyntaxError(nil) != nil")
	}
}
