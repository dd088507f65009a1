package tlv

import (
	"bytes"
	"testing"
)

func TestMetadata(t *testing.T) {
	input := []byte{0x30, 0x05, 0x04, 0x03, 'a', 'b', 'c'}
	raw := input[2:]
	m := NewMetadata(raw, 2, 2)

	if m.IsZero() {
		t.Fatalf("IsZero() = true for decoded metadata")
	}
	if got := m.LengthRange(); got != (Range{1, 2}) {
		t.Errorf("LengthRange() = %v, want %v", got, Range{1, 2})
	}
	if got := m.ContentRange(); got != (Range{2, 5}) {
		t.Errorf("ContentRange() = %v, want %v", got, Range{2, 5})
	}
	if got := m.ContentBytes(); !bytes.Equal(got, []byte("abc")) {
		t.Errorf("ContentBytes() = %q, want %q", got, "abc")
	}
	if got := m.LengthBytes(); !bytes.Equal(got, []byte{0x03}) {
		t.Errorf("LengthBytes() = %# x, want %# x", got, []byte{0x03})
	}
	if got := m.Range(); got != (Range{2, 7}) {
		t.Errorf("Range() = %v, want %v", got, Range{2, 7})
	}
	if got := m.AbsoluteRange(m.ContentRange()); got != (Range{4, 7}) {
		t.Errorf("AbsoluteRange(ContentRange()) = %v, want %v", got, Range{4, 7})
	}

	c := m.Clone()
	input[4] = 'x'
	if !bytes.Equal(c.ContentBytes(), []byte("abc")) {
		t.Errorf("Clone() shares memory with the input")
	}
	if !(Metadata{}).IsZero() {
		t.Errorf("Metadata{}.IsZero() = false")
	}
}

func TestRange(t *testing.T) {
	r := Range{2, 5}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want %d", r.Len(), 3)
	}
	if !r.Contains(2) || r.Contains(5) {
		t.Errorf("Contains() does not implement a half-open range")
	}
	if got := r.String(); got != "[2, 5)" {
		t.Errorf("String() = %q, want %q", got, "[2, 5)")
	}
}
