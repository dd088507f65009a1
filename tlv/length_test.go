package tlv

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	asn1 "codello.dev/asn1tree"
)

func TestReadLength(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    int
		wantErr error
	}{
		"Short":           {[]byte{0x05}, 5, nil},
		"ShortMax":        {[]byte{0x7F}, 127, nil},
		"LongOne":         {[]byte{0x81, 0x80}, 128, nil},
		"LongTwo":         {[]byte{0x82, 0x01, 0x00}, 256, nil},
		"LongNonMinimal":  {[]byte{0x82, 0x00, 0x05}, 5, nil},
		"Indefinite":      {[]byte{0x80}, 0, asn1.ErrInvalidLength},
		"Reserved":        {[]byte{0xFF}, 0, asn1.ErrInvalidLength},
		"TooManyOctets":   {[]byte{0x89, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 0, asn1.ErrInvalidLength},
		"Overflow":        {[]byte{0x88, 0x80, 0, 0, 0, 0, 0, 0, 0}, 0, asn1.ErrInvalidLength},
		"Missing":         {nil, 0, asn1.ErrTruncated},
		"TruncatedOctets": {[]byte{0x82, 0x01}, 0, asn1.ErrOutOfBounds},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ReadLength(NewReader(tc.data))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReadLength(%# x) error = %v, wantErr %v", tc.data, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ReadLength(%# x) = %d, want %d", tc.data, got, tc.want)
			}
		})
	}
}

func TestWriteLength(t *testing.T) {
	tests := []struct {
		l    int
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x80}},
		{255, []byte{0x81, 0xFF}},
		{256, []byte{0x82, 0x01, 0x00}},
		{65536, []byte{0x83, 0x01, 0x00, 0x00}},
	}
	for _, tc := range tests {
		t.Run(strconv.Itoa(tc.l), func(t *testing.T) {
			if got := LengthSize(tc.l); got != len(tc.want) {
				t.Errorf("LengthSize(%d) = %d, want %d", tc.l, got, len(tc.want))
			}
			w := NewWriter(make([]byte, len(tc.want)))
			if err := WriteLength(w, tc.l); err != nil {
				t.Fatalf("WriteLength(%d) error = %v", tc.l, err)
			}
			if !bytes.Equal(w.Bytes(), tc.want) {
				t.Errorf("WriteLength(%d) = %# x, want %# x", tc.l, w.Bytes(), tc.want)
			}
			back, err := ReadLength(NewReader(w.Bytes()))
			if err != nil || back != tc.l {
				t.Errorf("ReadLength(WriteLength(%d)) = %d, %v", tc.l, back, err)
			}

			short := NewWriter(make([]byte, len(tc.want)-1))
			if err = WriteLength(short, tc.l); !errors.Is(err, asn1.ErrBufferTooSmall) {
				t.Errorf("WriteLength() into short buffer error = %v, want %v", err, asn1.ErrBufferTooSmall)
			}
		})
	}
}
