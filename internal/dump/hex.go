// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"fmt"
	"io"
	"strings"

	"codello.dev/asn1tree/tlv"
)

// Hex writes a hex dump of data with width bytes per line. Bytes within
// highlight are marked by a line of carets below them. Positions are absolute,
// data starts at position base.
func Hex(w io.Writer, data []byte, base int, highlight tlv.Range, width int) error {
	if width <= 0 {
		width = 16
	}
	var sb strings.Builder
	for start := 0; start < len(data); start += width {
		end := min(start+width, len(data))
		fmt.Fprintf(&sb, "%08x ", base+start)
		marks := false
		for i := start; i < end; i++ {
			fmt.Fprintf(&sb, " %02x", data[i])
			marks = marks || highlight.Contains(base+i)
		}
		sb.WriteByte('\n')
		if !marks {
			continue
		}
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", 9))
		for i := start; i < end; i++ {
			if highlight.Contains(base + i) {
				line.WriteString(" ^^")
			} else {
				line.WriteString("   ")
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
