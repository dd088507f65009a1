// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump renders decoded trees for humans and other programs.
package dump

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"codello.dev/asn1tree/ber"
)

// previewLen is the number of content bytes shown for opaque values.
const previewLen = 16

// Options control the output of [Tree] and [JSON].
type Options struct {
	Indent string // indentation per nesting level

	// Match selects the nodes to print. If Match is nil, all nodes are printed.
	// Descendants of nodes that are not selected are still visited.
	Match func(*ber.Node) bool
}

func (o *Options) indent() string {
	if o == nil || o.Indent == "" {
		return "  "
	}
	return o.Indent
}

func (o *Options) match(n *ber.Node) bool {
	return o == nil || o.Match == nil || o.Match(n)
}

// Tree writes one line per node of the tree rooted at n. Each line holds the
// identifier, tag, kind, byte range and a summary of the value.
func Tree(w io.Writer, n *ber.Node, opts *Options) error {
	var sb strings.Builder
	writeTree(&sb, n, 0, opts)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTree(sb *strings.Builder, n *ber.Node, depth int, opts *Options) {
	if opts.match(n) {
		sb.WriteString(strings.Repeat(opts.indent(), depth))
		sb.WriteString(Line(n))
		sb.WriteByte('\n')
	}
	for _, c := range n.Children() {
		writeTree(sb, c, depth+1, opts)
	}
}

// Line returns the single line description of n used by [Tree].
func Line(n *ber.Node) string {
	s := fmt.Sprintf("%d %v %v", n.ID(), n.Tag(), n.Kind())
	if m := n.Metadata(); !m.IsZero() {
		s += " " + m.Range().String()
	}
	if sum := Summary(n); sum != "" {
		s += " " + sum
	}
	return s
}

// Summary returns a short textual rendition of the value of n. Values with
// child nodes are summarized by the number of children.
func Summary(n *ber.Node) string {
	switch v := n.Value().(type) {
	case *ber.Sequence, *ber.Set, *ber.ExplicitTag, *ber.ApplicationTag:
		return fmt.Sprintf("(%d fields)", len(n.Children()))
	case *ber.OctetString:
		return opaque(v.Octets(), v.Inner())
	case *ber.ImplicitTag:
		return opaque(v.Octets(), v.Inner())
	case *ber.BitString:
		if v.Inner() != nil {
			return opaque(v.Bytes(), v.Inner())
		}
		return v.String()
	case ber.Null:
		return ""
	case fmt.Stringer:
		if isString(n.Kind()) {
			return strconv.Quote(v.String())
		}
		return v.String()
	}
	return ""
}

func opaque(b []byte, inner *ber.Node) string {
	if inner != nil {
		return fmt.Sprintf("(%d bytes, encapsulates)", len(b))
	}
	if len(b) > previewLen {
		return hex.EncodeToString(b[:previewLen]) + "..."
	}
	return hex.EncodeToString(b)
}

func isString(k ber.Kind) bool {
	switch k {
	case ber.KindUTF8String, ber.KindNumericString, ber.KindPrintableString,
		ber.KindIA5String, ber.KindVisibleString, ber.KindGeneralString,
		ber.KindBMPString:
		return true
	}
	return false
}
