// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"encoding/json"
	"io"

	"codello.dev/asn1tree/ber"
	"codello.dev/asn1tree/tlv"
)

// jsonNode is the JSON representation of a node.
type jsonNode struct {
	ID       uint64      `json:"id"`
	Tag      string      `json:"tag"`
	Kind     string      `json:"kind"`
	Range    *[2]int     `json:"range,omitempty"`
	Content  *[2]int     `json:"content,omitempty"`
	Value    string      `json:"value,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

func newJSONNode(n *ber.Node, opts *Options) []*jsonNode {
	var children []*jsonNode
	for _, c := range n.Children() {
		children = append(children, newJSONNode(c, opts)...)
	}
	if !opts.match(n) {
		return children
	}
	j := &jsonNode{
		ID:       n.ID(),
		Tag:      n.Tag().String(),
		Kind:     n.Kind().String(),
		Value:    Summary(n),
		Children: children,
	}
	if m := n.Metadata(); !m.IsZero() {
		j.Range = pair(m.Range())
		j.Content = pair(m.AbsoluteRange(m.ContentRange()))
	}
	return []*jsonNode{j}
}

func pair(r tlv.Range) *[2]int {
	return &[2]int{r.Start, r.End}
}

// JSON writes the trees rooted at nodes as an indented JSON array. Nodes not
// selected by opts are replaced by their selected descendants.
func JSON(w io.Writer, nodes []*ber.Node, opts *Options) error {
	out := []*jsonNode{}
	for _, n := range nodes {
		out = append(out, newJSONNode(n, opts)...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", opts.indent())
	return enc.Encode(out)
}
