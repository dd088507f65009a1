// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tagspec parses textual tag selectors such as "tag:3,application".
// Selectors are used to filter decoded trees by the identifier octet of their
// nodes or by the value of OBJECT IDENTIFIER nodes.
package tagspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	asn1 "codello.dev/asn1tree"
	"codello.dev/asn1tree/ber"
)

// ErrInvalidSpec indicates a selector that cannot be parsed.
var ErrInvalidSpec = errors.New("tagspec: invalid selector")

// Spec is a parsed tag selector.
type Spec struct {
	Tag asn1.Tag // class, constructed bit and number to match
	// AnyForm matches both the primitive and the constructed form of Tag.
	AnyForm bool
	// OID restricts the selector to OBJECT IDENTIFIER nodes with this value.
	OID asn1.ObjectIdentifier
}

// Parse parses a comma separated selector. The following parts are
// recognized:
//
//	tag:N        the tag number N (0 to 30)
//	universal    the UNIVERSAL class
//	application  the APPLICATION class
//	context      the context-specific class
//	private      the PRIVATE class
//	constructed  the constructed form
//	primitive    the primitive form
//	oid:A.B.C    OBJECT IDENTIFIER nodes with the value A.B.C
//
// If no class is given, the context-specific class is used. If no form is
// given, the selector matches either form. A selector must contain either a
// tag part or an oid part. An oid part cannot be combined with other parts.
func Parse(str string) (Spec, error) {
	var (
		ret      Spec
		class    = asn1.ClassContextSpecific
		number   = -1
		hasClass bool
		hasForm  bool
		cons     bool
	)
	ret.AnyForm = true
	for part := range strings.SplitSeq(str, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "tag:"):
			i, err := strconv.ParseUint(part[4:], 10, 8)
			if err != nil || i >= 0x1f {
				return Spec{}, fmt.Errorf("%w: tag number %q", ErrInvalidSpec, part[4:])
			}
			number = int(i)
		case part == "universal", part == "application", part == "context", part == "private":
			if hasClass {
				return Spec{}, fmt.Errorf("%w: duplicate class %q", ErrInvalidSpec, part)
			}
			hasClass = true
			class = classes[part]
		case strings.HasPrefix(part, "oid:"):
			if ret.OID != nil {
				return Spec{}, fmt.Errorf("%w: duplicate oid %q", ErrInvalidSpec, part)
			}
			oid, err := asn1.ParseObjectIdentifier(part[4:])
			if err != nil {
				return Spec{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
			}
			ret.OID = oid
		case part == "constructed", part == "primitive":
			if hasForm {
				return Spec{}, fmt.Errorf("%w: duplicate form %q", ErrInvalidSpec, part)
			}
			hasForm = true
			ret.AnyForm = false
			cons = part == "constructed"
		default:
			return Spec{}, fmt.Errorf("%w: unknown part %q", ErrInvalidSpec, part)
		}
	}
	if ret.OID != nil {
		if number >= 0 || hasClass || hasForm {
			return Spec{}, fmt.Errorf("%w: oid cannot be combined with other parts", ErrInvalidSpec)
		}
		ret.Tag = asn1.NewTag(asn1.ClassUniversal, false, asn1.TagOID)
		ret.AnyForm = false
		return ret, nil
	}
	if number < 0 {
		return Spec{}, fmt.Errorf("%w: missing tag number", ErrInvalidSpec)
	}
	ret.Tag = asn1.NewTag(class, cons, uint8(number))
	return ret, nil
}

var classes = map[string]asn1.Class{
	"universal":   asn1.ClassUniversal,
	"application": asn1.ClassApplication,
	"context":     asn1.ClassContextSpecific,
	"private":     asn1.ClassPrivate,
}

// Match reports whether t is selected by s.
func (s Spec) Match(t asn1.Tag) bool {
	if s.AnyForm {
		return t&^0x20 == s.Tag&^0x20
	}
	return t == s.Tag
}

// MatchNode reports whether n is selected by s. Unlike [Spec.Match] this also
// compares the value of OBJECT IDENTIFIER nodes.
func (s Spec) MatchNode(n *ber.Node) bool {
	if !s.Match(n.Tag()) {
		return false
	}
	if s.OID == nil {
		return true
	}
	v, ok := n.Value().(ber.ObjectIdentifier)
	return ok && v.OID().Equal(s.OID)
}

// String returns the selector in the form accepted by [Parse].
func (s Spec) String() string {
	if s.OID != nil {
		return "oid:" + s.OID.String()
	}
	var sb strings.Builder
	sb.WriteString("tag:")
	sb.WriteString(strconv.Itoa(int(s.Tag.Number())))
	for name, c := range classes {
		if c == s.Tag.Class() {
			sb.WriteString(",")
			sb.WriteString(name)
		}
	}
	if !s.AnyForm {
		if s.Tag.Constructed() {
			sb.WriteString(",constructed")
		} else {
			sb.WriteString(",primitive")
		}
	}
	return sb.String()
}
