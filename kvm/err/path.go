// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/val"
	"strings"
)

// ErrorPath locates a node in an expression tree, root first.
type ErrorPath []ErrorPathElement

func (p ErrorPath) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	out := ""
	for i, l := range p {
		if i > 0 {
			out += "\n" + strings.Repeat("  ", i)
		}
		out += l.String()
	}
	return out
}

func (p ErrorPath) Value() val.List {
	l := make(val.List, len(p), len(p))
	for i, loc := range p {
		l[i] = loc.Value()
	}
	return l
}

func (p ErrorPath) Equals(q ErrorPath) bool {
	if len(p) != len(q) {
		return false
	}
	for i, _ := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Extend returns a copy of p with e appended. p is never modified.
func (p ErrorPath) Extend(e ErrorPathElement) ErrorPath {
	q := make(ErrorPath, len(p), len(p)+1)
	copy(q, p)
	return append(q, e)
}

type ErrorPathElement interface {
	String() string
	Value() val.Union
}

// ErrorPathElementOperand steps into an operand of a binary expression.
type ErrorPathElementOperand struct {
	Operator string
	Side     Side
}

type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

func (l ErrorPathElementOperand) String() string {
	return fmt.Sprintf(`%s operand of %s`, l.Side, l.Operator)
}

func (l ErrorPathElementOperand) Value() val.Union {
	return val.Union{"operand", val.Struct{
		"operator": val.String(l.Operator),
		"side":     val.String(l.Side),
	}}
}
