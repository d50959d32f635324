// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"github.com/karmarun/karma.check/kvm/val"
	"strings"
)

// HumanReadableError renders a wrapped Error as a sectioned report.
type HumanReadableError struct {
	Error_ Error
}

func (e HumanReadableError) Value() val.Union {
	return val.Union{"humanReadableError", val.Struct{
		"human":   val.String(e.String()),
		"machine": e.Error_.Value(),
	}}
}
func (e HumanReadableError) Error() string {
	return e.String()
}
func (e HumanReadableError) String() string {
	switch x := e.Error_.(type) {
	case TypeError:
		return section("Type Error", x.String()) +
			section("Location", x.Path.String()) +
			section("Operands", "left:  "+x.Left.String()+"\nright: "+x.Right.String())
	case EvaluationError:
		return section("Evaluation Error", x.String()) +
			section("Location", x.Path.String()) +
			section("Operands", "left:  "+x.Left.String()+"\nright: "+x.Right.String())
	}
	out := section("Error", e.Error_.String())
	for c := e.Error_.Child(); c != nil; c = c.Child() {
		out += section("Caused by", c.String())
	}
	return out
}
func (e HumanReadableError) Child() Error {
	return e.Error_
}

func section(title, body string) string {
	return title + "\n" + strings.Repeat("=", len(title)) + "\n" + body + "\n\n"
}
