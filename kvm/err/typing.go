// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
)

// TypeError reports a binary operator whose operands do not both have
// the operator's sort. Left and Right are the models the operands
// checked to. Path locates the operator in the checked tree.
type TypeError struct {
	Operator string
	Want     mdl.Model
	Left     mdl.Model
	Right    mdl.Model
	Path     ErrorPath
}

func (e TypeError) Value() val.Union {
	return val.Union{"typeError", val.Struct{
		"operator": val.String(e.Operator),
		"want":     mdl.ValueFromModel(e.Want),
		"left":     mdl.ValueFromModel(e.Left),
		"right":    mdl.ValueFromModel(e.Right),
		"path":     e.Path.Value(),
	}}
}
func (e TypeError) Error() string {
	return e.String()
}
func (e TypeError) String() string {
	return fmt.Sprintf(`%s expression expects %s types on both sides!`, e.Operator, sortName(e.Want))
}
func (e TypeError) Child() Error {
	return nil
}

// Equals compares everything but the location.
func (e TypeError) Equals(f TypeError) bool {
	return e.Operator == f.Operator && e.Want.Equals(f.Want) && e.Left.Equals(f.Left) && e.Right.Equals(f.Right)
}

// EvaluationError is the runtime counterpart of TypeError: an operator
// received a value of the wrong variant.
type EvaluationError struct {
	Operator string
	Want     val.Type
	Left     val.Type
	Right    val.Type
	Path     ErrorPath
}

func (e EvaluationError) Value() val.Union {
	return val.Union{"evaluationError", val.Struct{
		"operator": val.String(e.Operator),
		"want":     val.String(e.Want.String()),
		"left":     val.String(e.Left.String()),
		"right":    val.String(e.Right.String()),
		"path":     e.Path.Value(),
	}}
}
func (e EvaluationError) Error() string {
	return e.String()
}
func (e EvaluationError) String() string {
	return fmt.Sprintf(`%s expression expects %s values on both sides!`, e.Operator, e.Want)
}
func (e EvaluationError) Child() Error {
	return nil
}

func sortName(m mdl.Model) string {
	switch m.(type) {
	case mdl.Int:
		return "int"
	case mdl.Bool:
		return "bool"
	}
	return "unknown"
}
