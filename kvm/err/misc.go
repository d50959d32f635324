// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"github.com/karmarun/karma.check/kvm/val"
)

// ExpressionParsingError is returned when a value does not describe
// an expression tree.
type ExpressionParsingError struct {
	Problem string
	Input   val.Value
}

func (e ExpressionParsingError) Value() val.Union {
	input := e.Input
	if input == nil {
		input = val.Null
	}
	return val.Union{"expressionParsingError", val.Struct{
		"problem": val.String(e.Problem),
		"input":   input,
	}}
}
func (e ExpressionParsingError) Error() string {
	return e.String()
}
func (e ExpressionParsingError) String() string {
	return "expression parsing: " + e.Problem
}
func (e ExpressionParsingError) Child() Error {
	return nil
}

type CodecError struct {
	Codec   string
	Problem string
}

func (e CodecError) Value() val.Union {
	return val.Union{"codecError", val.Struct{
		"codec":   val.String(e.Codec),
		"problem": val.String(e.Problem),
	}}
}
func (e CodecError) Error() string {
	return e.String()
}
func (e CodecError) String() string {
	return e.Codec + " codec: " + e.Problem
}
func (e CodecError) Child() Error {
	return nil
}

type RequestError struct {
	Problem string
	Child_  Error
}

func (e RequestError) Value() val.Union {
	child := val.Value(val.Null)
	if e.Child_ != nil {
		child = e.Child_.Value()
	}
	return val.Union{"requestError", val.Struct{
		"problem": val.String(e.Problem),
		"child":   child,
	}}
}
func (e RequestError) Error() string {
	return e.String()
}
func (e RequestError) String() string {
	out := "request: " + e.Problem
	if e.Child_ != nil {
		out += ": " + e.Child_.String()
	}
	return out
}
func (e RequestError) Child() Error {
	return e.Child_
}

type PermissionDeniedError struct{}

func (e PermissionDeniedError) Value() val.Union {
	return val.Union{"permissionDeniedError", val.Struct{}}
}
func (e PermissionDeniedError) Error() string {
	return e.String()
}
func (e PermissionDeniedError) String() string {
	return "permission denied"
}
func (e PermissionDeniedError) Child() Error {
	return nil
}

type NotFoundError struct {
	Name string
}

func (e NotFoundError) Value() val.Union {
	return val.Union{"notFoundError", val.String(e.Name)}
}
func (e NotFoundError) Error() string {
	return e.String()
}
func (e NotFoundError) String() string {
	return `not found: "` + e.Name + `"`
}
func (e NotFoundError) Child() Error {
	return nil
}

type InternalError struct {
	Problem string
}

func (e InternalError) Value() val.Union {
	return val.Union{"internalError", val.String(e.Problem)}
}
func (e InternalError) Error() string {
	return e.String()
}
func (e InternalError) String() string {
	return "internal error: " + e.Problem
}
func (e InternalError) Child() Error {
	return nil
}
