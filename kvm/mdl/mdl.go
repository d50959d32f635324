// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package mdl

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/val"
)

// Model is the type of an expression. The set of models is closed:
// Int and Bool are its only members.
type Model interface {

	// Equals reports wether a Model equals another.
	Equals(Model) bool

	// Zero returns the zero-value for the current model.
	Zero() val.Value

	// ValueType returns the Type of the Values inhabiting the model.
	ValueType() val.Type

	// String returns the display name, IntType or BoolType.
	String() string

	_model()
}

// Int is the integer sort.
type Int struct{}

func (Int) _model() {}

func (Int) Equals(m Model) bool {
	_, ok := m.(Int)
	return ok
}

func (Int) Zero() val.Value {
	return val.Int64(0)
}

func (Int) ValueType() val.Type {
	return val.TypeInt64
}

func (Int) String() string {
	return "IntType"
}

// Bool is the boolean sort.
type Bool struct{}

func (Bool) _model() {}

func (Bool) Equals(m Model) bool {
	_, ok := m.(Bool)
	return ok
}

func (Bool) Zero() val.Value {
	return val.Bool(false)
}

func (Bool) ValueType() val.Type {
	return val.TypeBool
}

func (Bool) String() string {
	return "BoolType"
}

// ValueFromModel returns the machine-readable form of model.
func ValueFromModel(model Model) val.Value {
	switch model.(type) {
	case Int:
		return val.Union{"int", val.Struct{}}
	case Bool:
		return val.Union{"bool", val.Struct{}}
	}
	panic(fmt.Sprintf(`unhandled model: %T`, model))
}

// ModelFromValue is the inverse of ValueFromModel.
func ModelFromValue(v val.Value) (Model, error) {
	u, ok := v.(val.Union)
	if !ok {
		return nil, fmt.Errorf(`model: expected union, have %s`, v.Type())
	}
	switch u.Case {
	case "int":
		return Int{}, nil
	case "bool":
		return Bool{}, nil
	}
	return nil, fmt.Errorf(`model: unknown case "%s"`, u.Case)
}

// ModelOfValue returns the model inhabited by a runtime value, or nil if v
// is not the result of an evaluation.
func ModelOfValue(v val.Value) Model {
	switch v.(type) {
	case val.Int64:
		return Int{}
	case val.Bool:
		return Bool{}
	}
	return nil
}
