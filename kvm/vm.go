// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/inst"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"github.com/kr/pretty"
)

// Check is TypeExpression, memoised in vm.Cache if present.
func (vm VirtualMachine) Check(x xpr.Expression) (xpr.TypedExpression, err.Error) {
	if vm.Cache == nil {
		return TypeExpression(x)
	}
	wire := xpr.ValueFromExpression(x)
	if typed, e, ok := vm.Cache.get(wire); ok {
		return typed, e
	}
	typed, e := TypeExpression(x)
	vm.Cache.set(wire, typed, e)
	return typed, e
}

// Compile checks x and compiles it to a program for Execute.
func (vm VirtualMachine) Compile(x xpr.Expression) (inst.Sequence, mdl.Model, err.Error) {
	typed, e := vm.Check(x)
	if e != nil {
		return nil, nil, e
	}
	program := CompileExpression(typed, nil)
	if vm.Debug {
		log.Debugf("compiled %s", x)
		pretty.Println(program)
		program = append(program, inst.DebugPrintStack{})
	}
	return program, typed.Actual, nil
}

// CheckAndExecute type checks x, then evaluates it on the stack machine.
// Ill-typed expressions are never executed.
func (vm VirtualMachine) CheckAndExecute(x xpr.Expression) (val.Value, mdl.Model, err.Error) {
	program, model, e := vm.Compile(x)
	if e != nil {
		return nil, nil, e
	}
	v, e := vm.Execute(program)
	if e != nil {
		return nil, nil, e
	}
	if e := checkResult(v, model); e != nil {
		return nil, nil, e
	}
	return v, model, nil
}

// checkResult reports an internal error if v does not inhabit model.
func checkResult(v val.Value, model mdl.Model) err.Error {
	if m := mdl.ModelOfValue(v); m == nil || !m.Equals(model) {
		return err.InternalError{
			Problem: fmt.Sprintf("result %v does not inhabit %s", v, model),
		}
	}
	return nil
}
