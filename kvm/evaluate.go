// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
)

// Evaluate reduces x to a val.Int64 or val.Bool by direct recursion over
// the tree. It needs no prior type check: operand mismatches surface as
// err.EvaluationError. Traversal order and failure propagation are the
// same as in TypeExpression. Boolean operators do not short-circuit.
func Evaluate(x xpr.Expression) (val.Value, err.Error) {
	return evaluate(x, nil)
}

func evaluate(node xpr.Expression, path err.ErrorPath) (val.Value, err.Error) {

	switch node := node.(type) {

	case xpr.TypedExpression:
		return evaluate(node.Expression, path)

	case xpr.One:
		return val.Int64(1), nil

	case xpr.Zero:
		return val.Int64(0), nil

	case xpr.True:
		return val.Bool(true), nil

	case xpr.False:
		return val.Bool(false), nil

	case xpr.Add:
		a, b, e := evaluateInts(xpr.OperatorName(node), node[0], node[1], path)
		if e != nil {
			return nil, e
		}
		return a + b, nil

	case xpr.Multiply:
		a, b, e := evaluateInts(xpr.OperatorName(node), node[0], node[1], path)
		if e != nil {
			return nil, e
		}
		return a * b, nil

	case xpr.Or:
		a, b, e := evaluateBools(xpr.OperatorName(node), node[0], node[1], path)
		if e != nil {
			return nil, e
		}
		return a || b, nil

	case xpr.And:
		a, b, e := evaluateBools(xpr.OperatorName(node), node[0], node[1], path)
		if e != nil {
			return nil, e
		}
		return a && b, nil

	}

	panic(fmt.Sprintf("kvm.Evaluate: unhandled expression: %T", node))
}

func evaluateOperands(op string, left, right xpr.Expression, path err.ErrorPath) (val.Value, val.Value, err.Error) {
	l, e := evaluate(left, path.Extend(err.ErrorPathElementOperand{op, err.Left}))
	if e != nil {
		return nil, nil, e
	}
	r, e := evaluate(right, path.Extend(err.ErrorPathElementOperand{op, err.Right}))
	if e != nil {
		return nil, nil, e
	}
	return l, r, nil
}

func evaluateInts(op string, left, right xpr.Expression, path err.ErrorPath) (val.Int64, val.Int64, err.Error) {
	l, r, e := evaluateOperands(op, left, right, path)
	if e != nil {
		return 0, 0, e
	}
	a, aok := l.(val.Int64)
	b, bok := r.(val.Int64)
	if !aok || !bok {
		return 0, 0, err.EvaluationError{op, val.TypeInt64, l.Type(), r.Type(), path}
	}
	return a, b, nil
}

func evaluateBools(op string, left, right xpr.Expression, path err.ErrorPath) (val.Bool, val.Bool, err.Error) {
	l, r, e := evaluateOperands(op, left, right, path)
	if e != nil {
		return false, false, e
	}
	a, aok := l.(val.Bool)
	b, bok := r.(val.Bool)
	if !aok || !bok {
		return false, false, err.EvaluationError{op, val.TypeBool, l.Type(), r.Type(), path}
	}
	return a, b, nil
}
