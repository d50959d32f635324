// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/xpr"
)

// TypeCheck returns the model of expression x, or the first type error
// found in a left-to-right, post-order traversal of x.
func TypeCheck(x xpr.Expression) (mdl.Model, err.Error) {
	typed, e := TypeExpression(x)
	if e != nil {
		return nil, e
	}
	return typed.Actual, nil
}

// TypeExpression checks x and returns an equivalent tree in which every node
// is wrapped in an xpr.TypedExpression carrying its model.
// Both operands of a binary node are checked before the node itself, left first.
// A failing operand aborts the check; its error is returned as-is and the
// right operand is never visited if the left one failed.
func TypeExpression(x xpr.Expression) (xpr.TypedExpression, err.Error) {
	return typeExpression(x, nil)
}

func typeExpression(node xpr.Expression, path err.ErrorPath) (xpr.TypedExpression, err.Error) {

	switch node := node.(type) {

	case xpr.TypedExpression:
		return typeExpression(node.Expression, path)

	case xpr.One, xpr.Zero:
		return xpr.TypedExpression{node, IntModel}, nil

	case xpr.True, xpr.False:
		return xpr.TypedExpression{node, BoolModel}, nil

	case xpr.Add:
		lhs, rhs, e := typeOperands(xpr.OperatorName(node), node[0], node[1], IntModel, path)
		if e != nil {
			return ZeroTypedExpression, e
		}
		return xpr.TypedExpression{xpr.Add{lhs, rhs}, IntModel}, nil

	case xpr.Multiply:
		lhs, rhs, e := typeOperands(xpr.OperatorName(node), node[0], node[1], IntModel, path)
		if e != nil {
			return ZeroTypedExpression, e
		}
		return xpr.TypedExpression{xpr.Multiply{lhs, rhs}, IntModel}, nil

	case xpr.Or:
		lhs, rhs, e := typeOperands(xpr.OperatorName(node), node[0], node[1], BoolModel, path)
		if e != nil {
			return ZeroTypedExpression, e
		}
		return xpr.TypedExpression{xpr.Or{lhs, rhs}, BoolModel}, nil

	case xpr.And:
		lhs, rhs, e := typeOperands(xpr.OperatorName(node), node[0], node[1], BoolModel, path)
		if e != nil {
			return ZeroTypedExpression, e
		}
		return xpr.TypedExpression{xpr.And{lhs, rhs}, BoolModel}, nil

	}

	panic(fmt.Sprintf("kvm.TypeExpression: unhandled expression: %T", node))
}

func typeOperands(op string, left, right xpr.Expression, want mdl.Model, path err.ErrorPath) (xpr.TypedExpression, xpr.TypedExpression, err.Error) {

	lhs, e := typeExpression(left, path.Extend(err.ErrorPathElementOperand{op, err.Left}))
	if e != nil {
		return ZeroTypedExpression, ZeroTypedExpression, e
	}

	rhs, e := typeExpression(right, path.Extend(err.ErrorPathElementOperand{op, err.Right}))
	if e != nil {
		return ZeroTypedExpression, ZeroTypedExpression, e
	}

	if !lhs.Actual.Equals(want) || !rhs.Actual.Equals(want) {
		return ZeroTypedExpression, ZeroTypedExpression, err.TypeError{
			Operator: op,
			Want:     want,
			Left:     lhs.Actual,
			Right:    rhs.Actual,
			Path:     path,
		}
	}

	return lhs, rhs, nil
}
