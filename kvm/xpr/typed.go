// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"github.com/karmarun/karma.check/kvm/mdl"
)

// TypedExpression wraps a checked node with its derived model.
// Operands of a wrapped binary node are TypedExpressions themselves.
type TypedExpression struct {
	Expression
	Actual mdl.Model
}

func (x TypedExpression) Transform(f func(Expression) Expression) Expression {
	return f(TypedExpression{x.Expression.Transform(f), x.Actual})
}

// Untyped strips all TypedExpression wrappers from a tree.
func Untyped(x Expression) Expression {
	return x.Transform(func(x Expression) Expression {
		if t, ok := x.(TypedExpression); ok {
			return t.Expression
		}
		return x
	})
}
