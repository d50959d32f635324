// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"fmt"
)

// Expression is a node of an immutable expression tree.
// The set of implementations is closed; see the variants below.
type Expression interface {
	Transform(f func(Expression) Expression) Expression
	String() string
	_expression() // private interface
}

// TransformIdentity is the identity function for Expressions
func TransformIdentity(x Expression) Expression {
	return x
}

// One is the integer literal 1.
type One struct{}

func (x One) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

func (One) String() string {
	return "1"
}

// Zero is the integer literal 0.
type Zero struct{}

func (x Zero) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

func (Zero) String() string {
	return "0"
}

// True is the boolean literal true.
type True struct{}

func (x True) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

func (True) String() string {
	return "true"
}

// False is the boolean literal false.
type False struct{}

func (x False) Transform(f func(Expression) Expression) Expression {
	return f(x)
}

func (False) String() string {
	return "false"
}

// Add is integer addition of its left and right operand.
type Add [2]Expression

func (x Add) Transform(f func(Expression) Expression) Expression {
	return f(Add{x[0].Transform(f), x[1].Transform(f)})
}

func (x Add) String() string {
	return binaryString(x[0], "+", x[1])
}

// Multiply is integer multiplication of its left and right operand.
type Multiply [2]Expression

func (x Multiply) Transform(f func(Expression) Expression) Expression {
	return f(Multiply{x[0].Transform(f), x[1].Transform(f)})
}

func (x Multiply) String() string {
	return binaryString(x[0], "*", x[1])
}

// Or is boolean disjunction of its left and right operand.
type Or [2]Expression

func (x Or) Transform(f func(Expression) Expression) Expression {
	return f(Or{x[0].Transform(f), x[1].Transform(f)})
}

func (x Or) String() string {
	return binaryString(x[0], "||", x[1])
}

// And is boolean conjunction of its left and right operand.
type And [2]Expression

func (x And) Transform(f func(Expression) Expression) Expression {
	return f(And{x[0].Transform(f), x[1].Transform(f)})
}

func (x And) String() string {
	return binaryString(x[0], "&&", x[1])
}

func binaryString(l Expression, symbol string, r Expression) string {
	return fmt.Sprintf("(%s %s %s)", l, symbol, r)
}

func (One) _expression()      {}
func (Zero) _expression()     {}
func (True) _expression()     {}
func (False) _expression()    {}
func (Add) _expression()      {}
func (Multiply) _expression() {}
func (Or) _expression()       {}
func (And) _expression()      {}

// Operands returns the left and right operand of a binary expression.
// ok is false for literals.
func Operands(x Expression) (left, right Expression, ok bool) {
	switch x := x.(type) {
	case Add:
		return x[0], x[1], true
	case Multiply:
		return x[0], x[1], true
	case Or:
		return x[0], x[1], true
	case And:
		return x[0], x[1], true
	case TypedExpression:
		return Operands(x.Expression)
	}
	return nil, nil, false
}

// OperatorName returns the name of x's variant, e.g. "Add".
func OperatorName(x Expression) string {
	switch x := x.(type) {
	case One:
		return "One"
	case Zero:
		return "Zero"
	case True:
		return "True"
	case False:
		return "False"
	case Add:
		return "Add"
	case Multiply:
		return "Multiply"
	case Or:
		return "Or"
	case And:
		return "And"
	case TypedExpression:
		return OperatorName(x.Expression)
	}
	panic(fmt.Sprintf("unhandled expression: %T", x))
}

// Depth returns the height of the tree rooted at x. Literals have depth 1.
func Depth(x Expression) int {
	l, r, ok := Operands(x)
	if !ok {
		return 1
	}
	dl, dr := Depth(l), Depth(r)
	if dl > dr {
		return dl + 1
	}
	return dr + 1
}

// Size returns the number of nodes in the tree rooted at x.
func Size(x Expression) int {
	l, r, ok := Operands(x)
	if !ok {
		return 1
	}
	return 1 + Size(l) + Size(r)
}
