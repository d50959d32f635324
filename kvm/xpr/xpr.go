// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
)

// MaxDepth bounds the trees ExpressionFromValue accepts.
const MaxDepth = 1024

// ExpressionFromValue decodes the machine-readable form of an expression
// tree, as produced by ValueFromExpression.
func ExpressionFromValue(v val.Value) (Expression, err.Error) {
	return expressionFromValue(v, 0)
}

func expressionFromValue(v val.Value, depth int) (Expression, err.Error) {

	if depth >= MaxDepth {
		return nil, err.ExpressionParsingError{
			Problem: fmt.Sprintf(`expression deeper than %d levels`, MaxDepth),
			Input:   v,
		}
	}

	u, ok := v.(val.Union)
	if !ok {
		return nil, err.ExpressionParsingError{
			Problem: fmt.Sprintf(`expected union, have %s`, typeOf(v)),
			Input:   v,
		}
	}

	switch u.Case {

	case "one":
		return One{}, nil

	case "zero":
		return Zero{}, nil

	case "true":
		return True{}, nil

	case "false":
		return False{}, nil

	case "add", "multiply", "or", "and":
		l, r, e := operandsFromValue(u, depth)
		if e != nil {
			return nil, e
		}
		switch u.Case {
		case "add":
			return Add{l, r}, nil
		case "multiply":
			return Multiply{l, r}, nil
		case "or":
			return Or{l, r}, nil
		}
		return And{l, r}, nil

	}

	return nil, err.ExpressionParsingError{
		Problem: fmt.Sprintf(`unknown expression "%s"`, u.Case),
		Input:   v,
	}
}

func operandsFromValue(u val.Union, depth int) (Expression, Expression, err.Error) {
	args, ok := tupleOf(u.Value)
	if !ok || len(args) != 2 {
		return nil, nil, err.ExpressionParsingError{
			Problem: fmt.Sprintf(`%s: expected exactly two operands`, u.Case),
			Input:   u,
		}
	}
	l, e := expressionFromValue(args[0], depth+1)
	if e != nil {
		return nil, nil, e
	}
	r, e := expressionFromValue(args[1], depth+1)
	if e != nil {
		return nil, nil, e
	}
	return l, r, nil
}

// codecs do not distinguish tuples from lists
func tupleOf(v val.Value) (val.Tuple, bool) {
	switch v := v.(type) {
	case val.Tuple:
		return v, true
	case val.List:
		return val.Tuple(v), true
	}
	return nil, false
}

func typeOf(v val.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type().String()
}

// ValueFromExpression returns the machine-readable form of x.
// TypedExpression wrappers are dropped.
func ValueFromExpression(x Expression) val.Value {
	switch x := x.(type) {
	case One:
		return val.Union{"one", val.Struct{}}
	case Zero:
		return val.Union{"zero", val.Struct{}}
	case True:
		return val.Union{"true", val.Struct{}}
	case False:
		return val.Union{"false", val.Struct{}}
	case Add:
		return val.Union{"add", val.Tuple{ValueFromExpression(x[0]), ValueFromExpression(x[1])}}
	case Multiply:
		return val.Union{"multiply", val.Tuple{ValueFromExpression(x[0]), ValueFromExpression(x[1])}}
	case Or:
		return val.Union{"or", val.Tuple{ValueFromExpression(x[0]), ValueFromExpression(x[1])}}
	case And:
		return val.Union{"and", val.Tuple{ValueFromExpression(x[0]), ValueFromExpression(x[1])}}
	case TypedExpression:
		return ValueFromExpression(x.Expression)
	}
	panic(fmt.Sprintf("unhandled expression: %T", x))
}
