// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"testing"
)

func TestEvaluate(t *testing.T) {
	two := xpr.Add{one, one}
	cases := []struct {
		x    xpr.Expression
		want val.Value
	}{
		{one, val.Int64(1)},
		{zero, val.Int64(0)},
		{etrue, val.Bool(true)},
		{efals, val.Bool(false)},
		{two, val.Int64(2)},
		{xpr.Multiply{two, xpr.Add{two, one}}, val.Int64(6)},
		{xpr.Multiply{one, zero}, val.Int64(0)},
		{xpr.Or{efals, etrue}, val.Bool(true)},
		{xpr.Or{efals, efals}, val.Bool(false)},
		{xpr.And{etrue, efals}, val.Bool(false)},
		{xpr.And{etrue, etrue}, val.Bool(true)},
	}
	for _, c := range cases {
		v, e := Evaluate(c.x)
		if e != nil {
			t.Fatalf("%s: %v", c.x, e)
		}
		if !v.Equals(c.want) {
			t.Fatalf("%s: want %v, have %v", c.x, c.want, v)
		}
	}
}

// Multiply combines both operands; it does not square the left one.
func TestEvaluateMultiplyUsesRightOperand(t *testing.T) {
	two := xpr.Add{one, one}
	three := xpr.Add{two, one}
	v, e := Evaluate(xpr.Multiply{two, three})
	if e != nil {
		t.Fatal(e)
	}
	if v != val.Int64(6) {
		t.Fatalf("want 6, have %v", v)
	}
}

func TestEvaluateMismatch(t *testing.T) {
	_, e := Evaluate(xpr.Add{one, etrue})
	ee, ok := e.(err.EvaluationError)
	if !ok {
		t.Fatalf("unexpected %T: %v", e, e)
	}
	if ee.Operator != "Add" || ee.Want != val.TypeInt64 || ee.Left != val.TypeInt64 || ee.Right != val.TypeBool {
		t.Fatalf("%#v", ee)
	}
	if ee.String() != "Add expression expects int values on both sides!" {
		t.Fatal(ee.String())
	}
	_, e = Evaluate(xpr.And{one, zero})
	if e == nil || e.String() != "And expression expects bool values on both sides!" {
		t.Fatalf("%v", e)
	}
}

func TestEvaluateFailFast(t *testing.T) {
	_, want := Evaluate(xpr.Or{one, one})
	_, e := Evaluate(xpr.And{xpr.Or{one, one}, nil})
	if e == nil || e.String() != want.String() {
		t.Fatalf("want %v, have %v", want, e)
	}
}

// Evaluation succeeds exactly on well-typed trees, with a value of the checked model.
func TestEvaluateAgreesWithTypeCheck(t *testing.T) {
	for _, x := range allExpressions(3) {
		m, te := TypeCheck(x)
		v, ee := Evaluate(x)
		if (te == nil) != (ee == nil) {
			t.Fatalf("%s: type check %v, evaluation %v", x, te, ee)
		}
		if te != nil {
			if te.(err.TypeError).Operator != ee.(err.EvaluationError).Operator {
				t.Fatalf("%s: %s vs %s", x, te, ee)
			}
			continue
		}
		if v.Type() != m.ValueType() {
			t.Fatalf("%s: model %s, value %v", x, m, v)
		}
	}
}
