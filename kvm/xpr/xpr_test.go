// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package xpr

import (
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
	. "gopkg.in/check.v1"
	"testing"
)

func Test(t *testing.T) { TestingT(t) }

type RenderSuite struct{}

var _ = Suite(&RenderSuite{})

func (s *RenderSuite) Test_literals(c *C) {
	c.Assert(One{}.String(), Equals, "1")
	c.Assert(Zero{}.String(), Equals, "0")
	c.Assert(True{}.String(), Equals, "true")
	c.Assert(False{}.String(), Equals, "false")
}

func (s *RenderSuite) Test_binaryOperators(c *C) {
	c.Assert(Add{One{}, Zero{}}.String(), Equals, "(1 + 0)")
	c.Assert(Multiply{One{}, One{}}.String(), Equals, "(1 * 1)")
	c.Assert(Or{False{}, True{}}.String(), Equals, "(false || true)")
	c.Assert(And{True{}, False{}}.String(), Equals, "(true && false)")
}

func (s *RenderSuite) Test_illTypedRendersStructurally(c *C) {
	c.Assert(And{One{}, Zero{}}.String(), Equals, "(1 && 0)")
	c.Assert(Add{One{}, True{}}.String(), Equals, "(1 + true)")
}

func (s *RenderSuite) Test_nested(c *C) {
	x := And{And{One{}, Zero{}}, Multiply{One{}, One{}}}
	c.Assert(x.String(), Equals, "((1 && 0) && (1 * 1))")
}

func (s *RenderSuite) Test_typedRendersLikeUntyped(c *C) {
	x := TypedExpression{Add{TypedExpression{One{}, mdl.Int{}}, TypedExpression{Zero{}, mdl.Int{}}}, mdl.Int{}}
	c.Assert(x.String(), Equals, "(1 + 0)")
}

type TreeSuite struct{}

var _ = Suite(&TreeSuite{})

func (s *TreeSuite) Test_transformIdentity(c *C) {
	x := Or{And{True{}, False{}}, Or{False{}, False{}}}
	c.Assert(x.Transform(TransformIdentity), Equals, Expression(x))
}

func (s *TreeSuite) Test_transformIsPostOrder(c *C) {
	visited := []string{}
	Add{One{}, Multiply{Zero{}, One{}}}.Transform(func(x Expression) Expression {
		visited = append(visited, x.String())
		return x
	})
	c.Assert(visited, DeepEquals, []string{"1", "0", "1", "(0 * 1)", "(1 + (0 * 1))"})
}

func (s *TreeSuite) Test_transformLeavesInputUntouched(c *C) {
	x := Add{One{}, One{}}
	y := x.Transform(func(x Expression) Expression {
		if _, ok := x.(One); ok {
			return Zero{}
		}
		return x
	})
	c.Assert(y.String(), Equals, "(0 + 0)")
	c.Assert(x.String(), Equals, "(1 + 1)")
}

func (s *TreeSuite) Test_untyped(c *C) {
	x := TypedExpression{Or{TypedExpression{True{}, mdl.Bool{}}, TypedExpression{False{}, mdl.Bool{}}}, mdl.Bool{}}
	c.Assert(Untyped(x), Equals, Expression(Or{True{}, False{}}))
}

func (s *TreeSuite) Test_depthAndSize(c *C) {
	c.Assert(Depth(One{}), Equals, 1)
	c.Assert(Size(One{}), Equals, 1)
	x := And{And{One{}, Zero{}}, Multiply{One{}, Add{One{}, One{}}}}
	c.Assert(Depth(x), Equals, 4)
	c.Assert(Size(x), Equals, 9)
}

func (s *TreeSuite) Test_operands(c *C) {
	l, r, ok := Operands(Multiply{One{}, Zero{}})
	c.Assert(ok, Equals, true)
	c.Assert(l, Equals, Expression(One{}))
	c.Assert(r, Equals, Expression(Zero{}))
	_, _, ok = Operands(True{})
	c.Assert(ok, Equals, false)
	c.Assert(OperatorName(TypedExpression{Or{True{}, True{}}, mdl.Bool{}}), Equals, "Or")
}

type WireSuite struct{}

var _ = Suite(&WireSuite{})

func (s *WireSuite) Test_roundTrip(c *C) {
	xs := []Expression{
		One{}, Zero{}, True{}, False{},
		Add{One{}, True{}},
		Multiply{Add{One{}, Zero{}}, One{}},
		Or{False{}, One{}},
		And{And{One{}, Zero{}}, Multiply{One{}, One{}}},
	}
	for _, x := range xs {
		y, e := ExpressionFromValue(ValueFromExpression(x))
		c.Assert(e, IsNil)
		c.Assert(y, Equals, x)
	}
}

func (s *WireSuite) Test_valueShape(c *C) {
	v := ValueFromExpression(Add{One{}, False{}})
	c.Assert(v.Equals(val.Union{"add", val.Tuple{
		val.Union{"one", val.Struct{}},
		val.Union{"false", val.Struct{}},
	}}), Equals, true)
}

func (s *WireSuite) Test_listOperandsAccepted(c *C) {
	x, e := ExpressionFromValue(val.Union{"or", val.List{
		val.Union{"true", val.Struct{}},
		val.Union{"false", val.Struct{}},
	}})
	c.Assert(e, IsNil)
	c.Assert(x, Equals, Expression(Or{True{}, False{}}))
}

func (s *WireSuite) Test_unknownCase(c *C) {
	_, e := ExpressionFromValue(val.Union{"subtract", val.Tuple{}})
	c.Assert(e, FitsTypeOf, err.ExpressionParsingError{})
	c.Assert(e.String(), Matches, `.*unknown expression "subtract".*`)
}

func (s *WireSuite) Test_wrongArity(c *C) {
	_, e := ExpressionFromValue(val.Union{"add", val.Tuple{val.Union{"one", val.Struct{}}}})
	c.Assert(e, NotNil)
	c.Assert(e.String(), Matches, `.*add: expected exactly two operands.*`)
}

func (s *WireSuite) Test_notAUnion(c *C) {
	_, e := ExpressionFromValue(val.Int64(1))
	c.Assert(e, NotNil)
	c.Assert(e.String(), Matches, `.*expected union, have int.*`)
}

func (s *WireSuite) Test_nestedErrorPropagates(c *C) {
	_, e := ExpressionFromValue(val.Union{"and", val.Tuple{
		val.Union{"true", val.Struct{}},
		val.Union{"maybe", val.Struct{}},
	}})
	c.Assert(e, NotNil)
	c.Assert(e.String(), Matches, `.*unknown expression "maybe".*`)
}

func (s *WireSuite) Test_depthLimit(c *C) {
	v := val.Value(val.Union{"one", val.Struct{}})
	for i := 0; i < MaxDepth; i++ {
		v = val.Union{"add", val.Tuple{v, val.Union{"zero", val.Struct{}}}}
	}
	_, e := ExpressionFromValue(v)
	c.Assert(e, NotNil)
	c.Assert(e.String(), Matches, `.*deeper than.*`)
}
