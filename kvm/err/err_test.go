// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package err

import (
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
	. "gopkg.in/check.v1"
	"strings"
	"testing"
)

func Test(t *testing.T) { TestingT(t) }

type TypingSuite struct{}

var _ = Suite(&TypingSuite{})

func (s *TypingSuite) Test_messages(c *C) {
	c.Check(TypeError{"Add", mdl.Int{}, mdl.Int{}, mdl.Bool{}, nil}.String(), Equals, "Add expression expects int types on both sides!")
	c.Check(TypeError{"Multiply", mdl.Int{}, mdl.Bool{}, mdl.Int{}, nil}.String(), Equals, "Multiply expression expects int types on both sides!")
	c.Check(TypeError{"Or", mdl.Bool{}, mdl.Bool{}, mdl.Int{}, nil}.String(), Equals, "Or expression expects bool types on both sides!")
	c.Check(TypeError{"And", mdl.Bool{}, mdl.Int{}, mdl.Int{}, nil}.Error(), Equals, "And expression expects bool types on both sides!")
	c.Check(EvaluationError{"Or", val.TypeBool, val.TypeInt64, val.TypeBool, nil}.String(), Equals, "Or expression expects bool values on both sides!")
}

func (s *TypingSuite) Test_equalsIgnoresPath(c *C) {
	a := TypeError{"Or", mdl.Bool{}, mdl.Bool{}, mdl.Int{}, nil}
	b := a
	b.Path = ErrorPath{ErrorPathElementOperand{"And", Left}}
	c.Check(a.Equals(b), Equals, true)
	b.Right = mdl.Bool{}
	c.Check(a.Equals(b), Equals, false)
}

func (s *TypingSuite) Test_value(c *C) {
	e := TypeError{"Add", mdl.Int{}, mdl.Int{}, mdl.Bool{}, ErrorPath{ErrorPathElementOperand{"Or", Right}}}
	want := val.Union{"typeError", val.Struct{
		"operator": val.String("Add"),
		"want":     val.Union{"int", val.Struct{}},
		"left":     val.Union{"int", val.Struct{}},
		"right":    val.Union{"bool", val.Struct{}},
		"path": val.List{val.Union{"operand", val.Struct{
			"operator": val.String("Or"),
			"side":     val.String("right"),
		}}},
	}}
	c.Check(e.Value().Equals(want), Equals, true)
	c.Check(e.Child(), IsNil)
}

type PathSuite struct{}

var _ = Suite(&PathSuite{})

func (s *PathSuite) Test_root(c *C) {
	c.Check(ErrorPath(nil).String(), Equals, "(root)")
	c.Check(len(ErrorPath(nil).Value()), Equals, 0)
}

func (s *PathSuite) Test_extendCopies(c *C) {
	p := ErrorPath{ErrorPathElementOperand{"And", Left}}
	q := p.Extend(ErrorPathElementOperand{"Or", Right})
	r := p.Extend(ErrorPathElementOperand{"Add", Left})
	c.Check(len(p), Equals, 1)
	c.Check(q[1], Equals, ErrorPathElement(ErrorPathElementOperand{"Or", Right}))
	c.Check(r[1], Equals, ErrorPathElement(ErrorPathElementOperand{"Add", Left}))
	c.Check(q.Equals(r), Equals, false)
	c.Check(q.Equals(p.Extend(ErrorPathElementOperand{"Or", Right})), Equals, true)
}

func (s *PathSuite) Test_string(c *C) {
	p := ErrorPath{ErrorPathElementOperand{"And", Left}, ErrorPathElementOperand{"Or", Right}}
	c.Check(p.String(), Equals, "left operand of And\n  right operand of Or")
}

type MiscSuite struct{}

var _ = Suite(&MiscSuite{})

func (s *MiscSuite) Test_human(c *C) {
	e := HumanReadableError{TypeError{"Or", mdl.Bool{}, mdl.Bool{}, mdl.Int{}, ErrorPath{ErrorPathElementOperand{"And", Right}}}}
	out := e.String()
	c.Check(strings.HasPrefix(out, "Type Error\n==========\nOr expression expects bool types on both sides!\n"), Equals, true)
	c.Check(strings.Contains(out, "Location\n========\nright operand of And\n"), Equals, true)
	c.Check(strings.Contains(out, "left:  BoolType\nright: IntType"), Equals, true)
	c.Check(e.Child(), NotNil)
}

func (s *MiscSuite) Test_humanChain(c *C) {
	e := HumanReadableError{RequestError{"bad payload", CodecError{"json", "unexpected EOF"}}}
	c.Check(e.String(), Equals, "Error\n=====\nrequest: bad payload: json codec: unexpected EOF\n\nCaused by\n=========\njson codec: unexpected EOF\n\n")
}

func (s *MiscSuite) Test_values(c *C) {
	c.Check(NotFoundError{"x"}.Value(), DeepEquals, val.Union{"notFoundError", val.String("x")})
	c.Check(InternalError{"boom"}.String(), Equals, "internal error: boom")
	c.Check(PermissionDeniedError{}.Value().Case, Equals, "permissionDeniedError")
	c.Check(RequestError{"x", nil}.Value().Value.(val.Struct).Field("child"), Equals, val.Value(val.Null))
}
