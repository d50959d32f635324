// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/inst"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
)

// CompileExpression appends the post-order instruction sequence of a checked
// expression to prev. Operands are emitted left before right.
func CompileExpression(typed xpr.TypedExpression, prev inst.Sequence) inst.Sequence {

	if prev == nil {
		prev = make(inst.Sequence, 0, 64)
	}

	switch node := typed.Expression.(type) {

	case xpr.One:
		return append(prev, inst.Constant{val.Int64(1)})

	case xpr.Zero:
		return append(prev, inst.Constant{val.Int64(0)})

	case xpr.True:
		return append(prev, inst.Constant{val.Bool(true)})

	case xpr.False:
		return append(prev, inst.Constant{val.Bool(false)})

	case xpr.Add:
		prev = CompileExpression(node[0].(xpr.TypedExpression), prev)
		prev = CompileExpression(node[1].(xpr.TypedExpression), prev)
		return append(prev, inst.AddInts{})

	case xpr.Multiply:
		prev = CompileExpression(node[0].(xpr.TypedExpression), prev)
		prev = CompileExpression(node[1].(xpr.TypedExpression), prev)
		return append(prev, inst.MultiplyInts{})

	case xpr.Or:
		prev = CompileExpression(node[0].(xpr.TypedExpression), prev)
		prev = CompileExpression(node[1].(xpr.TypedExpression), prev)
		return append(prev, inst.Or{})

	case xpr.And:
		prev = CompileExpression(node[0].(xpr.TypedExpression), prev)
		prev = CompileExpression(node[1].(xpr.TypedExpression), prev)
		return append(prev, inst.And{})

	}

	panic(fmt.Sprintf("kvm.CompileExpression: unhandled expression: %T", typed.Expression))
}
