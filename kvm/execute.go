// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/inst"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/kr/pretty"
	"sync"
)

type Stack []val.Value

func (s *Stack) Push(v val.Value) {
	*s = append(*s, v)
}

func (s *Stack) Pop() val.Value {
	t := *s
	v := t[len(t)-1]
	t[len(t)-1] = nil
	*s = t[:len(t)-1]
	return v
}

func (s Stack) Len() int {
	return len(s)
}

var StackPool = &sync.Pool{
	New: func() interface{} {
		s := make(Stack, 0, 32)
		return &s
	},
}

// Execute runs a program produced by CompileExpression.
// Programs of unchecked expressions are not supported.
func (vm VirtualMachine) Execute(program inst.Sequence) (val.Value, err.Error) {

	if len(program) == 0 {
		return nil, err.InternalError{Problem: "empty program"}
	}

	if ct, ok := program[0].(inst.Constant); ok && len(program) == 1 {
		return ct.Value, nil
	}

	stack := StackPool.Get().(*Stack)

	defer func() {
		s := (*stack)[:0]
		StackPool.Put(&s)
	}()

	if vm.Debug {
		printDebugProgram(stack, program)
	}

	for pc, pl := 0, len(program); pc < pl; pc++ {

		switch it := program[pc].(type) {

		case inst.Sequence:
			log.Panic("kvm.Execute: nested inst.Sequence")

		case inst.DebugPrintStack:
			pretty.Println("stack:", *stack)

		case inst.Constant:
			stack.Push(it.Value)

		case inst.AddInts:
			r, l := stack.Pop().(val.Int64), stack.Pop().(val.Int64)
			stack.Push(l + r)

		case inst.MultiplyInts:
			r, l := stack.Pop().(val.Int64), stack.Pop().(val.Int64)
			stack.Push(l * r)

		case inst.Or:
			r, l := stack.Pop().(val.Bool), stack.Pop().(val.Bool)
			stack.Push(l || r)

		case inst.And:
			r, l := stack.Pop().(val.Bool), stack.Pop().(val.Bool)
			stack.Push(l && r)

		default:
			log.Panicf("kvm.Execute: unhandled instruction: %T", it)

		}

	}

	if stack.Len() != 1 {
		return nil, err.InternalError{
			Problem: fmt.Sprintf("stack had %d elements after execution: %s", stack.Len(), pretty.Sprint(*stack)),
		}
	}

	return stack.Pop(), nil
}

func printDebugProgram(stack *Stack, program inst.Sequence) {
	pretty.Println("=== printDebugProgram ===")
	pretty.Println("stack:", *stack)
	pretty.Println("program:", program.String())
	pretty.Println("=========================")
}
