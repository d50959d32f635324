// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package inst

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/val"
	"strings"
)

type Instruction interface {
	_inst() // private interface
}

// Constant pushes its value.
type Constant struct {
	val.Value
}

// AddInts pops two val.Int64 and pushes their sum.
type AddInts struct{}

// MultiplyInts pops two val.Int64 and pushes their product.
type MultiplyInts struct{}

// Or pops two val.Bool and pushes their disjunction.
type Or struct{}

// And pops two val.Bool and pushes their conjunction.
type And struct{}

// DebugPrintStack dumps the stack without altering it.
type DebugPrintStack struct{}

type Sequence []Instruction

func (Constant) _inst()        {}
func (AddInts) _inst()         {}
func (MultiplyInts) _inst()    {}
func (Or) _inst()              {}
func (And) _inst()             {}
func (DebugPrintStack) _inst() {}
func (Sequence) _inst()        {}

func (s Sequence) String() string {
	ss := make([]string, 0, len(s))
	for _, it := range s {
		ss = append(ss, instructionString(it))
	}
	return strings.Join(ss, "; ")
}

func instructionString(it Instruction) string {
	switch it := it.(type) {
	case Constant:
		return fmt.Sprintf("push %v", it.Value)
	case AddInts:
		return "add"
	case MultiplyInts:
		return "mul"
	case Or:
		return "or"
	case And:
		return "and"
	case DebugPrintStack:
		return "debug"
	case Sequence:
		return "{" + it.String() + "}"
	}
	return fmt.Sprintf("%T", it)
}
