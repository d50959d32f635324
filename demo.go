// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"fmt"
	"github.com/codegangsta/cli"
	"github.com/karmarun/karma.check/kvm"
	"github.com/karmarun/karma.check/kvm/xpr"
	"io"
	"os"
)

type demoSection struct {
	title       string
	expressions []xpr.Expression
}

var (
	one   = xpr.One{}
	zero  = xpr.Zero{}
	etrue = xpr.True{}
	efals = xpr.False{}
)

var demoSections = []demoSection{
	{"Valid Expressions:", []xpr.Expression{
		etrue,
		xpr.Or{etrue, efals},
		xpr.And{efals, efals},
	}},
	{"Invalid Expressions:", []xpr.Expression{
		xpr.And{xpr.And{one, zero}, xpr.Multiply{one, one}},
	}},
	{"Expressions from lecture:", []xpr.Expression{
		xpr.Add{one, etrue},
		xpr.Or{efals, etrue},
		xpr.Or{efals, one},
		xpr.Or{etrue, one},
	}},
}

func handleDemo(c *cli.Context) error {
	runDemo(os.Stdout, newVirtualMachine())
	return nil
}

func runDemo(w io.Writer, vm *kvm.VirtualMachine) {
	for i, section := range demoSections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, section.title)
		for _, x := range section.expressions {
			report(w, vm, x)
		}
	}
}

// report prints the outcome of checking x and returns whether it passed.
func report(w io.Writer, vm *kvm.VirtualMachine, x xpr.Expression) bool {
	typed, e := vm.Check(x)
	if e != nil {
		fmt.Fprintf(w, "Type Error when checking '%s': %s\n", x, e)
		return false
	}
	fmt.Fprintf(w, "Successfully checked '%s': %s\n", x, typed.Actual)
	return true
}
