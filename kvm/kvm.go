// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/xpr"
	"github.com/karmarun/karma.check/logger"
)

var log = logger.Get("kvm")

var (
	IntModel  = mdl.Int{}
	BoolModel = mdl.Bool{}
)

var ZeroTypedExpression = xpr.TypedExpression{}

// VirtualMachine checks, compiles and executes expressions.
// The zero value is ready to use and caches nothing.
// A VirtualMachine may be shared between goroutines.
type VirtualMachine struct {
	Cache *CheckCache // may be nil
	Debug bool        // dumps compiled programs and the stack
}

// NewVirtualMachine returns a VirtualMachine memoising up to
// cacheSize check results. cacheSize <= 0 disables the cache.
func NewVirtualMachine(cacheSize int) *VirtualMachine {
	vm := &VirtualMachine{}
	if cacheSize > 0 {
		vm.Cache = NewCheckCache(cacheSize)
	}
	return vm
}
