// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package mdl

import (
	"github.com/karmarun/karma.check/kvm/val"
	"testing"
)

func TestEquals(t *testing.T) {
	if !(Int{}).Equals(Int{}) {
		t.Fatal("Int != Int")
	}
	if !(Bool{}).Equals(Bool{}) {
		t.Fatal("Bool != Bool")
	}
	if (Int{}).Equals(Bool{}) || (Bool{}).Equals(Int{}) {
		t.Fatal("Int == Bool")
	}
}

func TestDisplayNames(t *testing.T) {
	if s := (Int{}).String(); s != "IntType" {
		t.Fatalf("have %s", s)
	}
	if s := (Bool{}).String(); s != "BoolType" {
		t.Fatalf("have %s", s)
	}
}

func TestModelValueRoundTrip(t *testing.T) {
	for _, m := range []Model{Int{}, Bool{}} {
		out, e := ModelFromValue(ValueFromModel(m))
		if e != nil {
			t.Fatal(e)
		}
		if !out.Equals(m) {
			t.Fatalf("%s became %s", m, out)
		}
	}
	if _, e := ModelFromValue(val.Union{"float", val.Struct{}}); e == nil {
		t.Fatal("expected error for unknown model case")
	}
	if _, e := ModelFromValue(val.String("int")); e == nil {
		t.Fatal("expected error for non-union")
	}
}

func TestZeroInhabitsModel(t *testing.T) {
	for _, m := range []Model{Int{}, Bool{}} {
		z := m.Zero()
		if z.Type() != m.ValueType() {
			t.Fatalf("%s: zero value has type %s", m, z.Type())
		}
		if !ModelOfValue(z).Equals(m) {
			t.Fatalf("%s: ModelOfValue(zero) = %s", m, ModelOfValue(z))
		}
	}
	if ModelOfValue(val.String("x")) != nil {
		t.Fatal("string inhabits no model")
	}
}
