// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"testing"
)

var samples = []Value{
	Null,
	Bool(true),
	Bool(false),
	Int64(0),
	Int64(1),
	String(""),
	String("1"),
	Tuple{Int64(1), Int64(0)},
	List{Int64(1), Int64(0)},
	Tuple{},
	List{},
	Union{"one", Struct{}},
	Union{"zero", Struct{}},
	Struct{"a": Int64(1)},
	Struct{"b": Int64(1)},
}

func TestEquals(t *testing.T) {
	for i, v := range samples {
		for j, w := range samples {
			if v.Equals(w) != (i == j) {
				t.Fatalf("%#v.Equals(%#v) = %v", v, w, v.Equals(w))
			}
		}
	}
}

func TestCopyEquals(t *testing.T) {
	for _, v := range samples {
		if c := v.Copy(); !c.Equals(v) || !v.Equals(c) {
			t.Fatalf("copy of %#v differs", v)
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	s := Struct{"l": List{Int64(1)}}
	c := s.Copy().(Struct)
	c.Field("l").(List)[0] = Int64(2)
	if !s.Field("l").(List)[0].Equals(Int64(1)) {
		t.Fatal("copy shares list storage")
	}
}

func TestHashDistinguishes(t *testing.T) {
	seen := make(map[uint64]int, len(samples))
	for i, v := range samples {
		h := Sum64(v)
		if j, ok := seen[h]; ok {
			t.Fatalf("%#v and %#v hash equally", samples[j], v)
		}
		seen[h] = i
	}
}

func TestHashIgnoresMapOrder(t *testing.T) {
	a := Struct{"x": Int64(1), "y": Bool(true), "z": Null}
	for i := 0; i < 16; i++ {
		b := Struct{"z": Null, "y": Bool(true), "x": Int64(1)}
		if Sum64(a) != Sum64(b) {
			t.Fatal("struct hash depends on map order")
		}
	}
}

func TestTypeString(t *testing.T) {
	if s := TypeInt64.String(); s != "int" {
		t.Fatal(s)
	}
	if s := (TypeBool | TypeInt64).String(); s == "" {
		t.Fatal("empty type string")
	}
	if Int64(1).Type() != TypeInt64 || Bool(true).Type() != TypeBool {
		t.Fatal("unexpected value types")
	}
}

func TestStructKeysSorted(t *testing.T) {
	s := Struct{"c": Null, "a": Null, "b": Null}
	ks := s.Keys()
	if len(ks) != 3 || ks[0] != "a" || ks[1] != "b" || ks[2] != "c" {
		t.Fatalf("unexpected keys %v", ks)
	}
}
