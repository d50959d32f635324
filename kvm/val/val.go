// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"sort"
)

// Value is a runtime value. Int64 and Bool are the results of evaluating
// an expression; the remaining values carry wire and storage forms.
type Value interface {
	Copy() Value
	Equals(Value) bool
	Transform(func(Value) Value) Value
	Type() Type
}

type Int64 int64

func (v Int64) Transform(f func(Value) Value) Value {
	return f(v)
}

func (v Int64) Copy() Value {
	return v
}

func (v Int64) Equals(w Value) bool {
	q, ok := w.(Int64)
	return ok && q == v
}

type Bool bool

func (v Bool) Transform(f func(Value) Value) Value {
	return f(v)
}

func (v Bool) Copy() Value {
	return v
}

func (v Bool) Equals(w Value) bool {
	q, ok := w.(Bool)
	return ok && q == v
}

type String string

func (v String) Transform(f func(Value) Value) Value {
	return f(v)
}

func (v String) Copy() Value {
	return v
}

func (v String) Equals(w Value) bool {
	q, ok := w.(String)
	return ok && q == v
}

type null struct{}

// Null is the only instance of the null value.
var Null = null{}

func (v null) Transform(f func(Value) Value) Value {
	return f(v)
}

func (v null) Copy() Value {
	return v
}

func (v null) Equals(w Value) bool {
	return w == Null
}

type Tuple []Value

func (v Tuple) Transform(f func(Value) Value) Value {
	c := make(Tuple, len(v), len(v))
	for i, w := range v {
		c[i] = w.Transform(f)
	}
	return f(c)
}

func (l Tuple) Equals(v Value) bool {
	q, ok := v.(Tuple)
	if !ok {
		return false
	}
	if len(l) != len(q) {
		return false
	}
	for i := 0; i < len(l); i++ {
		if !l[i].Equals(q[i]) {
			return false
		}
	}
	return true
}

func (v Tuple) Copy() Value {
	c := make(Tuple, len(v), len(v))
	for i, w := range v {
		c[i] = w.Copy()
	}
	return c
}

type List []Value

func (v List) Transform(f func(Value) Value) Value {
	c := make(List, len(v), len(v))
	for i, w := range v {
		c[i] = w.Transform(f)
	}
	return f(c)
}

func (l List) Equals(v Value) bool {
	q, ok := v.(List)
	if !ok {
		return false
	}
	if len(l) != len(q) {
		return false
	}
	for i := 0; i < len(l); i++ {
		if !l[i].Equals(q[i]) {
			return false
		}
	}
	return true
}

func (v List) Copy() Value {
	c := make(List, len(v), len(v))
	for i, w := range v {
		c[i] = w.Copy()
	}
	return c
}

type Union struct {
	Case  string
	Value Value
}

func (v Union) Transform(f func(Value) Value) Value {
	return f(Union{v.Case, v.Value.Transform(f)})
}

func (v Union) Copy() Value {
	return Union{v.Case, v.Value.Copy()}
}

func (u Union) Equals(v Value) bool {
	q, ok := v.(Union)
	return ok && u.Case == q.Case && u.Value.Equals(q.Value)
}

// Struct is a record of named fields. Iteration is in key order.
type Struct map[string]Value

func NewStruct(capacity int) Struct {
	return make(Struct, capacity)
}

func (v Struct) Len() int {
	return len(v)
}

// Field returns nil for missing fields.
func (v Struct) Field(k string) Value {
	return v[k]
}

func (v Struct) Set(k string, w Value) {
	v[k] = w
}

func (v Struct) Keys() []string {
	ks := make([]string, 0, len(v))
	for k, _ := range v {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (v Struct) ForEach(f func(string, Value) bool) {
	for _, k := range v.Keys() {
		if !f(k, v[k]) {
			return
		}
	}
}

func (v Struct) Transform(f func(Value) Value) Value {
	c := make(Struct, len(v))
	for k, w := range v {
		c[k] = w.Transform(f)
	}
	return f(c)
}

func (v Struct) Copy() Value {
	c := make(Struct, len(v))
	for k, w := range v {
		c[k] = w.Copy()
	}
	return c
}

func (v Struct) Equals(w Value) bool {
	x, ok := w.(Struct)
	if !ok || len(x) != len(v) {
		return false
	}
	for k, a := range v {
		b, ok := x[k]
		if !ok || !a.Equals(b) {
			return false
		}
	}
	return true
}
