// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"fmt"
	"strings"
)

type Type uint64

const (
	TypeTuple Type = 1 << iota
	TypeList
	TypeUnion
	TypeStruct
	TypeBool
	TypeString
	TypeNull
	TypeInt64
	lastType // internal marker
)

const AnyType = TypeTuple |
	TypeList |
	TypeUnion |
	TypeStruct |
	TypeBool |
	TypeString |
	TypeNull |
	TypeInt64

func (t Type) String() string {
	if t == 0 {
		return "unknown"
	}
	buf := make([]string, 0, 8)
	for q := Type(1); q < lastType; q <<= 1 {
		if q&t != 0 {
			buf = append(buf, typeToString(q))
		}
	}
	return strings.Join(buf, "|")
}

func typeToString(t Type) string {
	switch t {
	case TypeTuple:
		return "tuple"
	case TypeList:
		return "list"
	case TypeUnion:
		return "union"
	case TypeStruct:
		return "struct"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeNull:
		return "null"
	case TypeInt64:
		return "int"
	}
	panic(fmt.Sprintf("unhandled Type: %b", uint64(t)))
}

func (Tuple) Type() Type  { return TypeTuple }
func (List) Type() Type   { return TypeList }
func (Union) Type() Type  { return TypeUnion }
func (Struct) Type() Type { return TypeStruct }
func (Bool) Type() Type   { return TypeBool }
func (String) Type() Type { return TypeString }
func (null) Type() Type   { return TypeNull }
func (Int64) Type() Type  { return TypeInt64 }
