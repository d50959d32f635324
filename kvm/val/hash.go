// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package val

import (
	"fmt"
	"hash"
	"hash/fnv"
)

// Hash feeds a structural digest of v into h. Passing nil uses FNV-1 64.
// Equal values always hash equally.
func Hash(v Value, h hash.Hash64) hash.Hash64 {
	if h == nil {
		h = fnv.New64()
	}
	switch v := v.(type) {
	case Tuple:
		h.Write([]byte(`tuple`))
		for _, w := range v {
			h = Hash(w, h)
		}
		return h
	case List:
		h.Write([]byte(`list`))
		for _, w := range v {
			h = Hash(w, h)
		}
		return h
	case Union:
		h.Write([]byte(`union`))
		h.Write([]byte(v.Case))
		h = Hash(v.Value, h)
		return h
	case Struct:
		h.Write([]byte(`struct`))
		v.ForEach(func(k string, v Value) bool {
			h.Write([]byte(k))
			h = Hash(v, h)
			return true
		})
		return h
	case Bool:
		h.Write([]byte(`bool`))
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		return h
	case String:
		h.Write([]byte(`string`))
		h.Write([]byte(v))
		return h
	case null:
		h.Write([]byte(`null`))
		return h
	case Int64:
		h.Write([]byte(`int64`))
		h.Write([]byte{byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32), byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
		return h
	}
	panic(fmt.Sprintf("unhandled type: %T", v))
}

// Sum64 is a shorthand for Hash(v, nil).Sum64().
func Sum64(v Value) uint64 {
	return Hash(v, nil).Sum64()
}
