// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
//
// Package json encodes values as plain JSON. Unions are written as
// two-element arrays ["case", value]; tuples and lists as arrays;
// structs as objects. When decoding, any two-element array whose first
// element is a string is read as a union.
package json

import (
	"bytes"
	ej "encoding/json"
	"fmt"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"io"
	"log"
	"strconv"
)

func init() {
	codec.Register("json", func() codec.Interface { return JsonCodec{} })
}

type JsonCodec struct{}

func (dec JsonCodec) Decode(json []byte) (val.Value, err.Error) {
	return Decode(json)
}

func (dec JsonCodec) Encode(v val.Value) []byte {
	return Encode(v)
}

type JSON []byte

func (j JSON) MarshalJSON() ([]byte, error) {
	return []byte(j), nil
}

func (j *JSON) UnmarshalJSON(json []byte) error {
	(*j) = append((*j)[:0], json...)
	return nil
}

func (j JSON) String() string {
	return string(j)
}

func Encode(value val.Value) JSON {
	return encode(value, make(JSON, 0, 1024))
}

func encode(value val.Value, cache JSON) JSON {
	if value == nil {
		log.Panicln("json/codec.Encode: value == nil")
	}
	if value == val.Null {
		return append(cache, `null`...)
	}
	switch v := value.(type) {

	case val.Tuple:
		bs := append(cache, '[')
		for i, w := range v {
			if i > 0 {
				bs = append(bs, ',')
			}
			bs = encode(w, bs)
		}
		return append(bs, ']')

	case val.List:
		bs := append(cache, '[')
		for i, w := range v {
			if i > 0 {
				bs = append(bs, ',')
			}
			bs = encode(w, bs)
		}
		return append(bs, ']')

	case val.Union:
		bs := append(cache, '[')
		cs, _ := ej.Marshal(v.Case)
		bs = append(bs, cs...)
		bs = append(bs, ',')
		bs = encode(v.Value, bs)
		return append(bs, ']')

	case val.Struct:
		bs := append(cache, '{')
		first := true
		v.ForEach(func(k string, v val.Value) bool {
			if !first {
				bs = append(bs, ',')
			}
			cs, _ := ej.Marshal(k)
			bs = append(bs, cs...)
			bs = append(bs, ':')
			bs = encode(v, bs)
			first = false
			return true
		})
		return append(bs, '}')

	case val.String:
		cs, _ := ej.Marshal(string(v))
		return append(cache, cs...)

	case val.Bool:
		return strconv.AppendBool(cache, bool(v))

	case val.Int64:
		return strconv.AppendInt(cache, int64(v), 10)

	}
	panic(fmt.Sprintf("json/codec.Encode: unhandled type: %T", value))
}

func Decode(json []byte) (val.Value, err.Error) {
	dec := ej.NewDecoder(bytes.NewReader(json))
	dec.UseNumber()
	raw := interface{}(nil)
	if e := dec.Decode(&raw); e != nil {
		return nil, err.CodecError{"json", e.Error()}
	}
	if _, e := dec.Token(); e != io.EOF {
		return nil, err.CodecError{"json", "trailing data after value"}
	}
	v, e := fromRaw(raw)
	if e != nil {
		return nil, err.CodecError{"json", e.Error()}
	}
	return v, nil
}

func fromRaw(raw interface{}) (val.Value, error) {
	switch r := raw.(type) {

	case nil:
		return val.Null, nil

	case bool:
		return val.Bool(r), nil

	case string:
		return val.String(r), nil

	case ej.Number:
		n, e := strconv.ParseInt(string(r), 10, 64)
		if e != nil {
			return nil, fmt.Errorf(`not a 64-bit integer: %s`, r)
		}
		return val.Int64(n), nil

	case []interface{}:
		if caze, ok := unionCase(r); ok {
			w, e := fromRaw(r[1])
			if e != nil {
				return nil, e
			}
			return val.Union{caze, w}, nil
		}
		l := make(val.List, len(r), len(r))
		for i, w := range r {
			v, e := fromRaw(w)
			if e != nil {
				return nil, e
			}
			l[i] = v
		}
		return l, nil

	case map[string]interface{}:
		s := val.NewStruct(len(r))
		for k, w := range r {
			v, e := fromRaw(w)
			if e != nil {
				return nil, e
			}
			s.Set(k, v)
		}
		return s, nil

	}
	return nil, fmt.Errorf(`unexpected JSON value: %T`, raw)
}

func unionCase(r []interface{}) (string, bool) {
	if len(r) != 2 {
		return "", false
	}
	s, ok := r[0].(string)
	return s, ok
}
