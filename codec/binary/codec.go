// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package binary

import (
	"encoding/binary"
	"fmt"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
)

type Type byte

const (
	TypeTuple  Type = 0
	TypeList   Type = 1
	TypeUnion  Type = 2
	TypeStruct Type = 3
	TypeBool   Type = 6
	TypeString Type = 7
	TypeNull   Type = 10
	TypeInt64  Type = 16
)

func (t Type) String() string {
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
		return "int64"
	}
	return "unknown"
}

func init() {
	codec.Register("binary", func() codec.Interface { return BinaryCodec{} })
}

type BinaryCodec struct{}

func (dec BinaryCodec) Decode(data []byte) (val.Value, err.Error) {
	return Decode(data)
}

func (dec BinaryCodec) Encode(v val.Value) []byte {
	return Encode(v)
}

func Encode(v val.Value) []byte {
	return encode(v, make([]byte, 0, 256))
}

func encode(v val.Value, buf []byte) []byte {

	if v == val.Null {
		return append(buf, byte(TypeNull))
	}

	switch v := v.(type) {

	case val.Tuple:
		buf = append(buf, byte(TypeTuple))
		buf = writeLength(len(v), buf)
		for _, w := range v {
			buf = encode(w, buf)
		}
		return buf

	case val.List:
		buf = append(buf, byte(TypeList))
		buf = writeLength(len(v), buf)
		for _, w := range v {
			buf = encode(w, buf)
		}
		return buf

	case val.Union:
		buf = append(buf, byte(TypeUnion))
		buf = writeString(v.Case, buf)
		return encode(v.Value, buf)

	case val.Struct:
		buf = append(buf, byte(TypeStruct))
		buf = writeLength(len(v), buf)
		v.ForEach(func(k string, w val.Value) bool {
			buf = writeString(k, buf)
			buf = encode(w, buf)
			return true
		})
		return buf

	case val.Bool:
		buf = append(buf, byte(TypeBool))
		if v {
			return append(buf, 't')
		}
		return append(buf, 'f')

	case val.String:
		buf = append(buf, byte(TypeString))
		return writeString(string(v), buf)

	case val.Int64:
		buf = append(buf, byte(TypeInt64))
		return writeUint64(uint64(v), buf)
	}

	panic(fmt.Sprintf(`unhandled type: %T`, v))
}

// Decode decodes exactly one value. Trailing bytes are an error.
func Decode(data []byte) (val.Value, err.Error) {
	v, d, e := decode(data)
	if e == nil && len(d) > 0 {
		e = fmt.Errorf(`%d trailing bytes`, len(d))
	}
	if e != nil {
		return nil, err.CodecError{"binary", fmt.Sprintf(`at byte %d: %s`, len(data)-len(d), e)}
	}
	return v, nil
}

func decode(data []byte) (val.Value, []byte, error) {

	r, data, e := readBytes(1, data)
	if e != nil {
		return nil, data, e
	}

	switch t := Type(r[0]); t {

	case TypeTuple, TypeList:
		l, data, e := readLength(data)
		if e != nil {
			return nil, data, e
		}
		vs := make([]val.Value, l, l)
		for i := 0; i < l; i++ {
			w, d, e := decode(data)
			if e != nil {
				return nil, d, e
			}
			vs[i], data = w, d
		}
		if t == TypeTuple {
			return val.Tuple(vs), data, nil
		}
		return val.List(vs), data, nil

	case TypeUnion:
		caze, data, e := readString(data)
		if e != nil {
			return nil, data, e
		}
		value, data, e := decode(data)
		if e != nil {
			return nil, data, e
		}
		return val.Union{caze, value}, data, nil

	case TypeStruct:
		l, data, e := readLength(data)
		if e != nil {
			return nil, data, e
		}
		v := make(val.Struct, l)
		for i := 0; i < l; i++ {
			field, d, e := readString(data)
			if e != nil {
				return nil, d, e
			}
			data = d
			value, d, e := decode(data)
			if e != nil {
				return nil, d, e
			}
			data = d
			v[field] = value
		}
		return v, data, nil

	case TypeInt64:
		n, data, e := readUint64(data)
		if e != nil {
			return nil, data, e
		}
		return val.Int64(n), data, nil

	case TypeBool:
		r, data, e := readBytes(1, data)
		if e != nil {
			return nil, data, e
		}
		if r[0] == 't' {
			return val.Bool(true), data, nil
		}
		if r[0] == 'f' {
			return val.Bool(false), data, nil
		}
		return nil, data, fmt.Errorf(`expected 't' or 'f', got: %q`, r[0])

	case TypeString:
		s, data, e := readString(data)
		if e != nil {
			return nil, data, e
		}
		return val.String(s), data, nil

	case TypeNull:
		return val.Null, data, nil

	}

	return nil, data, fmt.Errorf(`invalid type specifier: %d`, r[0])
}

func readBytes(n int, data []byte) ([]byte, []byte, error) {
	if len(data) < n {
		return nil, data, fmt.Errorf(`unexpected EOF`)
	}
	return data[:n], data[n:], nil
}

// every element takes at least one byte, so lengths are bounded by the input
func readLength(data []byte) (int, []byte, error) {
	r, data, e := readUint32(data)
	if e != nil {
		return 0, data, e
	}
	l := int(r)
	if l > len(data) {
		return 0, data, fmt.Errorf(`length exceeds input bounds: %d`, l)
	}
	return l, data, nil
}

func readString(data []byte) (string, []byte, error) {
	l, data, e := readLength(data)
	if e != nil {
		return "", data, e
	}
	return string(data[:l]), data[l:], nil
}

func writeString(s string, buf []byte) []byte {
	return append(writeLength(len(s), buf), s...)
}

func writeLength(l int, buf []byte) []byte {
	return writeUint32(uint32(l), buf)
}

func writeUint64(u uint64, buf []byte) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	return append(buf, b[:]...)
}

func writeUint32(u uint32, buf []byte) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], u)
	return append(buf, b[:]...)
}

func readUint64(data []byte) (uint64, []byte, error) {
	r, data, e := readBytes(8, data)
	if e != nil {
		return 0, data, e
	}
	return binary.BigEndian.Uint64(r), data, nil
}

func readUint32(data []byte) (uint32, []byte, error) {
	r, data, e := readBytes(4, data)
	if e != nil {
		return 0, data, e
	}
	return binary.BigEndian.Uint32(r), data, nil
}
