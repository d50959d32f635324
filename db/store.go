// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package db

import (
	"encoding/binary"
	bolt "github.com/coreos/bbolt"
	kbin "github.com/karmarun/karma.check/codec/binary"
	"github.com/karmarun/karma.check/definitions"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
)

// Store keeps named expressions and cached check results in the
// root bucket of a bolt database. Values are stored in the binary codec.
type Store struct {
	db *bolt.DB
}

// Result is a stored check outcome. Model is nil if checking failed,
// in which case Message and Problem describe the error.
type Result struct {
	Rendered string
	Model    mdl.Model
	Message  string
	Problem  val.Value
}

func NewStore(db *bolt.DB) Store {
	return Store{db}
}

func (s Store) PutExpression(name string, x xpr.Expression) err.Error {
	if name == "" {
		return err.RequestError{"expression name must not be empty", nil}
	}
	bs := kbin.Encode(xpr.ValueFromExpression(xpr.Untyped(x)))
	return s.update(func(rb *bolt.Bucket) error {
		return rb.Bucket(definitions.ExpressionBucketBytes).Put([]byte(name), bs)
	})
}

func (s Store) GetExpression(name string) (xpr.Expression, err.Error) {
	bs := []byte(nil)
	if e := s.view(func(rb *bolt.Bucket) error {
		if v := rb.Bucket(definitions.ExpressionBucketBytes).Get([]byte(name)); v != nil {
			bs = append(bs, v...) // only valid during tx
		}
		return nil
	}); e != nil {
		return nil, e
	}
	if bs == nil {
		return nil, err.NotFoundError{name}
	}
	v, e := kbin.Decode(bs)
	if e != nil {
		return nil, e
	}
	return xpr.ExpressionFromValue(v)
}

func (s Store) DeleteExpression(name string) err.Error {
	found := false
	if e := s.update(func(rb *bolt.Bucket) error {
		bk := rb.Bucket(definitions.ExpressionBucketBytes)
		if bk.Get([]byte(name)) == nil {
			return nil
		}
		found = true
		return bk.Delete([]byte(name))
	}); e != nil {
		return e
	}
	if !found {
		return err.NotFoundError{name}
	}
	return nil
}

// ListExpressions returns all stored names in byte order.
func (s Store) ListExpressions() ([]string, err.Error) {
	names := make([]string, 0, 64)
	e := s.view(func(rb *bolt.Bucket) error {
		return rb.Bucket(definitions.ExpressionBucketBytes).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if e != nil {
		return nil, e
	}
	return names, nil
}

// PutResult records the outcome of checking x. Exactly one of model and
// problem should be non-nil.
func (s Store) PutResult(x xpr.Expression, model mdl.Model, problem err.Error) err.Error {
	wire := xpr.ValueFromExpression(xpr.Untyped(x))
	entry := val.Struct{
		"expression": wire,
		"rendered":   val.String(x.String()),
		"type":       val.Null,
		"message":    val.String(""),
		"error":      val.Null,
	}
	if model != nil {
		entry["type"] = mdl.ValueFromModel(model)
	}
	if problem != nil {
		entry["message"] = val.String(problem.String())
		entry["error"] = problem.Value()
	}
	bs := kbin.Encode(entry)
	return s.update(func(rb *bolt.Bucket) error {
		return rb.Bucket(definitions.ResultBucketBytes).Put(resultKey(wire), bs)
	})
}

// GetResult returns the stored outcome for x, if any.
func (s Store) GetResult(x xpr.Expression) (Result, bool, err.Error) {
	wire := xpr.ValueFromExpression(xpr.Untyped(x))
	bs := []byte(nil)
	if e := s.view(func(rb *bolt.Bucket) error {
		if v := rb.Bucket(definitions.ResultBucketBytes).Get(resultKey(wire)); v != nil {
			bs = append(bs, v...)
		}
		return nil
	}); e != nil {
		return Result{}, false, e
	}
	if bs == nil {
		return Result{}, false, nil
	}
	v, ke := kbin.Decode(bs)
	if ke != nil {
		return Result{}, false, ke
	}
	entry, ok := v.(val.Struct)
	if !ok {
		return Result{}, false, err.InternalError{"malformed result entry"}
	}
	if w := entry.Field("expression"); w == nil || !w.Equals(wire) {
		return Result{}, false, nil // hash collision
	}
	r := Result{Problem: entry.Field("error")}
	if str, ok := entry.Field("rendered").(val.String); ok {
		r.Rendered = string(str)
	}
	if str, ok := entry.Field("message").(val.String); ok {
		r.Message = string(str)
	}
	if t := entry.Field("type"); t != nil && t != val.Null {
		m, e := mdl.ModelFromValue(t)
		if e != nil {
			return Result{}, false, err.InternalError{e.Error()}
		}
		r.Model = m
	}
	return r, true, nil
}

func resultKey(wire val.Value) []byte {
	key := make([]byte, 8, 8)
	binary.BigEndian.PutUint64(key, val.Sum64(wire))
	return key
}

func (s Store) view(f func(*bolt.Bucket) error) err.Error {
	return s.tx(false, f)
}

func (s Store) update(f func(*bolt.Bucket) error) err.Error {
	return s.tx(true, f)
}

func (s Store) tx(writable bool, f func(*bolt.Bucket) error) err.Error {
	run := s.db.View
	if writable {
		run = s.db.Update
	}
	e := run(func(tx *bolt.Tx) error {
		rb := tx.Bucket(definitions.RootBucketBytes)
		if rb == nil {
			return errUninitialized
		}
		return f(rb)
	})
	if e == nil {
		return nil
	}
	if ke, ok := e.(err.Error); ok {
		return ke
	}
	log.Error(e)
	return err.InternalError{e.Error()}
}

var errUninitialized = err.InternalError{"database uninitialized"}
