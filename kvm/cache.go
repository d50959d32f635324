// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package kvm

import (
	"github.com/golang/groupcache/lru"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"sync"
)

// CheckCache memoises TypeExpression results by the structural hash of the
// expression's wire form. Hash collisions are resolved by comparing the
// stored wire form.
type CheckCache struct {
	lock *sync.Mutex
	lru  *lru.Cache
}

type checkEntry struct {
	wire  val.Value
	typed xpr.TypedExpression
	e     err.Error
}

func NewCheckCache(capacity int) *CheckCache {
	if capacity < 2 {
		capacity = 2 // helpful invariant
	}
	return &CheckCache{
		lock: &sync.Mutex{},
		lru:  lru.New(capacity),
	}
}

func (c *CheckCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Len()
}

func (c *CheckCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lru.Clear()
}

func (c *CheckCache) get(wire val.Value) (xpr.TypedExpression, err.Error, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	v, ok := c.lru.Get(val.Sum64(wire))
	if !ok {
		return ZeroTypedExpression, nil, false
	}
	entry := v.(checkEntry)
	if !entry.wire.Equals(wire) {
		return ZeroTypedExpression, nil, false
	}
	return entry.typed, entry.e, true
}

func (c *CheckCache) set(wire val.Value, typed xpr.TypedExpression, e err.Error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lru.Add(val.Sum64(wire), checkEntry{wire, typed, e})
}
