// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package emap remembers ids until they expire.
package emap

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/heap"
)

type Item interface {
	ID() ids.ID
	Expiry() int64
}

// EMap is a set of ids, each evicted once SetMin passes its expiry.
type EMap[T Item] struct {
	lock sync.RWMutex
	seen heap.Map[ids.ID, int64]
}

func NewEMap[T Item]() *EMap[T] {
	return &EMap[T]{
		seen: heap.NewMap[ids.ID, int64](func(a, b int64) bool { return a < b }),
	}
}

// Add adds [item] unless it is already present and returns whether it was
// added.
func (e *EMap[T]) Add(item T) bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	id := item.ID()
	if e.seen.Contains(id) {
		return false
	}
	e.seen.Push(id, item.Expiry())
	return true
}

func (e *EMap[T]) Has(item T) bool {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return e.seen.Contains(item.ID())
}

// SetMin evicts and returns every id expiring before [t].
func (e *EMap[T]) SetMin(t int64) []ids.ID {
	e.lock.Lock()
	defer e.lock.Unlock()

	var evicted []ids.ID
	for {
		id, expiry, ok := e.seen.Peek()
		if !ok || expiry >= t {
			return evicted
		}
		e.seen.Pop()
		evicted = append(evicted, id)
	}
}

func (e *EMap[T]) Len() int {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return e.seen.Len()
}
