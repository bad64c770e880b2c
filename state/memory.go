// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"slices"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
)

var _ Database = (*MemoryDatabase)(nil)

// MemoryDatabase keeps state in memory. It backs tests and ephemeral
// nodes.
type MemoryDatabase struct {
	db *memdb.Database
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{db: memdb.New()}
}

func (m *MemoryDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return m.db.Get(key)
}

func (m *MemoryDatabase) WriteChanges(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := m.db.NewBatch()
	for _, k := range SortedKeys(changes) {
		v := changes[k]
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (m *MemoryDatabase) Close() error {
	return m.db.Close()
}

// SortedKeys returns the keys of [changes] in byte order so writes hit the
// database deterministically.
func SortedKeys[V any](changes map[string]V) []string {
	keys := maps.Keys(changes)
	slices.Sort(keys)
	return keys
}
