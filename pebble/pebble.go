// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/phoenixvm/state"
)

var (
	_ state.Database = (*Database)(nil)

	ErrClosed = errors.New("database closed")
)

type Config struct {
	CacheSize                   int64  `json:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"`
	WALBytesPerSync             int    `json:"walBytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"`
	Sync                        bool   `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   512 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                64 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database persists pool, stake and ledger records in pebble.
type Database struct {
	lock sync.RWMutex

	db        *pebble.DB
	writeOpts *pebble.WriteOptions
	metrics   *metrics

	closing chan struct{}
	closed  bool
	wg      sync.WaitGroup
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// Create metrics
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics: metrics,
		closing: make(chan struct{}),
	}

	// Open database
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
	}
	defer opts.Cache.Unref()
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	d.writeOpts = &pebble.WriteOptions{Sync: cfg.Sync}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return nil, ErrClosed
	}
	start := time.Now()
	defer func() {
		d.metrics.getLatency.Observe(float64(time.Since(start)))
	}()
	data, closer, err := d.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	// pebble owns [data] until closer is called
	v := make([]byte, len(data))
	copy(v, data)
	return v, closer.Close()
}

// WriteChanges applies [changes] in a single pebble batch.
func (d *Database) WriteChanges(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return ErrClosed
	}
	start := time.Now()
	batch := d.db.NewBatch()
	defer batch.Close()
	var sets, deletes int
	for _, k := range state.SortedKeys(changes) {
		v := changes[k]
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k), nil)
			deletes++
		} else {
			err = batch.Set([]byte(k), v.Value(), nil)
			sets++
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Commit(d.writeOpts); err != nil {
		return err
	}
	d.metrics.keysWritten.Add(float64(sets))
	d.metrics.keysDeleted.Add(float64(deletes))
	d.metrics.commitLatency.Observe(float64(time.Since(start)))
	return nil
}

func (d *Database) Close() error {
	d.lock.Lock()
	if d.closed {
		d.lock.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.closing)
	d.lock.Unlock()

	d.wg.Wait()
	return d.db.Close()
}
