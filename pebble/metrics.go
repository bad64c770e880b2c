// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager

	getLatency    metric.Averager
	commitLatency metric.Averager
	keysWritten   prometheus.Counter
	keysDeleted   prometheus.Counter

	l0Compactions     prometheus.Counter
	otherCompactions  prometheus.Counter
	activeCompactions prometheus.Gauge

	tombstoneCount     prometheus.Gauge
	obsoleteTableSize  prometheus.Gauge
	obsoleteTableCount prometheus.Gauge
	zombieTableSize    prometheus.Gauge
	zombieTableCount   prometheus.Gauge
	obsoleteWALSize    prometheus.Gauge
	obsoleteWALCount   prometheus.Gauge
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		keysWritten:        counter("keys_written", "number of keys set through committed batches"),
		keysDeleted:        counter("keys_deleted", "number of keys deleted through committed batches"),
		l0Compactions:      counter("l0_compactions", "number of l0 compactions"),
		otherCompactions:   counter("other_compactions", "number of l1+ compactions"),
		activeCompactions:  gauge("active_compactions", "number of active compactions"),
		tombstoneCount:     gauge("tombstone_count", "approximate count of internal tombstones"),
		obsoleteTableSize:  gauge("obsolete_table_size", "bytes in tables no longer referenced by the db"),
		obsoleteTableCount: gauge("obsolete_table_count", "table files no longer referenced by the db"),
		zombieTableSize:    gauge("zombie_table_size", "bytes in unreferenced tables still held by iterators"),
		zombieTableCount:   gauge("zombie_table_count", "unreferenced table files still held by iterators"),
		obsoleteWALSize:    gauge("obsolete_wal_size", "bytes in WAL no longer needed by the db"),
		obsoleteWALCount:   gauge("obsolete_wal_count", "WAL files no longer needed by the db"),
	}

	errs := wrappers.Errs{}
	var err error
	m.writeStall, err = metric.NewAverager("pebble_write_stall", "time spent waiting for disk write", r)
	errs.Add(err)
	m.getLatency, err = metric.NewAverager("pebble_read_latency", "time spent waiting for db get", r)
	errs.Add(err)
	m.commitLatency, err = metric.NewAverager("pebble_commit_latency", "time spent committing a change set", r)
	errs.Add(err)
	errs.Add(
		r.Register(m.keysWritten),
		r.Register(m.keysDeleted),
		r.Register(m.l0Compactions),
		r.Register(m.otherCompactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstoneCount),
		r.Register(m.obsoleteTableSize),
		r.Register(m.obsoleteTableCount),
		r.Register(m.zombieTableSize),
		r.Register(m.zombieTableCount),
		r.Register(m.obsoleteWALSize),
		r.Register(m.obsoleteWALCount),
	)
	return r, m, errs.Err
}

func (d *Database) onCompactionBegin(info pebble.CompactionInfo) {
	d.metrics.activeCompactions.Inc()
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		d.metrics.l0Compactions.Inc()
		return
	}
	d.metrics.otherCompactions.Inc()
}

func (d *Database) onCompactionEnd(pebble.CompactionInfo) {
	d.metrics.activeCompactions.Dec()
}

func (d *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	d.metrics.delayStart = time.Now()
}

func (d *Database) onWriteStallEnd() {
	d.metrics.writeStall.Observe(float64(time.Since(d.metrics.delayStart)))
}

func (d *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			d.refreshMetrics()
		case <-d.closing:
			return
		}
	}
}

func (d *Database) refreshMetrics() {
	pm := d.db.Metrics()
	d.metrics.tombstoneCount.Set(float64(pm.Keys.TombstoneCount))
	d.metrics.obsoleteTableSize.Set(float64(pm.Table.ObsoleteSize))
	d.metrics.obsoleteTableCount.Set(float64(pm.Table.ObsoleteCount))
	d.metrics.zombieTableSize.Set(float64(pm.Table.ZombieSize))
	d.metrics.zombieTableCount.Set(float64(pm.Table.ZombieCount))
	d.metrics.obsoleteWALSize.Set(float64(pm.WAL.ObsoletePhysicalSize))
	d.metrics.obsoleteWALCount.Set(float64(pm.WAL.ObsoleteFiles))
}
